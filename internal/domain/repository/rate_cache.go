// Package repository declares the storage ports used by the application layer
package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateCache maps a "<currency>::<YYYY-MM-DD>" key to a previously observed
// exchange rate. Entries never expire and are never overwritten.
// Implementations must be safe for concurrent use.
type RateCache interface {
	// Get returns the cached rate. A miss is reported as found == false with a nil error.
	Get(ctx context.Context, key string) (rate decimal.Decimal, found bool, err error)

	// PutIfAbsent stores rate only when key has no value yet and reports whether it did.
	PutIfAbsent(ctx context.Context, key string, rate decimal.Decimal) (stored bool, err error)

	// Close releases resources held by the cache
	Close() error
}
