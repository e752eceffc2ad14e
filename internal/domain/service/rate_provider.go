package service

import (
	"context"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
)

// RateProvider defines the interface for querying published exchange rates
type RateProvider interface {
	// FetchLatestInRange returns the most recent records for currency published
	// between start and end inclusive, newest first. Any failure is reported as
	// nil, the same as an empty result.
	FetchLatestInRange(ctx context.Context, currency string, start, end time.Time) []entity.RateRecord
}

// HealthChecker issues a low-cost query against a remote dependency
type HealthChecker interface {
	Ping(ctx context.Context) error
}
