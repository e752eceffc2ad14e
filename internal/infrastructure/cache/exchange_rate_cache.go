package cache

import (
	"context"
	"sync"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.RateCache = (*ExchangeRateCache)(nil)

// ExchangeRateCache is a process-local, thread-safe rate cache. Entries live
// until Close and a key is written at most once.
type ExchangeRateCache struct {
	cache map[string]decimal.Decimal
	mutex sync.RWMutex
}

// NewExchangeRateCache creates an empty exchange rate cache
func NewExchangeRateCache() *ExchangeRateCache {
	return &ExchangeRateCache{
		cache: make(map[string]decimal.Decimal),
	}
}

// Get retrieves an exchange rate from the cache
func (c *ExchangeRateCache) Get(_ context.Context, key string) (decimal.Decimal, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	rate, exists := c.cache[key]
	return rate, exists, nil
}

// PutIfAbsent stores rate under key unless the key already holds a value
func (c *ExchangeRateCache) PutIfAbsent(_ context.Context, key string, rate decimal.Decimal) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.cache[key]; exists {
		return false, nil
	}
	c.cache[key] = rate
	return true, nil
}

// Size returns the number of items in the cache
func (c *ExchangeRateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// Close drops every entry
func (c *ExchangeRateCache) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]decimal.Decimal)
	return nil
}
