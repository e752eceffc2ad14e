// Package service implements the application use cases
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	domain "github.com/damon-houk/wex-purchase-conversion/internal/domain/service"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/cache"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// LookbackMonths bounds how far before the requested date a published rate is still usable
const LookbackMonths = 6

// ErrExchangeRateNotFound is matched by every ExchangeRateNotFoundError
var ErrExchangeRateNotFound = errors.New("exchange rate not found")

// ExchangeRateNotFoundError reports that no usable rate exists for a currency
type ExchangeRateNotFoundError struct {
	Currency string
}

func (e *ExchangeRateNotFoundError) Error() string {
	return "Could not retrieve exchange rates for " + e.Currency
}

// Is makes errors.Is(err, ErrExchangeRateNotFound) true
func (e *ExchangeRateNotFoundError) Is(target error) bool {
	return target == ErrExchangeRateNotFound
}

// Warmer accepts backfill work without blocking the caller
type Warmer interface {
	Warm(task WarmTask)
}

// ExchangeRateService resolves the rate for a currency on a date: cache
// first, then the rate provider, scheduling a backfill after every provider hit.
type ExchangeRateService struct {
	provider domain.RateProvider
	cache    repository.RateCache
	warmer   Warmer
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewExchangeRateService creates a new exchange rate service
func NewExchangeRateService(provider domain.RateProvider, rateCache repository.RateCache, warmer Warmer, log logger.Logger, m *metrics.Metrics) *ExchangeRateService {
	return &ExchangeRateService{
		provider: provider,
		cache:    rateCache,
		warmer:   warmer,
		logger:   logger.OrDefault(log).WithField("component", "exchange_rate_service"),
		metrics:  m,
	}
}

// GetExchangeRate returns the rate to apply to an amount in currency on date.
// A blank currency means no conversion and yields 1. It fails with
// *ExchangeRateNotFoundError when the provider has nothing usable.
func (s *ExchangeRateService) GetExchangeRate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	if strings.TrimSpace(currency) == "" {
		s.logger.Warn("No currency given, no conversion applied", nil)
		return decimal.NewFromInt(1), nil
	}

	requestedDate := entity.TruncateToDate(date)
	key := cache.BuildKey(currency, requestedDate)

	rate, found, err := s.cache.Get(ctx, key)
	if err != nil {
		// Cache trouble degrades to a provider lookup
		s.logger.Warn("Exchange rate cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	s.metrics.CacheLookup(found)
	if found {
		s.logger.Debug("Exchange rate served from cache", map[string]interface{}{
			"key":  key,
			"rate": rate.String(),
		})
		return rate, nil
	}

	windowStart := entity.MonthsBefore(requestedDate, LookbackMonths)
	records := s.provider.FetchLatestInRange(ctx, currency, windowStart, requestedDate)
	if len(records) == 0 {
		return decimal.Zero, &ExchangeRateNotFoundError{Currency: currency}
	}

	record := records[0]
	recordDate := entity.TruncateToDate(record.RecordDate)
	if recordDate.After(requestedDate) || recordDate.Before(windowStart) {
		s.logger.Error("Rate provider returned a record outside the lookup window", map[string]interface{}{
			"currency":       currency,
			"window_start":   windowStart.Format(entity.DateLayout),
			"requested_date": requestedDate.Format(entity.DateLayout),
			"record_date":    recordDate.Format(entity.DateLayout),
		})
		return decimal.Zero, &ExchangeRateNotFoundError{Currency: currency}
	}

	s.logger.Info("Using exchange rate", map[string]interface{}{
		"currency":    currency,
		"rate":        record.Rate.String(),
		"record_date": record.RecordDate.Format(entity.DateLayout),
	})

	s.warmer.Warm(WarmTask{
		Currency:      currency,
		RequestedDate: requestedDate,
		RecordDate:    recordDate,
		Rate:          record.Rate,
	})

	return record.Rate, nil
}
