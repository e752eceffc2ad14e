package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// RateResolver resolves the exchange rate for a currency on a date
type RateResolver interface {
	GetExchangeRate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error)
}

// ConvertedTransaction represents a transaction with conversion information
type ConvertedTransaction struct {
	ID              string
	Description     string
	Date            time.Time
	OriginalAmount  decimal.Decimal
	Currency        string
	ExchangeRate    decimal.Decimal
	ConvertedAmount decimal.Decimal
}

// ConversionService handles currency conversion for transactions
type ConversionService struct {
	txRepo   repository.TransactionRepository
	resolver RateResolver
	logger   logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(txRepo repository.TransactionRepository, resolver RateResolver, log logger.Logger) *ConversionService {
	return &ConversionService{
		txRepo:   txRepo,
		resolver: resolver,
		logger:   logger.OrDefault(log),
	}
}

// GetTransactionInCurrency retrieves a transaction converted to the specified
// currency. A blank currency returns the amount unconverted.
func (s *ConversionService) GetTransactionInCurrency(ctx context.Context, id, currency string) (*ConvertedTransaction, error) {
	requestID := middleware.GetRequestID(ctx)

	s.logger.Info("Converting transaction currency", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"currency":   currency,
	})

	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to retrieve transaction for conversion", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	rate, err := s.resolver.GetExchangeRate(ctx, currency, tx.Date)
	if err != nil {
		s.logger.Warn("Failed to get exchange rate", map[string]interface{}{
			"request_id": requestID,
			"currency":   currency,
			"date":       tx.Date.Format(entity.DateLayout),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	// Round half-up to two decimal places
	convertedAmount := tx.Amount.Mul(rate).Round(2)

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"id":               id,
		"currency":         currency,
		"original_amount":  tx.Amount.StringFixed(2),
		"exchange_rate":    rate.String(),
		"converted_amount": convertedAmount.StringFixed(2),
	})

	return &ConvertedTransaction{
		ID:              tx.ID,
		Description:     tx.Description,
		Date:            tx.Date,
		OriginalAmount:  tx.Amount,
		Currency:        currency,
		ExchangeRate:    rate,
		ConvertedAmount: convertedAmount,
	}, nil
}
