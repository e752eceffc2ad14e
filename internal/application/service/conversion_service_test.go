package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionInCurrency(t *testing.T) {
	ctx := context.Background()
	tx := &entity.Transaction{
		ID:          "test-id",
		Description: "Hotel",
		Date:        day(2024, 8, 20),
		Amount:      decimal.RequireFromString("100.00"),
	}

	t.Run("Successful conversion", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		resolver := new(mocks.MockRateResolver)
		svc := NewConversionService(repo, resolver, quietLogger())

		repo.On("FindByID", ctx, "test-id").Return(tx, nil).Once()
		resolver.On("GetExchangeRate", ctx, "Brazil-Real", tx.Date).
			Return(decimal.RequireFromString("5.5"), nil).Once()

		result, err := svc.GetTransactionInCurrency(ctx, "test-id", "Brazil-Real")

		require.NoError(t, err)
		assert.Equal(t, "test-id", result.ID)
		assert.Equal(t, "Hotel", result.Description)
		assert.Equal(t, tx.Date, result.Date)
		assert.Equal(t, "100.00", result.OriginalAmount.StringFixed(2))
		assert.Equal(t, "Brazil-Real", result.Currency)
		assert.Equal(t, "5.5", result.ExchangeRate.String())
		assert.Equal(t, "550.00", result.ConvertedAmount.StringFixed(2))

		repo.AssertExpectations(t)
		resolver.AssertExpectations(t)
	})

	t.Run("Converted amount rounds half up", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		resolver := new(mocks.MockRateResolver)
		svc := NewConversionService(repo, resolver, quietLogger())

		odd := &entity.Transaction{ID: "odd", Description: "Taxi", Date: day(2024, 8, 20), Amount: decimal.RequireFromString("10.01")}
		repo.On("FindByID", ctx, "odd").Return(odd, nil)
		// 10.01 * 0.8245 = 8.253245
		resolver.On("GetExchangeRate", ctx, "Euro Zone-Euro", odd.Date).Return(decimal.RequireFromString("0.8245"), nil)

		result, err := svc.GetTransactionInCurrency(ctx, "odd", "Euro Zone-Euro")

		require.NoError(t, err)
		assert.Equal(t, "8.25", result.ConvertedAmount.StringFixed(2))

		// 1.25 * 1.1 = 1.375 rounds to 1.38
		half := &entity.Transaction{ID: "half", Description: "Gum", Date: day(2024, 8, 20), Amount: decimal.RequireFromString("1.25")}
		repo.On("FindByID", ctx, "half").Return(half, nil)
		resolver.On("GetExchangeRate", ctx, "Canada-Dollar", half.Date).Return(decimal.RequireFromString("1.1"), nil)

		result, err = svc.GetTransactionInCurrency(ctx, "half", "Canada-Dollar")

		require.NoError(t, err)
		assert.Equal(t, "1.38", result.ConvertedAmount.StringFixed(2))
	})

	t.Run("Blank currency returns the original amount", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		resolver := new(mocks.MockRateResolver)
		svc := NewConversionService(repo, resolver, quietLogger())

		repo.On("FindByID", ctx, "test-id").Return(tx, nil)
		resolver.On("GetExchangeRate", ctx, "", tx.Date).Return(decimal.NewFromInt(1), nil)

		result, err := svc.GetTransactionInCurrency(ctx, "test-id", "")

		require.NoError(t, err)
		assert.True(t, result.ConvertedAmount.Equal(tx.Amount))
	})

	t.Run("Transaction not found", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		resolver := new(mocks.MockRateResolver)
		svc := NewConversionService(repo, resolver, quietLogger())

		repo.On("FindByID", ctx, "missing").
			Return(nil, fmt.Errorf("%w: missing", repository.ErrTransactionNotFound))

		result, err := svc.GetTransactionInCurrency(ctx, "missing", "Brazil-Real")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, repository.ErrTransactionNotFound)
		resolver.AssertNotCalled(t, "GetExchangeRate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Exchange rate not found", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		resolver := new(mocks.MockRateResolver)
		svc := NewConversionService(repo, resolver, quietLogger())

		repo.On("FindByID", ctx, "test-id").Return(tx, nil)
		resolver.On("GetExchangeRate", ctx, "Brazil-Real", tx.Date).
			Return(decimal.Zero, &ExchangeRateNotFoundError{Currency: "Brazil-Real"})

		result, err := svc.GetTransactionInCurrency(ctx, "test-id", "Brazil-Real")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrExchangeRateNotFound)
		assert.Contains(t, err.Error(), "Could not retrieve exchange rates for Brazil-Real")
	})

	t.Run("Repository failure", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		resolver := new(mocks.MockRateResolver)
		svc := NewConversionService(repo, resolver, quietLogger())

		dbErr := errors.New("disk full")
		repo.On("FindByID", ctx, "test-id").Return(nil, dbErr)

		_, err := svc.GetTransactionInCurrency(ctx, "test-id", "Brazil-Real")

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, repository.ErrTransactionNotFound)
	})
}

func TestGetTransactionInCurrencyEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTransactionRepository)
	provider := new(mocks.MockRateProvider)
	rateCache := new(mocks.MockRateCache)
	resolver := NewExchangeRateService(provider, rateCache, &recordingWarmer{}, quietLogger(), nil)
	svc := NewConversionService(repo, resolver, quietLogger())

	tx := &entity.Transaction{ID: "id-1", Description: "Dinner", Date: day(2024, 8, 20), Amount: decimal.RequireFromString("20.00")}
	repo.On("FindByID", ctx, "id-1").Return(tx, nil)
	rateCache.On("Get", ctx, "Brazil-Real::2024-08-20").Return(decimal.Zero, false, nil)
	provider.On("FetchLatestInRange", ctx, "Brazil-Real", day(2024, 2, 20), day(2024, 8, 20)).
		Return([]entity.RateRecord{{Rate: decimal.RequireFromString("5.5"), RecordDate: day(2024, 6, 20)}})

	result, err := svc.GetTransactionInCurrency(ctx, "id-1", "Brazil-Real")

	require.NoError(t, err)
	assert.Equal(t, "110.00", result.ConvertedAmount.StringFixed(2))
	assert.Equal(t, day(2024, 8, 20), result.Date)
}
