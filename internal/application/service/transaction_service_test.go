package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTransactionService(repo repository.TransactionRepository) *TransactionService {
	s := NewTransactionService(repo)
	s.now = func() time.Time { return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid transaction", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		svc := newTestTransactionService(repo)

		var stored *entity.Transaction
		repo.On("Store", ctx, mock.AnythingOfType("*entity.Transaction")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.Transaction) }).
			Return("generated", nil).Once()

		id, err := svc.CreateTransaction(ctx, "Hotel", time.Date(2024, 8, 20, 15, 30, 0, 0, time.UTC),
			decimal.RequireFromString("100.005"))

		require.NoError(t, err)
		assert.Equal(t, "generated", id)
		require.NotNil(t, stored)
		_, parseErr := uuid.Parse(stored.ID)
		assert.NoError(t, parseErr)
		assert.Equal(t, "Hotel", stored.Description)
		assert.Equal(t, day(2024, 8, 20), stored.Date)
		assert.Equal(t, "100.01", stored.Amount.StringFixed(2))
		repo.AssertExpectations(t)
	})

	t.Run("Today is accepted", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		svc := newTestTransactionService(repo)
		repo.On("Store", ctx, mock.Anything).Return("id", nil)

		_, err := svc.CreateTransaction(ctx, "Coffee", day(2024, 9, 1), decimal.RequireFromString("3.50"))

		assert.NoError(t, err)
	})

	invalid := []struct {
		name   string
		desc   string
		date   time.Time
		amount string
	}{
		{name: "Blank description", desc: "   ", date: day(2024, 8, 20), amount: "10"},
		{name: "Description too long", desc: strings.Repeat("a", entity.MaxDescriptionLength+1), date: day(2024, 8, 20), amount: "10"},
		{name: "Missing date", desc: "Hotel", date: time.Time{}, amount: "10"},
		{name: "Future date", desc: "Hotel", date: day(2024, 9, 2), amount: "10"},
		{name: "Zero amount", desc: "Hotel", date: day(2024, 8, 20), amount: "0"},
		{name: "Negative amount", desc: "Hotel", date: day(2024, 8, 20), amount: "-5.00"},
		{name: "Rounds to zero", desc: "Hotel", date: day(2024, 8, 20), amount: "0.004"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockTransactionRepository)
			svc := newTestTransactionService(repo)

			id, err := svc.CreateTransaction(ctx, tt.desc, tt.date, decimal.RequireFromString(tt.amount))

			assert.Empty(t, id)
			assert.ErrorIs(t, err, entity.ErrValidation)
			repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		})
	}

	t.Run("Repository error", func(t *testing.T) {
		repo := new(mocks.MockTransactionRepository)
		svc := newTestTransactionService(repo)
		repo.On("Store", ctx, mock.Anything).Return("", errors.New("db closed"))

		_, err := svc.CreateTransaction(ctx, "Hotel", day(2024, 8, 20), decimal.RequireFromString("10"))

		assert.EqualError(t, err, "db closed")
	})
}

func TestGetTransaction(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTransactionRepository)
	svc := newTestTransactionService(repo)

	tx := &entity.Transaction{ID: "abc", Description: "Hotel", Date: day(2024, 8, 20), Amount: decimal.RequireFromString("10.00")}
	repo.On("FindByID", ctx, "abc").Return(tx, nil)
	repo.On("FindByID", ctx, "missing").Return(nil, repository.ErrTransactionNotFound)

	got, err := svc.GetTransaction(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	_, err = svc.GetTransaction(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)
}
