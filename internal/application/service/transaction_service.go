package service

import (
	"context"
	"time"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo repository.TransactionRepository
	now  func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo repository.TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo, now: time.Now}
}

// CreateTransaction validates and stores a new transaction, returning its ID
func (s *TransactionService) CreateTransaction(ctx context.Context, desc string, date time.Time, amount decimal.Decimal) (string, error) {
	tx := &entity.Transaction{
		ID:          uuid.New().String(),
		Description: desc,
		Date:        entity.TruncateToDate(date),
		Amount:      amount.Round(2), // half-up to the nearest cent
	}

	if err := tx.Validate(s.now()); err != nil {
		return "", err
	}

	return s.repo.Store(ctx, tx)
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}
