package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
)

// ErrTransactionNotFound is returned by FindByID for an unknown ID
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for transaction storage
type TransactionRepository interface {
	// Store saves a transaction and returns its ID
	Store(ctx context.Context, transaction *entity.Transaction) (string, error)

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)
}
