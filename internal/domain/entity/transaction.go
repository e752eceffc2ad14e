package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength is the longest description a transaction may carry
const MaxDescriptionLength = 50

// ErrValidation is wrapped by every transaction validation failure
var ErrValidation = errors.New("validation failed")

// Transaction represents a purchase transaction in US dollars
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate ensures the transaction meets all requirements. now is the
// reference point for rejecting future dates.
func (t *Transaction) Validate(now time.Time) error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description must not be blank", ErrValidation)
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrValidation, MaxDescriptionLength)
	}

	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", ErrValidation)
	}

	if TruncateToDate(t.Date).After(TruncateToDate(now)) {
		return fmt.Errorf("%w: transaction date cannot be in the future", ErrValidation)
	}

	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be a positive value", ErrValidation)
	}

	return nil
}
