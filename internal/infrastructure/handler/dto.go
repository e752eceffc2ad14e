package handler

import "github.com/shopspring/decimal"

// CreateTransactionRequest represents the request body for creating a transaction.
// purchase_amount accepts a JSON number or a numeric string.
// swagger:model CreateTransactionRequest
type CreateTransactionRequest struct {
	// Free text, at most 50 characters
	// required: true
	Description     string          `json:"description" example:"Hotel in Sao Paulo"`
	// Purchase date, not in the future
	// required: true
	TransactionDate string          `json:"transaction_date" example:"2024-08-20"`
	// Amount in US dollars, rounded half-up to cents
	// required: true
	PurchaseAmount  decimal.Decimal `json:"purchase_amount" example:"123.45"`
}

// CreateTransactionResponse represents the response for the create transaction endpoint
// swagger:model CreateTransactionResponse
type CreateTransactionResponse struct {
	ID string `json:"id" example:"6f1c2a9e-1111-4d5e-9f00-123456789abc"`
}

// TransactionResponse represents the response for transaction endpoints
// swagger:model TransactionResponse
type TransactionResponse struct {
	ID              string `json:"id" example:"6f1c2a9e-1111-4d5e-9f00-123456789abc"`
	Description     string `json:"description" example:"Hotel in Sao Paulo"`
	TransactionDate string `json:"transaction_date" example:"2024-08-20"`
	PurchaseAmount  string `json:"purchase_amount" example:"123.45"`
}

// ConvertedTransactionResponse represents the response for the conversion endpoint.
// Amounts are fixed to two places; the rate keeps its published precision.
// swagger:model ConvertedTransactionResponse
type ConvertedTransactionResponse struct {
	ID                     string `json:"id" example:"6f1c2a9e-1111-4d5e-9f00-123456789abc"`
	Description            string `json:"description" example:"Hotel in Sao Paulo"`
	TransactionDate        string `json:"transaction_date" example:"2024-08-20"`
	OriginalPurchaseAmount string `json:"original_purchase_amount" example:"123.45"`
	Currency               string `json:"currency" example:"Brazil-Real"`
	ExchangeRate           string `json:"exchange_rate" example:"5.5"`
	ConvertedAmount        string `json:"converted_amount" example:"678.98"`
}

// HealthResponse is the body of GET /health
// swagger:model HealthResponse
type HealthResponse struct {
	// UP or DOWN
	Status string `json:"status" example:"UP"`
	Error  string `json:"error,omitempty" example:"treasury API returned status 503"`
}

// ErrorResponse represents a standardized error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error       string `json:"error" example:"Exchange rate not found"`
	Status      int    `json:"status" example:"404"`
	Description string `json:"description,omitempty" example:"Could not retrieve exchange rates for Brazil-Real"`
	RequestID   string `json:"request_id,omitempty" example:"0b7e3c1e-4a8d-4f1e-9d8e-2a6c1f0d9b11"`
	Path        string `json:"path,omitempty" example:"/transactions/6f1c2a9e-1111-4d5e-9f00-123456789abc/convert"`
}
