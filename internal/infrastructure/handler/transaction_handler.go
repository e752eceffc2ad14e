package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/wex-purchase-conversion/internal/application/service"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// Request bodies are a handful of short fields
const maxRequestBodyBytes = 1 << 16

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	service *service.TransactionService
	logger  logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *service.TransactionService, log logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger.OrDefault(log),
	}
}

// CreateTransaction handles the creation of a new transaction
//
// swagger:route POST /transactions transactions createTransaction
//
// Store a purchase transaction.
//
//	Responses:
//	  201: CreateTransactionResponse
//	  400: ErrorResponse
//	  500: ErrorResponse
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling create transaction request", map[string]interface{}{
		"request_id": requestID,
	})

	var req CreateTransactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, r, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest)
		return
	}

	date, err := entity.ParseDate(req.TransactionDate)
	if err != nil {
		h.logger.Warn("Invalid date format", map[string]interface{}{
			"request_id": requestID,
			"date":       req.TransactionDate,
		})
		sendErrorResponse(w, r, h.logger, "Invalid date format",
			"transaction_date must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	id, err := h.service.CreateTransaction(r.Context(), req.Description, date, req.PurchaseAmount)
	if err != nil {
		if errors.Is(err, entity.ErrValidation) {
			h.logger.Warn("Transaction validation failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, r, h.logger, "Invalid transaction", err.Error(), http.StatusBadRequest)
			return
		}

		h.logger.Error("Unexpected error in create transaction", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, r, h.logger, "Internal server error",
			"An unexpected error occurred while creating the transaction", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Transaction created successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})

	writeJSON(w, h.logger, http.StatusCreated, CreateTransactionResponse{ID: id})
}

// GetTransaction handles retrieving a transaction by ID
//
// swagger:route GET /transactions/{id} transactions getTransaction
//
// Retrieve a stored transaction.
//
//	Responses:
//	  200: TransactionResponse
//	  404: ErrorResponse
//	  500: ErrorResponse
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			h.logger.Warn("Transaction not found", map[string]interface{}{
				"request_id": requestID,
				"id":         id,
			})
			sendErrorResponse(w, r, h.logger, "Transaction not found",
				"The requested transaction could not be found", http.StatusNotFound)
			return
		}

		h.logger.Error("Unexpected error in get transaction", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, r, h.logger, "Internal server error",
			"An unexpected error occurred while retrieving the transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, TransactionResponse{
		ID:              tx.ID,
		Description:     tx.Description,
		TransactionDate: tx.Date.Format(entity.DateLayout),
		PurchaseAmount:  tx.Amount.StringFixed(2),
	})
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"POST /transactions",
			"GET /transactions/{id}",
		},
	})
}
