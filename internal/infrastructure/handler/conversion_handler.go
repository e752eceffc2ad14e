package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/damon-houk/wex-purchase-conversion/internal/application/service"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/entity"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// currencyPattern matches Treasury "Country-Currency" descriptions such as
// "Brazil-Real" or "Euro Zone-Euro".
var currencyPattern = regexp.MustCompile(`^[^<>"]+-[^<>"]+$`)

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service *service.ConversionService, log logger.Logger) *ConversionHandler {
	return &ConversionHandler{
		service: service,
		logger:  logger.OrDefault(log),
	}
}

// ConvertTransaction handles retrieving a transaction converted to the
// currency query parameter. Without one the amount is returned unconverted.
//
// swagger:route GET /transactions/{id}/convert transactions convertTransaction
//
// Retrieve a transaction converted with the latest rate published within six
// months before its date.
//
//	Responses:
//	  200: ConvertedTransactionResponse
//	  400: ErrorResponse
//	  404: ErrorResponse
//	  500: ErrorResponse
func (h *ConversionHandler) ConvertTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]
	currency := strings.TrimSpace(r.URL.Query().Get("currency"))

	h.logger.Info("Handling convert transaction request", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"currency":   currency,
	})

	if currency != "" && !currencyPattern.MatchString(currency) {
		h.logger.Warn("Invalid currency", map[string]interface{}{
			"request_id": requestID,
			"currency":   currency,
		})
		sendErrorResponse(w, r, h.logger, "Invalid currency",
			`currency must look like "Country-Currency", e.g. Brazil-Real`, http.StatusBadRequest)
		return
	}

	converted, err := h.service.GetTransactionInCurrency(r.Context(), id, currency)
	if err != nil {
		var notFound *service.ExchangeRateNotFoundError
		switch {
		case errors.Is(err, repository.ErrTransactionNotFound):
			sendErrorResponse(w, r, h.logger, "Transaction not found",
				"The requested transaction could not be found", http.StatusNotFound)
		case errors.As(err, &notFound):
			sendErrorResponse(w, r, h.logger, "Exchange rate not found",
				notFound.Error(), http.StatusNotFound)
		default:
			h.logger.Error("Unexpected error in conversion handler", map[string]interface{}{
				"request_id": requestID,
				"id":         id,
				"currency":   currency,
				"error":      err.Error(),
			})
			sendErrorResponse(w, r, h.logger, "Internal server error",
				"An unexpected error occurred. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ConvertedTransactionResponse{
		ID:                     converted.ID,
		Description:            converted.Description,
		TransactionDate:        converted.Date.Format(entity.DateLayout),
		OriginalPurchaseAmount: converted.OriginalAmount.StringFixed(2),
		Currency:               converted.Currency,
		ExchangeRate:           converted.ExchangeRate.String(),
		ConvertedAmount:        converted.ConvertedAmount.StringFixed(2),
	})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions/{id}/convert", h.ConvertTransaction).Methods(http.MethodGet)

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /transactions/{id}/convert",
		},
	})
}
