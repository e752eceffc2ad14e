package handler

import (
	"context"
	"net/http"
	"time"

	domain "github.com/damon-houk/wex-purchase-conversion/internal/domain/service"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/gorilla/mux"
)

const defaultHealthTimeout = 5 * time.Second

// HealthHandler reports whether the rate provider is reachable
type HealthHandler struct {
	checker domain.HealthChecker
	timeout time.Duration
	logger  logger.Logger
}

// NewHealthHandler creates a health handler. A non-positive timeout uses the default.
func NewHealthHandler(checker domain.HealthChecker, timeout time.Duration, log logger.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	return &HealthHandler{
		checker: checker,
		timeout: timeout,
		logger:  logger.OrDefault(log),
	}
}

// Health answers UP with 200 or DOWN with 503
//
// swagger:route GET /health health healthCheck
//
// Report whether the Treasury API is reachable.
//
//	Responses:
//	  200: HealthResponse
//	  503: HealthResponse
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", map[string]interface{}{"error": err.Error()})
		writeJSON(w, h.logger, http.StatusServiceUnavailable, HealthResponse{Status: "DOWN", Error: err.Error()})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, HealthResponse{Status: "UP"})
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}
