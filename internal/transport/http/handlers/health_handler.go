package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vedran77/accounts/internal/transport/http/response"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping   Pinger
	logger *zap.Logger
}

func NewHealthHandler(ping Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Body{Success: true, Message: "API is running"})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			response.Error(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}

	response.JSON(w, http.StatusOK, response.Body{Success: true, Message: "ok"})
}
