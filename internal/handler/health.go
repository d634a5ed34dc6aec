package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/respond"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, api.Health{Status: "degraded", Database: "unreachable"})
		return
	}
	respond.JSON(w, http.StatusOK, api.Health{Status: "ok", Database: "ok"})
}
