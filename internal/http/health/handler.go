package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vivaahaverse/vivaah/internal/http/httpx"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

type statusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		httpx.WriteJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "degraded", Database: "down"})

		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok", Database: "up"})
}
