// Package health реализует проверку живости шлюза.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

// Pinger проверяет доступность базы данных.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler отвечает на GET /health.
type Handler struct {
	log *slog.Logger
	db  Pinger
}

// New создает Handler. db может быть nil, если база не настроена.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	body := map[string]string{"status": "ok", "database": "disabled"}
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.log.Error("database ping failed", slog.String("op", op), sl.Err(err))
			body["status"] = "degraded"
			body["database"] = "unavailable"
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, body)
			return
		}
		body["database"] = "ok"
	}
	render.JSON(w, r, body)
}
