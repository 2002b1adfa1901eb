// Package stats реализует HTTP-обработчик сводки по заявкам для дашборда.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/response"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// Handler отдаёт сводку по заявкам. Анонимному пользователю отдаются нули.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчёт сводки.
type Service interface {
	Stats(ctx context.Context, id identity.Identity) (models.DashboardStats, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по заявкам
// @Description Количество заявок, активные заявки, ожидаемая и полученная сумма, дедлайны в ближайшие 7 дней.
// @Tags UserSettlements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user-settlements/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.claims.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Stats(r.Context(), middlewarectx.IdentityFrom(r.Context()))
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, res)
}
