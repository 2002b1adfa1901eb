// Package bysettlement реализует HTTP-обработчик поиска заявки пользователя по соглашению.
package bysettlement

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/response"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// Handler отдаёт заявку пользователя по id соглашения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает поиск заявки по соглашению.
type Service interface {
	GetBySettlement(ctx context.Context, id identity.Identity, settlementID string) (*models.UserSettlement, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Заявка по соглашению
// @Tags UserSettlements
// @Produce json
// @Security BearerAuth
// @Param settlementId path string true "ID соглашения"
// @Success 200 {object} models.UserSettlement
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user-settlements/by-settlement/{settlementId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.claims.bysettlement"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	settlementID := chi.URLParam(r, "settlementId")
	claim, err := h.service.GetBySettlement(r.Context(), middlewarectx.IdentityFrom(r.Context()), settlementID)
	if err != nil {
		log.Info("claim lookup failed", slog.String("settlement_id", settlementID), sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, claim)
}
