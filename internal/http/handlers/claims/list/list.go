// Package list реализует HTTP-обработчик списка заявок текущего пользователя.
package list

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

// Handler отдаёт заявки пользователя, новые первыми.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику получения заявок.
type Service interface {
	List(ctx context.Context, id identity.Identity) ([]*models.UserSettlement, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заявок пользователя
// @Description Возвращает заявки текущего пользователя со встроенным соглашением, новые первыми.
// @Tags UserSettlements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserSettlement
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user-settlements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.claims.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, err := h.service.List(r.Context(), middlewarectx.IdentityFrom(r.Context()))
	if err != nil {
		log.Error("failed to list claims", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Debug("claims listed", slog.Int("count", len(claims)))
	render.JSON(w, r, claims)
}
