// Package remove реализует HTTP-обработчик удаления заявки.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/response"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

// Handler управляет HTTP-запросами на удаление заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает бизнес-логику удаления заявки.
type Service interface {
	Delete(ctx context.Context, id identity.Identity, claimID string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Перестать отслеживать соглашение
// @Description Удаляет заявку владельца. Повторное удаление тоже отвечает 204.
// @Tags UserSettlements
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 204 "Заявка удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка принадлежит другому пользователю"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user-settlements/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.claims.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claimID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), middlewarectx.IdentityFrom(r.Context()), claimID); err != nil {
		log.Info("failed to delete claim", slog.String("claim_id", claimID), sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("claim deleted", slog.String("claim_id", claimID))
	w.WriteHeader(http.StatusNoContent)
}
