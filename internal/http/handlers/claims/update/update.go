// Package update реализует HTTP-обработчик частичного обновления заявки.
//
// Изменяются только поля статуса, подтверждения, дат и суммы выплаты, заметки.
// id, userId, settlementId, createdAt и неизвестные поля тела игнорируются.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/response"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/validate"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// Handler управляет HTTP-запросами на обновление заявок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику обновления заявки.
type Service interface {
	Update(ctx context.Context, id identity.Identity, claimID string, patch models.UserSettlementPatch) (*models.UserSettlement, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить заявку
// @Description Частичное обновление заявки владельцем. updatedAt проставляется сервером.
// @Tags UserSettlements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body models.UserSettlementPatch true "Изменяемые поля"
// @Success 200 {object} models.UserSettlement
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user-settlements/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.claims.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claimID := chi.URLParam(r, "id")

	var patch models.UserSettlementPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		log.Info("failed to decode request", sl.Err(err))
		response.WriteError(w, r, apierr.Validation("invalid request body"))
		return
	}

	if err := h.validate.Struct(patch); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		response.WriteError(w, r, err)
		return
	}

	claim, err := h.service.Update(r.Context(), middlewarectx.IdentityFrom(r.Context()), claimID, patch)
	if err != nil {
		log.Info("failed to update claim", slog.String("claim_id", claimID), sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("claim updated", slog.String("claim_id", claim.ID), slog.String("status", string(claim.Status)))
	render.JSON(w, r, claim)
}
