// Package create реализует HTTP-обработчик отслеживания соглашения пользователем.
//
// Handler принимает JSON с id соглашения и результатом анкеты, валидирует его
// и создаёт заявку. Если заявка на это соглашение уже есть, она возвращается
// без изменений со статусом 200, новая заявка — со статусом 201.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

// Handler управляет HTTP-запросами на создание заявок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис заявок
	validate *validator.Validate // Валидатор тела запроса
}

// Service описывает бизнес-логику создания заявки.
type Service interface {
	Create(ctx context.Context, id identity.Identity, req models.CreateUserSettlementRequest) (*models.UserSettlement, bool, error)
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
// @Summary Отслеживать соглашение
// @Description Создаёт заявку со статусом NOT_FILED. Повторный вызов возвращает существующую заявку.
// @Tags UserSettlements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateUserSettlementRequest true "Соглашение и результат анкеты"
// @Success 200 {object} models.UserSettlement "Заявка уже существовала"
// @Success 201 {object} models.UserSettlement "Заявка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Соглашение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user-settlements [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.claims.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := middlewarectx.IdentityFrom(r.Context())
	if !id.Authenticated() {
		response.WriteError(w, r, apierr.Unauthenticated())
		return
	}

	var req models.CreateUserSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.WriteError(w, r, apierr.Validation("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("validator failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	claim, created, err := h.service.Create(r.Context(), id, req)
	if err != nil {
		log.Error("failed to create claim", slog.String("settlement_id", req.SettlementID), sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	if created {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, claim)
}
