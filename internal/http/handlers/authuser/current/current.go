// Package current реализует HTTP-обработчик GET /api/auth/user.
package current

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

// Handler отдаёт текущего пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение пользователя по личности запроса.
type Service interface {
	Current(ctx context.Context, id identity.Identity) (*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Если пользователь ещё не создан в базе, возвращается минимальный объект из токена.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.authuser.current"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	u, err := h.service.Current(r.Context(), middlewarectx.IdentityFrom(r.Context()))
	if err != nil {
		log.Error("failed to get current user", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, u)
}
