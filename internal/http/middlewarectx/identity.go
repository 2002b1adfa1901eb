// Package middlewarectx содержит HTTP middleware шлюза: разрешение личности
// по bearer-токену, обязательную аутентификацию и ограничение частоты запросов.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/response"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey — ключ разрешённой личности в контексте.
const IdentityKey Key = "identity"

// Resolver разрешает личность по заголовку Authorization.
type Resolver interface {
	Resolve(ctx context.Context, authorization string) (identity.Identity, error)
}

// WithIdentity кладёт личность в контекст.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom достаёт личность из контекста. Без middleware считается анонимом.
func IdentityFrom(ctx context.Context) identity.Identity {
	id, ok := ctx.Value(IdentityKey).(identity.Identity)
	if !ok {
		return identity.Identity{Status: identity.Unauthenticated}
	}
	return id
}

// IdentityMiddleware разрешает личность запроса и кладёт её в контекст.
// Сбой хранилища при разрешении отдаёт 500.
func IdentityMiddleware(resolver Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Identity"

			id, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.Error("failed to resolve identity",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				response.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth отвечает 401, если токен запроса не подтверждён.
func RequireAuth(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IdentityFrom(r.Context()).Authenticated() {
				log.Info("unauthenticated request rejected",
					slog.String("op", "middlewarectx.RequireAuth"),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				response.WriteError(w, r, apierr.Unauthenticated())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
