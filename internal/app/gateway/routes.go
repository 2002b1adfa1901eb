package gateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/authuser/current"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/claims/bysettlement"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/claims/create"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/claims/list"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/claims/remove"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/claims/stats"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/claims/update"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/handlers/health"
	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/ratelimit"
)

// ClaimService — операции над заявками, которые обслуживаются локально.
type ClaimService interface {
	list.Service
	stats.Service
	bysettlement.Service
	create.Service
	update.Service
	remove.Service
}

// Deps — зависимости маршрутов. Если Claims или Resolver не заданы,
// маршруты заявок тоже уходят в прокси.
type Deps struct {
	Resolver middlewarectx.Resolver
	Claims   ClaimService
	Account  current.Service
	Proxy    http.Handler
	Limiter  ratelimit.Limiter
	DB       health.Pinger
	Metrics  http.Handler
	// TrustProxy разрешает брать адрес клиента из X-Forwarded-For и X-Real-IP.
	TrustProxy bool
}

func (d Deps) local() bool {
	return d.Claims != nil && d.Account != nil && d.Resolver != nil
}

// RegisterRoutes регистрирует все маршруты шлюза.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(middleware.RequestID)
	if deps.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(middlewarectx.RateLimitMiddleware(deps.Limiter, logger))
		}

		if deps.local() {
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.IdentityMiddleware(deps.Resolver, logger))

				// Анонимный пользователь получает нулевую сводку
				r.Get("/user-settlements/stats", stats.New(logger, deps.Claims).ServeHTTP)

				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.RequireAuth(logger))
					r.Get("/user-settlements", list.New(logger, deps.Claims).ServeHTTP)
					r.Get("/user-settlements/by-settlement/{settlementId}", bysettlement.New(logger, deps.Claims).ServeHTTP)
					r.Post("/user-settlements", create.New(logger, deps.Claims).ServeHTTP)
					r.Patch("/user-settlements/{id}", update.New(logger, deps.Claims).ServeHTTP)
					r.Delete("/user-settlements/{id}", remove.New(logger, deps.Claims).ServeHTTP)
					r.Get("/auth/user", current.New(logger, deps.Account).ServeHTTP)
				})
			})
		}

		// Всё остальное — в продакшн-API
		r.Handle("/*", deps.Proxy)
		r.MethodNotAllowed(deps.Proxy.ServeHTTP)
	})
}
