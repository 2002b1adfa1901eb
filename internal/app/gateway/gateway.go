// Package gateway собирает HTTP-шлюз: локальные маршруты заявок, прокси в продакшн-API,
// ограничение частоты запросов, метрики и документацию.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/settlement-gateway/internal/authprovider"
	"github.com/magabrotheeeer/settlement-gateway/internal/cache"
	"github.com/magabrotheeeer/settlement-gateway/internal/config"
	_ "github.com/magabrotheeeer/settlement-gateway/internal/docs"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/migrations"
	"github.com/magabrotheeeer/settlement-gateway/internal/proxy"
	"github.com/magabrotheeeer/settlement-gateway/internal/rabbitmq"
	"github.com/magabrotheeeer/settlement-gateway/internal/ratelimit"
	"github.com/magabrotheeeer/settlement-gateway/internal/services/account"
	"github.com/magabrotheeeer/settlement-gateway/internal/services/claims"
	"github.com/magabrotheeeer/settlement-gateway/internal/storage/repository"
)

const (
	shutdownTimeout    = 15 * time.Second
	writeTimeoutMargin = 5 * time.Second
	amqpRetries        = 5
	amqpRetryDelay     = 2 * time.Second
)

// App — HTTP-шлюз и его ресурсы.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
}

// New создает App по конфигурации. База данных, Redis и RabbitMQ необязательны:
// без базы все маршруты проксируются, без Redis лимит считается в памяти,
// без RabbitMQ события заявок не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.gateway.New"

	app := &App{logger: logger}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	upstream, err := proxy.New(cfg.Upstream.Origin, cfg.Upstream.Timeout, logger, proxy.NewMetrics(reg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deps := Deps{
		Proxy:      upstream,
		Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		TrustProxy: cfg.HTTPServer.TrustProxy,
	}

	if cfg.Storage.ServiceRoleKey == "" {
		logger.Warn("SUPABASE_SERVICE_ROLE_KEY is not set, privileged database access is unavailable")
	}

	if deps.Limiter, err = app.initLimiter(ctx, cfg); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Storage.ConnectionString == "" {
		logger.Warn("DATABASE_URL is not set, user settlement routes are forwarded upstream")
	} else {
		if err := app.initLocal(ctx, cfg, &deps); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: app.writeTimeout(cfg),
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// writeTimeout возвращает WriteTimeout сервера, оставляя запас над таймаутом апстрима.
// Нулевое значение означает отсутствие ограничения и сохраняется.
func (a *App) writeTimeout(cfg *config.Config) time.Duration {
	wt := cfg.HTTPServer.WriteTimeout
	if wt == 0 {
		return 0
	}
	minimum := cfg.Upstream.Timeout + writeTimeoutMargin
	if wt < minimum {
		a.logger.Warn("write timeout does not cover upstream timeout, raising it",
			slog.Duration("configured", wt),
			slog.Duration("upstream_timeout", cfg.Upstream.Timeout),
			slog.Duration("write_timeout", minimum),
		)
		return minimum
	}
	return wt
}

func (a *App) initLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.Redis.Address == "" {
		a.logger.Info("rate limiting in process memory", slog.Int("requests", cfg.RateLimit.Requests))
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
	}
	c, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.cache = c
	a.logger.Info("rate limiting in redis", slog.String("address", cfg.Redis.Address))
	return ratelimit.NewRedisLimiter(c, cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
}

func (a *App) initLocal(ctx context.Context, cfg *config.Config, deps *Deps) error {
	db, err := repository.New(cfg.Storage.ConnectionString)
	if err != nil {
		return err
	}
	a.db = db

	if cfg.Storage.MigrationsPath != "" {
		if err := migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
			return err
		}
	}
	if err := repository.CheckDatabaseReady(ctx, db); err != nil {
		return err
	}

	var verifier identity.Verifier
	switch {
	case cfg.Auth.JWTSecret != "":
		verifier = authprovider.NewJWTVerifier(cfg.Auth.JWTSecret)
	case cfg.Auth.URL != "":
		verifier = authprovider.NewHTTPVerifier(cfg.Auth.URL, cfg.Auth.AnonKey, cfg.Auth.Timeout)
	default:
		return errors.New("neither SUPABASE_JWT_SECRET nor SUPABASE_URL is set")
	}

	var events claims.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, amqpRetries, amqpRetryDelay)
		if err != nil {
			return err
		}
		a.amqp = conn
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.ClaimEventQueues())
		if err != nil {
			return err
		}
		events = rabbitmq.NewClaimPublisher(ch, cfg.RabbitMQ.Exchange)
		a.logger.Info("claim events enabled", slog.String("exchange", cfg.RabbitMQ.Exchange))
	}

	resolver := identity.NewResolver(verifier, db, a.logger)
	deps.Resolver = resolver
	deps.Claims = claims.NewService(db, resolver, events, a.logger)
	deps.Account = account.NewService(db)
	deps.DB = db.DB
	return nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", sl.Err(err))
		}
	}
}
