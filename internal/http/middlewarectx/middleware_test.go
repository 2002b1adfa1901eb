package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/ratelimit"
)

type ResolverMock struct{ mock.Mock }

func (m *ResolverMock) Resolve(ctx context.Context, authorization string) (identity.Identity, error) {
	args := m.Called(ctx, authorization)
	return args.Get(0).(identity.Identity), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestIdentityMiddleware(t *testing.T) {
	resolved := identity.Identity{Status: identity.Resolved, Subject: "sub", UserID: "user-1"}

	tests := []struct {
		name        string
		header      string
		resolveID   identity.Identity
		resolveErr  error
		wantStatus  int
		wantCalled  bool
		wantContext identity.Identity
	}{
		{
			name:        "resolved identity reaches handler",
			header:      "Bearer good",
			resolveID:   resolved,
			wantStatus:  http.StatusOK,
			wantCalled:  true,
			wantContext: resolved,
		},
		{
			name:        "anonymous still reaches handler",
			header:      "",
			resolveID:   identity.Identity{Status: identity.Unauthenticated},
			wantStatus:  http.StatusOK,
			wantCalled:  true,
			wantContext: identity.Identity{Status: identity.Unauthenticated},
		},
		{
			name:       "storage failure",
			header:     "Bearer good",
			resolveErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(ResolverMock)
			resolver.On("Resolve", mock.Anything, tt.header).Return(tt.resolveID, tt.resolveErr).Once()

			called := false
			var got identity.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = middlewarectx.IdentityFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/user-settlements", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			middlewarectx.IdentityMiddleware(resolver, newNoopLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, tt.wantContext, got)
			}
			resolver.AssertExpectations(t)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		id         *identity.Identity
		wantStatus int
	}{
		{name: "no identity in context", id: nil, wantStatus: http.StatusUnauthorized},
		{name: "anonymous", id: &identity.Identity{Status: identity.Unauthenticated}, wantStatus: http.StatusUnauthorized},
		{name: "unprovisioned", id: &identity.Identity{Status: identity.Unprovisioned, Subject: "s"}, wantStatus: http.StatusOK},
		{name: "resolved", id: &identity.Identity{Status: identity.Resolved, UserID: "u"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
			if tt.id != nil {
				req = req.WithContext(middlewarectx.WithIdentity(req.Context(), *tt.id))
			}
			rr := httptest.NewRecorder()

			middlewarectx.RequireAuth(newNoopLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"status":"Error","error":"unauthorized","code":"UNAUTHENTICATED"}`, rr.Body.String())
			}
		})
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("blocks after limit", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(ratelimit.NewMemoryLimiter(2, time.Minute), newNoopLogger())(next)

		codes := make([]int, 0, 3)
		var last *httptest.ResponseRecorder
		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/api/settlements", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			last = httptest.NewRecorder()
			h.ServeHTTP(last, req)
			codes = append(codes, last.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
		assert.NotEmpty(t, last.Header().Get("Retry-After"))
		assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))

		other := httptest.NewRequest(http.MethodGet, "/api/settlements", nil)
		other.RemoteAddr = "192.0.2.2:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, other)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("fails open", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(failingLimiter{}, newNoopLogger())(next)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
