package current

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/settlement-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Current(ctx context.Context, id identity.Identity) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func TestCurrentHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := identity.Identity{Status: identity.Unprovisioned, Subject: "sub-1", Email: "a@example.com"}

	t.Run("fallback user", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Current", mock.Anything, id).Return(&models.User{
			ID:            "sub-1",
			Email:         "a@example.com",
			AccountStatus: models.AccountActive,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), id))
		rr := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"sub-1"`)
		assert.Contains(t, rr.Body.String(), `"accountStatus":"active"`)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Current", mock.Anything, id).Return(nil, errors.New("db down"))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), id))
		rr := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"internal error","code":"INTERNAL"}`, rr.Body.String())
	})
}
