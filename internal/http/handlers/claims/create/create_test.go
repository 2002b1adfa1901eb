package create

import (
	"bytes"
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
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, id identity.Identity, req models.CreateUserSettlementRequest) (*models.UserSettlement, bool, error) {
	args := m.Called(ctx, id, req)
	claim, _ := args.Get(0).(*models.UserSettlement)
	return claim, args.Bool(1), args.Error(2)
}

const settlementID = "9f1c2e64-5d1a-4c55-9a53-0d7c0b1e2a10"

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolved := identity.Identity{Status: identity.Resolved, Subject: "sub-1", UserID: "user-1"}
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	claim := &models.UserSettlement{
		ID:           "claim-1",
		UserID:       "user-1",
		SettlementID: settlementID,
		Status:       models.ClaimNotFiled,
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	tests := []struct {
		name           string
		body           string
		id             identity.Identity
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "новая заявка",
			body: `{"settlementId":"` + settlementID + `","eligibilityResult":"LIKELY"}`,
			id:   resolved,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, resolved, mock.MatchedBy(func(req models.CreateUserSettlementRequest) bool {
					return req.SettlementID == settlementID && req.EligibilityResult != nil && *req.EligibilityResult == models.EligibilityLikely
				})).Return(claim, true, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"NOT_FILED"`,
		},
		{
			name: "заявка уже существовала",
			body: `{"settlementId":"` + settlementID + `"}`,
			id:   resolved,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, resolved, mock.Anything).Return(claim, false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"claim-1"`,
		},
		{
			name:           "нет settlementId",
			body:           `{"eligibilityResult":"LIKELY"}`,
			id:             resolved,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"settlementId is required","code":"VALIDATION_FAILED"}`,
		},
		{
			name:           "неизвестный результат анкеты",
			body:           `{"settlementId":"` + settlementID + `","eligibilityResult":"MAYBE"}`,
			id:             resolved,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"code":"VALIDATION_FAILED"`,
		},
		{
			name:           "некорректный JSON",
			body:           `not a json`,
			id:             resolved,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body","code":"VALIDATION_FAILED"}`,
		},
		{
			name:           "без токена",
			body:           `{"settlementId":"` + settlementID + `"}`,
			id:             identity.Identity{Status: identity.Unauthenticated},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized","code":"UNAUTHENTICATED"}`,
		},
		{
			name: "соглашение не найдено",
			body: `{"settlementId":"` + settlementID + `"}`,
			id:   resolved,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, resolved, mock.Anything).Return(nil, false, apierr.NotFound("Settlement not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"Settlement not found","code":"NOT_FOUND"}`,
		},
		{
			name: "ошибка базы",
			body: `{"settlementId":"` + settlementID + `"}`,
			id:   resolved,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, resolved, mock.Anything).Return(nil, false, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error","code":"INTERNAL"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/user-settlements", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), tt.id))
			rr := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
