// Package account отдаёт текущего пользователя шлюза.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
	"github.com/magabrotheeeer/settlement-gateway/internal/storage"
)

// UserRepository читает пользователей.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service возвращает текущего пользователя.
type Service struct {
	users UserRepository
}

// NewService создает Service.
func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// Current возвращает пользователя запроса. Если записи в users ещё нет,
// возвращается минимальный объект из данных токена.
func (s *Service) Current(ctx context.Context, id identity.Identity) (*models.User, error) {
	const op = "services.account.Current"

	switch id.Status {
	case identity.Unauthenticated:
		return nil, apierr.Unauthenticated()
	case identity.Unprovisioned:
		return fallback(id), nil
	}

	u, err := s.users.GetUserByID(ctx, id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return fallback(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func fallback(id identity.Identity) *models.User {
	return &models.User{
		ID:                id.Subject,
		ExternalSubjectID: id.Subject,
		Email:             id.Email,
		AccountStatus:     models.AccountActive,
	}
}
