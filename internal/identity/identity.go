// Package identity сопоставляет bearer-токен запроса с внутренним пользователем.
//
// Результат — одно из трёх состояний: аноним, подтверждённая личность
// без записи в users и полностью разрешённый пользователь.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
	"github.com/magabrotheeeer/settlement-gateway/internal/storage"
)

// Status — состояние разрешения личности.
type Status int

const (
	// Unauthenticated — токена нет или он не прошёл проверку.
	Unauthenticated Status = iota
	// Unprovisioned — токен верный, но записи в users ещё нет.
	Unprovisioned
	// Resolved — есть внутренний id пользователя.
	Resolved
)

func (s Status) String() string {
	switch s {
	case Unprovisioned:
		return "unprovisioned"
	case Resolved:
		return "resolved"
	default:
		return "unauthenticated"
	}
}

// Identity — результат разрешения личности запроса.
type Identity struct {
	Status  Status
	Subject string
	Email   string
	UserID  string
}

// Authenticated сообщает, что токен подтверждён.
func (i Identity) Authenticated() bool {
	return i.Status != Unauthenticated
}

// Verifier подтверждает токен у сервиса авторизации.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Principal, error)
}

// UserRepository ищет и создаёт записи пользователей.
type UserRepository interface {
	FindUserIDByExternalID(ctx context.Context, subject string) (string, error)
	ProvisionUser(ctx context.Context, subject, email string) (string, error)
}

// Resolver разрешает личность запроса.
type Resolver struct {
	verifier Verifier
	users    UserRepository
	log      *slog.Logger
}

// NewResolver создаёт Resolver.
func NewResolver(verifier Verifier, users UserRepository, log *slog.Logger) *Resolver {
	return &Resolver{
		verifier: verifier,
		users:    users,
		log:      log,
	}
}

// BearerToken извлекает токен из заголовка Authorization. ok=false, если схема не Bearer.
func BearerToken(header string) (token string, ok bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token = strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// Resolve разрешает личность по заголовку Authorization.
// Ошибка возвращается только при сбое хранилища; при неверном токене
// результат — Unauthenticated без обращения к базе.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (Identity, error) {
	const op = "identity.Resolve"

	token, ok := BearerToken(authorization)
	if !ok {
		return Identity{Status: Unauthenticated}, nil
	}

	principal, err := r.verifier.Verify(ctx, token)
	if err != nil {
		r.log.Debug("token rejected",
			slog.String("op", op),
			sl.Token(token),
			sl.Err(err),
		)
		return Identity{Status: Unauthenticated}, nil
	}

	id := Identity{
		Status:  Unprovisioned,
		Subject: principal.Subject,
		Email:   principal.Email,
	}
	userID, err := r.users.FindUserIDByExternalID(ctx, principal.Subject)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return id, nil
	case err != nil:
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	id.Status = Resolved
	id.UserID = userID
	return id, nil
}

// EnsureUser возвращает внутренний id пользователя, создавая запись при первом обращении.
func (r *Resolver) EnsureUser(ctx context.Context, id Identity) (string, error) {
	const op = "identity.EnsureUser"

	switch id.Status {
	case Resolved:
		return id.UserID, nil
	case Unprovisioned:
		userID, err := r.users.ProvisionUser(ctx, id.Subject, id.Email)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		r.log.Info("user provisioned",
			slog.String("op", op),
			slog.String("user_id", userID),
		)
		return userID, nil
	default:
		return "", apierr.Unauthenticated()
	}
}
