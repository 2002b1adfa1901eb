// Package authprovider проверяет bearer-токены управляемого сервиса авторизации.
//
// JWTVerifier проверяет подпись локально по секрету проекта, HTTPVerifier
// спрашивает сервис авторизации. Оба возвращают подтверждённую личность.
package authprovider

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// ErrInvalidToken — токен не прошёл проверку.
var ErrInvalidToken = errors.New("invalid token")

// Verifier подтверждает токен и возвращает личность его владельца.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Principal, error)
}

// JWTVerifier проверяет HS256-токены секретом проекта.
type JWTVerifier struct {
	parser jwt.Maker
}

// NewJWTVerifier создаёт JWTVerifier для секрета проекта.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{parser: jwt.NewJWTMaker(secret, 0)}
}

// Verify проверяет подпись и срок действия токена.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (models.Principal, error) {
	if err := ctx.Err(); err != nil {
		return models.Principal{}, err
	}
	claims, err := v.parser.ParseToken(token)
	if err != nil {
		return models.Principal{}, errors.Join(ErrInvalidToken, err)
	}
	return models.Principal{Subject: claims.Subject, Email: claims.Email}, nil
}
