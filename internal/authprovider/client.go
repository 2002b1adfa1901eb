package authprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// HTTPVerifier проверяет токен запросом GET {baseURL}/auth/v1/user.
type HTTPVerifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewHTTPVerifier создаёт клиент сервиса авторизации.
func NewHTTPVerifier(baseURL, apiKey string, timeout time.Duration) *HTTPVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPVerifier) newRequest(ctx context.Context, method, path, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	return req, nil
}

// Verify возвращает владельца токена. Любой ответ, кроме 200 с непустым id, — ErrInvalidToken.
func (c *HTTPVerifier) Verify(ctx context.Context, token string) (models.Principal, error) {
	const op = "authprovider.HTTPVerifier.Verify"

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", token)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Principal{}, fmt.Errorf("%s: %w: unexpected status %s", op, ErrInvalidToken, resp.Status)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	if user.ID == "" {
		return models.Principal{}, fmt.Errorf("%s: %w: empty user id", op, ErrInvalidToken)
	}
	return models.Principal{Subject: user.ID, Email: user.Email}, nil
}
