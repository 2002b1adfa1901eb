// Package apiclient — Go-клиент API шлюза.
//
// Клиент сам решает, прикладывать ли токен сессии: заголовок Authorization
// добавляется только для путей из списка AuthRequiredPrefixes и только если
// сессия есть. Ошибки возвращаются как *apierr.Error со структурированным видом.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

const defaultTimeout = 30 * time.Second

// AuthRequiredPrefixes — префиксы путей, которым нужен токен сессии.
// Сравнение по префиксу: /api/subscription покрывает и /api/subscription-plans.
var AuthRequiredPrefixes = []string{
	"/api/user-settlements",
	"/api/user/profile",
	"/api/email-preferences",
	"/api/dashboard/stats",
	"/api/auth/user",
	"/api/subscription",
	"/api/payg",
}

// RequiresAuth сообщает, нужен ли пути токен сессии.
func RequiresAuth(endpoint string) bool {
	for _, prefix := range AuthRequiredPrefixes {
		if strings.HasPrefix(endpoint, prefix) {
			return true
		}
	}
	return false
}

// TokenSource отдаёт токен текущей сессии. Пустая строка — сессии нет.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken — TokenSource с фиксированным токеном.
type StaticToken string

// Token возвращает сам токен.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client — клиент API шлюза.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger

	Settlements     *SettlementsAPI
	UserSettlements *UserSettlementsAPI
	Dashboard       *DashboardAPI
	User            *UserAPI
	Explore         *ExploreAPI
	Auth            *AuthAPI
	Subscription    *SubscriptionAPI
	Payg            *PaygAPI
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New создает клиент. tokens может быть nil: тогда запросы уходят без токена.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Settlements = &SettlementsAPI{c: c}
	c.UserSettlements = &UserSettlementsAPI{c: c}
	c.Dashboard = &DashboardAPI{c: c}
	c.User = &UserAPI{c: c}
	c.Explore = &ExploreAPI{c: c}
	c.Auth = &AuthAPI{c: c}
	c.Subscription = &SubscriptionAPI{c: c}
	c.Payg = &PaygAPI{c: c}
	return c
}

// BaseURL возвращает адрес шлюза, с которым работает клиент.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
		rd = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if RequiresAuth(endpoint) && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else {
			c.log.Debug("no session token", slog.String("endpoint", endpoint))
		}
	}
	return req, nil
}

// do выполняет запрос и декодирует ответ в out. Ответ 204 оставляет out нетронутым.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	const op = "apiclient.do"

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("request failed", slog.String("endpoint", endpoint), sl.Err(err))
		return apierr.Wrap(apierr.KindUpstream, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", op, endpoint, err)
	}
	return nil
}

// decodeError разбирает тело ошибки {error, code}. LIMIT_REACHED распознаётся
// в поле code или в любом месте текста ошибки.
func decodeError(resp *http.Response) *apierr.Error {
	raw, _ := io.ReadAll(resp.Body)

	var eb errorBody
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error != "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("API Error: %d", resp.StatusCode)
	}

	code := eb.Code
	if code == "" && strings.Contains(msg, apierr.CodeLimitReached) {
		code = apierr.CodeLimitReached
	}
	return apierr.FromStatus(resp.StatusCode, code, msg)
}
