package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// SettlementsAPI — каталог соглашений.
type SettlementsAPI struct{ c *Client }

// List возвращает соглашения по фильтру. Нулевые поля фильтра не передаются.
func (a *SettlementsAPI) List(ctx context.Context, f models.SettlementFilter) ([]models.Settlement, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.MinPayout != 0 {
		q.Set("minPayout", strconv.Itoa(f.MinPayout))
	}
	if f.MaxPayout != 0 {
		q.Set("maxPayout", strconv.Itoa(f.MaxPayout))
	}
	if f.ProofRequired != nil {
		q.Set("proofRequired", strconv.FormatBool(*f.ProofRequired))
	}
	if f.Limit != 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset != 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var out []models.Settlement
	err := a.c.do(ctx, http.MethodGet, withQuery("/api/settlements", q), nil, &out)
	return out, err
}

// GetBySlug возвращает соглашение по slug.
func (a *SettlementsAPI) GetBySlug(ctx context.Context, slug string) (*models.Settlement, error) {
	var out models.Settlement
	if err := a.c.do(ctx, http.MethodGet, "/api/settlements/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuestions возвращает вопросы анкеты соглашения.
func (a *SettlementsAPI) GetQuestions(ctx context.Context, slug string) ([]models.EligibilityQuestion, error) {
	var out []models.EligibilityQuestion
	err := a.c.do(ctx, http.MethodGet, "/api/settlements/"+url.PathEscape(slug)+"/questions", nil, &out)
	return out, err
}

// GetRecommended возвращает рекомендованные соглашения.
func (a *SettlementsAPI) GetRecommended(ctx context.Context) ([]models.Settlement, error) {
	var out []models.Settlement
	err := a.c.do(ctx, http.MethodGet, "/api/settlements/recommended", nil, &out)
	return out, err
}

// GetUpcomingDeadlines возвращает соглашения с близким дедлайном. При days=0 используется значение апстрима по умолчанию.
func (a *SettlementsAPI) GetUpcomingDeadlines(ctx context.Context, days int) ([]models.Settlement, error) {
	q := url.Values{}
	if days != 0 {
		q.Set("days", strconv.Itoa(days))
	}
	var out []models.Settlement
	err := a.c.do(ctx, http.MethodGet, withQuery("/api/settlements/upcoming-deadlines", q), nil, &out)
	return out, err
}

// UserSettlementsAPI — заявки пользователя.
type UserSettlementsAPI struct{ c *Client }

// List возвращает заявки пользователя.
func (a *UserSettlementsAPI) List(ctx context.Context) ([]models.UserSettlement, error) {
	var out []models.UserSettlement
	err := a.c.do(ctx, http.MethodGet, "/api/user-settlements", nil, &out)
	return out, err
}

// Stats возвращает сводку по заявкам.
func (a *UserSettlementsAPI) Stats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := a.c.do(ctx, http.MethodGet, "/api/user-settlements/stats", nil, &out)
	return out, err
}

// GetBySettlement возвращает заявку по соглашению.
func (a *UserSettlementsAPI) GetBySettlement(ctx context.Context, settlementID string) (*models.UserSettlement, error) {
	var out models.UserSettlement
	if err := a.c.do(ctx, http.MethodGet, "/api/user-settlements/by-settlement/"+url.PathEscape(settlementID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create начинает отслеживать соглашение.
func (a *UserSettlementsAPI) Create(ctx context.Context, req models.CreateUserSettlementRequest) (*models.UserSettlement, error) {
	var out models.UserSettlement
	if err := a.c.do(ctx, http.MethodPost, "/api/user-settlements", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update частично обновляет заявку.
func (a *UserSettlementsAPI) Update(ctx context.Context, id string, patch models.UserSettlementPatch) (*models.UserSettlement, error) {
	var out models.UserSettlement
	if err := a.c.do(ctx, http.MethodPatch, "/api/user-settlements/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete удаляет заявку.
func (a *UserSettlementsAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/user-settlements/"+url.PathEscape(id), nil, nil)
}

// DashboardAPI — данные дашборда.
type DashboardAPI struct{ c *Client }

// Stats возвращает ту же сводку, что и UserSettlementsAPI.Stats.
func (a *DashboardAPI) Stats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := a.c.do(ctx, http.MethodGet, "/api/user-settlements/stats", nil, &out)
	return out, err
}

// UserAPI — профиль и почтовые настройки.
type UserAPI struct{ c *Client }

// Profile возвращает профиль пользователя.
func (a *UserAPI) Profile(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.do(ctx, http.MethodGet, "/api/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile частично обновляет профиль.
func (a *UserAPI) UpdateProfile(ctx context.Context, patch map[string]any) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.do(ctx, http.MethodPatch, "/api/user/profile", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmailPreferences возвращает почтовые настройки.
func (a *UserAPI) EmailPreferences(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.do(ctx, http.MethodGet, "/api/email-preferences", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmailPreferences частично обновляет почтовые настройки.
func (a *UserAPI) UpdateEmailPreferences(ctx context.Context, patch map[string]any) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.c.do(ctx, http.MethodPatch, "/api/email-preferences", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExploreAPI — справочники для поиска.
type ExploreAPI struct{ c *Client }

// Brands возвращает список брендов.
func (a *ExploreAPI) Brands(ctx context.Context) ([]string, error) {
	var out []string
	err := a.c.do(ctx, http.MethodGet, "/api/explore/brands", nil, &out)
	return out, err
}

// Categories возвращает категории с количеством соглашений.
func (a *ExploreAPI) Categories(ctx context.Context) ([]models.CategoryWithCount, error) {
	var out []models.CategoryWithCount
	err := a.c.do(ctx, http.MethodGet, "/api/explore/categories", nil, &out)
	return out, err
}

// AuthAPI — текущий пользователь.
type AuthAPI struct{ c *Client }

// CurrentUser возвращает пользователя сессии.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := a.c.do(ctx, http.MethodGet, "/api/auth/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
