package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// SubscriptionAPI — подписка и тарифы.
type SubscriptionAPI struct{ c *Client }

// Plans возвращает тарифы. tierType — individual, firm или пусто.
func (a *SubscriptionAPI) Plans(ctx context.Context, tierType string) ([]models.SubscriptionPlan, error) {
	q := url.Values{}
	if tierType != "" {
		q.Set("tierType", tierType)
	}
	var out []models.SubscriptionPlan
	err := a.c.do(ctx, http.MethodGet, withQuery("/api/subscription-plans", q), nil, &out)
	return out, err
}

// Current возвращает текущую подписку.
func (a *SubscriptionAPI) Current(ctx context.Context) (*models.Subscription, error) {
	var out models.Subscription
	if err := a.c.do(ctx, http.MethodGet, "/api/subscription", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Usage возвращает расход заявок по тарифу.
func (a *SubscriptionAPI) Usage(ctx context.Context) (*models.SubscriptionUsage, error) {
	var out models.SubscriptionUsage
	if err := a.c.do(ctx, http.MethodGet, "/api/subscription/usage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout создаёт сессию оплаты тарифа.
func (a *SubscriptionAPI) Checkout(ctx context.Context, planID string) (string, error) {
	var out models.RedirectURL
	err := a.c.do(ctx, http.MethodPost, "/api/subscription/checkout", map[string]string{"planId": planID}, &out)
	return out.URL, err
}

// Portal возвращает ссылку на портал управления подпиской.
func (a *SubscriptionAPI) Portal(ctx context.Context) (string, error) {
	var out models.RedirectURL
	err := a.c.do(ctx, http.MethodPost, "/api/subscription/portal", nil, &out)
	return out.URL, err
}

// Cancel отменяет подписку в конце периода.
func (a *SubscriptionAPI) Cancel(ctx context.Context) (string, error) {
	var out models.Message
	err := a.c.do(ctx, http.MethodPost, "/api/subscription/cancel", nil, &out)
	return out.Message, err
}

// Reactivate возобновляет отменённую подписку.
func (a *SubscriptionAPI) Reactivate(ctx context.Context) (string, error) {
	var out models.Message
	err := a.c.do(ctx, http.MethodPost, "/api/subscription/reactivate", nil, &out)
	return out.Message, err
}

// BillingPortal возвращает ссылку на платёжный портал.
func (a *SubscriptionAPI) BillingPortal(ctx context.Context) (string, error) {
	var out models.RedirectURL
	err := a.c.do(ctx, http.MethodPost, "/api/subscription/billing-portal", nil, &out)
	return out.URL, err
}

// PaygAPI — оплата заявок поштучно.
type PaygAPI struct{ c *Client }

// Settings возвращает настройки поштучной оплаты.
func (a *PaygAPI) Settings(ctx context.Context) (*models.PaygSettings, error) {
	var out models.PaygSettings
	if err := a.c.do(ctx, http.MethodGet, "/api/payg/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats возвращает статистику покупок.
func (a *PaygAPI) Stats(ctx context.Context) (*models.PaygStats, error) {
	var out models.PaygStats
	if err := a.c.do(ctx, http.MethodGet, "/api/payg/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentMethods возвращает сохранённые карты.
func (a *PaygAPI) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	err := a.c.do(ctx, http.MethodGet, "/api/payg/payment-methods", nil, &out)
	return out, err
}

// SetupIntent начинает привязку карты.
func (a *PaygAPI) SetupIntent(ctx context.Context) (*models.SetupIntent, error) {
	var out models.SetupIntent
	if err := a.c.do(ctx, http.MethodPost, "/api/payg/setup-intent", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePaymentMethod сохраняет привязанную карту.
func (a *PaygAPI) SavePaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*models.PaymentMethod, error) {
	body := map[string]string{"paymentMethodId": paymentMethodID, "stripeCustomerId": customerID}
	var out models.PaymentMethod
	if err := a.c.do(ctx, http.MethodPost, "/api/payg/payment-methods", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePaymentMethod удаляет карту.
func (a *PaygAPI) DeletePaymentMethod(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/api/payg/payment-methods/"+url.PathEscape(id), nil, nil)
}

// SetDefaultPaymentMethod делает карту основной.
func (a *PaygAPI) SetDefaultPaymentMethod(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodPost, "/api/payg/payment-methods/"+url.PathEscape(id)+"/default", nil, nil)
}

// Purchase оплачивает подачу заявки. Исчерпанный лимит — apierr.IsLimitReached(err).
func (a *PaygAPI) Purchase(ctx context.Context, userSettlementID, paymentMethodID string) (*models.PurchaseResult, error) {
	body := map[string]string{}
	if userSettlementID != "" {
		body["userSettlementId"] = userSettlementID
	}
	if paymentMethodID != "" {
		body["paymentMethodId"] = paymentMethodID
	}
	var out models.PurchaseResult
	if err := a.c.do(ctx, http.MethodPost, "/api/payg/purchase", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CanSubmit сообщает, можно ли подать ещё одну заявку.
func (a *PaygAPI) CanSubmit(ctx context.Context) (*models.CanSubmitResponse, error) {
	var out models.CanSubmitResponse
	if err := a.c.do(ctx, http.MethodGet, "/api/payg/can-submit", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
