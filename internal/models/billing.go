package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы биллинга принадлежат платёжному провайдеру и продакшн-API;
// шлюз их только проксирует, здесь они нужны клиентскому API.

// PlanFeature — пункт описания тарифа.
type PlanFeature struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// SubscriptionPlan — тариф.
type SubscriptionPlan struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	DisplayName    string           `json:"displayName"`
	TierType       string           `json:"tierType"`
	PriceMonthly   *decimal.Decimal `json:"priceMonthly"`
	StripePriceID  *string          `json:"stripePriceId"`
	IncludedClaims *int             `json:"includedClaims"`
	IsUnlimited    bool             `json:"isUnlimited"`
	OveragePrice   *decimal.Decimal `json:"overagePrice"`
	Features       []PlanFeature    `json:"features"`
	HighlightColor *string          `json:"highlightColor"`
	IsActive       bool             `json:"isActive"`
	SortOrder      int              `json:"sortOrder"`
}

// Subscription — подписка пользователя.
type Subscription struct {
	ID                   string           `json:"id"`
	UserID               string           `json:"userId"`
	PlanID               string           `json:"planId"`
	StripeSubscriptionID *string          `json:"stripeSubscriptionId"`
	StripeCustomerID     *string          `json:"stripeCustomerId"`
	Status               string           `json:"status"`
	CurrentPeriodStart   *time.Time       `json:"currentPeriodStart"`
	CurrentPeriodEnd     *time.Time       `json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool             `json:"cancelAtPeriodEnd"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
	Plan                 SubscriptionPlan `json:"plan"`
}

// SubscriptionUsage — использование заявок в текущем периоде.
type SubscriptionUsage struct {
	PlanName        string     `json:"planName"`
	IncludedClaims  *int       `json:"includedClaims"`
	ClaimsUsed      int        `json:"claimsUsed"`
	ClaimsRemaining *int       `json:"claimsRemaining"`
	OverageClaims   int        `json:"overageClaims"`
	IsUnlimited     bool       `json:"isUnlimited"`
	PeriodStart     *time.Time `json:"periodStart"`
	PeriodEnd       *time.Time `json:"periodEnd"`
}

// PaymentMethod — сохранённая карта.
type PaymentMethod struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	StripePaymentMethodID string    `json:"stripePaymentMethodId"`
	StripeCustomerID      string    `json:"stripeCustomerId"`
	CardBrand             *string   `json:"cardBrand"`
	CardLast4             *string   `json:"cardLast4"`
	CardExpMonth          *int      `json:"cardExpMonth"`
	CardExpYear           *int      `json:"cardExpYear"`
	IsDefault             bool      `json:"isDefault"`
	CreatedAt             time.Time `json:"createdAt"`
}

// PaygSettings — настройки оплаты за заявку.
type PaygSettings struct {
	IsEnabled         bool            `json:"isEnabled"`
	PricePerClaim     decimal.Decimal `json:"pricePerClaim"`
	FreeClaimsPerUser int             `json:"freeClaimsPerUser"`
}

// PaygStats — статистика покупок заявок.
type PaygStats struct {
	TotalPurchases  int             `json:"totalPurchases"`
	TotalSpent      float64         `json:"totalSpent"`
	ClaimsPurchased int             `json:"claimsPurchased"`
	ClaimsUsed      int             `json:"claimsUsed"`
	ClaimsTotal     int             `json:"claimsTotal"`
	ClaimsRemaining int             `json:"claimsRemaining"`
	PricePerClaim   decimal.Decimal `json:"pricePerClaim"`
}

// CanSubmitResponse — можно ли подать ещё одну заявку.
type CanSubmitResponse struct {
	CanSubmit       bool    `json:"canSubmit"`
	Reason          *string `json:"reason,omitempty"`
	ClaimsRemaining *int    `json:"claimsRemaining,omitempty"`
}

// PurchaseResult — результат покупки заявки.
type PurchaseResult struct {
	Success              bool    `json:"success"`
	UsedPlanClaim        *bool   `json:"usedPlanClaim,omitempty"`
	ClaimsRemaining      *int    `json:"claimsRemaining,omitempty"`
	Message              *string `json:"message,omitempty"`
	RequiresPaymentSetup *bool   `json:"requiresPaymentSetup,omitempty"`
}

// SetupIntent — данные для привязки карты.
type SetupIntent struct {
	ClientSecret string `json:"clientSecret"`
	CustomerID   string `json:"customerId"`
}

// RedirectURL — ссылка на страницу платёжного провайдера.
type RedirectURL struct {
	URL string `json:"url"`
}

// Message — текстовый ответ апстрима.
type Message struct {
	Message string `json:"message"`
}
