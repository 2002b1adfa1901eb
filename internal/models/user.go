package models

import "time"

// AccountStatus — статус учётной записи.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountBanned    AccountStatus = "banned"
)

// User — внутренняя запись пользователя, связанная один к одному
// с внешней учётной записью сервиса авторизации через ExternalSubjectID.
type User struct {
	ID                     string        `json:"id"`
	ExternalSubjectID      string        `json:"-"`
	Email                  string        `json:"email"`
	FirstName              *string       `json:"firstName,omitempty"`
	LastName               *string       `json:"lastName,omitempty"`
	IsAdmin                bool          `json:"isAdmin"`
	IsLawyer               bool          `json:"isLawyer"`
	ReferralCode           *string       `json:"referralCode,omitempty"`
	HasCompletedOnboarding bool          `json:"hasCompletedOnboarding"`
	FreeClaimsUsed         int           `json:"freeClaimsUsed"`
	AccountStatus          AccountStatus `json:"accountStatus"`
	CreatedAt              *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt              *time.Time    `json:"updatedAt,omitempty"`
}

// Principal — личность, подтверждённая сервисом авторизации.
type Principal struct {
	Subject string
	Email   string
}

// UserProfile — настройки пользователя: предпочтения и почтовые уведомления.
type UserProfile struct {
	ID                     string   `json:"id"`
	UserID                 string   `json:"userId"`
	PreferredCategories    []string `json:"preferredCategories"`
	PreferredBrands        []string `json:"preferredBrands"`
	EmailDeadlineReminders bool     `json:"emailDeadlineReminders"`
	EmailNewSettlements    bool     `json:"emailNewSettlements"`
	EmailClaimUpdates      bool     `json:"emailClaimUpdates"`
	EmailWeeklyDigest      bool     `json:"emailWeeklyDigest"`
}
