// Package models содержит доменные структуры шлюза: мировые соглашения (settlements),
// заявки пользователей на выплату, пользователей, вопросы анкеты и типы биллинга.
// Структуры используются в бизнес-логике, хранилище и клиентском API.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus — статус мирового соглашения.
type SettlementStatus string

const (
	SettlementOpen     SettlementStatus = "OPEN"
	SettlementExpiring SettlementStatus = "EXPIRING"
	SettlementClosed   SettlementStatus = "CLOSED"
	SettlementPaying   SettlementStatus = "PAYING"
	SettlementArchived SettlementStatus = "ARCHIVED"
)

// Settlement — программа выплат по коллективному иску. Создаётся в продакшн-системе,
// шлюз только читает её и встраивает в ответы по заявкам.
type Settlement struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Slug              string           `json:"slug"`
	Category          string           `json:"category"`
	Brands            []string         `json:"brands"`
	Country           string           `json:"country"`
	ShortDescription  string           `json:"shortDescription"`
	FullDescription   *string          `json:"fullDescription,omitempty"`
	DateRangeStart    *time.Time       `json:"dateRangeStart,omitempty"`
	DateRangeEnd      *time.Time       `json:"dateRangeEnd,omitempty"`
	ClaimDeadline     *time.Time       `json:"claimDeadline,omitempty"`
	PayoutMinEstimate *decimal.Decimal `json:"payoutMinEstimate,omitempty"`
	PayoutMaxEstimate *decimal.Decimal `json:"payoutMaxEstimate,omitempty"`
	ProofRequired     bool             `json:"proofRequired"`
	ClaimWebsiteURL   *string          `json:"claimWebsiteUrl,omitempty"`
	ClaimFormURL      *string          `json:"claimFormUrl,omitempty"`
	Source            *string          `json:"source,omitempty"`
	SourceURL         *string          `json:"sourceUrl,omitempty"`
	LogoURL           *string          `json:"logoUrl,omitempty"`
	Status            SettlementStatus `json:"status"`
	KeyRequirements   []string         `json:"keyRequirements"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// SettlementFilter — параметры выборки списка соглашений.
type SettlementFilter struct {
	Search        string
	Category      string
	Status        string
	MinPayout     int
	MaxPayout     int
	ProofRequired *bool
	Limit         int
	Offset        int
}

// QuestionType — тип вопроса анкеты.
type QuestionType string

const (
	QuestionYesNo          QuestionType = "YES_NO"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// EligibilityQuestion — вопрос анкеты предварительной проверки права на выплату.
type EligibilityQuestion struct {
	ID           string       `json:"id"`
	SettlementID string       `json:"settlementId"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Options      []string     `json:"options"`
	Weight       int          `json:"weight"`
	OrderIndex   int          `json:"orderIndex"`
}

// CategoryWithCount — категория с количеством соглашений.
type CategoryWithCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
