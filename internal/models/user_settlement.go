package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus — статус заявки пользователя.
type ClaimStatus string

const (
	ClaimNotFiled     ClaimStatus = "NOT_FILED"
	ClaimFiledPending ClaimStatus = "FILED_PENDING"
	ClaimPaid         ClaimStatus = "PAID"
	ClaimRejected     ClaimStatus = "REJECTED"
	ClaimUnknown      ClaimStatus = "UNKNOWN"
)

// Active сообщает, что заявка ещё в работе.
func (s ClaimStatus) Active() bool {
	return s == ClaimNotFiled || s == ClaimFiledPending
}

// EligibilityResult — итог анкеты.
type EligibilityResult string

const (
	EligibilityLikely   EligibilityResult = "LIKELY"
	EligibilityPossible EligibilityResult = "POSSIBLE"
	EligibilityUnlikely EligibilityResult = "UNLIKELY"
)

// UserSettlement — заявка пользователя на выплату по соглашению.
// Принадлежит ровно одному пользователю; на пару (пользователь, соглашение) — не больше одной.
type UserSettlement struct {
	ID                      string             `json:"id"`
	UserID                  string             `json:"userId"`
	SettlementID            string             `json:"settlementId"`
	EligibilityResult       *EligibilityResult `json:"eligibilityResult,omitempty"`
	EligibilityAnswers      map[string]string  `json:"eligibilityAnswers,omitempty"`
	Status                  ClaimStatus        `json:"status"`
	ClaimConfirmationNumber *string            `json:"claimConfirmationNumber,omitempty"`
	FiledAt                 *time.Time         `json:"filedAt,omitempty"`
	PayoutAmount            *decimal.Decimal   `json:"payoutAmount,omitempty"`
	PayoutReceivedAt        *time.Time         `json:"payoutReceivedAt,omitempty"`
	Notes                   *string            `json:"notes,omitempty"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
	Settlement              *Settlement        `json:"settlement,omitempty"`
}

// CreateUserSettlementRequest — тело POST /api/user-settlements.
type CreateUserSettlementRequest struct {
	SettlementID       string             `json:"settlementId" validate:"required"`
	EligibilityResult  *EligibilityResult `json:"eligibilityResult,omitempty" validate:"omitempty,oneof=LIKELY POSSIBLE UNLIKELY"`
	EligibilityAnswers map[string]string  `json:"eligibilityAnswers,omitempty"`
}

// UserSettlementPatch — частичное обновление заявки. Содержит только изменяемые поля:
// id, userId, settlementId и createdAt из тела запроса сюда не попадают.
type UserSettlementPatch struct {
	Status                  *ClaimStatus     `json:"status,omitempty" validate:"omitempty,oneof=NOT_FILED FILED_PENDING PAID REJECTED UNKNOWN"`
	ClaimConfirmationNumber *string          `json:"claimConfirmationNumber,omitempty"`
	FiledAt                 *time.Time       `json:"filedAt,omitempty"`
	PayoutAmount            *decimal.Decimal `json:"payoutAmount,omitempty"`
	PayoutReceivedAt        *time.Time       `json:"payoutReceivedAt,omitempty"`
	Notes                   *string          `json:"notes,omitempty"`
}

// ClaimStatsRow — данные одной заявки, нужные для сводки на дашборде.
type ClaimStatsRow struct {
	Status            ClaimStatus
	PayoutAmount      *decimal.Decimal
	PayoutMinEstimate *decimal.Decimal
	PayoutMaxEstimate *decimal.Decimal
	ClaimDeadline     *time.Time
}

// DashboardStats — сводка по заявкам пользователя.
type DashboardStats struct {
	TotalClaims          int     `json:"totalClaims"`
	ActiveClaims         int     `json:"activeClaims"`
	TotalEstimatedPayout float64 `json:"totalEstimatedPayout"`
	TotalReceived        float64 `json:"totalReceived"`
	UpcomingDeadlines    int     `json:"upcomingDeadlines"`
}

// ClaimEventType — тип события жизненного цикла заявки.
type ClaimEventType string

const (
	ClaimCreated ClaimEventType = "claim.created"
	ClaimUpdated ClaimEventType = "claim.updated"
	ClaimDeleted ClaimEventType = "claim.deleted"
)

// ClaimEvent — событие жизненного цикла заявки для внешних потребителей.
type ClaimEvent struct {
	Type         ClaimEventType `json:"type"`
	ClaimID      string         `json:"claimId"`
	UserID       string         `json:"userId"`
	SettlementID string         `json:"settlementId,omitempty"`
	Status       ClaimStatus    `json:"status,omitempty"`
	OccurredAt   time.Time      `json:"occurredAt"`
}
