package claims

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// UpcomingWindow — горизонт, в котором дедлайн считается ближайшим.
const UpcomingWindow = 7 * 24 * time.Hour

var two = decimal.NewFromInt(2)

// ComputeStats считает сводку по заявкам на момент now.
//
// Ожидаемая выплата по заявке — середина диапазона оценок соглашения и учитывается
// только при наличии обеих границ. Полученная сумма считается по заявкам в статусе PAID.
// Дедлайн считается ближайшим, если он строго позже now и строго раньше now+7 суток.
func ComputeStats(rows []models.ClaimStatsRow, now time.Time) models.DashboardStats {
	var (
		stats     models.DashboardStats
		estimated = decimal.Zero
		received  = decimal.Zero
		horizon   = now.Add(UpcomingWindow)
	)

	for _, r := range rows {
		stats.TotalClaims++
		if r.Status.Active() {
			stats.ActiveClaims++
		}
		if r.PayoutMinEstimate != nil && r.PayoutMaxEstimate != nil {
			estimated = estimated.Add(r.PayoutMinEstimate.Add(*r.PayoutMaxEstimate).Div(two))
		}
		if r.Status == models.ClaimPaid && r.PayoutAmount != nil {
			received = received.Add(*r.PayoutAmount)
		}
		if r.ClaimDeadline != nil && r.ClaimDeadline.After(now) && r.ClaimDeadline.Before(horizon) {
			stats.UpcomingDeadlines++
		}
	}

	stats.TotalEstimatedPayout = estimated.InexactFloat64()
	stats.TotalReceived = received.InexactFloat64()
	return stats
}
