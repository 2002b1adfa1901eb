package claims

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func at(t time.Time) *time.Time {
	return &t
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rows []models.ClaimStatsRow
		want models.DashboardStats
	}{
		{
			name: "no claims",
			rows: nil,
			want: models.DashboardStats{},
		},
		{
			name: "midpoint of both bounds",
			rows: []models.ClaimStatsRow{
				{Status: models.ClaimNotFiled, PayoutMinEstimate: dec("10"), PayoutMaxEstimate: dec("50")},
				{Status: models.ClaimFiledPending, PayoutMinEstimate: dec("5.50"), PayoutMaxEstimate: dec("6.50")},
			},
			want: models.DashboardStats{TotalClaims: 2, ActiveClaims: 2, TotalEstimatedPayout: 36},
		},
		{
			name: "single bound contributes nothing",
			rows: []models.ClaimStatsRow{
				{Status: models.ClaimNotFiled, PayoutMinEstimate: dec("100")},
				{Status: models.ClaimNotFiled, PayoutMaxEstimate: dec("200")},
			},
			want: models.DashboardStats{TotalClaims: 2, ActiveClaims: 2},
		},
		{
			name: "received counts only paid claims",
			rows: []models.ClaimStatsRow{
				{Status: models.ClaimPaid, PayoutAmount: dec("42.25")},
				{Status: models.ClaimRejected, PayoutAmount: dec("100")},
				{Status: models.ClaimPaid},
			},
			want: models.DashboardStats{TotalClaims: 3, TotalReceived: 42.25},
		},
		{
			name: "deadline window is open on both ends",
			rows: []models.ClaimStatsRow{
				{Status: models.ClaimUnknown, ClaimDeadline: at(now)},
				{Status: models.ClaimUnknown, ClaimDeadline: at(now.Add(time.Second))},
				{Status: models.ClaimUnknown, ClaimDeadline: at(now.Add(6 * 24 * time.Hour))},
				{Status: models.ClaimUnknown, ClaimDeadline: at(now.Add(UpcomingWindow))},
				{Status: models.ClaimUnknown, ClaimDeadline: at(now.Add(-time.Hour))},
				{Status: models.ClaimUnknown},
			},
			want: models.DashboardStats{TotalClaims: 6, UpcomingDeadlines: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.rows, now))
		})
	}
}

func TestComputeStats_ActiveNeverExceedsTotal(t *testing.T) {
	statuses := []models.ClaimStatus{
		models.ClaimNotFiled, models.ClaimFiledPending, models.ClaimPaid, models.ClaimRejected, models.ClaimUnknown,
	}
	var rows []models.ClaimStatsRow
	for i := range 25 {
		rows = append(rows, models.ClaimStatsRow{Status: statuses[i%len(statuses)]})
		got := ComputeStats(rows, time.Now())
		assert.LessOrEqual(t, got.ActiveClaims, got.TotalClaims)
		assert.Equal(t, len(rows), got.TotalClaims)
	}
}
