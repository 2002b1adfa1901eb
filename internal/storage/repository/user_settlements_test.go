package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
	"github.com/magabrotheeeer/settlement-gateway/internal/storage"
)

func TestStorage_ListClaimsByUser(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)

	userID := factory.CreateUser(t, uuid.NewString(), "list@example.com")
	otherID := factory.CreateUser(t, uuid.NewString(), "other@example.com")
	first := factory.CreateSettlement(t, GetTestSettlementData())
	second := factory.CreateSettlement(t, GetTestSettlementData())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := factory.CreateClaim(t, userID, first, "NOT_FILED", base)
	newer := factory.CreateClaim(t, userID, second, "PAID", base.Add(time.Hour))
	factory.CreateClaim(t, otherID, first, "NOT_FILED", base)

	got, err := s.ListClaimsByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer, got[0].ID)
	assert.Equal(t, older, got[1].ID)
	require.NotNil(t, got[0].Settlement)
	assert.Equal(t, second, got[0].Settlement.ID)
	assert.Equal(t, []string{"Acme", "Acme Cloud"}, got[0].Settlement.Brands)
	assert.Equal(t, []string{"Proof of purchase"}, got[0].Settlement.KeyRequirements)
	require.NotNil(t, got[0].Settlement.PayoutMinEstimate)
	assert.True(t, decimal.NewFromInt(10).Equal(*got[0].Settlement.PayoutMinEstimate))

	empty, err := s.ListClaimsByUser(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStorage_CreateClaimIfAbsent(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)
	verify := NewTestVerification(s)

	userID := factory.CreateUser(t, uuid.NewString(), "create@example.com")
	settlementID := factory.CreateSettlement(t, GetTestSettlementData())
	likely := models.EligibilityLikely

	req := models.CreateUserSettlementRequest{
		SettlementID:       settlementID,
		EligibilityResult:  &likely,
		EligibilityAnswers: map[string]string{"q1": "yes"},
	}
	claim, created, err := s.CreateClaimIfAbsent(context.Background(), userID, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.ClaimNotFiled, claim.Status)
	assert.Equal(t, userID, claim.UserID)
	require.NotNil(t, claim.EligibilityResult)
	assert.Equal(t, models.EligibilityLikely, *claim.EligibilityResult)
	assert.Equal(t, map[string]string{"q1": "yes"}, claim.EligibilityAnswers)
	require.NotNil(t, claim.Settlement)
	assert.Equal(t, settlementID, claim.Settlement.ID)

	again, created, err := s.CreateClaimIfAbsent(context.Background(), userID,
		models.CreateUserSettlementRequest{SettlementID: settlementID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, claim.ID, again.ID)
	require.NotNil(t, again.EligibilityResult)
	verify.VerifyClaimCount(t, userID, settlementID, 1)

	_, _, err = s.CreateClaimIfAbsent(context.Background(), userID,
		models.CreateUserSettlementRequest{SettlementID: uuid.NewString()})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_CreateClaimIfAbsent_Concurrent(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)

	userID := factory.CreateUser(t, uuid.NewString(), "race@example.com")
	settlementID := factory.CreateSettlement(t, GetTestSettlementData())

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[string]struct{}{}
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim, isNew, err := s.CreateClaimIfAbsent(context.Background(), userID,
				models.CreateUserSettlementRequest{SettlementID: settlementID})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if isNew {
				created++
			}
			ids[claim.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	NewTestVerification(s).VerifyClaimCount(t, userID, settlementID, 1)
}

func TestStorage_GetClaimBySettlement(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)

	userID := factory.CreateUser(t, uuid.NewString(), "get@example.com")
	settlementID := factory.CreateSettlement(t, GetTestSettlementData())
	claimID := factory.CreateClaim(t, userID, settlementID, "FILED_PENDING", time.Now())

	got, err := s.GetClaimBySettlement(context.Background(), userID, settlementID)
	require.NoError(t, err)
	assert.Equal(t, claimID, got.ID)
	assert.Equal(t, models.ClaimFiledPending, got.Status)

	_, err = s.GetClaimBySettlement(context.Background(), uuid.NewString(), settlementID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_UpdateClaim(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)

	userID := factory.CreateUser(t, uuid.NewString(), "owner@example.com")
	strangerID := factory.CreateUser(t, uuid.NewString(), "stranger@example.com")
	settlementID := factory.CreateSettlement(t, GetTestSettlementData())
	claimID := factory.CreateClaim(t, userID, settlementID, "NOT_FILED", time.Now().Add(-time.Hour))

	paid := models.ClaimPaid
	amount := decimal.RequireFromString("42.50")
	notes := "check arrived"
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name    string
		userID  string
		id      string
		patch   models.UserSettlementPatch
		wantErr error
		check   func(t *testing.T, got *models.UserSettlement)
	}{
		{
			name:   "owner updates whitelisted fields",
			userID: userID,
			id:     claimID,
			patch:  models.UserSettlementPatch{Status: &paid, PayoutAmount: &amount, Notes: &notes},
			check: func(t *testing.T, got *models.UserSettlement) {
				assert.Equal(t, models.ClaimPaid, got.Status)
				require.NotNil(t, got.PayoutAmount)
				assert.True(t, amount.Equal(*got.PayoutAmount))
				require.NotNil(t, got.Notes)
				assert.Equal(t, notes, *got.Notes)
				assert.True(t, now.Equal(got.UpdatedAt))
				assert.Equal(t, settlementID, got.SettlementID)
			},
		},
		{
			name:   "absent fields stay unchanged",
			userID: userID,
			id:     claimID,
			patch:  models.UserSettlementPatch{},
			check: func(t *testing.T, got *models.UserSettlement) {
				assert.Equal(t, models.ClaimPaid, got.Status)
				require.NotNil(t, got.Notes)
			},
		},
		{
			name:    "stranger cannot update",
			userID:  strangerID,
			id:      claimID,
			patch:   models.UserSettlementPatch{Status: &paid},
			wantErr: storage.ErrNotFound,
		},
		{
			name:    "missing claim",
			userID:  userID,
			id:      uuid.NewString(),
			patch:   models.UserSettlementPatch{Status: &paid},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.UpdateClaim(context.Background(), tt.userID, tt.id, tt.patch, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestStorage_DeleteClaim(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)
	verify := NewTestVerification(s)

	userID := factory.CreateUser(t, uuid.NewString(), "delete@example.com")
	strangerID := factory.CreateUser(t, uuid.NewString(), "stranger@example.com")
	settlementID := factory.CreateSettlement(t, GetTestSettlementData())
	claimID := factory.CreateClaim(t, userID, settlementID, "NOT_FILED", time.Now())

	deleted, err := s.DeleteClaim(context.Background(), strangerID, claimID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
	verify.VerifyClaimCount(t, userID, settlementID, 1)

	exists, err := s.ClaimExists(context.Background(), claimID)
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err = s.DeleteClaim(context.Background(), userID, claimID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, settlementID, deleted.SettlementID)
	verify.VerifyClaimCount(t, userID, settlementID, 0)

	deleted, err = s.DeleteClaim(context.Background(), userID, claimID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	exists, err = s.ClaimExists(context.Background(), claimID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_ListClaimStatsRows(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(s)

	userID := factory.CreateUser(t, uuid.NewString(), "stats@example.com")
	withBounds := factory.CreateSettlement(t, GetTestSettlementData())
	noMax := GetTestSettlementData()
	noMax.PayoutMax = nil
	noMax.ClaimDeadline = nil
	withoutMax := factory.CreateSettlement(t, noMax)

	factory.CreateClaim(t, userID, withBounds, "PAID", time.Now())
	factory.CreateClaim(t, userID, withoutMax, "NOT_FILED", time.Now())

	rows, err := s.ListClaimStatsRows(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byStatus := map[models.ClaimStatus]models.ClaimStatsRow{}
	for _, r := range rows {
		byStatus[r.Status] = r
	}
	paid := byStatus[models.ClaimPaid]
	require.NotNil(t, paid.PayoutMaxEstimate)
	require.NotNil(t, paid.ClaimDeadline)
	open := byStatus[models.ClaimNotFiled]
	assert.Nil(t, open.PayoutMaxEstimate)
	assert.NotNil(t, open.PayoutMinEstimate)
	assert.Nil(t, open.ClaimDeadline)
}

func TestCheckDatabaseReady(t *testing.T) {
	s, cleanup := setupTestDatabase(t)
	defer cleanup()

	require.NoError(t, CheckDatabaseReady(context.Background(), s))
}
