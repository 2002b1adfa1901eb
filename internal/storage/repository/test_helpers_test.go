package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/settlement-gateway/internal/migrations"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его id
func (f *TestDataFactory) CreateUser(t *testing.T, subject, email string) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO users (supabase_user_id, email)
		VALUES ($1, $2) RETURNING id`, subject, email).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestSettlementData содержит данные тестового соглашения
type TestSettlementData struct {
	Title         string
	Slug          string
	Category      string
	Brands        []string
	PayoutMin     *decimal.Decimal
	PayoutMax     *decimal.Decimal
	ClaimDeadline *time.Time
}

// GetTestSettlementData возвращает стандартные данные соглашения с уникальным slug
func GetTestSettlementData() TestSettlementData {
	low := decimal.NewFromInt(10)
	high := decimal.NewFromInt(50)
	deadline := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	return TestSettlementData{
		Title:         "Acme Data Breach",
		Slug:          "acme-data-breach-" + uuid.NewString()[:8],
		Category:      "Data Breach",
		Brands:        []string{"Acme", "Acme Cloud"},
		PayoutMin:     &low,
		PayoutMax:     &high,
		ClaimDeadline: &deadline,
	}
}

// CreateSettlement создает тестовое соглашение и возвращает его id
func (f *TestDataFactory) CreateSettlement(t *testing.T, data TestSettlementData) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO settlements
		(title, slug, category, brands, payout_min_estimate, payout_max_estimate, claim_deadline, key_requirements)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		data.Title, data.Slug, data.Category, data.Brands,
		nullDecimal(data.PayoutMin), nullDecimal(data.PayoutMax), nullTime(data.ClaimDeadline),
		[]string{"Proof of purchase"}).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateClaim создает заявку напрямую, с заданным статусом и временем создания
func (f *TestDataFactory) CreateClaim(t *testing.T, userID, settlementID, status string, createdAt time.Time) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO user_settlements (user_id, settlement_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4) RETURNING id`,
		userID, settlementID, status, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyClaimCount проверяет количество заявок пользователя по соглашению
func (v *TestVerification) VerifyClaimCount(t *testing.T, userID, settlementID string, expected int) {
	var count int
	err := v.storage.DB.QueryRow(`SELECT COUNT(*) FROM user_settlements
		WHERE user_id = $1 AND settlement_id = $2`, userID, settlementID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyUserCount проверяет количество пользователей с данным subject
func (v *TestVerification) VerifyUserCount(t *testing.T, subject string, expected int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE supabase_user_id = $1", subject).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err, "failed to create storage")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}
