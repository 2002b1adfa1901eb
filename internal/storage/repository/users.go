package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// FindUserIDByExternalID возвращает внутренний id пользователя по subject сервиса авторизации.
func (s *Storage) FindUserIDByExternalID(ctx context.Context, subject string) (string, error) {
	const op = "storage.FindUserIDByExternalID"
	if err := checkContext(ctx, op); err != nil {
		return "", err
	}

	var id string
	query := `SELECT id FROM users WHERE supabase_user_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, subject).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

// ProvisionUser атомарно создаёт пользователя для subject, если его ещё нет,
// и возвращает внутренний id. Параллельные вызовы для одного subject дают одну запись.
func (s *Storage) ProvisionUser(ctx context.Context, subject, email string) (string, error) {
	const op = "storage.ProvisionUser"
	if err := checkContext(ctx, op); err != nil {
		return "", err
	}

	var id string
	query := `INSERT INTO users (supabase_user_id, email)
			  VALUES ($1, $2)
			  ON CONFLICT (supabase_user_id)
			  DO UPDATE SET supabase_user_id = EXCLUDED.supabase_user_id
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, subject, email).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByID возвращает пользователя по внутреннему id.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, supabase_user_id, email, first_name, last_name, is_admin, is_lawyer,
			      referral_code, has_completed_onboarding, free_claims_used, account_status,
			      created_at, updated_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	var firstName, lastName, referralCode sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.ExternalSubjectID, &u.Email,
		&firstName, &lastName, &u.IsAdmin, &u.IsLawyer, &referralCode, &u.HasCompletedOnboarding,
		&u.FreeClaimsUsed, &u.AccountStatus, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	u.FirstName = stringPtr(firstName)
	u.LastName = stringPtr(lastName)
	u.ReferralCode = stringPtr(referralCode)
	u.CreatedAt = timePtr(createdAt)
	u.UpdatedAt = timePtr(updatedAt)
	return u, nil
}
