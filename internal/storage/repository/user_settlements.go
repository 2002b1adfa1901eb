package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
	"github.com/magabrotheeeer/settlement-gateway/internal/storage"
)

const claimColumns = `
	us.id, us.user_id, us.settlement_id, us.eligibility_result, us.eligibility_answers,
	us.status, us.claim_confirmation_number, us.filed_at, us.payout_amount,
	us.payout_received_at, us.notes, us.created_at, us.updated_at,
	s.id, s.title, s.slug, s.category, s.brands, s.country, s.short_description,
	s.full_description, s.date_range_start, s.date_range_end, s.claim_deadline,
	s.payout_min_estimate, s.payout_max_estimate, s.proof_required, s.claim_website_url,
	s.claim_form_url, s.source, s.source_url, s.logo_url, s.status, s.key_requirements,
	s.created_at, s.updated_at`

const claimFrom = `
	FROM user_settlements us
	JOIN settlements s ON s.id = us.settlement_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanClaim(row rowScanner) (*models.UserSettlement, error) {
	c := &models.UserSettlement{Settlement: &models.Settlement{}}
	st := c.Settlement

	var (
		eligibilityResult, confirmation, notes      sql.NullString
		answers                                     []byte
		filedAt, payoutReceivedAt                   sql.NullTime
		payoutAmount                                decimal.NullDecimal
		fullDescription, website, form, source      sql.NullString
		sourceURL, logoURL                          sql.NullString
		dateRangeStart, dateRangeEnd, claimDeadline sql.NullTime
		payoutMin, payoutMax                        decimal.NullDecimal
		brands, keyRequirements                     []string
	)

	err := row.Scan(
		&c.ID, &c.UserID, &c.SettlementID, &eligibilityResult, &answers,
		&c.Status, &confirmation, &filedAt, &payoutAmount,
		&payoutReceivedAt, &notes, &c.CreatedAt, &c.UpdatedAt,
		&st.ID, &st.Title, &st.Slug, &st.Category, s.types.SQLScanner(&brands), &st.Country, &st.ShortDescription,
		&fullDescription, &dateRangeStart, &dateRangeEnd, &claimDeadline,
		&payoutMin, &payoutMax, &st.ProofRequired, &website,
		&form, &source, &sourceURL, &logoURL, &st.Status, s.types.SQLScanner(&keyRequirements),
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if eligibilityResult.Valid {
		r := models.EligibilityResult(eligibilityResult.String)
		c.EligibilityResult = &r
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &c.EligibilityAnswers); err != nil {
			return nil, fmt.Errorf("decode eligibility answers: %w", err)
		}
	}
	c.ClaimConfirmationNumber = stringPtr(confirmation)
	c.FiledAt = timePtr(filedAt)
	c.PayoutAmount = decimalPtr(payoutAmount)
	c.PayoutReceivedAt = timePtr(payoutReceivedAt)
	c.Notes = stringPtr(notes)

	st.Brands = nonNil(brands)
	st.KeyRequirements = nonNil(keyRequirements)
	st.FullDescription = stringPtr(fullDescription)
	st.DateRangeStart = timePtr(dateRangeStart)
	st.DateRangeEnd = timePtr(dateRangeEnd)
	st.ClaimDeadline = timePtr(claimDeadline)
	st.PayoutMinEstimate = decimalPtr(payoutMin)
	st.PayoutMaxEstimate = decimalPtr(payoutMax)
	st.ClaimWebsiteURL = stringPtr(website)
	st.ClaimFormURL = stringPtr(form)
	st.Source = stringPtr(source)
	st.SourceURL = stringPtr(sourceURL)
	st.LogoURL = stringPtr(logoURL)
	return c, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (s *Storage) getClaim(ctx context.Context, q queryRower, where string, args ...any) (*models.UserSettlement, error) {
	query := `SELECT ` + claimColumns + claimFrom + ` WHERE ` + where
	c, err := s.scanClaim(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// ListClaimsByUser возвращает заявки пользователя, новые первыми, со встроенным соглашением.
func (s *Storage) ListClaimsByUser(ctx context.Context, userID string) ([]*models.UserSettlement, error) {
	const op = "storage.ListClaimsByUser"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + claimColumns + claimFrom + `
			  WHERE us.user_id = $1
			  ORDER BY us.created_at DESC, us.id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]*models.UserSettlement, 0)
	for rows.Next() {
		c, err := s.scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetClaim возвращает заявку по id, если она принадлежит пользователю.
func (s *Storage) GetClaim(ctx context.Context, userID, id string) (*models.UserSettlement, error) {
	const op = "storage.GetClaim"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	c, err := s.getClaim(ctx, s.DB, `us.id = $1 AND us.user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// GetClaimBySettlement возвращает заявку пользователя по соглашению.
func (s *Storage) GetClaimBySettlement(ctx context.Context, userID, settlementID string) (*models.UserSettlement, error) {
	const op = "storage.GetClaimBySettlement"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	c, err := s.getClaim(ctx, s.DB, `us.user_id = $1 AND us.settlement_id = $2`, userID, settlementID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CreateClaimIfAbsent создаёт заявку со статусом NOT_FILED, если у пользователя ещё нет заявки
// по соглашению. Иначе возвращает существующую без изменений и created=false.
// Параллельные вызовы для одной пары сериализуются advisory-блокировкой транзакции.
func (s *Storage) CreateClaimIfAbsent(ctx context.Context, userID string,
	req models.CreateUserSettlementRequest) (claim *models.UserSettlement, created bool, err error) {
	const op = "storage.CreateClaimIfAbsent"
	if err := checkContext(ctx, op); err != nil {
		return nil, false, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`,
		userID, req.SettlementID); err != nil {
		return nil, false, fmt.Errorf("%s: lock: %w", op, err)
	}

	existing, err := s.getClaim(ctx, tx, `us.user_id = $1 AND us.settlement_id = $2`, userID, req.SettlementID)
	switch {
	case err == nil:
		if err = tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
		return existing, false, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var answers sql.NullString
	if req.EligibilityAnswers != nil {
		raw, err := json.Marshal(req.EligibilityAnswers)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
		answers = sql.NullString{String: string(raw), Valid: true}
	}
	var result sql.NullString
	if req.EligibilityResult != nil {
		result = sql.NullString{String: string(*req.EligibilityResult), Valid: true}
	}

	var id string
	insert := `INSERT INTO user_settlements (user_id, settlement_id, eligibility_result, eligibility_answers, status)
			   VALUES ($1, $2, $3, $4, $5)
			   RETURNING id`
	if err = tx.QueryRowContext(ctx, insert, userID, req.SettlementID, result, answers,
		string(models.ClaimNotFiled)).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			_ = tx.Rollback()
			existing, getErr := s.GetClaimBySettlement(ctx, userID, req.SettlementID)
			if getErr != nil {
				return nil, false, fmt.Errorf("%s: %w", op, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, mapError(err))
	}

	claim, err = s.getClaim(ctx, tx, `us.id = $1`, id)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return claim, true, nil
}

// UpdateClaim применяет частичное обновление к заявке пользователя.
// Поля, отсутствующие в patch, не меняются; updated_at ставится в now.
func (s *Storage) UpdateClaim(ctx context.Context, userID, id string,
	patch models.UserSettlementPatch, now time.Time) (*models.UserSettlement, error) {
	const op = "storage.UpdateClaim"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var status sql.NullString
	if patch.Status != nil {
		status = sql.NullString{String: string(*patch.Status), Valid: true}
	}

	query := `UPDATE user_settlements SET
			      status = COALESCE($3::text, status),
			      claim_confirmation_number = COALESCE($4::text, claim_confirmation_number),
			      filed_at = COALESCE($5::timestamptz, filed_at),
			      payout_amount = COALESCE($6::numeric, payout_amount),
			      payout_received_at = COALESCE($7::timestamptz, payout_received_at),
			      notes = COALESCE($8::text, notes),
			      updated_at = $9
			  WHERE id = $1 AND user_id = $2
			  RETURNING id`
	var updatedID string
	err := s.DB.QueryRowContext(ctx, query, id, userID,
		status,
		nullString(patch.ClaimConfirmationNumber),
		nullTime(patch.FiledAt),
		nullDecimal(patch.PayoutAmount),
		nullTime(patch.PayoutReceivedAt),
		nullString(patch.Notes),
		now,
	).Scan(&updatedID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	c, err := s.getClaim(ctx, s.DB, `us.id = $1 AND us.user_id = $2`, updatedID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteClaim удаляет заявку пользователя и возвращает удалённую строку.
// Отсутствие заявки ошибкой не является: в этом случае возвращается nil, nil.
func (s *Storage) DeleteClaim(ctx context.Context, userID, id string) (*models.UserSettlement, error) {
	const op = "storage.DeleteClaim"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `DELETE FROM user_settlements
			  WHERE id = $1 AND user_id = $2
			  RETURNING id, user_id, settlement_id, status`
	c := &models.UserSettlement{}
	err := s.DB.QueryRowContext(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.SettlementID, &c.Status)
	if err != nil {
		if errors.Is(mapError(err), storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListClaimStatsRows возвращает по каждой заявке пользователя данные для сводки.
func (s *Storage) ListClaimStatsRows(ctx context.Context, userID string) ([]models.ClaimStatsRow, error) {
	const op = "storage.ListClaimStatsRows"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT us.status, us.payout_amount, s.payout_min_estimate, s.payout_max_estimate, s.claim_deadline
			  FROM user_settlements us
			  JOIN settlements s ON s.id = us.settlement_id
			  WHERE us.user_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var res []models.ClaimStatsRow
	for rows.Next() {
		var (
			row                          models.ClaimStatsRow
			payout, payoutMin, payoutMax decimal.NullDecimal
			deadline                     sql.NullTime
		)
		if err := rows.Scan(&row.Status, &payout, &payoutMin, &payoutMax, &deadline); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		row.PayoutAmount = decimalPtr(payout)
		row.PayoutMinEstimate = decimalPtr(payoutMin)
		row.PayoutMaxEstimate = decimalPtr(payoutMax)
		row.ClaimDeadline = timePtr(deadline)
		res = append(res, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ClaimExists сообщает, есть ли заявка с таким id у любого пользователя.
func (s *Storage) ClaimExists(ctx context.Context, id string) (bool, error) {
	const op = "storage.ClaimExists"
	if err := checkContext(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_settlements WHERE id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		if errors.Is(mapError(err), storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
