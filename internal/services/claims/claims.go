// Package claims содержит бизнес-логику заявок пользователя: владение, идемпотентное
// сохранение, частичное обновление, удаление и сводку для дашборда.
package claims

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/settlement-gateway/internal/identity"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/settlement-gateway/internal/models"
	"github.com/magabrotheeeer/settlement-gateway/internal/storage"
)

// Repository определяет методы работы с заявками в хранилище.
type Repository interface {
	ListClaimsByUser(ctx context.Context, userID string) ([]*models.UserSettlement, error)
	GetClaimBySettlement(ctx context.Context, userID, settlementID string) (*models.UserSettlement, error)
	CreateClaimIfAbsent(ctx context.Context, userID string,
		req models.CreateUserSettlementRequest) (*models.UserSettlement, bool, error)
	UpdateClaim(ctx context.Context, userID, id string, patch models.UserSettlementPatch,
		now time.Time) (*models.UserSettlement, error)
	DeleteClaim(ctx context.Context, userID, id string) (*models.UserSettlement, error)
	ClaimExists(ctx context.Context, id string) (bool, error)
	ListClaimStatsRows(ctx context.Context, userID string) ([]models.ClaimStatsRow, error)
}

// Provisioner создаёт запись пользователя при первой записи.
type Provisioner interface {
	EnsureUser(ctx context.Context, id identity.Identity) (string, error)
}

// EventPublisher публикует события жизненного цикла заявок.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ClaimEvent) error
}

// Service реализует операции над заявками пользователя.
type Service struct {
	repo        Repository
	provisioner Provisioner
	events      EventPublisher
	log         *slog.Logger
	now         func() time.Time
}

// NewService создает Service. events может быть nil: тогда события не публикуются.
func NewService(repo Repository, provisioner Provisioner, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		provisioner: provisioner,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apierr.NotFound(msg)
	}
	return err
}

// List возвращает заявки пользователя, новые первыми.
func (s *Service) List(ctx context.Context, id identity.Identity) ([]*models.UserSettlement, error) {
	switch id.Status {
	case identity.Unauthenticated:
		return nil, apierr.Unauthenticated()
	case identity.Unprovisioned:
		return []*models.UserSettlement{}, nil
	}
	return s.repo.ListClaimsByUser(ctx, id.UserID)
}

// GetBySettlement возвращает заявку пользователя по соглашению.
func (s *Service) GetBySettlement(ctx context.Context, id identity.Identity, settlementID string) (*models.UserSettlement, error) {
	const notFound = "User settlement not found"
	switch {
	case id.Status == identity.Unauthenticated:
		return nil, apierr.Unauthenticated()
	case id.Status == identity.Unprovisioned, !validID(settlementID):
		return nil, apierr.NotFound(notFound)
	}

	claim, err := s.repo.GetClaimBySettlement(ctx, id.UserID, settlementID)
	if err != nil {
		return nil, notFoundOr(err, notFound)
	}
	return claim, nil
}

// Create сохраняет соглашение в заявки пользователя. Если заявка уже есть,
// она возвращается без изменений и created=false.
func (s *Service) Create(ctx context.Context, id identity.Identity,
	req models.CreateUserSettlementRequest) (claim *models.UserSettlement, created bool, err error) {
	const op = "services.claims.Create"

	if !id.Authenticated() {
		return nil, false, apierr.Unauthenticated()
	}
	if req.SettlementID == "" {
		return nil, false, apierr.Validation("settlementId is required")
	}
	if !validID(req.SettlementID) {
		return nil, false, apierr.NotFound("Settlement not found")
	}

	userID, err := s.provisioner.EnsureUser(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	claim, created, err = s.repo.CreateClaimIfAbsent(ctx, userID, req)
	if err != nil {
		return nil, false, notFoundOr(err, "Settlement not found")
	}

	if created {
		s.log.Info("claim created",
			slog.String("op", op),
			slog.String("claim_id", claim.ID),
			slog.String("settlement_id", claim.SettlementID),
		)
		s.publish(ctx, models.ClaimCreated, claim)
	}
	return claim, created, nil
}

// Update применяет частичное обновление к заявке владельца.
func (s *Service) Update(ctx context.Context, id identity.Identity, claimID string,
	patch models.UserSettlementPatch) (*models.UserSettlement, error) {
	const notFound = "User settlement not found"

	switch {
	case id.Status == identity.Unauthenticated:
		return nil, apierr.Unauthenticated()
	case id.Status == identity.Unprovisioned, !validID(claimID):
		return nil, apierr.NotFound(notFound)
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, apierr.Validation("invalid status")
	}

	claim, err := s.repo.UpdateClaim(ctx, id.UserID, claimID, patch, s.now())
	if err != nil {
		return nil, notFoundOr(err, notFound)
	}
	s.publish(ctx, models.ClaimUpdated, claim)
	return claim, nil
}

// Delete удаляет заявку владельца.
//
// Ответы для отсутствующей и для чужой заявки различаются намеренно: повторный
// DELETE своей заявки обязан снова дать 204 (удаление идемпотентно), а чужая
// заявка, как и в Update, отвечает «не найдено» и не меняется. Объединить их
// в 404 нельзя, не сломав идемпотентность, а в 204 нельзя, не скрыв отказ
// владельца.
func (s *Service) Delete(ctx context.Context, id identity.Identity, claimID string) error {
	const op = "services.claims.Delete"
	const notFound = "User settlement not found"

	switch {
	case id.Status == identity.Unauthenticated:
		return apierr.Unauthenticated()
	case !validID(claimID):
		return apierr.NotFound(notFound)
	}

	if id.Status == identity.Resolved {
		deleted, err := s.repo.DeleteClaim(ctx, id.UserID, claimID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if deleted != nil {
			s.publish(ctx, models.ClaimDeleted, deleted)
			return nil
		}
	}

	exists, err := s.repo.ClaimExists(ctx, claimID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return apierr.NotFound(notFound)
	}
	return nil
}

// Stats возвращает сводку по заявкам. Для анонима и пользователя без записи возвращаются нули.
func (s *Service) Stats(ctx context.Context, id identity.Identity) (models.DashboardStats, error) {
	if id.Status != identity.Resolved {
		return models.DashboardStats{}, nil
	}
	rows, err := s.repo.ListClaimStatsRows(ctx, id.UserID)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return ComputeStats(rows, s.now()), nil
}

func validStatus(st models.ClaimStatus) bool {
	switch st {
	case models.ClaimNotFiled, models.ClaimFiledPending, models.ClaimPaid, models.ClaimRejected, models.ClaimUnknown:
		return true
	}
	return false
}

func (s *Service) publish(ctx context.Context, typ models.ClaimEventType, claim *models.UserSettlement) {
	if s.events == nil {
		return
	}
	event := models.ClaimEvent{
		Type:         typ,
		ClaimID:      claim.ID,
		UserID:       claim.UserID,
		SettlementID: claim.SettlementID,
		Status:       claim.Status,
		OccurredAt:   s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish claim event",
			slog.String("type", string(typ)),
			slog.String("claim_id", claim.ID),
			sl.Err(err),
		)
	}
}
