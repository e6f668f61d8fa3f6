package service

import (
	"context"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService writes the human-readable audit trail. A failed write is
// logged but never fails the calling workflow.
type AuditService struct {
	repo repository.AuditLogRepository
	log  *zap.SugaredLogger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditLogRepository, log *zap.SugaredLogger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Record persists one audit entry keyed by actor, entity id and entity type
func (s *AuditService) Record(ctx context.Context, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, detail string) {
	entry := &entity.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Errorw("failed to write audit entry",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err)
	}
}
