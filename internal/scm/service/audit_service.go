package service

import (
	"context"
	"time"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"go.uber.org/zap"
)

// AuditService appends audit entries for mutations. Best-effort: a failed
// write is logged and never blocks the mutation that triggered it.
type AuditService struct {
	repo   *repository.AuditRepository
	logger *zap.Logger
}

func NewAuditService(repo *repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Record(ctx context.Context, action, entityType, entityID, userID string) {
	log := &entity.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Timestamp:  time.Now(),
	}
	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
