package service

import (
	"context"

	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditSavePoint = "audit_log"

// AuditService records who changed what. Writes share the caller's
// transaction; a failed audit insert is logged and never fails the caller.
type AuditService interface {
	LogAction(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string)
	LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{})
	LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{})
	LogDelete(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{})
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string) {
	s.record(ctx, tx, actorID, action, entityName, entityID, nil, nil)
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) {
	s.record(ctx, tx, actorID, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) {
	s.record(ctx, tx, actorID, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) {
	s.record(ctx, tx, actorID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) record(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	auditLog := &entity.AuditLog{
		UserID: actorID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	// Postgres aborts the whole transaction on a failed statement, so the
	// insert runs behind a savepoint when a transaction is open.
	savepoint := false
	if isTransaction(tx) {
		if err := tx.SavePoint(auditSavePoint).Error; err != nil {
			s.log.Debugf("Audit savepoint unavailable: %+v", err)
		} else {
			savepoint = true
		}
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{"action": action, "entity": entityName}).
			Warnf("Failed to create audit log: %+v", err)
		if savepoint {
			if rbErr := tx.RollbackTo(auditSavePoint).Error; rbErr != nil {
				s.log.Warnf("Failed to roll back audit savepoint: %+v", rbErr)
			}
		}
	}
}

func isTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}
