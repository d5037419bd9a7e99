package usecase

import (
	"context"
	"strings"

	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, actor Actor, query dto.AuditLogListQuery) (*dto.ListResponse[dto.AuditLogResponse], error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, actor Actor, query dto.AuditLogListQuery) (*dto.ListResponse[dto.AuditLogResponse], error) {
	if err := requireCapability(actor, entity.CapViewAuditLog); err != nil {
		return nil, err
	}

	filter := entity.AuditLogFilter{
		Action: strings.TrimSpace(query.Action),
		Page:   toPage(query.PageQuery),
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return newList(converter.AuditLogsToResponses(logs), total, query.PageQuery), nil
}
