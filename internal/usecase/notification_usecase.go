package usecase

import (
	"context"
	"strings"

	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"
	"go-therapy-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationUsecase interface {
	ListNotifications(ctx context.Context, actor Actor, query dto.NotificationListQuery) (*dto.ListResponse[dto.NotificationResponse], error)
	CreateNotification(ctx context.Context, actor Actor, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	GetNotification(ctx context.Context, actor Actor, id uuid.UUID) (*dto.NotificationResponse, error)
	UpdateNotification(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateNotificationRequest) (*dto.NotificationResponse, error)
	DeleteNotification(ctx context.Context, actor Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor Actor) (*dto.MarkAllReadResponse, error)
}

type notificationUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	notificationRepo    repository.NotificationRepository
	userRepo            repository.UserRepository
	notificationService service.NotificationService
	auditService        service.AuditService
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	notificationService service.NotificationService,
	auditService service.AuditService,
) NotificationUsecase {
	return &notificationUsecase{
		db:                  db,
		log:                 log,
		notificationRepo:    notificationRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

func (u *notificationUsecase) ListNotifications(ctx context.Context, actor Actor, query dto.NotificationListQuery) (*dto.ListResponse[dto.NotificationResponse], error) {
	filter := entity.NotificationFilter{
		UserID:     actor.ID,
		UnreadOnly: query.UnreadOnly,
		Page:       toPage(query.PageQuery),
	}

	notifications, total, err := u.notificationRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, err
	}

	return newList(converter.NotificationsToResponses(notifications), total, query.PageQuery), nil
}

func (u *notificationUsecase) CreateNotification(ctx context.Context, actor Actor, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if err := requireCapability(actor, entity.CapManageNotifications); err != nil {
		return nil, err
	}

	notificationType := entity.NotificationTypeGeneral
	if req.Type != "" {
		notificationType = entity.NotificationType(req.Type)
		if !notificationType.Valid() {
			return nil, newValidationError("type", "type must be one of general, session, message, alert, system")
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	userID := actor.ID
	if strings.TrimSpace(req.UserID) != "" {
		id, err := parseID("user_id", req.UserID)
		if err != nil {
			return nil, err
		}
		user, err := u.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return nil, err
		}
		if user == nil {
			return nil, newValidationError("user_id", "user_id references an unknown user")
		}
		userID = id
	}

	notification, err := u.notificationService.Notify(ctx, tx, userID, notificationType, strings.TrimSpace(req.Subject), req.Content, req.Link)
	if err != nil {
		return nil, err
	}

	res := converter.NotificationToResponse(notification)
	u.auditService.LogCreate(ctx, tx, &actor.ID, entity.AuditActionNotificationCreate, "notification", notification.ID.String(), res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notificationService.Delivered(notification)

	return res, nil
}

func (u *notificationUsecase) GetNotification(ctx context.Context, actor Actor, id uuid.UUID) (*dto.NotificationResponse, error) {
	notification, err := u.findNotification(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	if err := canAccessNotification(actor, notification); err != nil {
		return nil, err
	}

	return converter.NotificationToResponse(notification), nil
}

func (u *notificationUsecase) UpdateNotification(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateNotificationRequest) (*dto.NotificationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	notification, err := u.findNotification(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccessNotification(actor, notification); err != nil {
		return nil, err
	}

	// Owners may only toggle read; the content belongs to whoever sent it.
	touchesContent := req.Type != nil || req.Subject != nil || req.Content != nil || req.Link != nil
	if touchesContent && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	oldValue := converter.NotificationToResponse(notification)

	if req.Read != nil {
		notification.Read = *req.Read
	}
	if req.Type != nil {
		notificationType := entity.NotificationType(*req.Type)
		if !notificationType.Valid() {
			return nil, newValidationError("type", "type must be one of general, session, message, alert, system")
		}
		notification.Type = notificationType
	}
	if req.Subject != nil {
		notification.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Content != nil {
		notification.Content = *req.Content
	}
	if req.Link != nil {
		if *req.Link == "" {
			notification.Link = nil
		} else {
			notification.Link = req.Link
		}
	}

	if err := u.notificationRepo.Update(ctx, tx, notification); err != nil {
		u.log.Warnf("Failed to update notification: %+v", err)
		return nil, err
	}

	res := converter.NotificationToResponse(notification)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionNotificationUpdate, "notification", id.String(), oldValue, res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

func (u *notificationUsecase) DeleteNotification(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	notification, err := u.findNotification(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := canAccessNotification(actor, notification); err != nil {
		return err
	}

	if _, err := u.notificationRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete notification: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, &actor.ID, entity.AuditActionNotificationDelete, "notification", id.String(), converter.NotificationToResponse(notification))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, actor Actor) (*dto.MarkAllReadResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	updated, err := u.notificationRepo.MarkAllRead(ctx, tx, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return nil, err
	}
	if updated == 0 {
		return &dto.MarkAllReadResponse{Updated: 0}, nil
	}

	u.auditService.LogAction(ctx, tx, &actor.ID, entity.AuditActionNotificationReadAll, "notification", actor.ID.String())

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.MarkAllReadResponse{Updated: updated}, nil
}

func (u *notificationUsecase) findNotification(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	notification, err := u.notificationRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find notification: %+v", err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}
