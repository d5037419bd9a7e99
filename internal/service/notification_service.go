package service

import (
	"context"

	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"
	"go-therapy-platform/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService creates notifications as a side effect of other
// writes. It always runs on the caller's transaction so the notification
// commits or rolls back together with the triggering write.
type NotificationService interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationType entity.NotificationType, subject, content string, link *string) (*entity.Notification, error)
	// Delivered records notifications whose transaction has committed.
	Delivered(notifications ...*entity.Notification)
}

type notificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	metrics          *metrics.Metrics
}

func NewNotificationService(log *logrus.Logger, notificationRepo repository.NotificationRepository, m *metrics.Metrics) NotificationService {
	return &notificationService{
		log:              log,
		notificationRepo: notificationRepo,
		metrics:          m,
	}
}

func (s *notificationService) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationType entity.NotificationType, subject, content string, link *string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:  userID,
		Type:    notificationType,
		Subject: subject,
		Content: content,
		Link:    link,
	}

	if err := s.notificationRepo.Create(ctx, tx, notification); err != nil {
		s.log.Warnf("Failed to create notification: %+v", err)
		return nil, err
	}

	return notification, nil
}

func (s *notificationService) Delivered(notifications ...*entity.Notification) {
	for _, n := range notifications {
		if n == nil {
			continue
		}
		if s.metrics != nil {
			s.metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
		}
		s.log.WithFields(logrus.Fields{
			"user_id": n.UserID,
			"type":    n.Type,
		}).Debug("Notification created")
	}
}
