package repository

import (
	"context"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Notification, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.NotificationFilter) ([]entity.Notification, int64, error)
	Update(ctx context.Context, db *gorm.DB, notification *entity.Notification) error
	MarkAllRead(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
