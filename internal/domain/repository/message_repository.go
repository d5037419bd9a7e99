package repository

import (
	"context"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, db *gorm.DB, message *entity.Message) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Message, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.MessageFilter) ([]entity.Message, int64, error)
	Update(ctx context.Context, db *gorm.DB, message *entity.Message) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
