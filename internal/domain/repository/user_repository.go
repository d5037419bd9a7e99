package repository

import (
	"context"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.UserFilter) ([]entity.User, int64, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	UpdateActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error)
}
