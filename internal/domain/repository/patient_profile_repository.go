package repository

import (
	"context"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.PatientProfile, int64, error)
	SearchByName(ctx context.Context, db *gorm.DB, therapistID *uuid.UUID, term string, limit int) ([]entity.PatientProfile, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
}
