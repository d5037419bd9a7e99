package repository

import (
	"context"
	"time"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, db *gorm.DB, session *entity.Session) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Session, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.SessionFilter) ([]entity.Session, int64, error)
	FindNextScheduled(ctx context.Context, db *gorm.DB, patientID uuid.UUID, after time.Time) (*entity.Session, error)
	Update(ctx context.Context, db *gorm.DB, session *entity.Session) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) error
}
