package repository

import (
	"context"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, db *gorm.DB, report *entity.Report) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Report, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.ReportFilter) ([]entity.Report, int64, error)
	Update(ctx context.Context, db *gorm.DB, report *entity.Report) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) error
}
