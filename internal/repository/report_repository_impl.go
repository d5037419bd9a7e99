package repository

import (
	"context"
	"errors"

	"go-therapy-platform/internal/domain/entity"
	domainRepo "go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reportRepository struct{}

func NewReportRepository() domainRepo.ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(ctx context.Context, db *gorm.DB, report *entity.Report) error {
	return db.WithContext(ctx).Omit("Therapist", "Patient").Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Report, error) {
	var report entity.Report
	err := db.WithContext(ctx).
		Preload("Therapist").
		Preload("Patient").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.ReportFilter) ([]entity.Report, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.TherapistID != nil {
			q = q.Where("therapist_id = ?", *filter.TherapistID)
		}
		if filter.PatientID != nil {
			q = q.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := db.WithContext(ctx).Model(&entity.Report{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []entity.Report
	err := db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page)).
		Preload("Therapist").
		Preload("Patient").
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) Update(ctx context.Context, db *gorm.DB, report *entity.Report) error {
	return db.WithContext(ctx).Omit("Therapist", "Patient").Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Report{})
	return result.RowsAffected, result.Error
}

func (r *reportRepository) DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) error {
	return db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&entity.Report{}).Error
}
