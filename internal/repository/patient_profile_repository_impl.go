package repository

import (
	"context"
	"errors"

	"go-therapy-platform/internal/domain/entity"
	domainRepo "go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "Therapist").Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Therapist").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientFilter) ([]entity.PatientProfile, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Joins("JOIN users ON users.id = patient_profiles.user_id")
		if filter.TherapistID != nil {
			q = q.Where("patient_profiles.therapist_id = ?", *filter.TherapistID)
		}
		if filter.UserID != nil {
			q = q.Where("patient_profiles.user_id = ?", *filter.UserID)
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where("LOWER(patient_profiles.full_name) LIKE ? OR LOWER(users.email) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := db.WithContext(ctx).Model(&entity.PatientProfile{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []entity.PatientProfile
	err := db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page)).
		Preload("User").
		Preload("Therapist").
		Order("patient_profiles.full_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *patientProfileRepository) SearchByName(ctx context.Context, db *gorm.DB, therapistID *uuid.UUID, term string, limit int) ([]entity.PatientProfile, error) {
	query := db.WithContext(ctx).Where("LOWER(full_name) LIKE ?", likePattern(term))
	if therapistID != nil {
		query = query.Where("therapist_id = ?", *therapistID)
	}

	var profiles []entity.PatientProfile
	err := query.Preload("User").Order("full_name ASC").Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *patientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "Therapist").Save(profile).Error
}

func (r *patientProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.PatientProfile{})
	return result.RowsAffected, result.Error
}
