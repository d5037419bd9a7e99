package repository

import (
	"context"
	"errors"
	"time"

	"go-therapy-platform/internal/domain/entity"
	domainRepo "go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct{}

func NewSessionRepository() domainRepo.SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Create(ctx context.Context, db *gorm.DB, session *entity.Session) error {
	return db.WithContext(ctx).Omit("Therapist", "Patient").Create(session).Error
}

func (r *sessionRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Session, error) {
	var session entity.Session
	err := db.WithContext(ctx).
		Preload("Therapist").
		Preload("Patient").
		Preload("Patient.User").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.SessionFilter) ([]entity.Session, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.TherapistID != nil {
			q = q.Where("therapist_id = ?", *filter.TherapistID)
		}
		if filter.PatientID != nil {
			q = q.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.From != nil {
			q = q.Where("scheduled_at >= ?", *filter.From)
		}
		return q
	}

	var total int64
	if err := db.WithContext(ctx).Model(&entity.Session{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "scheduled_at DESC"
	if filter.Ascending {
		order = "scheduled_at ASC"
	}

	var sessions []entity.Session
	err := db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page)).
		Preload("Therapist").
		Preload("Patient").
		Order(order).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *sessionRepository) FindNextScheduled(ctx context.Context, db *gorm.DB, patientID uuid.UUID, after time.Time) (*entity.Session, error) {
	var session entity.Session
	err := db.WithContext(ctx).
		Preload("Therapist").
		Where("patient_id = ? AND status = ? AND scheduled_at >= ?", patientID, entity.SessionStatusScheduled, after).
		Order("scheduled_at ASC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, db *gorm.DB, session *entity.Session) error {
	return db.WithContext(ctx).Omit("Therapist", "Patient").Save(session).Error
}

func (r *sessionRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Session{})
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) error {
	return db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&entity.Session{}).Error
}
