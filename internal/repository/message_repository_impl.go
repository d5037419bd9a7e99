package repository

import (
	"context"
	"errors"

	"go-therapy-platform/internal/domain/entity"
	domainRepo "go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type messageRepository struct{}

func NewMessageRepository() domainRepo.MessageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(ctx context.Context, db *gorm.DB, message *entity.Message) error {
	return db.WithContext(ctx).Omit("Sender", "Recipient").Create(message).Error
}

func (r *messageRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Message, error) {
	var message entity.Message
	err := db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("id = ?", id).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.MessageFilter) ([]entity.Message, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.ParticipantID == nil {
			return q
		}
		id := *filter.ParticipantID
		switch filter.Box {
		case entity.MessageBoxInbox:
			return q.Where("recipient_id = ?", id)
		case entity.MessageBoxSent:
			return q.Where("sender_id = ?", id)
		default:
			return q.Where("sender_id = ? OR recipient_id = ?", id, id)
		}
	}

	var total int64
	if err := db.WithContext(ctx).Model(&entity.Message{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []entity.Message
	err := db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page)).
		Preload("Sender").
		Preload("Recipient").
		Order("sent_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepository) Update(ctx context.Context, db *gorm.DB, message *entity.Message) error {
	return db.WithContext(ctx).Omit("Sender", "Recipient").Save(message).Error
}

func (r *messageRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Message{})
	return result.RowsAffected, result.Error
}
