package repository

import (
	"context"
	"time"

	"go-therapy-platform/internal/domain/entity"
	domainRepo "go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type conversationRepository struct{}

func NewConversationRepository() domainRepo.ConversationRepository {
	return &conversationRepository{}
}

func (r *conversationRepository) Create(ctx context.Context, db *gorm.DB, conversation *entity.Conversation) error {
	return db.WithContext(ctx).Omit("User").Create(conversation).Error
}

func (r *conversationRepository) FindRecentByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// FindLatestByUserIDs returns the newest conversation per user. Users without
// any conversation are absent from the map.
func (r *conversationRepository) FindLatestByUserIDs(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) (map[uuid.UUID]entity.Conversation, error) {
	latest := make(map[uuid.UUID]entity.Conversation, len(userIDs))
	if len(userIDs) == 0 {
		return latest, nil
	}

	newest := db.WithContext(ctx).
		Model(&entity.Conversation{}).
		Select("user_id, MAX(created_at) AS created_at").
		Where("user_id IN ?", userIDs).
		Group("user_id")

	var conversations []entity.Conversation
	err := db.WithContext(ctx).
		Joins("JOIN (?) AS newest ON newest.user_id = conversations.user_id AND newest.created_at = conversations.created_at", newest).
		Order("conversations.id").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	// Equal timestamps can match more than one row; keep one.
	for _, c := range conversations {
		if _, seen := latest[c.UserID]; !seen {
			latest[c.UserID] = c
		}
	}
	return latest, nil
}

func (r *conversationRepository) CountByUserIDs(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, since *time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := db.WithContext(ctx).Model(&entity.Conversation{}).Where("user_id IN ?", userIDs)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
