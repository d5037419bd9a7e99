package repository

import (
	"context"
	"time"

	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	Create(ctx context.Context, db *gorm.DB, conversation *entity.Conversation) error
	FindRecentByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Conversation, error)
	FindLatestByUserIDs(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID) (map[uuid.UUID]entity.Conversation, error)
	CountByUserIDs(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, since *time.Time) (int64, error)
}
