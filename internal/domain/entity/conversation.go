package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is one exchange with the AI assistant
type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	UserMessage string    `gorm:"type:text;not null" json:"user_message"`
	Reply       string    `gorm:"type:text;not null" json:"reply"`
	Sentiment   string    `gorm:"type:varchar(50);not null;default:''" json:"sentiment"`
	Category    string    `gorm:"type:varchar(50);not null;default:''" json:"category"`
	Intensity   string    `gorm:"type:varchar(50);not null;default:''" json:"intensity"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
