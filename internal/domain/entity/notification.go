package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType categorizes a notification for the client
type NotificationType string

const (
	NotificationTypeGeneral NotificationType = "general"
	NotificationTypeSession NotificationType = "session"
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeAlert   NotificationType = "alert"
	NotificationTypeSystem  NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeGeneral, NotificationTypeSession, NotificationTypeMessage,
		NotificationTypeAlert, NotificationTypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null;default:'general'" json:"type"`
	Subject   string           `gorm:"type:varchar(255);not null" json:"subject"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	Link      *string          `gorm:"type:varchar(500)" json:"link,omitempty"`
	Read      bool             `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time        `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Type == "" {
		n.Type = NotificationTypeGeneral
	}
	return nil
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	n.Read = true
}
