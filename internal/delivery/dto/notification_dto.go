package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateNotificationRequest struct {
	UserID  string  `json:"user_id" validate:"omitempty,uuid"`
	Type    string  `json:"type" validate:"omitempty,oneof=general session message alert system"`
	Subject string  `json:"subject" validate:"required,max=255"`
	Content string  `json:"content" validate:"required"`
	Link    *string `json:"link" validate:"omitempty,max=500"`
}

// UpdateNotificationRequest changes a notification. Non-admin callers may
// only send read.
type UpdateNotificationRequest struct {
	Read    *bool   `json:"read"`
	Type    *string `json:"type" validate:"omitempty,oneof=general session message alert system"`
	Subject *string `json:"subject" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Link    *string `json:"link" validate:"omitempty,max=500"`
}

type NotificationListQuery struct {
	UnreadOnly bool
	PageQuery
}

// Response DTOs

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
