package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"omitempty,uuid"`
	Subject     string `json:"subject" validate:"omitempty,max=255"`
	Content     string `json:"content" validate:"required"`
}

type UpdateMessageRequest struct {
	Subject *string `json:"subject" validate:"omitempty,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

type MessageListQuery struct {
	Box string // inbox | sent
	PageQuery
}

// Response DTOs

type MessageResponse struct {
	ID          uuid.UUID    `json:"id"`
	SenderID    uuid.UUID    `json:"sender_id"`
	RecipientID uuid.UUID    `json:"recipient_id"`
	Sender      *UserSummary `json:"sender,omitempty"`
	Recipient   *UserSummary `json:"recipient,omitempty"`
	Subject     string       `json:"subject"`
	Content     string       `json:"content"`
	Read        bool         `json:"read"`
	SentAt      time.Time    `json:"sent_at"`
}
