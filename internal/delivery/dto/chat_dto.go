package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
	Intensity string `json:"intensity"`
}

type ConversationResponse struct {
	ID          uuid.UUID `json:"id"`
	UserMessage string    `json:"user_message"`
	Reply       string    `json:"reply"`
	Sentiment   string    `json:"sentiment"`
	Category    string    `json:"category"`
	Intensity   string    `json:"intensity"`
	CreatedAt   time.Time `json:"created_at"`
}
