package converter

import (
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
)

func ConversationsToResponses(conversations []entity.Conversation) []dto.ConversationResponse {
	responses := make([]dto.ConversationResponse, len(conversations))
	for i, c := range conversations {
		responses[i] = dto.ConversationResponse{
			ID:          c.ID,
			UserMessage: c.UserMessage,
			Reply:       c.Reply,
			Sentiment:   c.Sentiment,
			Category:    c.Category,
			Intensity:   c.Intensity,
			CreatedAt:   c.CreatedAt,
		}
	}
	return responses
}
