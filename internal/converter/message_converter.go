package converter

import (
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
)

func MessageToResponse(message *entity.Message) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	return &dto.MessageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Sender:      UserToSummary(&message.Sender),
		Recipient:   UserToSummary(&message.Recipient),
		Subject:     message.Subject,
		Content:     message.Content,
		Read:        message.Read,
		SentAt:      message.SentAt,
	}
}

func MessagesToResponses(messages []entity.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = *MessageToResponse(&messages[i])
	}
	return responses
}
