package usecase

import (
	"context"
	"strings"

	"go-therapy-platform/internal/analysis/sentiment"
	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"
	"go-therapy-platform/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const chatHistoryLimit = 50

type ChatUsecase interface {
	Respond(ctx context.Context, actor Actor, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, actor Actor) ([]dto.ConversationResponse, error)
}

type chatUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	conversationRepo repository.ConversationRepository
	assistant        service.Assistant
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	conversationRepo repository.ConversationRepository,
	assistant service.Assistant,
) ChatUsecase {
	return &chatUsecase{
		db:               db,
		log:              log,
		conversationRepo: conversationRepo,
		assistant:        assistant,
	}
}

func (u *chatUsecase) Respond(ctx context.Context, actor Actor, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := requireCapability(actor, entity.CapChat); err != nil {
		return nil, err
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, newValidationError("message", "message is required")
	}

	tags := sentiment.Analyze(message)
	reply, fromModel := u.assistant.Reply(ctx, message)
	u.log.Debugf("Chat reply for user %s (model=%t, sentiment=%s)", actor.ID, fromModel, tags.Sentiment)

	conversation := &entity.Conversation{
		UserID:      actor.ID,
		UserMessage: message,
		Reply:       reply,
		Sentiment:   tags.Sentiment,
		Category:    tags.Category,
		Intensity:   tags.Intensity,
	}
	if err := u.conversationRepo.Create(ctx, u.db, conversation); err != nil {
		u.log.Warnf("Failed to save conversation: %+v", err)
		return nil, err
	}

	return &dto.ChatResponse{
		Reply:     reply,
		Sentiment: tags.Sentiment,
		Category:  tags.Category,
		Intensity: tags.Intensity,
	}, nil
}

func (u *chatUsecase) History(ctx context.Context, actor Actor) ([]dto.ConversationResponse, error) {
	conversations, err := u.conversationRepo.FindRecentByUserID(ctx, u.db, actor.ID, chatHistoryLimit)
	if err != nil {
		u.log.Warnf("Failed to find conversations: %+v", err)
		return nil, err
	}

	return converter.ConversationsToResponses(conversations), nil
}
