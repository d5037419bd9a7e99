package handler

import (
	"net/http"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
	"go-therapy-platform/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

// Respond answers a chat message and tags its sentiment
// @Summary Talk to the assistant
// @Tags AI
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /ai/respond [post]
func (h *ChatHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ChatRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reply, err := h.chatUsecase.Respond(r.Context(), actor, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to process message")
		return
	}

	response.Success(w, http.StatusOK, "Reply generated successfully", reply)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	history, err := h.chatUsecase.History(r.Context(), actor)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get conversation history")
		return
	}
	if history == nil {
		history = []dto.ConversationResponse{}
	}

	response.Success(w, http.StatusOK, "Conversation history retrieved successfully", history)
}
