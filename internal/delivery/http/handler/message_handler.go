package handler

import (
	"net/http"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
	"go-therapy-platform/pkg/validator"
)

type MessageHandler struct {
	messageUsecase usecase.MessageUsecase
	validator      *validator.CustomValidator
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase, validator *validator.CustomValidator) *MessageHandler {
	return &MessageHandler{
		messageUsecase: messageUsecase,
		validator:      validator,
	}
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	query := dto.MessageListQuery{
		Box:       r.URL.Query().Get("box"),
		PageQuery: parsePageQuery(r),
	}

	list, err := h.messageUsecase.ListMessages(r.Context(), actor, query)
	if err != nil {
		writeUsecaseError(w, err, "Failed to list messages")
		return
	}

	writeList(w, "Messages retrieved successfully", list)
}

func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateMessageRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	message, err := h.messageUsecase.CreateMessage(r.Context(), actor, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", message)
}

func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	message, err := h.messageUsecase.GetMessage(r.Context(), actor, id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get message")
		return
	}

	response.Success(w, http.StatusOK, "Message retrieved successfully", message)
}

func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateMessageRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	message, err := h.messageUsecase.UpdateMessage(r.Context(), actor, id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update message")
		return
	}

	response.Success(w, http.StatusOK, "Message updated successfully", message)
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := h.messageUsecase.DeleteMessage(r.Context(), actor, id); err != nil {
		writeUsecaseError(w, err, "Failed to delete message")
		return
	}

	response.Success(w, http.StatusOK, "Message deleted successfully", nil)
}

// MarkRead flags a received message as read. Only the recipient may do so.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	message, err := h.messageUsecase.MarkRead(r.Context(), actor, id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to mark message as read")
		return
	}

	response.Success(w, http.StatusOK, "Message marked as read", message)
}
