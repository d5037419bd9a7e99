package handler

import (
	"net/http"
	"strconv"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
	"go-therapy-platform/pkg/validator"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, validator *validator.CustomValidator) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	query := dto.NotificationListQuery{
		UnreadOnly: unread,
		PageQuery:  parsePageQuery(r),
	}

	list, err := h.notificationUsecase.ListNotifications(r.Context(), actor, query)
	if err != nil {
		writeUsecaseError(w, err, "Failed to list notifications")
		return
	}

	writeList(w, "Notifications retrieved successfully", list)
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateNotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.CreateNotification(r.Context(), actor, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create notification")
		return
	}

	response.Success(w, http.StatusCreated, "Notification created successfully", notification)
}

func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	notification, err := h.notificationUsecase.GetNotification(r.Context(), actor, id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification retrieved successfully", notification)
}

func (h *NotificationHandler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateNotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.UpdateNotification(r.Context(), actor, id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification updated successfully", notification)
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := h.notificationUsecase.DeleteNotification(r.Context(), actor, id); err != nil {
		writeUsecaseError(w, err, "Failed to delete notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification deleted successfully", nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.notificationUsecase.MarkAllRead(r.Context(), actor)
	if err != nil {
		writeUsecaseError(w, err, "Failed to mark notifications as read")
		return
	}

	response.Success(w, http.StatusOK, "Notifications marked as read", result)
}
