package handler

import (
	"net/http"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
	"go-therapy-platform/pkg/validator"
)

type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
	validator      *validator.CustomValidator
}

func NewSessionHandler(sessionUsecase usecase.SessionUsecase, validator *validator.CustomValidator) *SessionHandler {
	return &SessionHandler{
		sessionUsecase: sessionUsecase,
		validator:      validator,
	}
}

func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	query := dto.SessionListQuery{
		Status:    r.URL.Query().Get("status"),
		Ordering:  r.URL.Query().Get("ordering"),
		PageQuery: parsePageQuery(r),
	}

	list, err := h.sessionUsecase.ListSessions(r.Context(), actor, query)
	if err != nil {
		writeUsecaseError(w, err, "Failed to list sessions")
		return
	}

	writeList(w, "Sessions retrieved successfully", list)
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateSessionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	session, err := h.sessionUsecase.CreateSession(r.Context(), actor, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create session")
		return
	}

	response.Success(w, http.StatusCreated, "Session created successfully", session)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionUsecase.GetSession(r.Context(), actor, id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get session")
		return
	}

	response.Success(w, http.StatusOK, "Session retrieved successfully", session)
}

func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateSessionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	session, err := h.sessionUsecase.UpdateSession(r.Context(), actor, id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update session")
		return
	}

	response.Success(w, http.StatusOK, "Session updated successfully", session)
}

func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := h.sessionUsecase.DeleteSession(r.Context(), actor, id); err != nil {
		writeUsecaseError(w, err, "Failed to delete session")
		return
	}

	response.Success(w, http.StatusOK, "Session deleted successfully", nil)
}
