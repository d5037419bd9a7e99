package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/delivery/http/middleware"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
	"go-therapy-platform/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeUsecaseError maps a usecase error onto the response envelope.
// fallback is the message used for unexpected failures.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	if vErr, ok := usecase.IsValidationError(err); ok {
		response.ValidationError(w, vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrUnauthenticated),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrAccountInactive),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Error(w, http.StatusConflict, "Email already exists", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

// actorFromRequest reads the authenticated caller set by AuthMiddleware.
func actorFromRequest(r *http.Request) (usecase.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	role, ok := middleware.GetRoleFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	return usecase.Actor{ID: userID, Role: role}, true
}

// decodeAndValidate decodes a JSON body into req and runs struct validation,
// writing the 400 response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func parsePageQuery(r *http.Request) dto.PageQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return dto.PageQuery{Page: page, Limit: limit}.Normalize()
}

// parsePathID reads the {id} route variable. It writes a 400 when the value
// is not a UUID.
func parsePathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeList[T any](w http.ResponseWriter, message string, list *dto.ListResponse[T]) {
	items := list.Items
	if items == nil {
		items = []T{}
	}
	response.SuccessWithMeta(w, http.StatusOK, message, items, response.NewMeta(list.Page.Page, list.Page.Limit, list.Total))
}
