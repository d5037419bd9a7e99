package handler

import (
	"net/http"
	"strings"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	query := dto.AuditLogListQuery{
		Action:    strings.TrimSpace(r.URL.Query().Get("action")),
		PageQuery: parsePageQuery(r),
	}

	list, err := h.auditLogUsecase.ListAuditLogs(r.Context(), actor, query)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get audit logs")
		return
	}

	writeList(w, "Audit logs retrieved successfully", list)
}
