package handler

import (
	"net/http"
	"strings"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/usecase"
	"go-therapy-platform/pkg/response"
	"go-therapy-platform/pkg/validator"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
	validator     *validator.CustomValidator
}

func NewReportHandler(reportUsecase usecase.ReportUsecase, validator *validator.CustomValidator) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	query := dto.ReportListQuery{
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		PageQuery: parsePageQuery(r),
	}

	list, err := h.reportUsecase.ListReports(r.Context(), actor, query)
	if err != nil {
		writeUsecaseError(w, err, "Failed to list reports")
		return
	}

	writeList(w, "Reports retrieved successfully", list)
}

func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateReportRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	report, err := h.reportUsecase.CreateReport(r.Context(), actor, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create report")
		return
	}

	response.Success(w, http.StatusCreated, "Report created successfully", report)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	report, err := h.reportUsecase.GetReport(r.Context(), actor, id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get report")
		return
	}

	response.Success(w, http.StatusOK, "Report retrieved successfully", report)
}

func (h *ReportHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateReportRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	report, err := h.reportUsecase.UpdateReport(r.Context(), actor, id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update report")
		return
	}

	response.Success(w, http.StatusOK, "Report updated successfully", report)
}

func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	id, ok := parsePathID(w, r)
	if !ok {
		return
	}

	if err := h.reportUsecase.DeleteReport(r.Context(), actor, id); err != nil {
		writeUsecaseError(w, err, "Failed to delete report")
		return
	}

	response.Success(w, http.StatusOK, "Report deleted successfully", nil)
}
