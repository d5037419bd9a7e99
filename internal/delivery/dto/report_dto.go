package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateReportRequest struct {
	PatientID string `json:"patient_id" validate:"required,uuid"`
	Title     string `json:"title" validate:"required,max=255"`
	Content   string `json:"content" validate:"required"`
}

type UpdateReportRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

type ReportListQuery struct {
	Search string
	PageQuery
}

// Response DTOs

type ReportResponse struct {
	ID          uuid.UUID    `json:"id"`
	TherapistID uuid.UUID    `json:"therapist_id"`
	PatientID   uuid.UUID    `json:"patient_id"`
	Therapist   *UserSummary `json:"therapist,omitempty"`
	PatientName string       `json:"patient_name,omitempty"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
