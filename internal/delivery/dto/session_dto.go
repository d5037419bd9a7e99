package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateSessionRequest struct {
	PatientID       string    `json:"patient_id" validate:"omitempty,uuid"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	Status          string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes           string    `json:"notes"`
}

type UpdateSessionRequest struct {
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0,lte=1440"`
	Status          *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes           *string    `json:"notes"`
}

type SessionListQuery struct {
	Status   string
	Ordering string // scheduled_at | -scheduled_at
	PageQuery
}

// Response DTOs

type SessionResponse struct {
	ID              uuid.UUID    `json:"id"`
	TherapistID     uuid.UUID    `json:"therapist_id"`
	PatientID       uuid.UUID    `json:"patient_id"`
	Therapist       *UserSummary `json:"therapist,omitempty"`
	PatientName     string       `json:"patient_name,omitempty"`
	ScheduledAt     time.Time    `json:"scheduled_at"`
	EndsAt          time.Time    `json:"ends_at"`
	DurationMinutes int          `json:"duration_minutes"`
	Status          string       `json:"status"`
	Notes           string       `json:"notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
