package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Email                 string `json:"email" validate:"required,email,max=255"`
	FullName              string `json:"full_name" validate:"required,max=255"`
	Phone                 string `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth           string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address               string `json:"address" validate:"omitempty,max=255"`
	PostalCode            string `json:"postal_code" validate:"omitempty,max=9"`
	MedicalHistory        string `json:"medical_history"`
	Allergies             string `json:"allergies"`
	Medications           string `json:"medications"`
	EmergencyContactName  string `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	TherapistID           string `json:"therapist_id" validate:"omitempty,uuid"`
}

// UpdatePatientRequest changes a patient profile. Nil fields are left
// untouched. An empty therapist_id clears the assignment.
type UpdatePatientRequest struct {
	FullName              *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone                 *string `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth           *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address               *string `json:"address" validate:"omitempty,max=255"`
	PostalCode            *string `json:"postal_code" validate:"omitempty,max=9"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	Medications           *string `json:"medications"`
	EmergencyContactName  *string `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	TherapistID           *string `json:"therapist_id" validate:"omitempty,uuid"`
}

type PatientListQuery struct {
	Search string
	PageQuery
}

// Response DTOs

type PatientResponse struct {
	UserID                uuid.UUID    `json:"user_id"`
	Email                 string       `json:"email"`
	FullName              string       `json:"full_name"`
	Phone                 string       `json:"phone,omitempty"`
	DateOfBirth           *string      `json:"date_of_birth,omitempty"`
	Age                   *int         `json:"age,omitempty"`
	Address               string       `json:"address,omitempty"`
	PostalCode            string       `json:"postal_code,omitempty"`
	MedicalHistory        string       `json:"medical_history,omitempty"`
	Allergies             string       `json:"allergies,omitempty"`
	Medications           string       `json:"medications,omitempty"`
	EmergencyContactName  string       `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string       `json:"emergency_contact_phone,omitempty"`
	TherapistID           *uuid.UUID   `json:"therapist_id,omitempty"`
	Therapist             *UserSummary `json:"therapist,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}
