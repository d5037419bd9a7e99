package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus represents the status of a therapy session
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// Session is an appointment between a therapist and a patient
type Session struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TherapistID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"therapist_id"`
	PatientID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduledAt     time.Time     `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int           `gorm:"not null" json:"duration_minutes"`
	Status          SessionStatus `gorm:"type:varchar(10);not null;default:'scheduled';index" json:"status"`
	Notes           string        `gorm:"type:text;not null;default:''" json:"notes,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Therapist User           `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
	Patient   PatientProfile `gorm:"foreignKey:PatientID;references:UserID" json:"patient,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SessionStatusScheduled
	}
	return nil
}

// Duration returns the session length.
func (s *Session) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// EndsAt returns the scheduled end time.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(s.Duration())
}

// IsScheduled checks if the session is still pending
func (s *Session) IsScheduled() bool {
	return s.Status == SessionStatusScheduled
}

// IsCancelled checks if the session is cancelled
func (s *Session) IsCancelled() bool {
	return s.Status == SessionStatusCancelled
}

// Involves reports whether userID is the therapist or the patient.
func (s *Session) Involves(userID uuid.UUID) bool {
	return s.TherapistID == userID || s.PatientID == userID
}
