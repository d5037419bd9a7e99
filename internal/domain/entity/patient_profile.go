package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile holds clinical data for a user with role=patient
type PatientProfile struct {
	UserID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName              string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone                 string     `gorm:"type:varchar(20);not null;default:''" json:"phone,omitempty"`
	DateOfBirth           *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Address               string     `gorm:"type:varchar(255);not null;default:''" json:"address,omitempty"`
	PostalCode            string     `gorm:"type:varchar(9);not null;default:''" json:"postal_code,omitempty"`
	MedicalHistory        string     `gorm:"type:text;not null;default:''" json:"medical_history,omitempty"`
	Allergies             string     `gorm:"type:text;not null;default:''" json:"allergies,omitempty"`
	Medications           string     `gorm:"type:text;not null;default:''" json:"medications,omitempty"`
	EmergencyContactName  string     `gorm:"type:varchar(255);not null;default:''" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `gorm:"type:varchar(20);not null;default:''" json:"emergency_contact_phone,omitempty"`
	TherapistID           *uuid.UUID `gorm:"type:uuid;index" json:"therapist_id,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User      User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Therapist *User `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// HasTherapist reports whether a therapist is assigned.
func (p *PatientProfile) HasTherapist() bool {
	return p.TherapistID != nil && *p.TherapistID != uuid.Nil
}

// IsAssignedTo reports whether therapistID is the assigned therapist.
func (p *PatientProfile) IsAssignedTo(therapistID uuid.UUID) bool {
	return p.HasTherapist() && *p.TherapistID == therapistID
}

// Age prefers the profile's own birth date and falls back to the user's.
func (p *PatientProfile) Age(now time.Time) *int {
	if age := ageAt(p.DateOfBirth, now); age != nil {
		return age
	}
	return ageAt(p.User.DateOfBirth, now)
}
