package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the centralized authentication table
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"type:text;not null" json:"-"`
	FirstName     string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName      string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	Role          Role       `gorm:"type:varchar(20);not null;default:'patient';index" json:"role"`
	Phone         string     `gorm:"type:varchar(20);not null;default:''" json:"phone,omitempty"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	NationalID    string     `gorm:"type:varchar(14);not null;default:''" json:"national_id,omitempty"`
	Address       string     `gorm:"type:varchar(255);not null;default:''" json:"address,omitempty"`
	PostalCode    string     `gorm:"type:varchar(9);not null;default:''" json:"postal_code,omitempty"`
	Specialty     string     `gorm:"type:varchar(255);not null;default:''" json:"specialty,omitempty"`
	LicenseNumber string     `gorm:"type:varchar(20);not null;default:''" json:"license_number,omitempty"`
	IsActive      bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}

// Age returns completed years at now, or nil without a birth date.
func (u *User) Age(now time.Time) *int {
	return ageAt(u.DateOfBirth, now)
}

func ageAt(born *time.Time, now time.Time) *int {
	if born == nil || born.IsZero() {
		return nil
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return &age
}

// SplitFullName splits "First Rest Of Name" into first and last name.
func SplitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
