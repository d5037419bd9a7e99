package dto

// Request DTOs

// UpdateProfileRequest changes the caller's own account. Nil fields are left
// untouched. Setting new_password requires old_password.
type UpdateProfileRequest struct {
	FirstName     *string `json:"first_name" validate:"omitempty,min=1,max=150"`
	LastName      *string `json:"last_name" validate:"omitempty,max=150"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth   *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	NationalID    *string `json:"national_id" validate:"omitempty,max=14"`
	Address       *string `json:"address" validate:"omitempty,max=255"`
	PostalCode    *string `json:"postal_code" validate:"omitempty,max=9"`
	Specialty     *string `json:"specialty" validate:"omitempty,max=255"`
	LicenseNumber *string `json:"license_number" validate:"omitempty,max=20"`
	OldPassword   string  `json:"old_password"`
	NewPassword   string  `json:"new_password" validate:"omitempty,min=8,max=128"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserListQuery struct {
	Search string
	Role   string
	PageQuery
}
