package converter

import (
	"time"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		FullName:      user.FullName(),
		Role:          user.Role.String(),
		Phone:         user.Phone,
		DateOfBirth:   formatDate(user.DateOfBirth),
		Age:           user.Age(time.Now()),
		NationalID:    user.NationalID,
		Address:       user.Address,
		PostalCode:    user.PostalCode,
		Specialty:     user.Specialty,
		LicenseNumber: user.LicenseNumber,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// UsersToResponses converts a slice of User entities to UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

// UserToSummary returns nil for an unloaded association.
func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil || user.ID == uuid.Nil {
		return nil
	}
	return &dto.UserSummary{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.DisplayName(),
		Role:     user.Role.String(),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
