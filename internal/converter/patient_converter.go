package converter

import (
	"time"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
)

// PatientToResponse converts a PatientProfile entity to PatientResponse DTO.
// User and Therapist are used when preloaded.
func PatientToResponse(profile *entity.PatientProfile) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	return &dto.PatientResponse{
		UserID:                profile.UserID,
		Email:                 profile.User.Email,
		FullName:              profile.FullName,
		Phone:                 profile.Phone,
		DateOfBirth:           formatDate(profile.DateOfBirth),
		Age:                   profile.Age(time.Now()),
		Address:               profile.Address,
		PostalCode:            profile.PostalCode,
		MedicalHistory:        profile.MedicalHistory,
		Allergies:             profile.Allergies,
		Medications:           profile.Medications,
		EmergencyContactName:  profile.EmergencyContactName,
		EmergencyContactPhone: profile.EmergencyContactPhone,
		TherapistID:           profile.TherapistID,
		Therapist:             UserToSummary(profile.Therapist),
		CreatedAt:             profile.CreatedAt,
		UpdatedAt:             profile.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of PatientProfile entities to DTOs
func PatientsToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PatientToResponse(&profiles[i])
	}
	return responses
}
