package converter

import (
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
)

// SessionToResponse converts a Session entity to SessionResponse DTO
func SessionToResponse(session *entity.Session) *dto.SessionResponse {
	if session == nil {
		return nil
	}

	return &dto.SessionResponse{
		ID:              session.ID,
		TherapistID:     session.TherapistID,
		PatientID:       session.PatientID,
		Therapist:       UserToSummary(&session.Therapist),
		PatientName:     session.Patient.FullName,
		ScheduledAt:     session.ScheduledAt,
		EndsAt:          session.EndsAt(),
		DurationMinutes: session.DurationMinutes,
		Status:          string(session.Status),
		Notes:           session.Notes,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}

// SessionsToResponses converts a slice of Session entities to DTOs
func SessionsToResponses(sessions []entity.Session) []dto.SessionResponse {
	responses := make([]dto.SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = *SessionToResponse(&sessions[i])
	}
	return responses
}
