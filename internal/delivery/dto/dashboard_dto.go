package dto

import (
	"time"

	"github.com/google/uuid"
)

type ActivePatientResponse struct {
	PatientID        uuid.UUID `json:"patient_id"`
	FullName         string    `json:"full_name"`
	LastConversation time.Time `json:"last_conversation"`
	Sentiment        string    `json:"sentiment"`
}

type TherapistDashboardResponse struct {
	Therapist           *UserResponse           `json:"therapist"`
	TotalPatients       int64                   `json:"total_patients"`
	ConversationsToday  int64                   `json:"conversations_today"`
	PendingSessions     int64                   `json:"pending_sessions"`
	ActivePatients      []ActivePatientResponse `json:"active_patients"`
	RecentNotifications []NotificationResponse  `json:"recent_notifications"`
}

type PatientDashboardResponse struct {
	Profile                *PatientResponse  `json:"profile"`
	Sessions               []SessionResponse `json:"sessions"`
	TotalConversations     int64             `json:"total_conversations"`
	ConversationsLast7Days int64             `json:"conversations_last_7_days"`
	LatestSentiment        string            `json:"latest_sentiment"`
	NextSession            *SessionResponse  `json:"next_session,omitempty"`
}
