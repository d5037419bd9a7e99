package usecase

import (
	"context"
	"time"

	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	recentNotificationsLimit = 5
	noSentiment              = "N/A"
)

type DashboardUsecase interface {
	Therapist(ctx context.Context, actor Actor) (*dto.TherapistDashboardResponse, error)
	Patient(ctx context.Context, actor Actor) (*dto.PatientDashboardResponse, error)
}

type dashboardUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	sessionRepo        repository.SessionRepository
	conversationRepo   repository.ConversationRepository
	notificationRepo   repository.NotificationRepository
	now                func() time.Time
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	sessionRepo repository.SessionRepository,
	conversationRepo repository.ConversationRepository,
	notificationRepo repository.NotificationRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		sessionRepo:        sessionRepo,
		conversationRepo:   conversationRepo,
		notificationRepo:   notificationRepo,
		now:                time.Now,
	}
}

func (u *dashboardUsecase) Therapist(ctx context.Context, actor Actor) (*dto.TherapistDashboardResponse, error) {
	if err := requireCapability(actor, entity.CapViewTherapistDashboard); err != nil {
		return nil, err
	}

	therapist, err := u.userRepo.FindByID(ctx, u.db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}

	patients, totalPatients, err := u.patientProfileRepo.FindAll(ctx, u.db, entity.PatientFilter{TherapistID: actor.idPtr()})
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	patientIDs := make([]uuid.UUID, len(patients))
	for i := range patients {
		patientIDs[i] = patients[i].UserID
	}

	today := startOfDay(u.now())
	conversationsToday, err := u.conversationRepo.CountByUserIDs(ctx, u.db, patientIDs, &today)
	if err != nil {
		u.log.Warnf("Failed to count conversations: %+v", err)
		return nil, err
	}

	// Only the count matters here, so fetch a single row.
	_, pendingSessions, err := u.sessionRepo.FindAll(ctx, u.db, entity.SessionFilter{
		TherapistID: actor.idPtr(),
		Status:      entity.SessionStatusScheduled,
		From:        &today,
		Page:        entity.Page{Limit: 1},
	})
	if err != nil {
		u.log.Warnf("Failed to count pending sessions: %+v", err)
		return nil, err
	}

	latest, err := u.conversationRepo.FindLatestByUserIDs(ctx, u.db, patientIDs)
	if err != nil {
		u.log.Warnf("Failed to find latest conversations: %+v", err)
		return nil, err
	}

	activePatients := make([]dto.ActivePatientResponse, 0, len(latest))
	for i := range patients {
		conversation, ok := latest[patients[i].UserID]
		if !ok {
			continue
		}
		activePatients = append(activePatients, dto.ActivePatientResponse{
			PatientID:        patients[i].UserID,
			FullName:         patients[i].FullName,
			LastConversation: conversation.CreatedAt,
			Sentiment:        conversation.Sentiment,
		})
	}

	notifications, _, err := u.notificationRepo.FindAll(ctx, u.db, entity.NotificationFilter{
		UserID: actor.ID,
		Page:   entity.Page{Limit: recentNotificationsLimit},
	})
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, err
	}

	return &dto.TherapistDashboardResponse{
		Therapist:           converter.UserToResponse(therapist),
		TotalPatients:       totalPatients,
		ConversationsToday:  conversationsToday,
		PendingSessions:     pendingSessions,
		ActivePatients:      activePatients,
		RecentNotifications: converter.NotificationsToResponses(notifications),
	}, nil
}

func (u *dashboardUsecase) Patient(ctx context.Context, actor Actor) (*dto.PatientDashboardResponse, error) {
	if err := requireCapability(actor, entity.CapViewPatientDashboard); err != nil {
		return nil, err
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	sessions, _, err := u.sessionRepo.FindAll(ctx, u.db, entity.SessionFilter{PatientID: actor.idPtr()})
	if err != nil {
		u.log.Warnf("Failed to find sessions: %+v", err)
		return nil, err
	}

	self := []uuid.UUID{actor.ID}
	totalConversations, err := u.conversationRepo.CountByUserIDs(ctx, u.db, self, nil)
	if err != nil {
		u.log.Warnf("Failed to count conversations: %+v", err)
		return nil, err
	}

	now := u.now()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	recentConversations, err := u.conversationRepo.CountByUserIDs(ctx, u.db, self, &weekAgo)
	if err != nil {
		u.log.Warnf("Failed to count recent conversations: %+v", err)
		return nil, err
	}

	latestSentiment := noSentiment
	latest, err := u.conversationRepo.FindRecentByUserID(ctx, u.db, actor.ID, 1)
	if err != nil {
		u.log.Warnf("Failed to find latest conversation: %+v", err)
		return nil, err
	}
	if len(latest) > 0 && latest[0].Sentiment != "" {
		latestSentiment = latest[0].Sentiment
	}

	next, err := u.sessionRepo.FindNextScheduled(ctx, u.db, actor.ID, startOfDay(now))
	if err != nil {
		u.log.Warnf("Failed to find next session: %+v", err)
		return nil, err
	}

	return &dto.PatientDashboardResponse{
		Profile:                converter.PatientToResponse(profile),
		Sessions:               converter.SessionsToResponses(sessions),
		TotalConversations:     totalConversations,
		ConversationsLast7Days: recentConversations,
		LatestSentiment:        latestSentiment,
		NextSession:            converter.SessionToResponse(next),
	}, nil
}
