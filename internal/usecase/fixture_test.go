package usecase

import (
	"testing"
	"time"

	"go-therapy-platform/config"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/infrastructure/cache"
	"go-therapy-platform/internal/repository"
	"go-therapy-platform/internal/service"
	"go-therapy-platform/internal/testutil"
	"go-therapy-platform/pkg/jwt"
	"go-therapy-platform/pkg/metrics"

	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	metrics       *metrics.Metrics
	tokens        cache.TokenStore
	jwt           *jwt.JWTService
	auth          AuthUsecase
	users         UserUsecase
	patients      PatientUsecase
	sessions      SessionUsecase
	messages      MessageUsecase
	reports       ReportUsecase
	notifications NotificationUsecase
	dashboards    DashboardUsecase
	auditLogs     AuditLogUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()

	userRepo := repository.NewUserRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	sessionRepo := repository.NewSessionRepository()
	messageRepo := repository.NewMessageRepository()
	reportRepo := repository.NewReportRepository()
	notificationRepo := repository.NewNotificationRepository()
	conversationRepo := repository.NewConversationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)
	m := metrics.NewMetrics("test")
	notificationService := service.NewNotificationService(log, notificationRepo, m)
	tokens := cache.NewMemoryTokenStore(time.Minute)
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})

	return &fixture{
		db:            db,
		metrics:       m,
		tokens:        tokens,
		jwt:           jwtService,
		auth:          NewAuthUsecase(db, log, userRepo, patientProfileRepo, jwtService, tokens, auditService),
		users:         NewUserUsecase(db, log, userRepo, patientProfileRepo, tokens, auditService),
		patients:      NewPatientUsecase(db, log, userRepo, patientProfileRepo, sessionRepo, reportRepo, auditService),
		sessions:      NewSessionUsecase(db, log, sessionRepo, patientProfileRepo, notificationService, auditService),
		messages:      NewMessageUsecase(db, log, messageRepo, userRepo, patientProfileRepo, notificationService, auditService),
		reports:       NewReportUsecase(db, log, reportRepo, patientProfileRepo, auditService),
		notifications: NewNotificationUsecase(db, log, notificationRepo, userRepo, notificationService, auditService),
		dashboards:    NewDashboardUsecase(db, log, userRepo, patientProfileRepo, sessionRepo, conversationRepo, notificationRepo),
		auditLogs:     NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

// withNotifier builds the notifying usecases on the fixture's database with
// a replacement notification service.
func (f *fixture) withNotifier(n service.NotificationService) (SessionUsecase, MessageUsecase) {
	log := testutil.NewLogger()
	patientProfileRepo := repository.NewPatientProfileRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	sessions := NewSessionUsecase(f.db, log, repository.NewSessionRepository(), patientProfileRepo, n, auditService)
	messages := NewMessageUsecase(f.db, log, repository.NewMessageRepository(), repository.NewUserRepository(), patientProfileRepo, n, auditService)
	return sessions, messages
}

func actorOf(user *entity.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
