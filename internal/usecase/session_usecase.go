package usecase

import (
	"context"
	"fmt"

	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"
	"go-therapy-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const orderingScheduledAtAsc = "scheduled_at"

type SessionUsecase interface {
	ListSessions(ctx context.Context, actor Actor, query dto.SessionListQuery) (*dto.ListResponse[dto.SessionResponse], error)
	CreateSession(ctx context.Context, actor Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, actor Actor, id uuid.UUID) error
}

type sessionUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	sessionRepo         repository.SessionRepository
	patientProfileRepo  repository.PatientProfileRepository
	notificationService service.NotificationService
	auditService        service.AuditService
}

func NewSessionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	sessionRepo repository.SessionRepository,
	patientProfileRepo repository.PatientProfileRepository,
	notificationService service.NotificationService,
	auditService service.AuditService,
) SessionUsecase {
	return &sessionUsecase{
		db:                  db,
		log:                 log,
		sessionRepo:         sessionRepo,
		patientProfileRepo:  patientProfileRepo,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

func (u *sessionUsecase) ListSessions(ctx context.Context, actor Actor, query dto.SessionListQuery) (*dto.ListResponse[dto.SessionResponse], error) {
	filter := entity.SessionFilter{
		Ascending: query.Ordering == orderingScheduledAtAsc,
		Page:      toPage(query.PageQuery),
	}
	if query.Status != "" {
		status := entity.SessionStatus(query.Status)
		if !status.Valid() {
			return nil, newValidationError("status", "status must be one of scheduled, completed, cancelled")
		}
		filter.Status = status
	}
	sessionScope(actor, &filter)

	sessions, total, err := u.sessionRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find sessions: %+v", err)
		return nil, err
	}

	return newList(converter.SessionsToResponses(sessions), total, query.PageQuery), nil
}

func (u *sessionUsecase) CreateSession(ctx context.Context, actor Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if err := requireCapability(actor, entity.CapScheduleSession); err != nil {
		return nil, err
	}

	status := entity.SessionStatusScheduled
	if req.Status != "" {
		status = entity.SessionStatus(req.Status)
		if !status.Valid() {
			return nil, newValidationError("status", "status must be one of scheduled, completed, cancelled")
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.resolveSessionPatient(ctx, tx, actor, req.PatientID)
	if err != nil {
		return nil, err
	}

	// The therapist always comes from the patient's assignment, whoever schedules.
	session := &entity.Session{
		TherapistID:     *profile.TherapistID,
		PatientID:       profile.UserID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          status,
		Notes:           req.Notes,
	}
	if err := u.sessionRepo.Create(ctx, tx, session); err != nil {
		if isForeignKeyError(err) {
			return nil, newValidationError("patient_id", "patient_id references an unknown patient")
		}
		u.log.Warnf("Failed to create session: %+v", err)
		return nil, err
	}

	created, err := u.sessionRepo.FindByID(ctx, tx, session.ID)
	if err != nil {
		u.log.Warnf("Failed to reload session: %+v", err)
		return nil, err
	}

	sent, err := u.notifyScheduled(ctx, tx, created)
	if err != nil {
		return nil, err
	}

	res := converter.SessionToResponse(created)
	u.auditService.LogCreate(ctx, tx, &actor.ID, entity.AuditActionSessionCreate, "session", created.ID.String(), res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notificationService.Delivered(sent...)

	return res, nil
}

// resolveSessionPatient picks the patient profile a new session belongs to
// and checks it has a therapist to derive the session's therapist from.
func (u *sessionUsecase) resolveSessionPatient(ctx context.Context, tx *gorm.DB, actor Actor, rawPatientID string) (*entity.PatientProfile, error) {
	if actor.IsPatient() {
		profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, actor.ID)
		if err != nil {
			u.log.Warnf("Failed to find patient profile: %+v", err)
			return nil, err
		}
		if profile == nil {
			return nil, ErrForbidden
		}
		if !profile.HasTherapist() {
			return nil, newValidationError("therapist", "you have no assigned therapist to schedule with")
		}
		return profile, nil
	}

	patientID, err := parseID("patient_id", rawPatientID)
	if err != nil {
		return nil, err
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, newValidationError("patient_id", "patient_id references an unknown patient")
	}
	if actor.IsTherapist() && !profile.IsAssignedTo(actor.ID) {
		return nil, ErrForbidden
	}
	if !profile.HasTherapist() {
		return nil, newValidationError("patient_id", "the patient has no assigned therapist")
	}
	return profile, nil
}

func (u *sessionUsecase) notifyScheduled(ctx context.Context, tx *gorm.DB, session *entity.Session) ([]*entity.Notification, error) {
	when := session.ScheduledAt.Format(sessionTimeLayout)
	link := sessionLink(session.ID)

	toPatient, err := u.notificationService.Notify(ctx, tx, session.PatientID, entity.NotificationTypeSession,
		"Sessão Agendada!",
		fmt.Sprintf("Sua sessão com %s foi agendada para %s.", session.Therapist.FullName(), when),
		link,
	)
	if err != nil {
		return nil, err
	}

	toTherapist, err := u.notificationService.Notify(ctx, tx, session.TherapistID, entity.NotificationTypeSession,
		"Nova Sessão Agendada!",
		fmt.Sprintf("Você agendou uma nova sessão com %s para %s.", session.Patient.FullName, when),
		link,
	)
	if err != nil {
		return nil, err
	}
	return []*entity.Notification{toPatient, toTherapist}, nil
}

func (u *sessionUsecase) GetSession(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := u.sessionRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find session: %+v", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := canAccessSession(actor, session); err != nil {
		return nil, err
	}

	return converter.SessionToResponse(session), nil
}

func (u *sessionUsecase) UpdateSession(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	session, err := u.sessionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find session: %+v", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := canAccessSession(actor, session); err != nil {
		return nil, err
	}

	oldValue := converter.SessionToResponse(session)
	previousStatus := session.Status

	if req.ScheduledAt != nil {
		session.ScheduledAt = req.ScheduledAt.UTC()
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		status := entity.SessionStatus(*req.Status)
		if !status.Valid() {
			return nil, newValidationError("status", "status must be one of scheduled, completed, cancelled")
		}
		session.Status = status
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}

	if err := u.sessionRepo.Update(ctx, tx, session); err != nil {
		u.log.Warnf("Failed to update session: %+v", err)
		return nil, err
	}

	updated, err := u.sessionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload session: %+v", err)
		return nil, err
	}

	sent, err := u.notifyUpdated(ctx, tx, updated, previousStatus != updated.Status)
	if err != nil {
		return nil, err
	}

	res := converter.SessionToResponse(updated)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionSessionUpdate, "session", id.String(), oldValue, res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notificationService.Delivered(sent...)

	return res, nil
}

func (u *sessionUsecase) notifyUpdated(ctx context.Context, tx *gorm.DB, session *entity.Session, statusChanged bool) ([]*entity.Notification, error) {
	when := session.ScheduledAt.Format(sessionTimeLayout)
	link := sessionLink(session.ID)

	subject := "Sessão Atualizada!"
	change := "atualizada"
	if statusChanged {
		subject = "Status da Sessão Alterado!"
		change = fmt.Sprintf("teve seu status alterado para '%s'", session.Status)
	}

	toPatient, err := u.notificationService.Notify(ctx, tx, session.PatientID, entity.NotificationTypeSession,
		subject,
		fmt.Sprintf("Sua sessão com %s em %s foi %s.", session.Therapist.FullName(), when, change),
		link,
	)
	if err != nil {
		return nil, err
	}

	toTherapist, err := u.notificationService.Notify(ctx, tx, session.TherapistID, entity.NotificationTypeSession,
		subject,
		fmt.Sprintf("A sessão com %s em %s foi %s.", session.Patient.FullName, when, change),
		link,
	)
	if err != nil {
		return nil, err
	}
	return []*entity.Notification{toPatient, toTherapist}, nil
}

func (u *sessionUsecase) DeleteSession(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	session, err := u.sessionRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find session: %+v", err)
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := canAccessSession(actor, session); err != nil {
		return err
	}

	oldValue := converter.SessionToResponse(session)

	if _, err := u.sessionRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, &actor.ID, entity.AuditActionSessionDelete, "session", id.String(), oldValue)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func sessionLink(id uuid.UUID) *string {
	return strPtr(fmt.Sprintf("/sessoes/%s/editar", id))
}
