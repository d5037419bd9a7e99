package usecase

import (
	"context"
	"strings"

	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"
	"go-therapy-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const patientSearchLimit = 10

type PatientUsecase interface {
	ListPatients(ctx context.Context, actor Actor, query dto.PatientListQuery) (*dto.ListResponse[dto.PatientResponse], error)
	SearchPatients(ctx context.Context, actor Actor, term string) ([]dto.PatientResponse, error)
	CreatePatient(ctx context.Context, actor Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, actor Actor, id uuid.UUID) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actor Actor, id uuid.UUID) error
}

type patientUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	sessionRepo        repository.SessionRepository
	reportRepo         repository.ReportRepository
	auditService       service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	sessionRepo repository.SessionRepository,
	reportRepo repository.ReportRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		sessionRepo:        sessionRepo,
		reportRepo:         reportRepo,
		auditService:       auditService,
	}
}

func (u *patientUsecase) ListPatients(ctx context.Context, actor Actor, query dto.PatientListQuery) (*dto.ListResponse[dto.PatientResponse], error) {
	filter := entity.PatientFilter{Search: query.Search, Page: toPage(query.PageQuery)}
	patientScope(actor, &filter)

	profiles, total, err := u.patientProfileRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return newList(converter.PatientsToResponses(profiles), total, query.PageQuery), nil
}

func (u *patientUsecase) SearchPatients(ctx context.Context, actor Actor, term string) ([]dto.PatientResponse, error) {
	if err := requireCapability(actor, entity.CapSearchPatients); err != nil {
		return nil, err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.PatientResponse{}, nil
	}

	var therapistID *uuid.UUID
	if !actor.IsAdmin() {
		therapistID = actor.idPtr()
	}

	profiles, err := u.patientProfileRepo.SearchByName(ctx, u.db, therapistID, term, patientSearchLimit)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return converter.PatientsToResponses(profiles), nil
}

func (u *patientUsecase) CreatePatient(ctx context.Context, actor Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	if err := requireCapability(actor, entity.CapManagePatients); err != nil {
		return nil, err
	}

	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	therapistID, err := u.resolveTherapistForNewPatient(ctx, tx, actor, req.TherapistID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	user, err := u.userRepo.FindByEmail(ctx, tx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}

	if user != nil {
		if !user.Role.IsPatient() {
			return nil, newValidationError("email", "a user with this email exists and is not a patient")
		}
		existing, err := u.patientProfileRepo.FindByUserID(ctx, tx, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find patient profile: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, newValidationError("email", "this user already has a patient profile")
		}
	} else {
		user, err = u.provisionPatientUser(ctx, tx, email, req)
		if err != nil {
			return nil, err
		}
	}

	profile := &entity.PatientProfile{
		UserID:                user.ID,
		FullName:              strings.TrimSpace(req.FullName),
		Phone:                 req.Phone,
		DateOfBirth:           dob,
		Address:               req.Address,
		PostalCode:            req.PostalCode,
		MedicalHistory:        req.MedicalHistory,
		Allergies:             req.Allergies,
		Medications:           req.Medications,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		TherapistID:           therapistID,
	}
	if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "patient_profiles") {
			return nil, newValidationError("email", "this user already has a patient profile")
		}
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	created, err := u.patientProfileRepo.FindByUserID(ctx, tx, user.ID)
	if err != nil {
		u.log.Warnf("Failed to reload patient profile: %+v", err)
		return nil, err
	}

	res := converter.PatientToResponse(created)
	u.auditService.LogCreate(ctx, tx, &actor.ID, entity.AuditActionPatientCreate, "patient", user.ID.String(), res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

// resolveTherapistForNewPatient: a therapist always assigns themself; an
// admin may name any active therapist or leave the patient unassigned.
func (u *patientUsecase) resolveTherapistForNewPatient(ctx context.Context, tx *gorm.DB, actor Actor, raw string) (*uuid.UUID, error) {
	if actor.IsTherapist() {
		return actor.idPtr(), nil
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID("therapist_id", raw)
	if err != nil {
		return nil, err
	}
	if err := u.ensureTherapist(ctx, tx, id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (u *patientUsecase) ensureTherapist(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	therapist, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find therapist: %+v", err)
		return err
	}
	if therapist == nil || !therapist.Role.IsTherapist() || !therapist.IsActive {
		return newValidationError("therapist_id", "therapist_id must reference an active therapist")
	}
	return nil
}

// provisionPatientUser creates the login for a patient registered by staff.
// The random password is never returned; the patient resets it out of band.
func (u *patientUsecase) provisionPatientUser(ctx context.Context, tx *gorm.DB, email string, req *dto.CreatePatientRequest) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	firstName, lastName := entity.SplitFullName(req.FullName)
	user := &entity.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		Role:      entity.RolePatient,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}
	return user, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, actor Actor, id uuid.UUID) (*dto.PatientResponse, error) {
	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	if err := canAccessPatient(actor, profile); err != nil {
		return nil, err
	}

	return converter.PatientToResponse(profile), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	if err := canAccessPatient(actor, profile); err != nil {
		return nil, err
	}

	oldValue := converter.PatientToResponse(profile)

	if req.TherapistID != nil {
		if err := u.applyTherapistChange(ctx, tx, actor, profile, *req.TherapistID); err != nil {
			return nil, err
		}
	}
	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		profile.DateOfBirth = dob
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.PostalCode != nil {
		profile.PostalCode = *req.PostalCode
	}
	if req.MedicalHistory != nil {
		profile.MedicalHistory = *req.MedicalHistory
	}
	if req.Allergies != nil {
		profile.Allergies = *req.Allergies
	}
	if req.Medications != nil {
		profile.Medications = *req.Medications
	}
	if req.EmergencyContactName != nil {
		profile.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		profile.EmergencyContactPhone = *req.EmergencyContactPhone
	}

	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	updated, err := u.patientProfileRepo.FindByUserID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload patient profile: %+v", err)
		return nil, err
	}

	res := converter.PatientToResponse(updated)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionPatientUpdate, "patient", id.String(), oldValue, res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

// applyTherapistChange lets only an admin move a patient to another
// therapist. Resending the current value is a no-op for anyone.
func (u *patientUsecase) applyTherapistChange(ctx context.Context, tx *gorm.DB, actor Actor, profile *entity.PatientProfile, raw string) error {
	raw = strings.TrimSpace(raw)

	var next *uuid.UUID
	if raw != "" {
		id, err := parseID("therapist_id", raw)
		if err != nil {
			return err
		}
		next = &id
	}

	unchanged := (next == nil && !profile.HasTherapist()) || (next != nil && profile.IsAssignedTo(*next))
	if unchanged {
		return nil
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if next != nil {
		if err := u.ensureTherapist(ctx, tx, *next); err != nil {
			return err
		}
	}
	profile.TherapistID = next
	profile.Therapist = nil
	return nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrPatientNotFound
	}
	if err := canDeletePatient(actor, profile); err != nil {
		return err
	}

	oldValue := converter.PatientToResponse(profile)

	if err := u.sessionRepo.DeleteByPatientID(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient sessions: %+v", err)
		return err
	}
	if err := u.reportRepo.DeleteByPatientID(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient reports: %+v", err)
		return err
	}
	if _, err := u.patientProfileRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient profile: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, &actor.ID, entity.AuditActionPatientDelete, "patient", id.String(), oldValue)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
