package usecase

import (
	"context"

	"go-therapy-platform/internal/converter"
	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/domain/repository"
	"go-therapy-platform/internal/infrastructure/cache"
	"go-therapy-platform/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, actor Actor) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetMyTherapist(ctx context.Context, actor Actor) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actor Actor, query dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error)
	GetUser(ctx context.Context, actor Actor, id uuid.UUID) (*dto.UserResponse, error)
	UpdateUserStatus(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateUserStatusRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	tokenStore         cache.TokenStore
	auditService       service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	tokenStore cache.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		tokenStore:         tokenStore,
		auditService:       auditService,
	}
}

func (u *userUsecase) GetProfile(ctx context.Context, actor Actor) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	oldValue := converter.UserToResponse(user)

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	if req.NationalID != nil {
		user.NationalID = *req.NationalID
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.PostalCode != nil {
		user.PostalCode = *req.PostalCode
	}
	if user.Role.IsTherapist() {
		if req.Specialty != nil {
			user.Specialty = *req.Specialty
		}
		if req.LicenseNumber != nil {
			user.LicenseNumber = *req.LicenseNumber
		}
	}

	passwordChanged := false
	if req.NewPassword != "" {
		if req.OldPassword == "" {
			return nil, newValidationError("old_password", "old_password is required to change the password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			return nil, newValidationError("old_password", "old_password is incorrect")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
		passwordChanged = true
	}

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	res := converter.UserToResponse(user)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionProfileUpdate, "user", user.ID.String(), oldValue, res)
	if passwordChanged {
		u.auditService.LogAction(ctx, tx, &actor.ID, entity.AuditActionPasswordChange, "user", user.ID.String())
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Every session issued with the old password ends here.
	if passwordChanged {
		if err := u.tokenStore.RevokeAll(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to revoke tokens after password change: %+v", err)
			return nil, err
		}
	}

	return res, nil
}

func (u *userUsecase) GetMyTherapist(ctx context.Context, actor Actor) (*dto.UserResponse, error) {
	if !actor.IsPatient() {
		return nil, ErrForbidden
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	if !profile.HasTherapist() || profile.Therapist == nil {
		return nil, ErrTherapistNotFound
	}

	return converter.UserToResponse(profile.Therapist), nil
}

func (u *userUsecase) ListUsers(ctx context.Context, actor Actor, query dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	if err := requireCapability(actor, entity.CapManageUsers); err != nil {
		return nil, err
	}

	filter := entity.UserFilter{Search: query.Search, Page: toPage(query.PageQuery)}
	if query.Role != "" {
		role := entity.Role(query.Role)
		if !role.Valid() {
			return nil, newValidationError("role", "role must be one of: patient therapist admin")
		}
		filter.Role = role
	}

	users, total, err := u.userRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	return newList(converter.UsersToResponses(users), total, query.PageQuery), nil
}

func (u *userUsecase) GetUser(ctx context.Context, actor Actor, id uuid.UUID) (*dto.UserResponse, error) {
	if err := requireCapability(actor, entity.CapManageUsers); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) UpdateUserStatus(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateUserStatusRequest) (*dto.UserResponse, error) {
	if err := requireCapability(actor, entity.CapManageUsers); err != nil {
		return nil, err
	}

	active := *req.IsActive
	if id == actor.ID && !active {
		return nil, newValidationError("is_active", "you cannot deactivate your own account")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	oldValue := map[string]bool{"is_active": user.IsActive}
	if _, err := u.userRepo.UpdateActive(ctx, tx, id, active); err != nil {
		u.log.Warnf("Failed to update user status: %+v", err)
		return nil, err
	}
	user.IsActive = active

	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionUserStatusUpdate, "user", id.String(),
		oldValue, map[string]bool{"is_active": active})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if !active {
		if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke tokens of deactivated user: %+v", err)
			return nil, err
		}
	}

	return converter.UserToResponse(user), nil
}
