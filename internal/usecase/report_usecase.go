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
	"gorm.io/gorm"
)

type ReportUsecase interface {
	ListReports(ctx context.Context, actor Actor, query dto.ReportListQuery) (*dto.ListResponse[dto.ReportResponse], error)
	CreateReport(ctx context.Context, actor Actor, req *dto.CreateReportRequest) (*dto.ReportResponse, error)
	GetReport(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ReportResponse, error)
	UpdateReport(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateReportRequest) (*dto.ReportResponse, error)
	DeleteReport(ctx context.Context, actor Actor, id uuid.UUID) error
}

type reportUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	reportRepo         repository.ReportRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reportRepo repository.ReportRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) ReportUsecase {
	return &reportUsecase{
		db:                 db,
		log:                log,
		reportRepo:         reportRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *reportUsecase) ListReports(ctx context.Context, actor Actor, query dto.ReportListQuery) (*dto.ListResponse[dto.ReportResponse], error) {
	filter := entity.ReportFilter{Search: strings.TrimSpace(query.Search), Page: toPage(query.PageQuery)}
	reportScope(actor, &filter)

	reports, total, err := u.reportRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find reports: %+v", err)
		return nil, err
	}

	return newList(converter.ReportsToResponses(reports), total, query.PageQuery), nil
}

func (u *reportUsecase) CreateReport(ctx context.Context, actor Actor, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if err := requireCapability(actor, entity.CapWriteReports); err != nil {
		return nil, err
	}

	patientID, err := parseID("patient_id", req.PatientID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

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

	// The author is the patient's therapist, also when an admin files it.
	report := &entity.Report{
		TherapistID: *profile.TherapistID,
		PatientID:   profile.UserID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
	}
	if err := u.reportRepo.Create(ctx, tx, report); err != nil {
		u.log.Warnf("Failed to create report: %+v", err)
		return nil, err
	}

	created, err := u.reportRepo.FindByID(ctx, tx, report.ID)
	if err != nil {
		u.log.Warnf("Failed to reload report: %+v", err)
		return nil, err
	}

	res := converter.ReportToResponse(created)
	u.auditService.LogCreate(ctx, tx, &actor.ID, entity.AuditActionReportCreate, "report", created.ID.String(), res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

func (u *reportUsecase) GetReport(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ReportResponse, error) {
	report, err := u.findReport(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	if err := canReadReport(actor, report); err != nil {
		return nil, err
	}

	return converter.ReportToResponse(report), nil
}

func (u *reportUsecase) UpdateReport(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateReportRequest) (*dto.ReportResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	report, err := u.findReport(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := canModifyReport(actor, report); err != nil {
		return nil, err
	}

	oldValue := converter.ReportToResponse(report)

	if req.Title != nil {
		report.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		report.Content = *req.Content
	}

	if err := u.reportRepo.Update(ctx, tx, report); err != nil {
		u.log.Warnf("Failed to update report: %+v", err)
		return nil, err
	}

	res := converter.ReportToResponse(report)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionReportUpdate, "report", id.String(), oldValue, res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

func (u *reportUsecase) DeleteReport(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	report, err := u.findReport(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := canModifyReport(actor, report); err != nil {
		return err
	}

	if _, err := u.reportRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete report: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, &actor.ID, entity.AuditActionReportDelete, "report", id.String(), converter.ReportToResponse(report))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *reportUsecase) findReport(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Report, error) {
	report, err := u.reportRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find report: %+v", err)
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}
