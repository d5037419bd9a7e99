package usecase

import (
	"context"
	"fmt"
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

type MessageUsecase interface {
	ListMessages(ctx context.Context, actor Actor, query dto.MessageListQuery) (*dto.ListResponse[dto.MessageResponse], error)
	CreateMessage(ctx context.Context, actor Actor, req *dto.CreateMessageRequest) (*dto.MessageResponse, error)
	GetMessage(ctx context.Context, actor Actor, id uuid.UUID) (*dto.MessageResponse, error)
	UpdateMessage(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error)
	DeleteMessage(ctx context.Context, actor Actor, id uuid.UUID) error
	MarkRead(ctx context.Context, actor Actor, id uuid.UUID) (*dto.MessageResponse, error)
}

type messageUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	messageRepo         repository.MessageRepository
	userRepo            repository.UserRepository
	patientProfileRepo  repository.PatientProfileRepository
	notificationService service.NotificationService
	auditService        service.AuditService
}

func NewMessageUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	notificationService service.NotificationService,
	auditService service.AuditService,
) MessageUsecase {
	return &messageUsecase{
		db:                  db,
		log:                 log,
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		patientProfileRepo:  patientProfileRepo,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

func (u *messageUsecase) ListMessages(ctx context.Context, actor Actor, query dto.MessageListQuery) (*dto.ListResponse[dto.MessageResponse], error) {
	box := entity.MessageBox(strings.ToLower(strings.TrimSpace(query.Box)))
	switch box {
	case entity.MessageBoxAll, entity.MessageBoxInbox, entity.MessageBoxSent:
	default:
		return nil, newValidationError("box", "box must be inbox or sent")
	}

	filter := entity.MessageFilter{Box: box, Page: toPage(query.PageQuery)}
	messageScope(actor, &filter)

	messages, total, err := u.messageRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find messages: %+v", err)
		return nil, err
	}

	return newList(converter.MessagesToResponses(messages), total, query.PageQuery), nil
}

func (u *messageUsecase) CreateMessage(ctx context.Context, actor Actor, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	if err := requireCapability(actor, entity.CapMessage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, newValidationError("content", "content is required")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	recipientID, err := u.resolveRecipient(ctx, tx, actor, req.RecipientID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		SenderID:    actor.ID,
		RecipientID: recipientID,
		Subject:     strings.TrimSpace(req.Subject),
		Content:     req.Content,
	}
	if err := u.messageRepo.Create(ctx, tx, message); err != nil {
		if isForeignKeyError(err) {
			return nil, newValidationError("recipient_id", "recipient_id references an unknown user")
		}
		u.log.Warnf("Failed to create message: %+v", err)
		return nil, err
	}

	created, err := u.messageRepo.FindByID(ctx, tx, message.ID)
	if err != nil {
		u.log.Warnf("Failed to reload message: %+v", err)
		return nil, err
	}

	senderName := created.Sender.DisplayName()
	notification, err := u.notificationService.Notify(ctx, tx, created.RecipientID, entity.NotificationTypeMessage,
		fmt.Sprintf("Nova Mensagem de %s", senderName),
		fmt.Sprintf("Você recebeu uma nova mensagem de %s com o assunto: \"%s\".", senderName, created.Subject),
		strPtr(fmt.Sprintf("/mensagens/%s", created.ID)),
	)
	if err != nil {
		return nil, err
	}

	res := converter.MessageToResponse(created)
	u.auditService.LogCreate(ctx, tx, &actor.ID, entity.AuditActionMessageCreate, "message", created.ID.String(), res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.notificationService.Delivered(notification)

	return res, nil
}

// resolveRecipient applies the per-role addressing rules: therapists write
// to their own patients, patients only to their assigned therapist.
func (u *messageUsecase) resolveRecipient(ctx context.Context, tx *gorm.DB, actor Actor, raw string) (uuid.UUID, error) {
	switch {
	case actor.IsPatient():
		profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, actor.ID)
		if err != nil {
			u.log.Warnf("Failed to find patient profile: %+v", err)
			return uuid.Nil, err
		}
		if profile == nil || !profile.HasTherapist() {
			return uuid.Nil, newValidationError("recipient_id", "you have no assigned therapist to message")
		}
		if strings.TrimSpace(raw) != "" {
			requested, err := parseID("recipient_id", raw)
			if err != nil {
				return uuid.Nil, err
			}
			if !profile.IsAssignedTo(requested) {
				return uuid.Nil, ErrForbidden
			}
		}
		return *profile.TherapistID, nil

	case actor.IsTherapist():
		recipientID, err := parseID("recipient_id", raw)
		if err != nil {
			return uuid.Nil, err
		}
		profile, err := u.patientProfileRepo.FindByUserID(ctx, tx, recipientID)
		if err != nil {
			u.log.Warnf("Failed to find patient profile: %+v", err)
			return uuid.Nil, err
		}
		if profile == nil || !profile.IsAssignedTo(actor.ID) {
			return uuid.Nil, ErrForbidden
		}
		return recipientID, nil
	}

	recipientID, err := parseID("recipient_id", raw)
	if err != nil {
		return uuid.Nil, err
	}
	recipient, err := u.userRepo.FindByID(ctx, tx, recipientID)
	if err != nil {
		u.log.Warnf("Failed to find recipient: %+v", err)
		return uuid.Nil, err
	}
	if recipient == nil {
		return uuid.Nil, newValidationError("recipient_id", "recipient_id references an unknown user")
	}
	return recipientID, nil
}

func (u *messageUsecase) GetMessage(ctx context.Context, actor Actor, id uuid.UUID) (*dto.MessageResponse, error) {
	message, err := u.findMessage(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	if err := canReadMessage(actor, message); err != nil {
		return nil, err
	}

	return converter.MessageToResponse(message), nil
}

func (u *messageUsecase) UpdateMessage(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	message, err := u.findMessage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := canModifyMessage(actor, message); err != nil {
		return nil, err
	}

	oldValue := converter.MessageToResponse(message)

	if req.Subject != nil {
		message.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, newValidationError("content", "content cannot be blank")
		}
		message.Content = *req.Content
	}

	if err := u.messageRepo.Update(ctx, tx, message); err != nil {
		u.log.Warnf("Failed to update message: %+v", err)
		return nil, err
	}

	res := converter.MessageToResponse(message)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionMessageUpdate, "message", id.String(), oldValue, res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

func (u *messageUsecase) DeleteMessage(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	message, err := u.findMessage(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := canModifyMessage(actor, message); err != nil {
		return err
	}

	if _, err := u.messageRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete message: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, &actor.ID, entity.AuditActionMessageDelete, "message", id.String(), converter.MessageToResponse(message))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *messageUsecase) MarkRead(ctx context.Context, actor Actor, id uuid.UUID) (*dto.MessageResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	message, err := u.findMessage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := canMarkMessageRead(actor, message); err != nil {
		return nil, err
	}

	// Already read: nothing to write or audit.
	if message.Read {
		return converter.MessageToResponse(message), nil
	}

	oldValue := converter.MessageToResponse(message)
	message.Read = true
	if err := u.messageRepo.Update(ctx, tx, message); err != nil {
		u.log.Warnf("Failed to mark message read: %+v", err)
		return nil, err
	}

	res := converter.MessageToResponse(message)
	u.auditService.LogUpdate(ctx, tx, &actor.ID, entity.AuditActionMessageRead, "message", id.String(), oldValue, res)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

func (u *messageUsecase) findMessage(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Message, error) {
	message, err := u.messageRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find message: %+v", err)
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}
