package usecase

import (
	"context"
	"testing"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessage_RecipientRules(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	other := testutil.CreateUser(t, f.db, "other@example.com", entity.RoleTherapist)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", entity.RoleAdmin)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	orphan, _ := testutil.CreatePatient(t, f.db, "orphan@example.com", nil)
	ctx := context.Background()

	t.Run("patient always writes to their therapist", func(t *testing.T) {
		res, err := f.messages.CreateMessage(ctx, actorOf(patient), &dto.CreateMessageRequest{Subject: "Oi", Content: "Tudo bem?"})
		require.NoError(t, err)
		assert.Equal(t, therapist.ID, res.RecipientID)
	})

	t.Run("patient naming someone else", func(t *testing.T) {
		_, err := f.messages.CreateMessage(ctx, actorOf(patient), &dto.CreateMessageRequest{
			RecipientID: other.ID.String(),
			Content:     "Oi",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("patient without therapist", func(t *testing.T) {
		_, err := f.messages.CreateMessage(ctx, actorOf(orphan), &dto.CreateMessageRequest{Content: "Oi"})
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("therapist must name a recipient", func(t *testing.T) {
		_, err := f.messages.CreateMessage(ctx, actorOf(therapist), &dto.CreateMessageRequest{Content: "Oi"})
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("therapist writing to someone else's patient", func(t *testing.T) {
		_, err := f.messages.CreateMessage(ctx, actorOf(other), &dto.CreateMessageRequest{
			RecipientID: patient.ID.String(),
			Content:     "Oi",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin may write to anyone", func(t *testing.T) {
		res, err := f.messages.CreateMessage(ctx, actorOf(admin), &dto.CreateMessageRequest{
			RecipientID: other.ID.String(),
			Content:     "Aviso",
		})
		require.NoError(t, err)
		assert.Equal(t, other.ID, res.RecipientID)

		_, err = f.messages.CreateMessage(ctx, actorOf(admin), &dto.CreateMessageRequest{Content: "Aviso"})
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})
}

func TestCreateMessage_NotifiesRecipient(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	ctx := context.Background()

	res, err := f.messages.CreateMessage(ctx, actorOf(therapist), &dto.CreateMessageRequest{
		RecipientID: patient.ID.String(),
		Subject:     "Lembrete",
		Content:     "Não esqueça o diário.",
	})
	require.NoError(t, err)

	var n entity.Notification
	require.NoError(t, f.db.First(&n, "user_id = ?", patient.ID).Error)
	assert.Equal(t, entity.NotificationTypeMessage, n.Type)
	assert.Equal(t, "Nova Mensagem de "+therapist.FullName(), n.Subject)
	assert.Equal(t, "Você recebeu uma nova mensagem de "+therapist.FullName()+" com o assunto: \"Lembrete\".", n.Content)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/mensagens/"+res.ID.String(), *n.Link)
}

func TestMessageOwnership(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	admin := testutil.CreateUser(t, f.db, "admin@example.com", entity.RoleAdmin)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	stranger, _ := testutil.CreatePatient(t, f.db, "stranger@example.com", nil)
	ctx := context.Background()

	msg, err := f.messages.CreateMessage(ctx, actorOf(patient), &dto.CreateMessageRequest{Content: "Olá"})
	require.NoError(t, err)

	_, err = f.messages.GetMessage(ctx, actorOf(stranger), msg.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.messages.GetMessage(ctx, actorOf(therapist), msg.ID)
	assert.NoError(t, err)

	content := "Editado"
	_, err = f.messages.UpdateMessage(ctx, actorOf(therapist), msg.ID, &dto.UpdateMessageRequest{Content: &content})
	assert.ErrorIs(t, err, ErrForbidden)
	updated, err := f.messages.UpdateMessage(ctx, actorOf(patient), msg.ID, &dto.UpdateMessageRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)

	_, err = f.messages.MarkRead(ctx, actorOf(patient), msg.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.messages.MarkRead(ctx, actorOf(admin), msg.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	read, err := f.messages.MarkRead(ctx, actorOf(therapist), msg.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.Equal(t, int64(1), f.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionMessageRead))

	// Marking twice writes nothing new.
	_, err = f.messages.MarkRead(ctx, actorOf(therapist), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionMessageRead))

	inbox, err := f.messages.ListMessages(ctx, actorOf(therapist), dto.MessageListQuery{Box: "inbox"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inbox.Total)
	sent, err := f.messages.ListMessages(ctx, actorOf(therapist), dto.MessageListQuery{Box: "sent"})
	require.NoError(t, err)
	assert.Zero(t, sent.Total)
	all, err := f.messages.ListMessages(ctx, actorOf(admin), dto.MessageListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, all.Total)

	_, err = f.messages.ListMessages(ctx, actorOf(therapist), dto.MessageListQuery{Box: "trash"})
	_, ok := IsValidationError(err)
	assert.True(t, ok)

	assert.ErrorIs(t, f.messages.DeleteMessage(ctx, actorOf(therapist), msg.ID), ErrForbidden)
	require.NoError(t, f.messages.DeleteMessage(ctx, actorOf(admin), msg.ID))
	_, err = f.messages.GetMessage(ctx, actorOf(patient), msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
