package usecase

import (
	"context"
	"errors"
	"testing"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/repository"
	"go-therapy-platform/internal/service"
	"go-therapy-platform/internal/testutil"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errNotifierDown = errors.New("notifier down")

// brokenNotifier lets the first allow calls through to the real service and
// fails every call after that.
type brokenNotifier struct {
	service.NotificationService
	allow int
	calls int
}

func (n *brokenNotifier) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationType entity.NotificationType, subject, content string, link *string) (*entity.Notification, error) {
	n.calls++
	if n.calls > n.allow {
		return nil, errNotifierDown
	}
	return n.NotificationService.Notify(ctx, tx, userID, notificationType, subject, content, link)
}

func newBrokenNotifier(f *fixture, allow int) *brokenNotifier {
	svc := service.NewNotificationService(testutil.NewLogger(), repository.NewNotificationRepository(), f.metrics)
	return &brokenNotifier{NotificationService: svc, allow: allow}
}

func TestCreateSession_RollsBackWhenNotificationFails(t *testing.T) {
	ctx := context.Background()

	for name, allow := range map[string]int{
		"first notification fails":  0,
		"second notification fails": 1,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
			patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
			sessions, _ := f.withNotifier(newBrokenNotifier(f, allow))

			res, err := sessions.CreateSession(ctx, actorOf(patient), sessionRequest(""))
			assert.ErrorIs(t, err, errNotifierDown)
			assert.Nil(t, res)

			assert.Zero(t, f.count(t, &entity.Session{}, ""))
			assert.Zero(t, f.count(t, &entity.Notification{}, ""))
			assert.Zero(t, f.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionSessionCreate))
			assert.Zero(t, promtest.ToFloat64(f.metrics.NotificationsCreated.WithLabelValues("session")))
		})
	}
}

func TestCreateMessage_RollsBackWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	_, messages := f.withNotifier(newBrokenNotifier(f, 0))

	res, err := messages.CreateMessage(context.Background(), actorOf(patient), &dto.CreateMessageRequest{Subject: "Oi", Content: "Tudo bem?"})
	assert.ErrorIs(t, err, errNotifierDown)
	assert.Nil(t, res)

	assert.Zero(t, f.count(t, &entity.Message{}, ""))
	assert.Zero(t, f.count(t, &entity.Notification{}, ""))
	assert.Zero(t, f.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionMessageCreate))
}

func TestNotificationMetricCountsCommittedOnly(t *testing.T) {
	f := newFixture(t)
	therapist := testutil.CreateUser(t, f.db, "dr@example.com", entity.RoleTherapist)
	patient, _ := testutil.CreatePatient(t, f.db, "patient@example.com", therapist)
	ctx := context.Background()

	_, err := f.sessions.CreateSession(ctx, actorOf(patient), sessionRequest(""))
	require.NoError(t, err)
	assert.Equal(t, float64(2), promtest.ToFloat64(f.metrics.NotificationsCreated.WithLabelValues("session")))

	_, err = f.messages.CreateMessage(ctx, actorOf(patient), &dto.CreateMessageRequest{Subject: "Oi", Content: "Tudo bem?"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.NotificationsCreated.WithLabelValues("message")))

	// A rejected request never reaches Notify, and the counters stay put.
	_, err = f.sessions.CreateSession(ctx, actorOf(therapist), sessionRequest(""))
	require.Error(t, err)
	assert.Equal(t, float64(2), promtest.ToFloat64(f.metrics.NotificationsCreated.WithLabelValues("session")))
	assert.Equal(t, int64(3), f.count(t, &entity.Notification{}, ""))
}
