package repository

import (
	"context"
	"testing"
	"time"

	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRepository_FindLatestByUserIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewConversationRepository()
	ctx := context.Background()

	ana := testutil.CreateUser(t, db, "ana@example.com", entity.RolePatient)
	bia := testutil.CreateUser(t, db, "bia@example.com", entity.RolePatient)
	caio := testutil.CreateUser(t, db, "caio@example.com", entity.RolePatient)
	outsider := testutil.CreateUser(t, db, "outsider@example.com", entity.RolePatient)

	base := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	add := func(user *entity.User, text string, at time.Time) {
		require.NoError(t, repo.Create(ctx, db, &entity.Conversation{
			UserID:      user.ID,
			UserMessage: text,
			Reply:       "ok",
			CreatedAt:   at,
		}))
	}
	add(ana, "primeira", base)
	add(ana, "última", base.Add(2*time.Hour))
	add(ana, "segunda", base.Add(time.Hour))
	add(bia, "única", base.Add(30*time.Minute))
	add(outsider, "fora", base.Add(5*time.Hour))

	latest, err := repo.FindLatestByUserIDs(ctx, db, []uuid.UUID{ana.ID, bia.ID, caio.ID})
	require.NoError(t, err)

	require.Len(t, latest, 2)
	assert.Equal(t, "última", latest[ana.ID].UserMessage)
	assert.Equal(t, "única", latest[bia.ID].UserMessage)
	assert.NotContains(t, latest, caio.ID)
	assert.NotContains(t, latest, outsider.ID)

	empty, err := repo.FindLatestByUserIDs(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
