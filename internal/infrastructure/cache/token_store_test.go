package cache

import (
	"context"
	"testing"
	"time"

	"go-therapy-platform/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore_SaveExistsRevoke(t *testing.T) {
	store := NewMemoryTokenStore(time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, jwt.AccessToken, userID, "a1", time.Minute))

	ok, err := store.Exists(ctx, jwt.AccessToken, userID, "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = store.Exists(ctx, jwt.RefreshToken, userID, "a1")
	assert.False(t, ok, "token types are tracked separately")

	require.NoError(t, store.Revoke(ctx, jwt.AccessToken, userID, "a1"))
	ok, _ = store.Exists(ctx, jwt.AccessToken, userID, "a1")
	assert.False(t, ok)
}

func TestMemoryTokenStore_Expiry(t *testing.T) {
	store := NewMemoryTokenStore(time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, jwt.AccessToken, userID, "short", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	ok, err := store.Exists(ctx, jwt.AccessToken, userID, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryTokenStore_RevokeAllOnlyTouchesOwner(t *testing.T) {
	store := NewMemoryTokenStore(time.Minute)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, store.Save(ctx, jwt.AccessToken, alice, "a", time.Minute))
	require.NoError(t, store.Save(ctx, jwt.RefreshToken, alice, "r", time.Minute))
	require.NoError(t, store.Save(ctx, jwt.AccessToken, bob, "b", time.Minute))

	require.NoError(t, store.RevokeAll(ctx, alice))

	ok, _ := store.Exists(ctx, jwt.AccessToken, alice, "a")
	assert.False(t, ok)
	ok, _ = store.Exists(ctx, jwt.RefreshToken, alice, "r")
	assert.False(t, ok)
	ok, _ = store.Exists(ctx, jwt.AccessToken, bob, "b")
	assert.True(t, ok)
}
