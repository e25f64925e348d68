package tokens_test

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/tokens"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*tokens.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return tokens.NewStore(client), mr
}

func TestStore_SaveAndConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, tokens.KindVerifyEmail, "tok-1", "user-1", time.Hour))

	userID, err := store.Consume(ctx, tokens.KindVerifyEmail, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Consuming removes the token.
	_, err = store.Consume(ctx, tokens.KindVerifyEmail, "tok-1")
	assert.ErrorIs(t, err, tokens.ErrTokenNotFound)
}

func TestStore_KindsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, tokens.KindPasswordReset, "tok-1", "user-1", time.Hour))

	// The same token string under another kind is invisible.
	_, err := store.Consume(ctx, tokens.KindVerifyEmail, "tok-1")
	assert.ErrorIs(t, err, tokens.ErrTokenNotFound)

	userID, err := store.Consume(ctx, tokens.KindPasswordReset, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, tokens.KindVerifyEmail, "tok-1", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, tokens.KindVerifyEmail, "tok-1")
	assert.ErrorIs(t, err, tokens.ErrTokenNotFound)
}

func TestStore_UnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Consume(context.Background(), tokens.KindVerifyEmail, "never-issued")
	assert.ErrorIs(t, err, tokens.ErrTokenNotFound)
}
