package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewStore(rdb, 24*time.Hour)
}

func TestRevokedSince_NoMark(t *testing.T) {
	_, store := setupStore(t)

	_, revoked, err := store.RevokedSince(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeCompany_SetsMark(t *testing.T) {
	_, store := setupStore(t)

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.RevokeCompany(context.Background(), 1))

	mark, revoked, err := store.RevokedSince(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, revoked)
	assert.True(t, mark.After(before))

	// A token issued before the mark is stale, one issued after is fine.
	assert.True(t, before.Before(mark))
	assert.False(t, mark.Add(time.Second).Before(mark))
}

func TestRevokeCompany_ScopedToOneCompany(t *testing.T) {
	_, store := setupStore(t)

	require.NoError(t, store.RevokeCompany(context.Background(), 1))

	_, revoked, err := store.RevokedSince(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeCompanies_Batch(t *testing.T) {
	_, store := setupStore(t)

	require.NoError(t, store.RevokeCompanies(context.Background(), []uint{3, 4, 5}))

	for _, id := range []uint{3, 4, 5} {
		_, revoked, err := store.RevokedSince(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}

func TestRevocationMark_Expires(t *testing.T) {
	mr, store := setupStore(t)

	require.NoError(t, store.RevokeCompany(context.Background(), 1))
	mr.FastForward(25 * time.Hour)

	_, revoked, err := store.RevokedSince(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, revoked)
}
