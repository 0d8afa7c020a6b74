package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

// verifyStore runs the conformance checks shared by every backend.
func verifyStore(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	// Scalars.
	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "state", "done"))
	value, err := store.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "done", value)

	require.NoError(t, store.Set(ctx, "state", "again"))
	value, err = store.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "again", value)

	// Hashes.
	_, err = store.HGet(ctx, "users", "id1")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.HSet(ctx, "users", "id1", "alice"))
	require.NoError(t, store.HSet(ctx, "users", "id2", "bob"))
	require.NoError(t, store.HSet(ctx, "users", "id1", "alice2"))

	field, err := store.HGet(ctx, "users", "id1")
	require.NoError(t, err)
	assert.Equal(t, "alice2", field)

	length, err := store.HLen(ctx, "users")
	require.NoError(t, err)
	assert.EqualValues(t, 2, length)

	values, err := store.HVals(ctx, "users")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice2", "bob"}, values)

	require.NoError(t, store.HDel(ctx, "users", "id1"))
	_, err = store.HGet(ctx, "users", "id1")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Sets.
	require.NoError(t, store.SAdd(ctx, "votes", "alice"))
	require.NoError(t, store.SAdd(ctx, "votes", "alice"))
	require.NoError(t, store.SAdd(ctx, "votes", "bob"))

	count, err := store.SCard(ctx, "votes")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "SAdd must be idempotent")

	members, err := store.SMembers(ctx, "votes")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, members)

	require.NoError(t, store.SRem(ctx, "votes", "alice"))
	require.NoError(t, store.SRem(ctx, "votes", "bob"))

	members, err = store.SMembers(ctx, "votes")
	require.NoError(t, err)
	assert.Empty(t, members)

	// Removing from a gone set is a no-op.
	require.NoError(t, store.SRem(ctx, "votes", "carol"))
}

func TestMemory(t *testing.T) {
	verifyStore(t, storage.NewMemory())
}
