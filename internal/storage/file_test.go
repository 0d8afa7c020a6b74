package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := storage.OpenFile(path)
	require.NoError(t, err)

	verifyStore(t, store)
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := storage.OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "state", "done"))
	require.NoError(t, store.HSet(ctx, "users", "id1", "alice"))
	require.NoError(t, store.SAdd(ctx, "votes", "alice"))

	reopened, err := storage.OpenFile(path)
	require.NoError(t, err)

	value, err := reopened.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "done", value)

	field, err := reopened.HGet(ctx, "users", "id1")
	require.NoError(t, err)
	assert.Equal(t, "alice", field)

	members, err := reopened.SMembers(ctx, "votes")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)
}

func TestFile_OpenMissingFile(t *testing.T) {
	store, err := storage.OpenFile(filepath.Join(t.TempDir(), "nope", "store.json"))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "anything")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}
