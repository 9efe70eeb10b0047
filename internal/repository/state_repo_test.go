package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), "../../migrations", nil))
	return db
}

func TestStateRepositoryRoundTrip(t *testing.T) {
	repo := NewStateRepository(newTestDB(t))
	ctx := context.Background()

	blob, err := repo.Load(ctx, "samaj_app_state")
	require.NoError(t, err)
	assert.Nil(t, blob, "absent key loads as nil")

	require.NoError(t, repo.Save(ctx, "samaj_app_state", []byte(`{"members":[]}`)))
	require.NoError(t, repo.Save(ctx, "samaj_app_state", []byte(`{"members":[{"id":"m1"}]}`)))

	blob, err = repo.Load(ctx, "samaj_app_state")
	require.NoError(t, err)
	assert.JSONEq(t, `{"members":[{"id":"m1"}]}`, string(blob))

	other, err := repo.Load(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestStateRepositoryUnicode(t *testing.T) {
	repo := NewStateRepository(newTestDB(t))
	ctx := context.Background()

	value := `{"settings":{"nativeName":"श्री गुजराती मोढ़ वणिक समाज"}}`
	require.NoError(t, repo.Save(ctx, "k", []byte(value)))

	blob, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, value, string(blob))
}
