package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, DefaultStateKey, cfg.StateKey)
	assert.Equal(t, "1234", cfg.DemoOTP)
	assert.Equal(t, 3, cfg.AIMaxRetries)
	assert.Equal(t, 2*time.Second, cfg.AIBaseDelay)
	assert.Equal(t, 2, cfg.BiodataPerPage)
	assert.Equal(t, 15, cfg.ContactsPerPage)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("BOOKLET_CONTACTS_PER_PAGE", "20")
	t.Setenv("AI_BASE_DELAY", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 20, cfg.ContactsPerPage)
	assert.Equal(t, 500*time.Millisecond, cfg.AIBaseDelay)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "samaj.yaml")
	content := "gcs_bucket: samaj-backups\nsnapshot_cron: \"0 2 * * *\"\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Setenv("SAMAJ_CONFIG", file)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "samaj-backups", cfg.GCSBucket)
	assert.Equal(t, "0 2 * * *", cfg.SnapshotCron)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{TimeZone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
