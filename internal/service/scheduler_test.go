package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSchedulerRejectsBadCron(t *testing.T) {
	backup, _ := newTestBackup(t, newMemoryObjects())

	_, err := NewSnapshotScheduler(backup, "not a cron", time.UTC, nil)
	assert.Error(t, err)
}

func TestSnapshotSchedulerRun(t *testing.T) {
	objects := newMemoryObjects()
	backup, _ := newTestBackup(t, objects, person("m1", "f1", "Ramesh Shah", "1970-01-01", "9825012345", true))

	s, err := NewSnapshotScheduler(backup, "0 2 * * *", nil, nil)
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	// Scheduled at 02:00; run the job body directly
	s.run()
	assert.Contains(t, objects.objects, "snapshots/samaj-20260601-100000.json")
}
