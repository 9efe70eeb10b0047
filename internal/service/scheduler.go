package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const snapshotJobTag = "state-snapshot"

// SnapshotScheduler uploads state snapshots on a cron schedule
type SnapshotScheduler struct {
	scheduler *gocron.Scheduler
	backup    *BackupService
	logger    *zap.SugaredLogger
}

// NewSnapshotScheduler schedules BackupService.Snapshot on cronExpr in loc
func NewSnapshotScheduler(backup *BackupService, cronExpr string, loc *time.Location, logger *zap.SugaredLogger) (*SnapshotScheduler, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if loc == nil {
		loc = time.UTC
	}

	scheduler := gocron.NewScheduler(loc)
	scheduler.TagsUnique()
	scheduler.SingletonModeAll()

	s := &SnapshotScheduler{scheduler: scheduler, backup: backup, logger: logger}
	_, err := scheduler.Cron(cronExpr).Tag(snapshotJobTag).Do(s.run)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule snapshots %q: %w", cronExpr, err)
	}
	return s, nil
}

func (s *SnapshotScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	object, err := s.backup.Snapshot(ctx)
	if err != nil {
		s.logger.Errorw("Scheduled snapshot failed", "error", err)
		return
	}
	s.logger.Infow("Scheduled snapshot completed", "object", object)
}

// Start runs the scheduler in the background
func (s *SnapshotScheduler) Start() {
	s.scheduler.StartAsync()
	_, next := s.scheduler.NextRun()
	s.logger.Infow("Snapshot scheduler started", "next", next)
}

// Stop stops the scheduler
func (s *SnapshotScheduler) Stop() {
	s.scheduler.Stop()
}
