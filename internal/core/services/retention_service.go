package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ============================================================
// Retention Service - prunes old snapshot revisions on a schedule
// ============================================================

// RetentionService keeps the newest revisions of a snapshot key and deletes
// the rest. It never touches the live state.
type RetentionService struct {
	cron     *cron.Cron
	pruner   SnapshotPruner
	key      string
	keep     int
	schedule string
	timeout  time.Duration
	log      *logrus.Entry
}

// NewRetentionService creates a retention job; call Start to schedule it
func NewRetentionService(pruner SnapshotPruner, key string, keep int, schedule string, log *logrus.Entry) *RetentionService {
	if keep < 1 {
		keep = 1
	}
	return &RetentionService{
		cron:     cron.New(),
		pruner:   pruner,
		key:      key,
		keep:     keep,
		schedule: schedule,
		timeout:  30 * time.Second,
		log:      log,
	}
}

// Start registers the job and starts the scheduler
func (s *RetentionService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.WithField("schedule", s.schedule).Info("🚀 Snapshot retention started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *RetentionService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("🛑 Snapshot retention stopped")
}

// RunOnce prunes immediately
func (s *RetentionService) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := s.pruner.Prune(ctx, s.key, s.keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return deleted, nil
}

func (s *RetentionService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	deleted, err := s.RunOnce(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Snapshot retention failed")
		return
	}
	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("Pruned old snapshot revisions")
	}
}
