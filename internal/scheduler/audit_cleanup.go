// Package scheduler runs periodic background maintenance jobs.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// AuditEventCleaner provides the ability to delete old audit events.
type AuditEventCleaner interface {
	DeleteOldEvents(olderThan time.Time) (int64, error)
}

// AuditCleanupScheduler periodically prunes audit events older than the
// configured retention period.
type AuditCleanupScheduler struct {
	cleaner       AuditEventCleaner
	schedule      string
	retentionDays int

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a new scheduler instance.
func NewAuditCleanupScheduler(cleaner AuditEventCleaner, schedule string, retentionDays int) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		cleaner:       cleaner,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *AuditCleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runCleanup); err != nil {
		return fmt.Errorf("failed to schedule audit cleanup job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s', retention %d days",
		s.schedule, s.retentionDays)

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to
// complete.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false

	log.Printf("Audit cleanup scheduler: stopped")
}

func (s *AuditCleanupScheduler) runCleanup() {
	retentionDays := s.retentionDays
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	deleted, err := s.cleaner.DeleteOldEvents(cutoff)
	if err != nil {
		log.Printf("Audit cleanup scheduler: cleanup failed: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("Audit cleanup scheduler: removed %d events older than %d days", deleted, retentionDays)
	}
}
