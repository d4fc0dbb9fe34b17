// internal/services/marketing/analytics/scheduler.go
package analytics

import (
	"context"
	"time"

	"workwise-backend/internal/common/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic stats snapshot
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  logger.Logger
}

func NewScheduler(service *Service, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "analytics-scheduler"}),
	}
}

// Start registers the snapshot job with the given cron expression and
// begins the scheduler
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.service.SnapshotStats(ctx); err != nil {
			s.logger.Error("stats snapshot failed", map[string]interface{}{"error": err.Error()})
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("analytics scheduler started", map[string]interface{}{"spec": spec})
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
