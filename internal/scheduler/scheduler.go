// Package scheduler triggers a periodic reconciliation sync on a cron
// schedule. It is pure ambient orchestration around the core engine:
// the core stays synchronous and has no notion of "when" to run.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"ynab-recon-engine/pkg/logger"
)

// SyncFunc performs one reconciliation sync cycle. Scheduler invokes
// it on every tick; a long-running or failing cycle is logged and
// does not stop future ticks.
type SyncFunc func(ctx context.Context) error

// Scheduler wraps a cron runner with a single registered sync job.
type Scheduler struct {
	cron *cron.Cron
	sync SyncFunc
}

// New builds a Scheduler that runs sync on the given 5-field cron
// expression.
func New(schedule string, sync SyncFunc) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, sync: sync}

	_, err := c.AddFunc(schedule, s.runOnce)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	log := logger.GetLogger()
	log.Info("scheduled sync starting")
	if err := s.sync(context.Background()); err != nil {
		log.WithError(err).Error("scheduled sync failed")
		return
	}
	log.Info("scheduled sync completed")
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, waiting for any in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
