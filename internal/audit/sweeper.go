package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// cronParser is configured for standard 5-field cron (minute hour day month weekday)
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Sweeper prunes journal entries past the retention window on a cron
// schedule.
type Sweeper struct {
	store     *Store
	schedule  cron.Schedule
	retention time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewSweeper validates the cron expression and builds a sweeper. A nil
// store or retentionDays <= 0 yields a sweeper that never runs.
func NewSweeper(store *Store, scheduleExpr string, retentionDays int) (*Sweeper, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Sweeper{store: store, ctx: ctx, cancel: cancel}

	if store == nil || retentionDays <= 0 {
		return s, nil
	}

	sched, err := cronParser.Parse(scheduleExpr)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid audit sweep schedule %q: %w", scheduleExpr, err)
	}
	s.schedule = sched
	s.retention = time.Duration(retentionDays) * 24 * time.Hour

	return s, nil
}

// Start begins the sweep loop
func (s *Sweeper) Start() {
	if s.schedule == nil {
		return
	}
	s.wg.Add(1)
	go s.loop()
	logger.Info("Audit sweeper started (retention %s)", s.retention)
}

// Stop stops the loop and waits for an in-flight sweep
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	// Run immediately on start
	s.sweep()

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	deleted, err := s.store.Sweep(s.retention)
	if err != nil {
		logger.Error("Audit sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		logger.Info("Audit sweep removed %d events older than %s", deleted, s.retention)
	}
}
