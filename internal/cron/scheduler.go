// Package cron runs periodic housekeeping on a cron schedule.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepFunc reaps expired work and reports how much it removed.
type SweepFunc func(ctx context.Context) int

// Sweeper fires a SweepFunc on a cron schedule.
type Sweeper struct {
	cron     *cron.Cron
	schedule string
	sweep    SweepFunc
}

func NewSweeper(schedule string, sweep SweepFunc) (*Sweeper, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule: %w", err)
	}
	return &Sweeper{cron: cron.New(), schedule: schedule, sweep: sweep}, nil
}

// Start begins the schedule.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("sweeper started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the schedule.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) run() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n := s.sweep(ctx)
	if n > 0 {
		slog.Info("sweep completed", "reaped", n, "duration", time.Since(start))
	}
}
