// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// stopTimeout bounds how long Stop waits for running jobs.
const stopTimeout = 5 * time.Second

// Job is a unit of scheduled work. Schedule is a cron spec with a leading
// seconds field.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *logger.Logger
}

// NewScheduler registers jobs with a seconds-aware cron. It fails on the
// first invalid schedule.
func NewScheduler(jobs []Job, log *logger.Logger) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		ctx:    ctx,
		cancel: cancel,
		logger: log,
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.Schedule, s.wrap(job)); err != nil {
			cancel()
			return nil, fmt.Errorf("error scheduling job %q: %w", job.Name, err)
		}
		log.Info().Str("job", job.Name).Str("schedule", job.Schedule).Msg("job scheduled")
	}

	return s, nil
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		log := s.logger.GetChildLogger()
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("job", job.Name)
		})
		ctx := log.WithContext(s.ctx)

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			log.Err(err).Dur("duration", time.Since(start)).Msg("job failed")
			return
		}
		log.Debug().Dur("duration", time.Since(start)).Msg("job finished")
	}
}

func (s *Scheduler) Run() {
	s.cron.Start()
}

// Stop prevents new runs, cancels the context of running ones and waits for
// them up to stopTimeout.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
	case <-time.After(stopTimeout):
		s.logger.Warn().Msg("scheduler stop timed out")
	}
}
