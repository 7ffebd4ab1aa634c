// Package jobs runs periodic maintenance work on a cron schedule.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Job interface {
	Name() string
	// Schedule is a cron spec (or @every descriptor). Empty means on-demand only.
	Schedule() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
	log  zerolog.Logger
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Register adds job and schedules it when it has a schedule.
func (s *Scheduler) Register(job Job) error {
	schedule := job.Schedule()
	if schedule != "" {
		if _, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), job) }); err != nil {
			return fmt.Errorf("schedule %s: %w", job.Name(), err)
		}
		s.log.Info().Str("job", job.Name()).Str("schedule", schedule).Msg("job scheduled")
	} else {
		s.log.Info().Str("job", job.Name()).Msg("job registered on demand")
	}

	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.jobs)).Msg("job scheduler started")
}

// Stop waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("job scheduler stopped")
}

// RunByName runs a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return s.run(ctx, job)
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	s.log.Debug().Str("job", job.Name()).Msg("job started")
	if err := job.Run(ctx); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
		return err
	}
	s.log.Info().Str("job", job.Name()).Msg("job finished")
	return nil
}
