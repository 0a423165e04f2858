// Package jobs holds background work scheduled with cron.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RatingRecomputer refreshes the rating of every title.
type RatingRecomputer interface {
	RecomputeAll(ctx context.Context) (int, error)
}

// RatingSyncJob repairs title ratings that drifted from their reviews,
// e.g. after loading fixtures straight into the database.
type RatingSyncJob struct {
	ratings RatingRecomputer
	timeout time.Duration
	logger  *slog.Logger
}

func NewRatingSyncJob(ratings RatingRecomputer, timeout time.Duration, logger *slog.Logger) *RatingSyncJob {
	return &RatingSyncJob{ratings: ratings, timeout: timeout, logger: logger}
}

// Run is the cron.Job entry point.
func (j *RatingSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	n, err := j.ratings.RecomputeAll(ctx)
	if err != nil {
		j.logger.Error("Rating sync failed", "error", err, "updated", n)
		return
	}
	j.logger.Info("Rating sync finished", "updated", n, "duration", time.Since(start))
}

// Scheduler wraps a cron instance running the background jobs.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the rating sync on schedule. An empty schedule disables it.
func NewScheduler(schedule string, job *RatingSyncJob, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})))
	if schedule != "" {
		if _, err := c.AddJob(schedule, job); err != nil {
			return nil, fmt.Errorf("schedule rating sync %q: %w", schedule, err)
		}
		logger.Info("Rating sync scheduled", "schedule", schedule)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
