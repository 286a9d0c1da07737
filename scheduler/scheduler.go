// Package scheduler runs the periodic pipeline jobs inside the server process.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is a named function run every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on fixed intervals. A job never overlaps with itself:
// ticks that fire while it is running are dropped.
type Scheduler struct {
	log  *slog.Logger
	jobs []Job
}

// New returns a scheduler for jobs; jobs with a zero interval are disabled.
func New(log *slog.Logger, jobs ...Job) *Scheduler {
	s := &Scheduler{log: log.With("component", "scheduler")}
	for _, j := range jobs {
		if j.Interval <= 0 || j.Run == nil {
			s.log.Info("job disabled", slog.String("job", j.Name))
			continue
		}
		s.jobs = append(s.jobs, j)
	}
	return s
}

// Len returns the number of enabled jobs.
func (s *Scheduler) Len() int { return len(s.jobs) }

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, j := range s.jobs {
		g.Go(func() error {
			s.loop(ctx, j)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	s.log.Info("job scheduled", slog.String("job", j.Name), slog.Duration("interval", j.Interval))

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("job stopped", slog.String("job", j.Name))
			return
		case <-ticker.C:
			s.runOnce(ctx, j)
			drain(ticker.C)
		}
	}
}

// drain discards a tick buffered while the job was running.
func drain(c <-chan time.Time) {
	select {
	case <-c:
	default:
	}
}

func (s *Scheduler) runOnce(ctx context.Context, j Job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked", slog.String("job", j.Name), slog.Any("panic", r))
		}
	}()

	started := time.Now()
	if err := j.Run(ctx); err != nil {
		s.log.Warn("job failed",
			slog.String("job", j.Name),
			slog.Duration("duration", time.Since(started)),
			slog.String("error", err.Error()),
		)
		return
	}
	s.log.Info("job finished", slog.String("job", j.Name), slog.Duration("duration", time.Since(started)))
}
