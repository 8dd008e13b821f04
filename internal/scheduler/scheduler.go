package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/jobs"
)

var ErrUnknownJob = errs.New("unknown job")

// Locker serializes a job tick across replicas. ok is false when another
// holder owns the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type task struct {
	job      jobs.Job
	interval time.Duration
	running  atomic.Bool
}

// Scheduler runs each job on its own ticker. A job never runs concurrently
// with itself: an overlapping tick is skipped, locally and across replicas.
type Scheduler struct {
	locker  Locker
	lockTTL time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	tasks map[string]*task
	order []string
	wg    sync.WaitGroup
}

func New(locker Locker, lockTTL time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		locker:  locker,
		lockTTL: lockTTL,
		logger:  logger,
		tasks:   make(map[string]*task),
	}
}

func (s *Scheduler) Add(job jobs.Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[job.Name()]; !exists {
		s.order = append(s.order, job.Name())
	}
	s.tasks[job.Name()] = &task{job: job, interval: interval}
}

func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Run blocks until ctx is cancelled and every in-flight tick has returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	for _, name := range s.order {
		t := s.tasks[name]
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, t)
		}()
	}
	s.mu.Unlock()

	<-ctx.Done()
	s.wg.Wait()
	return ctx.Err()
}

func (s *Scheduler) loop(ctx context.Context, t *task) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	s.logger.Info("job scheduled", "job", t.job.Name(), "interval", t.interval.String())
	// kick immediately
	s.tick(ctx, t)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, t)
		}
	}
}

// RunOnce runs a single tick of the named job and returns its error.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return errs.Wrapf(ErrUnknownJob, "%q", name)
	}
	return s.tick(ctx, t)
}

func (s *Scheduler) tick(ctx context.Context, t *task) error {
	name := t.job.Name()
	if !t.running.CompareAndSwap(false, true) {
		s.logger.Warn("job tick skipped: previous run still in progress", "job", name)
		return nil
	}
	defer t.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, "jobs:"+name, s.lockTTL)
		if err != nil {
			s.logger.Warn("job tick skipped: lock unavailable", "job", name, "error", err)
			return err
		}
		if !ok {
			s.logger.Debug("job tick skipped: held by another replica", "job", name)
			return nil
		}
		defer func() {
			// release on a fresh context so a cancelled run still frees the key
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				s.logger.Warn("job lock release failed", "job", name, "error", rerr)
			}
		}()
	}

	start := time.Now()
	err := t.job.Run(ctx)
	if err != nil {
		s.logger.Error("job run failed", "job", name, "error", err, "duration", time.Since(start).String())
		return err
	}
	s.logger.Debug("job run finished", "job", name, "duration", time.Since(start).String())
	return nil
}
