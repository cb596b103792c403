// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tphakala/calendar-go/internal/logger"
)

// Warmer precomputes holiday years. *holiday.Service implements it.
type Warmer interface {
	Warm(ctx context.Context, years ...int) error
}

// Scheduler wraps a cron instance whose jobs share a context that is
// cancelled on Stop.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
	now  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used to pick warm-up years.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a stopped scheduler logging under the "scheduler" module.
func New(log logger.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.Module("scheduler")

	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob registers fn under name on a standard five field cron spec or a
// descriptor such as @daily. An empty spec registers nothing.
func (s *Scheduler) AddJob(name, spec string, fn func(ctx context.Context) error) error {
	if spec == "" {
		s.log.Debug("job disabled", logger.String("job", name))
		return nil
	}

	id, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(s.ctx); err != nil {
			s.log.Warn("job failed",
				logger.String("job", name),
				logger.Error(err))
			return
		}
		s.log.Debug("job finished",
			logger.String("job", name),
			logger.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.mu.Lock()
	s.entries[name] = id
	s.mu.Unlock()

	s.log.Info("job scheduled", logger.String("job", name), logger.String("spec", spec))
	return nil
}

// AddHolidayWarmup schedules w to precompute the current and next year.
func (s *Scheduler) AddHolidayWarmup(spec string, w Warmer) error {
	return s.AddJob("holiday-warmup", spec, func(ctx context.Context) error {
		return w.Warm(ctx, s.warmYears()...)
	})
}

// WarmNow runs a holiday warm-up immediately on the caller's goroutine.
func (s *Scheduler) WarmNow(ctx context.Context, w Warmer) error {
	return w.Warm(ctx, s.warmYears()...)
}

func (s *Scheduler) warmYears() []int {
	year := s.now().Year()
	return []int{year, year + 1}
}

// Next returns the next run time of the named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Debug("scheduler started", logger.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Debug("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Trace(msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []any) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
