package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"lambda-go-template/internal/httperr"
)

type JobFunc func(ctx context.Context) error

type JobID = cron.EntryID

// OverlapPolicy decides what happens when a run comes due while the previous
// run of the same job is still going.
type OverlapPolicy int

const (
	AllowOverlap OverlapPolicy = iota
	SkipIfRunning
	DelayIfRunning
)

var policyNames = [...]string{AllowOverlap: "allow", SkipIfRunning: "skip", DelayIfRunning: "delay"}

func (p OverlapPolicy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return policyNames[AllowOverlap]
	}
	return policyNames[p]
}

func (p OverlapPolicy) chain(l cron.Logger) cron.Chain {
	switch p {
	case SkipIfRunning:
		return cron.NewChain(cron.SkipIfStillRunning(l))
	case DelayIfRunning:
		return cron.NewChain(cron.DelayIfStillRunning(l))
	}
	return cron.NewChain()
}

type JobOptions struct {
	Name          string
	Timeout       time.Duration
	OverlapPolicy OverlapPolicy
}

// JobHooks are called around every run. Either may be nil.
type JobHooks struct {
	OnJobStart  func(name string)
	OnJobFinish func(name string, d time.Duration, err error)
}

type Config struct {
	Logger   *slog.Logger
	JobHooks JobHooks
}

// Scheduler runs cron jobs until stopped. Job contexts are canceled by
// StopContext.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	hooks  JobHooks

	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
}

// cronLog adapts slog to cron.Logger. Cron's chatty info lines go to debug.
type cronLog struct{ l *slog.Logger }

func (c cronLog) Info(msg string, kv ...any) { c.l.Debug(msg, kv...) }

func (c cronLog) Error(err error, msg string, kv ...any) {
	c.l.Error(msg, append([]any{"err", err}, kv...)...)
}

func New(cfg Config) *Scheduler {
	return NewWithContext(context.Background(), cfg)
}

// NewWithContext derives every job context from parent.
func NewWithContext(parent context.Context, cfg Config) *Scheduler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLogger(cronLog{log.With("component", "cron")})),
		logger: log,
		hooks:  cfg.JobHooks,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) AddCronJob(schedule string, fn JobFunc) (JobID, error) {
	return s.AddCronJobWithOptions(schedule, fn, JobOptions{})
}

func (s *Scheduler) AddCronJobWithOptions(schedule string, fn JobFunc, opts JobOptions) (JobID, error) {
	if opts.Name == "" {
		opts.Name = "unnamed"
	}
	log := s.logger.With("job", opts.Name, "schedule", schedule)

	j := &entry{s: s, fn: fn, opts: opts}
	id, err := s.cron.AddJob(schedule, opts.OverlapPolicy.chain(cronLog{log}).Then(j))
	if err != nil {
		log.Error("invalid cron job", "err", err)
		return 0, err
	}
	log.Info("cron job added", "id", id, "overlap", opts.OverlapPolicy.String())
	return id, nil
}

// Remove unregisters a job without interrupting a run in progress.
func (s *Scheduler) Remove(id JobID) { s.cron.Remove(id) }

func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("scheduler starting", "jobs", len(s.cron.Entries()))
		s.cron.Start()
	})
}

// StopContext cancels job contexts, stops scheduling and waits for running
// jobs to return or for ctx to end, whichever comes first.
func (s *Scheduler) StopContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.stopOnce.Do(func() {
			s.cancel()
			<-s.cron.Stop().Done()
			s.logger.Info("scheduler stopped")
		})
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", "err", ctx.Err())
		return ctx.Err()
	}
}

// IsRunning is false once StopContext has been called.
func (s *Scheduler) IsRunning() bool { return s.ctx.Err() == nil }

type entry struct {
	s    *Scheduler
	fn   JobFunc
	opts JobOptions
}

func (e *entry) Run() { e.s.run(e.fn, e.opts) }

func (s *Scheduler) run(fn JobFunc, opts JobOptions) {
	if s.hooks.OnJobStart != nil {
		s.hooks.OnJobStart(opts.Name)
	}

	ctx, cancel := s.ctx, context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}
	start := time.Now()
	err := safeRun(ctx, fn)
	cancel()
	took := time.Since(start)

	if s.hooks.OnJobFinish != nil {
		s.hooks.OnJobFinish(opts.Name, took, err)
	}
	if err != nil {
		s.logger.Error("job failed", "job", opts.Name, "duration", took, "err", err)
		return
	}
	s.logger.Debug("job done", "job", opts.Name, "duration", took)
}

// safeRun turns a panic in fn into a *httperr.PanicError.
func safeRun(ctx context.Context, fn JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = httperr.Recovered(r)
		}
	}()
	return fn(ctx)
}
