package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambda-go-template/internal/httperr"
)

func stopScheduler(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.StopContext(ctx))
}

func waitForAtLeast(t *testing.T, counter *int64, expected int64, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(counter) >= expected
	}, timeout, 10*time.Millisecond, "counter did not reach the expected value")
}

func TestScheduler_New(t *testing.T) {
	s := New(Config{})

	assert.NotNil(t, s.cron)
	assert.NotNil(t, s.logger)
	assert.True(t, s.IsRunning())
}

func TestScheduler_AddCronJob(t *testing.T) {
	s := New(Config{})
	defer stopScheduler(t, s)

	var counter int64
	_, err := s.AddCronJob("@every 1s", func(context.Context) error {
		atomic.AddInt64(&counter, 1)
		return nil
	})
	require.NoError(t, err)

	s.Start()
	waitForAtLeast(t, &counter, 1, 3*time.Second)
}

func TestScheduler_AddCronJobInvalidSchedule(t *testing.T) {
	s := New(Config{})
	defer stopScheduler(t, s)

	_, err := s.AddCronJob("invalid schedule", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_Remove(t *testing.T) {
	s := New(Config{})
	defer stopScheduler(t, s)

	id, err := s.AddCronJob("@every 1s", func(context.Context) error { return nil })
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 1)

	s.Remove(id)
	assert.Empty(t, s.cron.Entries())
}

func TestScheduler_HooksAndErrors(t *testing.T) {
	var (
		mu       sync.Mutex
		started  []string
		finished []error
	)
	s := New(Config{JobHooks: JobHooks{
		OnJobStart: func(name string) {
			mu.Lock()
			defer mu.Unlock()
			started = append(started, name)
		},
		OnJobFinish: func(_ string, _ time.Duration, err error) {
			mu.Lock()
			defer mu.Unlock()
			finished = append(finished, err)
		},
	}})
	defer stopScheduler(t, s)

	boom := errors.New("boom")
	_, err := s.AddCronJobWithOptions("@every 1s", func(context.Context) error { return boom },
		JobOptions{Name: "failing", OverlapPolicy: SkipIfRunning})
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(finished) > 0
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "failing", started[0])
	assert.ErrorIs(t, finished[0], boom)
}

func TestScheduler_PanicIsRecovered(t *testing.T) {
	var log bytes.Buffer
	s := New(Config{Logger: slog.New(slog.NewTextHandler(&log, nil))})

	err := safeRun(context.Background(), func(context.Context) error { panic("kaboom") })
	var perr *httperr.PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "kaboom", perr.Value)

	s.run(func(context.Context) error { panic("again") }, JobOptions{Name: "panicky"})
	assert.Contains(t, log.String(), "job failed")
	assert.Contains(t, log.String(), "panicky")
}

func TestScheduler_Timeout(t *testing.T) {
	s := New(Config{})

	var deadline atomic.Bool
	s.run(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadline.Store(ok)
		return nil
	}, JobOptions{Timeout: time.Second})
	assert.True(t, deadline.Load())
}

func TestScheduler_StopCancelsJobs(t *testing.T) {
	s := New(Config{})

	var canceled int64
	_, err := s.AddCronJob("@every 1s", func(ctx context.Context) error {
		<-ctx.Done()
		atomic.AddInt64(&canceled, 1)
		return ctx.Err()
	})
	require.NoError(t, err)
	s.Start()

	time.Sleep(1500 * time.Millisecond)
	stopScheduler(t, s)

	assert.False(t, s.IsRunning())
	assert.GreaterOrEqual(t, atomic.LoadInt64(&canceled), int64(1))
	// a second stop is a no-op
	stopScheduler(t, s)
}

func TestOverlapPolicyString(t *testing.T) {
	assert.Equal(t, "allow", AllowOverlap.String())
	assert.Equal(t, "skip", SkipIfRunning.String())
	assert.Equal(t, "delay", DelayIfRunning.String())
}
