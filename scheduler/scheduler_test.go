package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SkipsDisabledJobs(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	s := New(slog.Default(),
		Job{Name: "a", Interval: time.Second, Run: noop},
		Job{Name: "b", Interval: 0, Run: noop},
		Job{Name: "c", Interval: time.Second},
	)
	assert.Equal(t, 1, s.Len())
}

func TestDrain_DiscardsBufferedTick(t *testing.T) {
	t.Parallel()

	c := make(chan time.Time, 1)
	c <- time.Now()
	drain(c)
	assert.Empty(t, c)

	// nothing buffered: drain returns without blocking
	drain(c)
	assert.Empty(t, c)
}

func TestStart_RunsUntilCancelled(t *testing.T) {
	t.Parallel()

	var ok, failing, panicking atomic.Int32
	s := New(slog.Default(),
		Job{Name: "ok", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
			ok.Add(1)
			return nil
		}},
		Job{Name: "failing", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
			failing.Add(1)
			return errors.New("upstream down")
		}},
		Job{Name: "panicking", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
			panicking.Add(1)
			panic("boom")
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		return ok.Load() >= 2 && failing.Load() >= 2 && panicking.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
