package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidSchedule_ReturnsError(t *testing.T) {
	_, err := New("not a cron expression", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestNew_ValidSchedule_StartsAndStopsCleanly(t *testing.T) {
	s, err := New("0 */6 * * *", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	s.Start()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Stop to return promptly when no run is in flight")
	}
}

func TestRunOnce_SyncError_DoesNotPanic(t *testing.T) {
	s, err := New("* * * * *", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		s.runOnce()
	})
}
