package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithDeadline(t *testing.T) {
	t.Run("returns the job result when it finishes first", func(t *testing.T) {
		got, err := RunWithDeadline(time.Second, func() (string, error) {
			return "done", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "done", got)
	})

	t.Run("returns the job error when it finishes first", func(t *testing.T) {
		jobErr := errors.New("upstream failed")
		_, err := RunWithDeadline(time.Second, func() (int, error) {
			return 0, jobErr
		})
		assert.ErrorIs(t, err, jobErr)
		assert.False(t, IsTimeout(err))
	})

	t.Run("times out without cancelling the job", func(t *testing.T) {
		var written atomic.Bool
		release := make(chan struct{})
		finished := make(chan struct{})

		start := time.Now()
		_, err := RunWithDeadline(100*time.Millisecond, func() (bool, error) {
			<-release
			written.Store(true)
			close(finished)
			return true, nil
		})
		elapsed := time.Since(start)

		assert.True(t, IsTimeout(err))
		assert.Less(t, elapsed, time.Second)
		assert.False(t, written.Load())

		close(release)
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("job did not run to completion after the deadline")
		}
		assert.True(t, written.Load())
	})

	t.Run("recovers a panicking job", func(t *testing.T) {
		_, err := RunWithDeadline(time.Second, func() (int, error) {
			panic("boom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}
