package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrDeadlineExceeded is returned by RunWithDeadline when the timer fires
// before the job finishes.
var ErrDeadlineExceeded = errors.New("deadline exceeded")

type jobResult[T any] struct {
	value T
	err   error
}

// RunWithDeadline races job against timeout. The job is not cancelled when
// the deadline wins: it keeps running in its own goroutine and its side
// effects still land, only its result is discarded.
func RunWithDeadline[T any](timeout time.Duration, job func() (T, error)) (T, error) {
	done := make(chan jobResult[T], 1)
	go func() {
		var result jobResult[T]
		defer func() {
			if rec := recover(); rec != nil {
				result.err = fmt.Errorf("job panicked: %v", rec)
			}
			done <- result
		}()
		result.value, result.err = job()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-done:
		return result.value, result.err
	case <-timer.C:
		var zero T
		return zero, fmt.Errorf("%w after %s", ErrDeadlineExceeded, timeout)
	}
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrDeadlineExceeded)
}
