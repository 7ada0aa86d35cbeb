package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned by synchronous submissions when all workers
	// are busy and the job queue is at its limit.
	ErrQueueFull = errors.New("pool: job queue is full")

	// ErrInvalidSize is returned by ScaleTo for a target outside the
	// configured [MinSize, MaxSize] bounds.
	ErrInvalidSize = errors.New("pool: size out of bounds")

	// ErrClosed is returned for any operation on a closed pool.
	ErrClosed = errors.New("pool: closed")
)

// WorkerCrashError reports that the worker executing a job terminated
// abnormally before completion. The job is not retried by the pool.
type WorkerCrashError struct {
	WorkerID int
	Panic    any
}

func (e *WorkerCrashError) Error() string {
	return fmt.Sprintf("pool: worker %d crashed: %v", e.WorkerID, e.Panic)
}

// DeadlineError reports that a job did not complete within its deadline.
type DeadlineError struct {
	JobID    uint64
	Deadline string
}

func (e *DeadlineError) Error() string {
	return fmt.Sprintf("pool: job %d exceeded deadline of %s", e.JobID, e.Deadline)
}

// WorkError wraps a failure returned by the work function itself, so callers
// can distinguish "the pool failed to run my job" from "my job ran and
// failed".
type WorkError struct {
	Err error
}

func (e *WorkError) Error() string { return fmt.Sprintf("pool: work failed: %v", e.Err) }

func (e *WorkError) Unwrap() error { return e.Err }

// IsEngineError reports whether err originated in the pool itself rather
// than in the submitted work.
func IsEngineError(err error) bool {
	var crash *WorkerCrashError
	var deadline *DeadlineError
	return errors.Is(err, ErrQueueFull) ||
		errors.Is(err, ErrClosed) ||
		errors.As(err, &crash) ||
		errors.As(err, &deadline)
}
