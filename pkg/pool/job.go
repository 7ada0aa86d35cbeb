package pool

import (
	"context"
	"time"
)

// Work is the opaque analysis function executed by a worker. The context
// carries the job deadline and is cancelled when the pool shuts down.
type Work func(ctx context.Context) (any, error)

// Result holds the outcome of a job.
type Result struct {
	Value any
	Err   error
}

// Priority controls where a job lands in the queue when no worker is idle.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// Request describes one unit of analysis work to submit. Kind and SubjectID
// are used only for logging and metrics grouping; the pool never branches
// on them.
type Request struct {
	Kind      string
	SubjectID string
	Priority  Priority
	Deadline  time.Duration // falls back to Config.DefaultDeadline when zero
	CacheKey  string        // when set, a successful result is cached under it
	Work      Work
}

// job is the immutable admission-time record of a Request. The id is
// assigned by the dispatcher and never reused.
type job struct {
	id          uint64
	kind        string
	subjectID   string
	priority    Priority
	deadline    time.Duration
	cacheKey    string
	work        Work
	reply       chan Result // buffered(1); nil for fire-and-forget
	requestedAt time.Time

	// ctx carries the execution deadline; set once by the dispatcher when
	// the job is handed to a worker.
	ctx context.Context
}

func (j *job) resolve(res Result) {
	if j.reply != nil {
		j.reply <- res
	}
}
