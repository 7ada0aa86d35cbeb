package pool

import (
	"context"
	"sync"
	"time"
)

// event is a message posted back to the dispatcher loop.
type event interface{ isEvent() }

type completionEvent struct {
	workerID int
	jobID    uint64
	res      Result
}

type crashEvent struct {
	workerID int
	jobID    uint64
	cause    *WorkerCrashError
}

type deadlineEvent struct {
	jobID uint64
}

func (completionEvent) isEvent() {}
func (crashEvent) isEvent()      {}
func (deadlineEvent) isEvent()   {}

// worker is a long-lived execution slot running at most one job at a time.
// It owns no pool state; it only receives jobs and posts events.
type worker struct {
	id        int
	jobs      chan *job
	events    chan<- event
	poolCtx   context.Context
	startedAt time.Time
}

func (w *worker) loop(wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range w.jobs {
		if !w.run(j) {
			// crashed; the dispatcher spawns a replacement
			return
		}
	}
}

func (w *worker) run(j *job) (ok bool) {
	ok = true
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			w.send(crashEvent{
				workerID: w.id,
				jobID:    j.id,
				cause:    &WorkerCrashError{WorkerID: w.id, Panic: rec},
			})
		}
	}()

	v, err := j.work(j.ctx)
	if err != nil {
		err = &WorkError{Err: err}
	}
	w.send(completionEvent{workerID: w.id, jobID: j.id, res: Result{Value: v, Err: err}})
	return
}

func (w *worker) send(ev event) {
	select {
	case w.events <- ev:
	case <-w.poolCtx.Done():
	}
}
