package pool

import "slices"

// jobQueue is a bounded deque. High-priority jobs form their own FIFO
// sub-queue at the head: a new high job is inserted behind previously queued
// high jobs but ahead of everything else. All other priorities append.
type jobQueue struct {
	items []*job
	highs int // length of the high-priority prefix
	limit int
}

func newJobQueue(limit int) *jobQueue {
	return &jobQueue{limit: limit}
}

func (q *jobQueue) push(j *job) error {
	if len(q.items) >= q.limit {
		return ErrQueueFull
	}
	if j.priority == PriorityHigh {
		q.items = slices.Insert(q.items, q.highs, j)
		q.highs++
	} else {
		q.items = append(q.items, j)
	}
	return nil
}

func (q *jobQueue) pop() (*job, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	j := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if q.highs > 0 {
		q.highs--
	}
	return j, true
}

// clear drops all queued jobs and returns how many were dropped. Their
// callers receive no reply and are expected to time out.
func (q *jobQueue) clear() []*job {
	dropped := q.items
	q.items = nil
	q.highs = 0
	return dropped
}

func (q *jobQueue) len() int { return len(q.items) }
