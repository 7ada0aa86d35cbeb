// Package pool implements the bounded analysis worker pool.
//
// The pool runs potentially slow, CPU-bound analysis work off the request
// path with bounded concurrency, priority scheduling, dynamic sizing and
// crash recovery. Work is submitted either synchronously (the caller blocks
// for the outcome) or asynchronously (fire-and-forget).
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                             Pool                                │
//	│                                                                 │
//	│  ┌──────────────┐    ┌──────────────┐    ┌──────────────┐       │
//	│  │   Worker 1   │    │   Worker 2   │    │   Worker N   │       │
//	│  └──────┬───────┘    └──────┬───────┘    └──────┬───────┘       │
//	│         │ completion / crash events             │               │
//	│         └───────────────────┼───────────────────┘               │
//	│                             ▼                                   │
//	│                      ┌─────────────┐                            │
//	│                      │    run()    │  single serialized loop    │
//	│                      └──────┬──────┘                            │
//	│                             │                                   │
//	│  ┌──────────────────────────┴──────────────────────────┐        │
//	│  │                    Job Queue                        │        │
//	│  │  [high ... high] [normal/low ... normal/low]        │        │
//	│  └─────────────────────────────────────────────────────┘        │
//	│                             ▲                                   │
//	│          Submit / SubmitAsync / ScaleTo / ClearQueue            │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Dispatch Model
//
// All pool state (worker set, job queue, job id counter) is owned by a
// single run() goroutine. Submissions, worker completions, crashes, deadline
// expirations, administrative commands and autoscale ticks all flow through
// it as events, so there is exactly one decision happening at a time and no
// locks are needed.
//
// A submission is handed to an idle worker immediately when one exists.
// Otherwise it is queued: high-priority jobs join a FIFO sub-queue at the
// head of the queue, everything else appends to the tail. When the queue is
// at its limit, synchronous callers get ErrQueueFull and asynchronous
// submissions are dropped with a logged warning.
//
// # Failure Handling
//
// Every synchronous caller receives exactly one outcome. A panic inside the
// work function is recovered by the worker, reported as a WorkerCrashError,
// and the crashed worker is replaced by a fresh one, leaving the pool size
// unchanged. A job that exceeds its deadline resolves its caller with a
// DeadlineError; since a goroutine cannot be interrupted, the worker running
// it is abandoned and replaced, and its eventual result is discarded. Errors
// returned by the work function itself are wrapped in WorkError so callers
// can tell an engine failure from a failed analysis.
//
// # Autoscaling
//
// On a fixed period the pool grows by one worker when the queue backs up
// past a threshold, or retires one idle worker when too many sit idle, never
// leaving the [MinSize, MaxSize] band. A busy worker is never retired.
package pool
