package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CacheNamespace is the namespace under which successful results are written
// to the external cache.
const CacheNamespace = "analysis"

// submitGrace is the extra slack a synchronous caller waits beyond the job
// deadline before giving up, covering queue wait and dispatch overhead.
const submitGrace = 2 * time.Second

// Option configures optional pool collaborators.
type Option func(*Pool)

func WithCache(c Cache) Option { return func(p *Pool) { p.cache = c } }

func WithSink(s Sink) Option { return func(p *Pool) { p.sink = s } }

func WithLogger(l *zap.SugaredLogger) Option { return func(p *Pool) { p.log = l } }

// Pool is the bounded analysis worker pool. Construct one per engine and
// hand callers the reference; there is no global instance.
type Pool struct {
	cfg   Config
	cache Cache
	sink  Sink
	log   *zap.SugaredLogger

	submitCh chan *job
	events   chan event
	cmds     chan command
	closeCh  chan struct{}
	done     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	// State below is owned exclusively by run(); nothing else reads or
	// mutates it.
	workers      map[int]*worker
	idle         []*worker
	queue        *jobQueue
	inflight     map[uint64]*execution
	target       int
	nextJobID    uint64
	nextWorkerID int
	processed    uint64
}

// execution tracks one job currently occupying a worker.
type execution struct {
	job     *job
	worker  int
	timer   *time.Timer
	cancel  context.CancelFunc
	started time.Time
}

type command interface{ isCommand() }

type scaleCmd struct {
	n     int
	reply chan struct{}
}

type clearCmd struct {
	reply chan int
}

type statsCmd struct {
	reply chan Stats
}

func (scaleCmd) isCommand() {}
func (clearCmd) isCommand() {}
func (statsCmd) isCommand() {}

// New creates a pool with cfg.DefaultSize workers and starts its dispatcher
// loop.
func New(cfg Config, opts ...Option) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:      cfg,
		submitCh: make(chan *job),
		events:   make(chan event, cfg.MaxSize),
		cmds:     make(chan command),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		workers:  make(map[int]*worker),
		queue:    newJobQueue(cfg.QueueLimit),
		inflight: make(map[uint64]*execution),
		target:   cfg.DefaultSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = zap.S().Named("pool")
	}

	for range cfg.DefaultSize {
		p.spawn()
	}
	go p.run()
	return p, nil
}

// Submit runs req on the pool and blocks until it completes, its deadline
// (plus dispatch overhead) elapses, or ctx is cancelled. When req.CacheKey
// is set and the cache holds a value for it, the cached value is returned
// without admitting a job.
func (p *Pool) Submit(ctx context.Context, req Request) (any, error) {
	if req.CacheKey != "" && p.cache != nil {
		if v, ok := p.cache.Get(CacheNamespace, req.CacheKey); ok {
			return v, nil
		}
	}

	deadline := req.Deadline
	if deadline <= 0 {
		deadline = p.cfg.DefaultDeadline
	}
	j := &job{
		kind:        req.Kind,
		subjectID:   req.SubjectID,
		priority:    req.Priority,
		deadline:    deadline,
		cacheKey:    req.CacheKey,
		work:        req.Work,
		reply:       make(chan Result, 1),
		requestedAt: time.Now(),
	}

	select {
	case p.submitCh <- j:
	case <-p.ctx.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timer := time.NewTimer(deadline + submitGrace)
	defer timer.Stop()
	select {
	case res := <-j.reply:
		return res.Value, res.Err
	case <-timer.C:
		return nil, &DeadlineError{Deadline: deadline.String()}
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, ErrClosed
	}
}

// SubmitAsync admits req fire-and-forget. When the queue is full the job is
// dropped with a logged warning rather than surfacing an error.
func (p *Pool) SubmitAsync(req Request) error {
	deadline := req.Deadline
	if deadline <= 0 {
		deadline = p.cfg.DefaultDeadline
	}
	j := &job{
		kind:        req.Kind,
		subjectID:   req.SubjectID,
		priority:    req.Priority,
		deadline:    deadline,
		cacheKey:    req.CacheKey,
		work:        req.Work,
		requestedAt: time.Now(),
	}

	select {
	case p.submitCh <- j:
		return nil
	case <-p.ctx.Done():
		return ErrClosed
	}
}

// Stats returns a snapshot of pool occupancy. A closed pool reports zeroes.
func (p *Pool) Stats() Stats {
	cmd := statsCmd{reply: make(chan Stats, 1)}
	select {
	case p.cmds <- cmd:
	case <-p.ctx.Done():
		return Stats{}
	}
	select {
	case s := <-cmd.reply:
		return s
	case <-p.ctx.Done():
		return Stats{}
	}
}

// ScaleTo resizes the pool to n workers. Targets outside the configured
// bounds are rejected with ErrInvalidSize and leave the pool unchanged.
// Shrinking retires idle workers immediately; excess busy workers are
// retired as they complete.
func (p *Pool) ScaleTo(n int) error {
	if n < p.cfg.MinSize || n > p.cfg.MaxSize {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidSize, n, p.cfg.MinSize, p.cfg.MaxSize)
	}
	cmd := scaleCmd{n: n, reply: make(chan struct{}, 1)}
	select {
	case p.cmds <- cmd:
	case <-p.ctx.Done():
		return ErrClosed
	}
	select {
	case <-cmd.reply:
		return nil
	case <-p.ctx.Done():
		return ErrClosed
	}
}

// ClearQueue discards every queued job and returns how many were dropped.
// Synchronous callers of dropped jobs receive no reply and time out; this is
// an operational escape hatch, not a normal path.
func (p *Pool) ClearQueue() (int, error) {
	cmd := clearCmd{reply: make(chan int, 1)}
	select {
	case p.cmds <- cmd:
	case <-p.ctx.Done():
		return 0, ErrClosed
	}
	select {
	case n := <-cmd.reply:
		return n, nil
	case <-p.ctx.Done():
		return 0, ErrClosed
	}
}

// Close shuts the pool down, cancelling queued and in-flight work and
// waiting for workers to exit. It is idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.cancel()
		p.closeCh <- struct{}{}
		<-p.done
	})
}

func (p *Pool) run() {
	ticker := time.NewTicker(p.cfg.AutoscalePeriod)
	defer ticker.Stop()

	for {
		select {
		case j := <-p.submitCh:
			p.admit(j)
		case ev := <-p.events:
			p.handleEvent(ev)
		case cmd := <-p.cmds:
			p.handleCommand(cmd)
		case <-ticker.C:
			p.autoscale()
		case <-p.closeCh:
			p.shutdown()
			return
		}
	}
}

// admit assigns the job id and either starts the job on an idle worker or
// queues it by priority.
func (p *Pool) admit(j *job) {
	j.id = p.nextJobID
	p.nextJobID++

	if w := p.takeIdle(); w != nil {
		p.start(w, j)
		return
	}
	if err := p.queue.push(j); err != nil {
		if j.reply == nil {
			p.log.Warnw("queue full, dropping async job",
				"kind", j.kind, "subject", j.subjectID, "queue_limit", p.cfg.QueueLimit)
			p.observe("dropped", 0, j)
			return
		}
		j.resolve(Result{Err: ErrQueueFull})
	}
}

func (p *Pool) start(w *worker, j *job) {
	ctx, cancel := context.WithTimeout(p.ctx, j.deadline)
	j.ctx = ctx
	ex := &execution{job: j, worker: w.id, cancel: cancel, started: time.Now()}
	ex.timer = time.AfterFunc(j.deadline, func() {
		select {
		case p.events <- deadlineEvent{jobID: j.id}:
		case <-p.ctx.Done():
		}
	})
	p.inflight[j.id] = ex
	p.observe("queue_wait", ex.started.Sub(j.requestedAt), j)
	w.jobs <- j
}

// dispatch drains the queue as far as the idle workers allow.
func (p *Pool) dispatch() {
	for len(p.idle) > 0 && p.queue.len() > 0 {
		j, _ := p.queue.pop()
		w := p.takeIdle()
		p.start(w, j)
	}
}

func (p *Pool) handleEvent(ev event) {
	switch e := ev.(type) {
	case completionEvent:
		p.onCompletion(e)
	case crashEvent:
		p.onCrash(e)
	case deadlineEvent:
		p.onDeadline(e)
	}
}

func (p *Pool) onCompletion(ev completionEvent) {
	if ex, ok := p.inflight[ev.jobID]; ok && ex.worker == ev.workerID {
		outcome := "completed"
		if ev.res.Err != nil {
			outcome = "failed"
		}
		p.finish(ex, ev.res, outcome)
	}
	w, live := p.workers[ev.workerID]
	if !live {
		// late result from an abandoned worker; already replaced
		return
	}
	p.recycle(w)
}

func (p *Pool) onCrash(ev crashEvent) {
	if ex, ok := p.inflight[ev.jobID]; ok && ex.worker == ev.workerID {
		p.finish(ex, Result{Err: ev.cause}, "crashed")
	}
	if _, live := p.workers[ev.workerID]; !live {
		return
	}
	p.log.Errorw("worker crashed, replacing it", "worker", ev.workerID, "panic", ev.cause.Panic)
	delete(p.workers, ev.workerID)
	p.spawn()
	p.dispatch()
}

func (p *Pool) onDeadline(ev deadlineEvent) {
	ex, ok := p.inflight[ev.jobID]
	if !ok {
		return // already resolved
	}
	j := ex.job
	p.finish(ex, Result{Err: &DeadlineError{JobID: j.id, Deadline: j.deadline.String()}}, "timeout")

	// The goroutine running the overdue job cannot be interrupted, only
	// cancelled via its context. Abandon the worker and replace it so a
	// runaway job does not occupy a slot indefinitely.
	if w, live := p.workers[ex.worker]; live {
		p.log.Warnw("abandoning worker on job deadline",
			"worker", w.id, "job", j.id, "kind", j.kind, "deadline", j.deadline)
		close(w.jobs)
		delete(p.workers, w.id)
		p.spawn()
		p.dispatch()
	}
}

// finish resolves a job outcome exactly once: the execution record is
// removed here and every resolution path goes through the dispatcher loop.
func (p *Pool) finish(ex *execution, res Result, outcome string) {
	ex.timer.Stop()
	ex.cancel()
	delete(p.inflight, ex.job.id)
	p.processed++

	j := ex.job
	elapsed := time.Since(ex.started)
	if res.Err == nil && j.cacheKey != "" && p.cache != nil {
		// best-effort; a failed cache write does not affect the caller
		p.cache.Put(CacheNamespace, j.cacheKey, res.Value, p.cfg.ResultTTL)
	}
	p.observe(outcome, elapsed, j)
	j.resolve(res)
}

// recycle returns a worker to the idle set, or retires it when the pool is
// above its target size, or hands it the next queued job directly.
func (p *Pool) recycle(w *worker) {
	if len(p.workers) > p.target {
		close(w.jobs)
		delete(p.workers, w.id)
		p.log.Debugw("retired excess worker", "worker", w.id, "target", p.target)
		return
	}
	if j, ok := p.queue.pop(); ok {
		p.start(w, j)
		return
	}
	p.idle = append(p.idle, w)
}

func (p *Pool) handleCommand(cmd command) {
	switch c := cmd.(type) {
	case statsCmd:
		c.reply <- p.snapshot()
	case clearCmd:
		dropped := p.queue.clear()
		if len(dropped) > 0 {
			p.log.Warnw("cleared job queue", "dropped", len(dropped))
		}
		c.reply <- len(dropped)
	case scaleCmd:
		p.scaleTo(c.n)
		c.reply <- struct{}{}
	}
}

func (p *Pool) scaleTo(n int) {
	p.log.Infow("resizing pool", "from", p.target, "to", n)
	p.target = n
	for len(p.workers) < n {
		p.spawn()
	}
	for len(p.workers) > n && len(p.idle) > 0 {
		p.retireIdle()
	}
	p.dispatch()
}

// autoscale adjusts the pool by at most one worker per tick. Growth wins
// over shrink, and shrink only ever removes an idle worker.
func (p *Pool) autoscale() {
	queued := p.queue.len()
	idle := len(p.idle)

	switch {
	case queued > p.cfg.ScaleUpQueueThreshold && p.target < p.cfg.MaxSize:
		p.target++
		p.spawn()
		p.log.Infow("autoscale up", "target", p.target, "queued", queued)
		p.dispatch()
	case idle > p.cfg.ScaleDownIdleThreshold && p.target > p.cfg.MinSize:
		p.target--
		p.retireIdle()
		p.log.Infow("autoscale down", "target", p.target, "idle", idle)
	}
}

func (p *Pool) spawn() {
	id := p.nextWorkerID
	p.nextWorkerID++
	w := &worker{
		id:        id,
		jobs:      make(chan *job, 1),
		events:    p.events,
		poolCtx:   p.ctx,
		startedAt: time.Now(),
	}
	p.workers[id] = w
	p.idle = append(p.idle, w)
	p.wg.Add(1)
	go w.loop(&p.wg)
}

func (p *Pool) takeIdle() *worker {
	if len(p.idle) == 0 {
		return nil
	}
	w := p.idle[0]
	p.idle[0] = nil
	p.idle = p.idle[1:]
	return w
}

func (p *Pool) retireIdle() {
	w := p.takeIdle()
	if w == nil {
		return
	}
	close(w.jobs)
	delete(p.workers, w.id)
}

func (p *Pool) snapshot() Stats {
	size := len(p.workers)
	idle := len(p.idle)
	busy := size - idle
	var utilization float64
	if size > 0 {
		utilization = float64(busy) / float64(size)
	}
	return Stats{
		PoolSize:       size,
		TargetSize:     p.target,
		Idle:           idle,
		Busy:           busy,
		QueueLength:    p.queue.len(),
		TotalProcessed: p.processed,
		Utilization:    utilization,
	}
}

func (p *Pool) observe(outcome string, d time.Duration, j *job) {
	if p.sink == nil {
		return
	}
	p.sink.Observe(outcome, d, map[string]string{
		"kind":     j.kind,
		"subject":  j.subjectID,
		"priority": j.priority.String(),
	})
}

func (p *Pool) shutdown() {
	for _, j := range p.queue.clear() {
		j.resolve(Result{Err: ErrClosed})
	}
	for id, w := range p.workers {
		close(w.jobs)
		delete(p.workers, id)
	}
	p.idle = nil
	p.wg.Wait()
	close(p.done)
}
