// Package scheduler runs delayed and periodic background tasks on a
// shared worker pool. Disconnect grace checks and the connection
// cleaner both go through it, so a burst of disconnects cannot spawn
// unbounded goroutines.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of background work. Tasks re-read whatever state
// they need at fire time; they must not capture live entities.
type Task func(ctx context.Context)

const defaultQueueSize = 256

// Pool is a fixed-size worker pool with a buffered task queue.
type Pool struct {
	workers int
	queue   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.SugaredLogger
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int, logger *zap.SugaredLogger) *Pool {
	if workers <= 0 {
		workers = 5
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pool{
		workers: workers,
		queue:   make(chan Task, defaultQueueSize),
		logger:  logger,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Infow("scheduler started", "workers", p.workers)
}

// Stop drains the pool. Queued tasks are discarded; running tasks see
// their context cancelled.
func (p *Pool) Stop() {
	p.cancel()
	close(p.queue)
	p.wg.Wait()
	p.logger.Info("scheduler stopped")
}

// Submit enqueues a task for immediate execution. Returns false when
// the pool is stopped or the queue is full.
func (p *Pool) Submit(task Task) (submitted bool) {
	// Protect against sending on closed channel during shutdown.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("task rejected, scheduler stopped", "panic", r)
			submitted = false
		}
	}()

	select {
	case p.queue <- task:
		return true
	default:
		p.logger.Warn("task rejected, queue full")
		return false
	}
}

// ScheduleOnce submits the task after the delay. The returned timer
// can stop a pending fire; a fired task still re-checks its own state.
func (p *Pool) ScheduleOnce(delay time.Duration, task Task) *time.Timer {
	return time.AfterFunc(delay, func() {
		p.Submit(task)
	})
}

// ScheduleEvery submits the task at each interval tick until the pool
// stops.
func (p *Pool) ScheduleEvery(interval time.Duration, task Task) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				p.Submit(task)
			}
		}
	}()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(id, task)
		}
	}
}

func (p *Pool) run(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorw("task panicked", "worker", id, "panic", r)
		}
	}()
	task(p.ctx)
}
