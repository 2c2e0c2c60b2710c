package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/docgrid/internal/logger"
)

// ErrPoolClosed is returned by Submit after the pool has stopped
var ErrPoolClosed = errors.New("worker pool closed")

// Job is one document waiting to be processed
type Job struct {
	Path      string
	CreatedAt time.Time
}

// HandlerFunc processes a job. It should return an error if processing fails.
type HandlerFunc func(ctx context.Context, job Job) error

// Pool runs a fixed number of workers over a buffered job queue
type Pool struct {
	ctx     context.Context
	jobs    chan Job
	handler HandlerFunc
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a pool with workerCount workers and room for queueSize pending jobs.
// Handlers receive ctx.
func NewPool(ctx context.Context, workerCount, queueSize int, handler HandlerFunc) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		ctx:     ctx,
		jobs:    make(chan Job, queueSize),
		handler: handler,
	}
	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		workerID := i + 1
		go func() {
			defer p.wg.Done()
			p.workerLoop(workerID)
		}()
	}

	logger.Debugf("NewPool: workerCount=%d queueSize=%d", workerCount, queueSize)
	return p
}

// Submit queues a job, blocking while the queue is full or until ctx is done
func (p *Pool) Submit(ctx context.Context, job Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued jobs to finish
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	logger.Debugf("Pool: all workers stopped")
}

// workerLoop is the main loop for a single worker
func (p *Pool) workerLoop(workerID int) {
	for job := range p.jobs {
		logger.Debugf("workerLoop: workerID=%d processing %s queued=%s", workerID, job.Path, time.Since(job.CreatedAt).Round(time.Millisecond))

		if err := p.handler(p.ctx, job); err != nil {
			logger.Errorf("workerLoop: workerID=%d failed %s: %v", workerID, job.Path, err)
			continue
		}
	}
}
