package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskRunner runs fire-and-forget work off the request path.
type TaskRunner interface {
	// Submit queues fn and reports whether it was accepted. It never blocks.
	Submit(ctx context.Context, name string, fn func(ctx context.Context)) bool
}

type backgroundTask struct {
	name string
	ctx  context.Context
	fn   func(ctx context.Context)
}

// WorkerPool is a fixed set of workers reading a bounded queue. Each task gets
// its own timeout; a full queue drops the task.
type WorkerPool struct {
	tasks   chan backgroundTask
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewWorkerPool(workers, queue int, timeout time.Duration, logger *zap.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &WorkerPool{
		tasks:   make(chan backgroundTask, queue),
		timeout: timeout,
		logger:  logger,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit keeps the values of ctx but not its cancellation, so work queued by a
// request outlives the request.
func (p *WorkerPool) Submit(ctx context.Context, name string, fn func(ctx context.Context)) bool {
	if fn == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("background task rejected, pool closed", zap.String("task", name))
		return false
	}

	select {
	case p.tasks <- backgroundTask{name: name, ctx: persistentContext(ctx), fn: fn}:
		return true
	default:
		p.logger.Warn("background queue full, dropping task", zap.String("task", name))
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *WorkerPool) run(task backgroundTask) {
	ctx := task.ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background task panicked",
				zap.String("task", task.name),
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	started := time.Now()
	task.fn(ctx)
	p.logger.Debug("background task finished",
		zap.String("task", task.name),
		zap.Duration("elapsed", time.Since(started)),
	)
}

func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
