package seed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Task is a unit of work processed by the worker pool
type Task func(ctx context.Context) error

// WorkerPool runs submitted tasks on a fixed number of goroutines. The first
// failing task cancels the pool context so queued work is skipped.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger

	closed   bool
	closeMux sync.Mutex

	errMux sync.Mutex
	errs   []error
}

func NewWorkerPool(ctx context.Context, workerCount int, logger *slog.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Debug("worker_pool_started", "workers", wp.workerCount)
}

// Submit queues a task. It reports false once the pool is cancelled.
func (wp *WorkerPool) Submit(task Task) bool {
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Wait closes the queue, blocks until every worker exits and returns the
// joined task errors.
func (wp *WorkerPool) Wait() error {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
	wp.cancel()

	wp.errMux.Lock()
	defer wp.errMux.Unlock()
	return errors.Join(wp.errs...)
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if wp.ctx.Err() != nil {
			// drain so Submit never blocks on a full queue
			continue
		}
		if err := task(wp.ctx); err != nil {
			wp.logger.Warn("worker_task_failed", "worker", id, "error", err)
			wp.errMux.Lock()
			wp.errs = append(wp.errs, err)
			wp.errMux.Unlock()
			wp.cancel()
		}
	}
}
