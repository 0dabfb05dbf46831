package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of detached background work. Errors are logged and dropped;
// the submitting request never waits on the result.
type Task func(ctx context.Context) error

// Runner executes fire-and-forget tasks with bounded concurrency and a
// per-task deadline. It exists so cache population and refresh work is never
// an unowned goroutine: panics are recovered, errors are logged, and
// Close drains in-flight tasks on shutdown.
type Runner struct {
	logger      *zap.Logger
	sem         chan struct{}
	taskTimeout time.Duration

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewRunner creates a runner allowing up to maxConcurrent tasks at once.
func NewRunner(logger *zap.Logger, maxConcurrent int, taskTimeout time.Duration) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}
	return &Runner{
		logger:      logger,
		sem:         make(chan struct{}, maxConcurrent),
		taskTimeout: taskTimeout,
	}
}

// Submit schedules a task for background execution. It never blocks the
// caller: when the runner is saturated or closed the task is dropped and
// the drop is logged.
func (r *Runner) Submit(name string, task Task) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Debug("background task dropped, runner closed", zap.String("task", name))
		return
	}

	select {
	case r.sem <- struct{}{}:
	default:
		r.mu.Unlock()
		r.logger.Warn("background task dropped, runner saturated", zap.String("task", name))
		return
	}

	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panicked",
					zap.String("task", name),
					zap.Any("panic", rec),
				)
			}
			<-r.sem
			r.wg.Done()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.taskTimeout)
		defer cancel()

		if err := task(ctx); err != nil {
			r.logger.Warn("background task failed",
				zap.String("task", name),
				zap.Error(err),
			)
		}
	}()
}

// Close stops accepting tasks and waits for in-flight tasks until ctx expires.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.New("runner close timed out with tasks in flight")
	}
}
