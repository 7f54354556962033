package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
)

var _ Queue = (*ProcessorQueue)(nil)

// FileProcessor summarizes one document file.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path, patientName string) (pipeline.FileResult, error)
}

// ResultHandler receives every finished job. It is called from worker
// goroutines and must be safe for concurrent use.
type ResultHandler func(job Job, res pipeline.FileResult, err error)

// ProcessorQueue runs queued jobs on a fixed pool of workers.
type ProcessorQueue struct {
	proc     FileProcessor
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	onResult ResultHandler

	// base parents every job; Shutdown cancels it when the drain is cut short.
	base   context.Context
	cancel context.CancelFunc

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func WithResultHandler(h ResultHandler) Option {
	return func(q *ProcessorQueue) {
		q.onResult = h
	}
}

func NewProcessorQueue(proc FileProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.base, q.cancel = context.WithCancel(context.Background())
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(q.base, q.timeout)
	if job.TraceID != "" {
		ctx = common.WithRequestID(ctx, job.TraceID)
	}
	res, err := q.proc.ProcessFile(ctx, job.Path, job.PatientName)
	cancel()

	if err != nil {
		q.logger.Error("queue.job.failed", "worker_id", workerID, "path", job.Path, "error", err)
	} else {
		q.logger.Info("queue.job.ok",
			"worker_id", workerID,
			"path", job.Path,
			"index", res.Entry.Index,
			"wait_ms", time.Since(job.SubmittedAt).Milliseconds(),
		)
	}
	if q.onResult != nil {
		q.onResult(job, res, err)
	}
}

// Enqueue blocks while the buffer is full. It fails with ErrQueueClosed
// once Shutdown has been called.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "path", job.Path)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueue.ok", "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for queued jobs to finish. If ctx ends
// first, in-flight jobs are cancelled and Shutdown returns once the workers
// have stopped.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context, cancelling in-flight jobs")
		q.cancel()
		<-done
	case <-done:
		q.cancel()
		q.logger.Info("queue drained, shutdown complete")
	}
}
