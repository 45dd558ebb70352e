package worker

import (
	"context"
	"sync"

	"github.com/vytor/studycards/internal/logger"
)

// Job is a unit of background work.
type Job interface {
	// Name identifies the job in logs.
	Name() string
	// Run executes the job. The context is cancelled when the pool stops.
	Run(ctx context.Context) error
}

// Pool runs jobs on a fixed set of workers fed from a bounded queue.
// Submissions never block the caller: when the queue is full the job is
// rejected instead.
type Pool struct {
	jobs    chan Job
	workers int
	log     *logger.Logger

	mu       sync.Mutex
	stopped  bool
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	stopOnce sync.Once
}

func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     logger.Default().WithPrefix("worker"),
	}
}

// Start launches the workers. Call Stop to shut them down.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.log.Info("starting %d workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			log.Debug("running job: %s", job.Name())
			if err := job.Run(ctx); err != nil {
				log.Error("job %s failed: %v", job.Name(), err)
			} else {
				log.Debug("job %s done", job.Name())
			}
		}
	}
}

// Submit enqueues a job. Returns false when the queue is full or the pool
// has stopped.
func (p *Pool) Submit(job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn("queue full, rejecting job: %s", job.Name())
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs
// that have not started are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		if p.cancel != nil {
			p.cancel()
		}
		close(p.jobs)
		p.wg.Wait()
		p.log.Info("workers stopped")
	})
}
