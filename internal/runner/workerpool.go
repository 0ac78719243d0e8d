package runner

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool distributes jobs across a fixed number of goroutines and
// collects their results.
type WorkerPool[Job any, Result any] struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
}

// NewWorkerPool creates a pool with numWorkers workers. If numWorkers is 0
// or negative it defaults to the number of CPUs. If numJobs is smaller than
// numWorkers the pool is sized to match numJobs.
func NewWorkerPool[Job any, Result any](numWorkers, numJobs int) *WorkerPool[Job, Result] {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numJobs > 0 {
		numWorkers = min(numWorkers, numJobs)
	}

	return &WorkerPool[Job, Result]{
		numWorkers: numWorkers,
		jobs:       make(chan Job, max(numJobs, 0)),
		results:    make(chan Result, max(numJobs, 0)),
	}
}

// Workers returns the number of workers the pool runs.
func (p *WorkerPool[Job, Result]) Workers() int {
	return p.numWorkers
}

// Start launches the workers. fn is called once per submitted job.
func (p *WorkerPool[Job, Result]) Start(ctx context.Context, fn func(context.Context, Job) Result) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.results <- fn(ctx, job)
			}
		}()
	}
}

// Submit queues a job. It returns false, without queueing, once ctx is done.
func (p *WorkerPool[Job, Result]) Submit(ctx context.Context, job Job) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close stops accepting jobs. The results channel is closed once every
// queued job has finished.
func (p *WorkerPool[Job, Result]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Results returns the channel of worker outputs.
func (p *WorkerPool[Job, Result]) Results() <-chan Result {
	return p.results
}
