// Package worker converts FEN-log files to games in parallel.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/processing"
)

// Job is one FEN-log file to convert.
type Job struct {
	Path  string
	Index int // position in the input list
}

// Result is the outcome of converting one file.
type Result struct {
	Path      string
	Index     int
	Game      *chess.Game
	Final     *chess.Position // nil on error
	Analysis  *processing.GameAnalysis
	Duplicate bool // final position already seen in an earlier result
	Error     error
}

// ConvertFunc converts a single job.
type ConvertFunc func(ctx context.Context, job Job) Result

// Pool runs a ConvertFunc over submitted jobs on a fixed set of
// goroutines. Every submitted job yields exactly one result, including
// jobs skipped after cancellation.
type Pool struct {
	workers int
	queue   int
	convert ConvertFunc

	ctx    context.Context
	cancel context.CancelFunc

	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup

	converted atomic.Int64
}

// Option configures a Pool.
type Option func(*Pool)

// Workers sets the number of goroutines. Values below 1 are ignored.
func Workers(n int) Option {
	return func(p *Pool) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// QueueSize sets the job and result buffer length. Values below 1 are
// ignored.
func QueueSize(n int) Option {
	return func(p *Pool) {
		if n >= 1 {
			p.queue = n
		}
	}
}

// NewPool creates a pool bound to ctx. It defaults to one worker and a
// queue of 16.
func NewPool(ctx context.Context, convert ConvertFunc, opts ...Option) *Pool {
	p := &Pool{workers: 1, queue: 16, convert: convert}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobs = make(chan Job, p.queue)
	p.results = make(chan Result, p.queue)
	return p
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := p.ctx.Err(); err != nil {
			p.results <- Result{Path: job.Path, Index: job.Index, Error: err}
			continue
		}
		result := p.convert(p.ctx, job)
		p.converted.Add(1)
		p.results <- result
	}
}

// Submit queues a job, blocking while the queue is full. It returns false
// once the pool is cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Cancel stops conversion. Queued jobs are answered with the context error.
func (p *Pool) Cancel() {
	p.cancel()
}

// Close stops accepting jobs, waits for the workers and closes Results.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.cancel()
}

// Results returns the channel results arrive on, in completion order.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Converted returns how many jobs the ConvertFunc has finished.
func (p *Pool) Converted() int64 {
	return p.converted.Load()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.workers
}
