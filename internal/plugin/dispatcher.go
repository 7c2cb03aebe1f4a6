package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Dispatcher errors.
var (
	// ErrQueueFull is returned by Enqueue when the job queue has no room.
	ErrQueueFull = errors.New("dispatch queue full")
	// ErrNotRunning is returned by Enqueue before Start or after Stop.
	ErrNotRunning = errors.New("dispatcher not running")
)

// Job is one action waiting to be executed.
type Job struct {
	ID       string    `json:"id,omitempty"`
	Action   string    `json:"action"`
	Detector string    `json:"detector"`
	ActorID  int       `json:"actorId"`
	FrameTS  int64     `json:"frameTs"`
	Queued   time.Time `json:"-"`
}

// Result reports how a job went.
type Result struct {
	Job      Job
	Plugin   string
	Response *Response
	Err      error
	Duration time.Duration
}

// OK reports whether the plugin ran and answered with success.
func (r Result) OK() bool {
	return r.Err == nil && r.Response != nil && r.Response.Success
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// QueueSize bounds the number of pending jobs.
	QueueSize int
	// OnResult is called from the worker goroutine after every job.
	OnResult func(Result)
}

// DefaultDispatcherConfig returns the default dispatcher configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{QueueSize: 16}
}

// DispatcherStats counts jobs by outcome. Failed includes queued jobs that
// Stop reported as not run.
type DispatcherStats struct {
	Enqueued int64 `json:"enqueued"`
	Dropped  int64 `json:"dropped"`
	Executed int64 `json:"executed"`
	Failed   int64 `json:"failed"`
}

// Dispatcher runs jobs on a single worker goroutine fed by a bounded queue.
// Enqueue never blocks, so it is safe to call from the frame pipeline.
type Dispatcher struct {
	manager *Manager
	runner  Runner
	config  DispatcherConfig
	jobs    chan Job

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	enqueued atomic.Int64
	dropped  atomic.Int64
	executed atomic.Int64
	failed   atomic.Int64
}

// NewDispatcher creates a dispatcher that resolves actions through manager
// and executes them with runner.
func NewDispatcher(manager *Manager, runner Runner, config DispatcherConfig) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	return &Dispatcher{
		manager: manager,
		runner:  runner,
		config:  config,
		jobs:    make(chan Job, config.QueueSize),
	}
}

// Start launches the worker. It is a no-op if already running. Jobs run on
// ctx's values but not its cancellation: only Stop ends the worker, and a
// job once started is left to the runner's own timeout.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	ctx = context.WithoutCancel(ctx)
	stop := make(chan struct{})
	d.stop = stop
	d.running = true

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.work(ctx, stop)
	}()
}

// Stop waits for the job in flight to finish. Jobs still queued are not run;
// each is reported to OnResult with ErrNotRunning.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stop)
	d.mu.Unlock()

	d.wg.Wait()
}

// Enqueue queues a job without blocking.
func (d *Dispatcher) Enqueue(job Job) error {
	// The send happens under mu, so nothing is queued once Stop has begun.
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return ErrNotRunning
	}

	if job.Queued.IsZero() {
		job.Queued = time.Now()
	}

	select {
	case d.jobs <- job:
		d.enqueued.Add(1)
		return nil
	default:
		d.dropped.Add(1)
		log.Printf("Dropping %s: queue full", job.Action)
		return ErrQueueFull
	}
}

// Stats returns the job counters.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Enqueued: d.enqueued.Load(),
		Dropped:  d.dropped.Load(),
		Executed: d.executed.Load(),
		Failed:   d.failed.Load(),
	}
}

func (d *Dispatcher) work(ctx context.Context, stop <-chan struct{}) {
	for {
		// Stop wins over a queued job.
		select {
		case <-stop:
			d.drain()
			return
		default:
		}

		select {
		case <-stop:
			d.drain()
			return
		case job := <-d.jobs:
			result := d.run(ctx, job)
			d.executed.Add(1)
			d.report(result)
		}
	}
}

// drain reports every job left in the queue as not run.
func (d *Dispatcher) drain() {
	for {
		select {
		case job := <-d.jobs:
			log.Printf("Not running %s: dispatcher stopped", job.Action)
			d.report(Result{Job: job, Err: ErrNotRunning})
		default:
			return
		}
	}
}

func (d *Dispatcher) report(result Result) {
	if !result.OK() {
		d.failed.Add(1)
	}
	if d.config.OnResult != nil {
		d.config.OnResult(result)
	}
}

func (d *Dispatcher) run(ctx context.Context, job Job) (result Result) {
	result.Job = job
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	p, err := d.manager.ForAction(job.Action)
	if err != nil {
		result.Err = fmt.Errorf("no plugin for %s: %w", job.Action, err)
		return result
	}
	result.Plugin = p.Manifest.Name

	params, err := json.Marshal(job)
	if err != nil {
		result.Err = fmt.Errorf("failed to marshal params: %w", err)
		return result
	}

	resp, err := d.runner.Execute(ctx, p, &Request{
		Action:   job.Action,
		Detector: job.Detector,
		Params:   params,
	})
	result.Response = resp
	if err != nil {
		result.Err = err
		return result
	}
	if !resp.Success {
		result.Err = fmt.Errorf("plugin %s: %s", p.Manifest.Name, resp.Error)
	}
	return result
}
