package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// Processor runs one job to completion. *worker.Runner implements it.
type Processor interface {
	Process(ctx context.Context, jobID string)
}

type Options struct {
	// Interval between polls of one queue.
	Interval time.Duration `yaml:"interval"`
	// DequeueTimeout bounds the blocking pop of a single poll.
	DequeueTimeout time.Duration `yaml:"dequeue_timeout"`
	// Stagger offsets the first poll of the i-th queue by i*Stagger.
	Stagger time.Duration `yaml:"stagger"`
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = 2 * time.Second
	}
	if o.DequeueTimeout <= 0 {
		o.DequeueTimeout = time.Second
	}
	if o.Stagger <= 0 {
		o.Stagger = time.Second
	}
	return o
}

/*
Dispatcher drains the job queues into worker goroutines.

  - one poll loop per queue on a fixed interval, first polls staggered
  - a single busy flag shared by all queues: at most one queue pops at a time
  - workers run detached from the Run context; Wait drains them
*/
type Dispatcher struct {
	log    *logger.Logger
	jobs   repos.JobStore
	queues repos.QueueStore
	proc   Processor
	opts   Options

	busy     atomic.Bool
	inflight sync.WaitGroup
}

func New(baseLog *logger.Logger, jobStore repos.JobStore, queues repos.QueueStore, proc Processor, opts Options) *Dispatcher {
	return &Dispatcher{
		log:    baseLog.With("component", "Dispatcher"),
		jobs:   jobStore,
		queues: queues,
		proc:   proc,
		opts:   opts.withDefaults(),
	}
}

// Run polls every queue until ctx is done. It does not wait for in-flight
// workers; call Wait for that.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info("Starting dispatcher", "queues", len(jobs.Queues), "interval", d.opts.Interval.String())
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range jobs.Queues {
		offset := time.Duration(i) * d.opts.Stagger
		g.Go(func() error {
			d.loop(gctx, q, offset)
			return nil
		})
	}
	err := g.Wait()
	d.log.Info("Dispatcher stopped")
	return err
}

func (d *Dispatcher) loop(ctx context.Context, q jobs.Queue, offset time.Duration) {
	if offset > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(offset):
		}
	}
	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()
	for {
		d.Poll(ctx, q)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll takes at most one job off q and starts its worker. It is a no-op while
// another poll holds the busy flag. It reports whether a worker was started.
func (d *Dispatcher) Poll(ctx context.Context, q jobs.Queue) bool {
	if !d.busy.CompareAndSwap(false, true) {
		return false
	}
	defer d.busy.Store(false)

	id, ok, err := d.queues.Dequeue(ctx, q, d.opts.DequeueTimeout)
	if err != nil {
		if ctx.Err() == nil {
			d.log.Error("Dequeue failed", "queue", q, "error", err)
		}
		return false
	}
	if !ok {
		return false
	}

	job, err := d.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			d.log.Warn("Dequeued job has no record, skipping", "queue", q, "job_id", id)
		} else {
			d.log.Error("Failed to load dequeued job", "queue", q, "job_id", id, "error", err)
		}
		return false
	}
	if err := job.Transition(jobs.StatusQueued); err != nil {
		d.log.Warn("Dequeued job not dispatchable", "job_id", id, "status", job.Status)
		return false
	}
	if err := d.jobs.Save(ctx, job); err != nil {
		d.log.Error("Failed to save queued job", "job_id", id, "error", err)
	}

	d.log.Debug("Dispatching job", "queue", q, "job_id", id, "job_type", job.Type)
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.proc.Process(context.WithoutCancel(ctx), id)
	}()
	return true
}

// Wait blocks until every started worker has returned.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// Busy reports whether a poll currently holds the flag.
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}
