package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/jobs/runtime"
	"github.com/yungbote/coursejobs/internal/observability"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/coursejobs/internal/jobs/worker")

// Runner executes one job end to end: it loads the record, scopes the run to
// the job's tenant, calls the registered handler and always discards the
// stashed payload afterwards.
type Runner struct {
	log      *logger.Logger
	jobs     repos.JobStore
	payloads repos.PayloadStore
	registry *runtime.Registry
	metrics  *observability.Metrics
}

func NewRunner(baseLog *logger.Logger, jobs repos.JobStore, payloads repos.PayloadStore, registry *runtime.Registry, metrics *observability.Metrics) *Runner {
	return &Runner{
		log:      baseLog.With("component", "JobRunner"),
		jobs:     jobs,
		payloads: payloads,
		registry: registry,
		metrics:  metrics,
	}
}

// Process runs job jobID. It never panics and never returns an error; every
// failure ends up on the job record or in the log.
func (r *Runner) Process(ctx context.Context, jobID string) {
	job, err := r.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			r.log.Warn("Job record not found, skipping", "job_id", jobID)
		} else {
			r.log.Error("Failed to load job", "job_id", jobID, "error", err)
		}
		return
	}

	ctx = ctxutil.WithTenant(ctx, job.TenantID)
	ctx, span := tracer.Start(ctx, "job.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", job.ID),
		attribute.String("job.type", string(job.Type)),
	)

	log := r.log.With("job_id", job.ID, "job_type", job.Type, "tenant_id", job.TenantID)
	jc := runtime.NewContext(ctx, job, r.jobs, r.payloads, log)
	start := time.Now()
	r.metrics.JobStarted()
	defer func() {
		if err := r.payloads.Delete(context.WithoutCancel(ctx), job.ID); err != nil {
			log.Warn("Failed to delete job payload", "error", err)
		}
		r.metrics.ObserveJob(string(job.Type), string(job.Status), time.Since(start))
		if job.Status.Terminal() && job.Error != "" {
			span.SetStatus(codes.Error, job.Error)
		}
	}()

	h, ok := r.registry.Get(job.Type)
	if !ok {
		log.Warn("No handler registered for job_type")
		jc.Fail("Job", &missingHandlerError{JobType: string(job.Type)})
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Job handler panic", "panic", rec)
			jc.Fail(h.Kind(), errFromRecover(rec))
		}
	}()

	log.Info("Job started")
	if runErr := h.Run(jc); runErr != nil {
		// Handlers normally fail the job themselves; this is a safety net.
		jc.Fail(h.Kind(), runErr)
	}
	log.Info("Job finished", "status", job.Status, "progress", job.Progress)
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

func errFromRecover(v any) error { return &panicError{Val: v} }

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
