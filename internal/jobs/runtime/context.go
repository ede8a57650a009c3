package runtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

/*
Context is the handle a job handler gets for one run.
It wraps:
  - Ctx: scoped to the job's tenant; dropped when the run returns
  - Job: the in-memory record, persisted on every report
  - the only sanctioned ways to report progress or terminate the run

Handlers never save the job record themselves.
*/
type Context struct {
	Ctx context.Context
	Job *jobs.Job
	Log *logger.Logger

	store    repos.JobStore
	payloads repos.PayloadStore
}

func NewContext(ctx context.Context, job *jobs.Job, store repos.JobStore, payloads repos.PayloadStore, log *logger.Logger) *Context {
	return &Context{
		Ctx:      ctx,
		Job:      job,
		Log:      log,
		store:    store,
		payloads: payloads,
	}
}

// PayloadMissingError is returned by Payload when the request data of a job
// expired or was never stored.
type PayloadMissingError struct{ JobID string }

func (e *PayloadMissingError) Error() string {
	return "request data not found for job " + e.JobID
}

// Payload decodes the job's stashed request into dst.
func (c *Context) Payload(dst any) error {
	found, err := c.payloads.Load(c.Ctx, c.Job.ID, dst)
	if err != nil {
		return err
	}
	if !found {
		return &PayloadMissingError{JobID: c.Job.ID}
	}
	return nil
}

/*
Progress records a non-terminal update and moves the job to PROCESSING.
A job already in a terminal status is left alone. Save failures are logged;
a record that expired in the meantime is recreated by the save.
*/
func (c *Context) Progress(pct int, msg string) {
	if c == nil || c.Job == nil {
		return
	}
	if err := c.Job.Transition(jobs.StatusProcessing); err != nil {
		c.Log.Warn("Progress on finished job ignored", "job_id", c.Job.ID, "status", c.Job.Status)
		return
	}
	c.Job.SetProgress(pct, msg)
	c.save()
}

// Fail marks the job FAILED. err becomes the job error and the message reads
// "<kind> failed: <err>".
func (c *Context) Fail(kind string, err error) {
	if c == nil || c.Job == nil {
		return
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if tErr := c.Job.Transition(jobs.StatusFailed); tErr != nil {
		c.Log.Warn("Fail on finished job ignored", "job_id", c.Job.ID, "status", c.Job.Status, "error", msg)
		return
	}
	c.Job.Error = msg
	c.Job.Message = fmt.Sprintf("%s failed: %s", kind, msg)
	c.save()
}

// FailWithResult is Fail that also stores a partial result.
func (c *Context) FailWithResult(kind string, err error, result any) {
	if c == nil || c.Job == nil {
		return
	}
	if !jobs.CanTransition(c.Job.Status, jobs.StatusFailed) {
		c.Fail(kind, err)
		return
	}
	if raw, mErr := json.Marshal(result); mErr == nil && result != nil {
		c.Job.Result = raw
	}
	c.Fail(kind, err)
}

// Succeed marks the job COMPLETED at 100% with result.
func (c *Context) Succeed(msg string, result any) {
	if c == nil || c.Job == nil {
		return
	}
	if !jobs.CanTransition(c.Job.Status, jobs.StatusCompleted) {
		c.Log.Warn("Succeed on finished job ignored", "job_id", c.Job.ID, "status", c.Job.Status)
		return
	}
	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			c.Fail("Result encoding", err)
			return
		}
		c.Job.Result = raw
	}
	c.Job.Status = jobs.StatusCompleted
	c.Job.Error = ""
	c.Job.SetProgress(100, msg)
	c.save()
}

func (c *Context) save() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.Ctx, c.Job); err != nil {
		c.Log.Error("Failed to save job", "job_id", c.Job.ID, "status", c.Job.Status, "error", err)
	}
}
