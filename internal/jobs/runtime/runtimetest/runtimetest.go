// Package runtimetest builds job contexts backed by an in-process Redis for
// handler tests.
package runtimetest

import (
	"context"
	"testing"

	jobstore "github.com/yungbote/coursejobs/internal/data/repos/jobs"
	"github.com/yungbote/coursejobs/internal/data/repos/testutil"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/jobs/runtime"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type Env struct {
	Store    jobstore.JobStore
	Payloads jobstore.PayloadStore
}

func New(tb testing.TB) Env {
	tb.Helper()
	_, rdb := testutil.Redis(tb)
	return Env{
		Store:    jobstore.NewJobStore(rdb, logger.Nop(), jobstore.Options{}),
		Payloads: jobstore.NewPayloadStore(rdb, logger.Nop(), jobstore.Options{}),
	}
}

// Context creates a job of type t for tenant, stashes payload when non-nil and
// returns a handler context scoped to that tenant.
func (e Env) Context(tb testing.TB, t jobs.Type, tenant string, payload any) *runtime.Context {
	tb.Helper()
	ctx := context.Background()
	job, err := e.Store.CreateJob(ctx, t, tenant, "u1")
	if err != nil {
		tb.Fatalf("CreateJob: %v", err)
	}
	if payload != nil {
		if err := e.Payloads.Stash(ctx, job.ID, payload); err != nil {
			tb.Fatalf("Stash: %v", err)
		}
	}
	return runtime.NewContext(ctxutil.WithTenant(ctx, tenant), job, e.Store, e.Payloads, logger.Nop())
}

// Reload returns the persisted copy of the job.
func (e Env) Reload(tb testing.TB, id string) *jobs.Job {
	tb.Helper()
	job, err := e.Store.Get(context.Background(), id)
	if err != nil {
		tb.Fatalf("Get: %v", err)
	}
	return job
}
