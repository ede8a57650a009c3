package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	jobstore "github.com/yungbote/coursejobs/internal/data/repos/jobs"
	"github.com/yungbote/coursejobs/internal/data/repos/testutil"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/platform/apierr"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type submissionFixture struct {
	svc      SubmissionService
	queues   jobstore.QueueStore
	payloads jobstore.PayloadStore
}

func newSubmissionFixture(t *testing.T) submissionFixture {
	t.Helper()
	_, rdb := testutil.Redis(t)
	store := jobstore.NewJobStore(rdb, logger.Nop(), jobstore.Options{})
	queues := jobstore.NewQueueStore(rdb, logger.Nop(), jobstore.Options{})
	payloads := jobstore.NewPayloadStore(rdb, logger.Nop(), jobstore.Options{})
	return submissionFixture{
		svc:      NewSubmissionService(logger.Nop(), store, queues, payloads),
		queues:   queues,
		payloads: payloads,
	}
}

func asCaller(tenantID, userID, role string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{TenantID: tenantID, UserID: userID, Role: role})
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("want error with status %d, got nil", status)
	}
	if got, _ := apierr.From(err); got != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, got, err)
	}
}

func TestSubmitCourseGeneration(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := asCaller("T1", "u1", ctxutil.RoleTenantAdmin)

	job, err := f.svc.SubmitCourseGeneration(ctx, jobs.CourseGenerationRequest{Prompt: "Intro to Go"})
	if err != nil {
		t.Fatalf("SubmitCourseGeneration: %v", err)
	}
	if job.Status != jobs.StatusPending || job.TenantID != "T1" || job.UserID != "u1" {
		t.Fatalf("job: got=%+v", job)
	}
	id, ok, err := f.queues.Dequeue(ctx, jobs.QueueCourseGeneration, time.Second)
	if err != nil || !ok || id != job.ID {
		t.Fatalf("queue head: want=%s got=%s ok=%v err=%v", job.ID, id, ok, err)
	}
	var req jobs.CourseGenerationRequest
	found, err := f.payloads.Load(ctx, job.ID, &req)
	if err != nil || !found || req.Prompt != "Intro to Go" {
		t.Fatalf("payload: found=%v prompt=%q err=%v", found, req.Prompt, err)
	}
}

func TestSubLectureGenerationUsesLectureQueue(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := asCaller("T1", "u1", ctxutil.RoleTenantAdmin)
	job, err := f.svc.SubmitSubLectureGeneration(ctx, jobs.SubLectureGenerationRequest{CourseID: "c1", SectionID: "s1", Prompt: "p"})
	if err != nil {
		t.Fatalf("SubmitSubLectureGeneration: %v", err)
	}
	n, err := f.queues.Len(ctx, jobs.QueueLectureGeneration)
	if err != nil || n != 1 {
		t.Fatalf("lecture queue length: want=1 got=%d err=%v", n, err)
	}
	if job.Type != jobs.TypeSubLectureGeneration {
		t.Fatalf("type: want=%s got=%s", jobs.TypeSubLectureGeneration, job.Type)
	}
}

func TestSubmitRejectsMalformedRequests(t *testing.T) {
	f := newSubmissionFixture(t)
	ctx := asCaller("T1", "u1", ctxutil.RoleTenantAdmin)
	_, err := f.svc.SubmitCourseGeneration(ctx, jobs.CourseGenerationRequest{Prompt: "  "})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = f.svc.SubmitLectureGeneration(ctx, jobs.LectureGenerationRequest{Prompt: "x"})
	wantStatus(t, err, http.StatusBadRequest)

	admin := asCaller(ctxutil.SystemTenantID, "root", "")
	_, err = f.svc.SubmitCourseCopy(admin, jobs.CourseCopyRequest{SourceCourseID: "c1"})
	wantStatus(t, err, http.StatusBadRequest)

	for _, q := range jobs.Queues {
		if n, _ := f.queues.Len(ctx, q); n != 0 {
			t.Fatalf("queue %s: want=0 got=%d", q, n)
		}
	}
}

func TestSubmitGenerationNeedsConcreteTenant(t *testing.T) {
	f := newSubmissionFixture(t)
	_, err := f.svc.SubmitCourseGeneration(asCaller(ctxutil.SystemTenantID, "root", ctxutil.RoleSystemAdmin), jobs.CourseGenerationRequest{Prompt: "x"})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = f.svc.SubmitCourseGeneration(asCaller("", "u1", ctxutil.RoleTenantAdmin), jobs.CourseGenerationRequest{Prompt: "x"})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestSubmitGenerationNeedsAdminRole(t *testing.T) {
	f := newSubmissionFixture(t)
	_, err := f.svc.SubmitCourseGeneration(asCaller("T1", "u1", "STUDENT"), jobs.CourseGenerationRequest{Prompt: "x"})
	wantStatus(t, err, http.StatusForbidden)
	_, err = f.svc.SubmitLectureGeneration(context.Background(), jobs.LectureGenerationRequest{CourseID: "c1", Prompt: "x"})
	wantStatus(t, err, http.StatusForbidden)
}

func TestSubmitCourseCopyAuthorization(t *testing.T) {
	f := newSubmissionFixture(t)
	req := jobs.CourseCopyRequest{SourceCourseID: "c1", TargetTenantID: "T2"}

	_, err := f.svc.SubmitCourseCopy(asCaller("T1", "u1", "ADMIN"), req)
	wantStatus(t, err, http.StatusForbidden)
	if n, _ := f.queues.Len(context.Background(), jobs.QueueCourseCopy); n != 0 {
		t.Fatalf("queue after rejection: want=0 got=%d", n)
	}

	for name, ctx := range map[string]context.Context{
		"role":    asCaller("T1", "u1", ctxutil.RoleSystemAdmin),
		"system":  asCaller(ctxutil.SystemTenantID, "u1", ""),
		"pending": asCaller(ctxutil.PendingTenantSelection, "u1", ""),
	} {
		job, err := f.svc.SubmitCourseCopy(ctx, req)
		if err != nil {
			t.Fatalf("%s: SubmitCourseCopy: %v", name, err)
		}
		if job.Type != jobs.TypeCourseCopy {
			t.Fatalf("%s: type: got=%s", name, job.Type)
		}
	}
	if n, _ := f.queues.Len(context.Background(), jobs.QueueCourseCopy); n != 3 {
		t.Fatalf("copy queue: want=3 got=%d", n)
	}
}

func TestGetJobScopedToTenant(t *testing.T) {
	f := newSubmissionFixture(t)
	job, err := f.svc.SubmitCourseGeneration(asCaller("T1", "u1", ctxutil.RoleTenantAdmin), jobs.CourseGenerationRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("SubmitCourseGeneration: %v", err)
	}

	got, err := f.svc.GetJob(asCaller("T1", "u2", ""), job.ID)
	if err != nil || got.ID != job.ID {
		t.Fatalf("GetJob same tenant: got=%v err=%v", got, err)
	}
	_, err = f.svc.GetJob(asCaller("T2", "u3", ""), job.ID)
	wantStatus(t, err, http.StatusNotFound)
	if _, err := f.svc.GetJob(asCaller(ctxutil.SystemTenantID, "root", ""), job.ID); err != nil {
		t.Fatalf("GetJob as system: %v", err)
	}
	_, err = f.svc.GetJob(asCaller("T1", "u1", ""), "missing")
	wantStatus(t, err, http.StatusNotFound)
}

type failingQueues struct {
	jobstore.QueueStore
}

func (failingQueues) Enqueue(context.Context, jobs.Queue, string) error {
	return errors.New("redis: connection refused")
}

func TestSubmitDiscardsJobWhenEnqueueFails(t *testing.T) {
	mr, rdb := testutil.Redis(t)
	store := jobstore.NewJobStore(rdb, logger.Nop(), jobstore.Options{})
	queues := failingQueues{jobstore.NewQueueStore(rdb, logger.Nop(), jobstore.Options{})}
	payloads := jobstore.NewPayloadStore(rdb, logger.Nop(), jobstore.Options{})
	svc := NewSubmissionService(logger.Nop(), store, queues, payloads)

	ctx := asCaller(ctxutil.SystemTenantID, "admin", ctxutil.RoleSystemAdmin)
	job, err := svc.SubmitCourseCopy(ctx, jobs.CourseCopyRequest{SourceCourseID: "C1", TargetTenantID: "T2"})
	if err == nil {
		t.Fatalf("SubmitCourseCopy: want error got job=%+v", job)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("keys left behind: want=[] got=%v", keys)
	}
}
