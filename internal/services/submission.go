package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/apierr"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// SubmissionService turns requests into queued jobs. Every Submit call
// validates synchronously; on success the job is PENDING with its payload
// stashed and its id pushed to the queue for its type.
type SubmissionService interface {
	SubmitCourseGeneration(ctx context.Context, req jobs.CourseGenerationRequest) (*jobs.Job, error)
	SubmitLectureGeneration(ctx context.Context, req jobs.LectureGenerationRequest) (*jobs.Job, error)
	SubmitSubLectureGeneration(ctx context.Context, req jobs.SubLectureGenerationRequest) (*jobs.Job, error)
	// SubmitCourseCopy is restricted to system administrators.
	SubmitCourseCopy(ctx context.Context, req jobs.CourseCopyRequest) (*jobs.Job, error)
	GetJob(ctx context.Context, id string) (*jobs.Job, error)
}

type submissionService struct {
	log      *logger.Logger
	jobs     repos.JobStore
	queues   repos.QueueStore
	payloads repos.PayloadStore
}

func NewSubmissionService(baseLog *logger.Logger, jobStore repos.JobStore, queues repos.QueueStore, payloads repos.PayloadStore) SubmissionService {
	return &submissionService{
		log:      baseLog.With("service", "JobSubmission"),
		jobs:     jobStore,
		queues:   queues,
		payloads: payloads,
	}
}

type caller struct {
	tenantID string
	userID   string
	role     string
	admin    bool
}

func callerFrom(ctx context.Context) caller {
	c := caller{tenantID: ctxutil.TenantID(ctx)}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		if rd.TenantID != "" {
			c.tenantID = rd.TenantID
		}
		c.userID = rd.UserID
		c.role = rd.Role
		c.admin = rd.IsSystemAdmin()
	}
	if c.tenantID == ctxutil.SystemTenantID {
		c.admin = true
	}
	return c
}

// generationTenant is the tenant generated content is written to. Only
// administrators may generate; the system and pending contexts own no content.
func (c caller) generationTenant() (string, error) {
	if c.role != ctxutil.RoleSystemAdmin && c.role != ctxutil.RoleTenantAdmin {
		return "", apierr.Forbidden("forbidden", fmt.Errorf("%w: AI generation is only available to SYSTEM_ADMIN and TENANT_ADMIN", pkgerrors.ErrForbidden))
	}
	switch strings.TrimSpace(c.tenantID) {
	case "", ctxutil.SystemTenantID, ctxutil.PendingTenantSelection:
		return "", apierr.BadRequest("tenant_required", pkgerrors.ErrNoTenant)
	default:
		return c.tenantID, nil
	}
}

func invalid(err error) error {
	return apierr.BadRequest("invalid_request", err)
}

func (s *submissionService) SubmitCourseGeneration(ctx context.Context, req jobs.CourseGenerationRequest) (*jobs.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	c := callerFrom(ctx)
	tenant, err := c.generationTenant()
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, jobs.TypeCourseGeneration, tenant, c.userID, req)
}

func (s *submissionService) SubmitLectureGeneration(ctx context.Context, req jobs.LectureGenerationRequest) (*jobs.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	c := callerFrom(ctx)
	tenant, err := c.generationTenant()
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, jobs.TypeLectureGeneration, tenant, c.userID, req)
}

func (s *submissionService) SubmitSubLectureGeneration(ctx context.Context, req jobs.SubLectureGenerationRequest) (*jobs.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	c := callerFrom(ctx)
	tenant, err := c.generationTenant()
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, jobs.TypeSubLectureGeneration, tenant, c.userID, req)
}

func (s *submissionService) SubmitCourseCopy(ctx context.Context, req jobs.CourseCopyRequest) (*jobs.Job, error) {
	c := callerFrom(ctx)
	if !c.admin {
		s.log.Warn("Course copy rejected: caller is not a system admin", "tenant_id", c.tenantID, "user_id", c.userID)
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("%w: only system administrators can copy courses between tenants", pkgerrors.ErrForbidden))
	}
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	req.SourceCourseID = strings.TrimSpace(req.SourceCourseID)
	req.TargetTenantID = strings.TrimSpace(req.TargetTenantID)
	return s.submit(ctx, jobs.TypeCourseCopy, c.tenantID, c.userID, req)
}

func (s *submissionService) submit(ctx context.Context, t jobs.Type, tenantID, userID string, payload any) (*jobs.Job, error) {
	job, err := s.jobs.CreateJob(ctx, t, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("create %s job: %w", t, err)
	}
	if err := s.payloads.Stash(ctx, job.ID, payload); err != nil {
		s.discard(ctx, job.ID)
		return nil, fmt.Errorf("stash payload for job %s: %w", job.ID, err)
	}
	if err := s.queues.Enqueue(ctx, t.Queue(), job.ID); err != nil {
		s.discard(ctx, job.ID)
		return nil, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	s.log.Info("Job submitted", "job_id", job.ID, "job_type", t, "tenant_id", tenantID, "user_id", userID)
	return job, nil
}

// discard removes a job that never reached its queue. Errors are only logged.
func (s *submissionService) discard(ctx context.Context, jobID string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.payloads.Delete(ctx, jobID); err != nil {
		s.log.Warn("Failed to discard payload of unqueued job", "job_id", jobID, "error", err)
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		s.log.Warn("Failed to discard unqueued job", "job_id", jobID, "error", err)
	}
}

// GetJob returns the current snapshot of job id. Callers only see jobs of
// their own tenant unless they are system administrators.
func (s *submissionService) GetJob(ctx context.Context, id string) (*jobs.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid(fmt.Errorf("%w: job id is required", pkgerrors.ErrInvalidArgument))
	}
	job, err := s.jobs.Get(ctx, id)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.NotFound("job_not_found", fmt.Errorf("job %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	c := callerFrom(ctx)
	if !c.admin && job.TenantID != c.tenantID {
		return nil, apierr.NotFound("job_not_found", fmt.Errorf("job %s not found", id))
	}
	return job, nil
}
