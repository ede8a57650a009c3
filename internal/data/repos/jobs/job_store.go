package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	domain "github.com/yungbote/coursejobs/internal/domain/jobs"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// JobStore keeps job records as JSON under job:{id}. Every save re-arms the
// expiry, so a record disappears one TTL after its last update.
type JobStore interface {
	CreateJob(ctx context.Context, t domain.Type, tenantID, userID string) (*domain.Job, error)
	Save(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id string) (*domain.Job, error)
	Delete(ctx context.Context, id string) error
}

type jobStore struct {
	rdb  redis.UniversalClient
	log  *logger.Logger
	opts Options
}

func NewJobStore(rdb redis.UniversalClient, baseLog *logger.Logger, opts Options) JobStore {
	return &jobStore{
		rdb:  rdb,
		log:  baseLog.With("repo", "JobStore"),
		opts: opts.withDefaults(),
	}
}

func (s *jobStore) CreateJob(ctx context.Context, t domain.Type, tenantID, userID string) (*domain.Job, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown job type %q", pkgerrors.ErrInvalidArgument, t)
	}
	job := domain.New(domain.NewID(), t, s.opts.Now().UTC())
	job.TenantID = strings.TrimSpace(tenantID)
	job.UserID = strings.TrimSpace(userID)
	if err := s.write(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Save upserts job. A record that already expired is recreated.
func (s *jobStore) Save(ctx context.Context, job *domain.Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("%w: job id required", pkgerrors.ErrInvalidArgument)
	}
	job.UpdatedAt = s.opts.Now().UTC()
	return s.write(ctx, job)
}

func (s *jobStore) write(ctx context.Context, job *domain.Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.ID, err)
	}
	if err := s.rdb.Set(ctx, s.opts.jobKey(job.ID), raw, s.opts.JobTTL).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

func (s *jobStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	raw, err := s.rdb.Get(ctx, s.opts.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("job %s: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	var job domain.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		s.log.Warn("Corrupt job record", "job_id", id, "error", err)
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *jobStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.opts.jobKey(id)).Err()
}
