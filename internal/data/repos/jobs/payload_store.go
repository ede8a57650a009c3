package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// PayloadStore holds the caller's request for a job under job-data:{id} until
// the worker has consumed it.
type PayloadStore interface {
	Stash(ctx context.Context, jobID string, payload any) error
	// Load decodes the payload into dst. found is false when it is missing or expired.
	Load(ctx context.Context, jobID string, dst any) (found bool, err error)
	Delete(ctx context.Context, jobID string) error
}

type payloadStore struct {
	rdb  redis.UniversalClient
	log  *logger.Logger
	opts Options
}

func NewPayloadStore(rdb redis.UniversalClient, baseLog *logger.Logger, opts Options) PayloadStore {
	return &payloadStore{
		rdb:  rdb,
		log:  baseLog.With("repo", "PayloadStore"),
		opts: opts.withDefaults(),
	}
}

func (s *payloadStore) Stash(ctx context.Context, jobID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for job %s: %w", jobID, err)
	}
	if err := s.rdb.Set(ctx, s.opts.payloadKey(jobID), raw, s.opts.PayloadTTL).Err(); err != nil {
		return fmt.Errorf("stash payload for job %s: %w", jobID, err)
	}
	return nil
}

func (s *payloadStore) Load(ctx context.Context, jobID string, dst any) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.opts.payloadKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load payload for job %s: %w", jobID, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode payload for job %s: %w", jobID, err)
	}
	return true, nil
}

func (s *payloadStore) Delete(ctx context.Context, jobID string) error {
	if err := s.rdb.Del(ctx, s.opts.payloadKey(jobID)).Err(); err != nil {
		return fmt.Errorf("delete payload for job %s: %w", jobID, err)
	}
	return nil
}
