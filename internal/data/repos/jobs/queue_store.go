package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// QueueStore is a set of FIFO lists of job ids: producers push to the tail,
// the dispatcher pops from the head.
type QueueStore interface {
	Enqueue(ctx context.Context, q domain.Queue, jobID string) error
	// Dequeue blocks for at most timeout. ok is false when the queue stayed empty.
	Dequeue(ctx context.Context, q domain.Queue, timeout time.Duration) (jobID string, ok bool, err error)
	Len(ctx context.Context, q domain.Queue) (int64, error)
}

type queueStore struct {
	rdb  redis.UniversalClient
	log  *logger.Logger
	opts Options
}

func NewQueueStore(rdb redis.UniversalClient, baseLog *logger.Logger, opts Options) QueueStore {
	return &queueStore{
		rdb:  rdb,
		log:  baseLog.With("repo", "QueueStore"),
		opts: opts.withDefaults(),
	}
}

func (s *queueStore) Enqueue(ctx context.Context, q domain.Queue, jobID string) error {
	if err := s.rdb.RPush(ctx, s.opts.queueKey(q), jobID).Err(); err != nil {
		return fmt.Errorf("enqueue %s on %s: %w", jobID, q, err)
	}
	return nil
}

func (s *queueStore) Dequeue(ctx context.Context, q domain.Queue, timeout time.Duration) (string, bool, error) {
	res, err := s.rdb.BLPop(ctx, timeout, s.opts.queueKey(q)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dequeue %s: %w", q, err)
	}
	// BLPOP replies [key, value].
	if len(res) != 2 {
		return "", false, fmt.Errorf("dequeue %s: unexpected reply %v", q, res)
	}
	return res[1], true, nil
}

func (s *queueStore) Len(ctx context.Context, q domain.Queue) (int64, error) {
	return s.rdb.LLen(ctx, s.opts.queueKey(q)).Result()
}
