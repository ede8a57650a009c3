package jobs

import (
	"time"

	domain "github.com/yungbote/coursejobs/internal/domain/jobs"
)

const (
	DefaultJobTTL     = 24 * time.Hour
	DefaultPayloadTTL = 24 * time.Hour
)

// Options shared by the Redis-backed job stores.
type Options struct {
	// KeyPrefix is prepended verbatim to every key, e.g. "coursejobs:".
	KeyPrefix  string
	JobTTL     time.Duration
	PayloadTTL time.Duration
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.JobTTL <= 0 {
		o.JobTTL = DefaultJobTTL
	}
	if o.PayloadTTL <= 0 {
		o.PayloadTTL = DefaultPayloadTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) jobKey(id string) string        { return o.KeyPrefix + "job:" + id }
func (o Options) payloadKey(id string) string    { return o.KeyPrefix + "job-data:" + id }
func (o Options) queueKey(q domain.Queue) string { return o.KeyPrefix + "queue:" + string(q) }
