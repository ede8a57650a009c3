package repos

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/coursejobs/internal/data/repos/course"
	"github.com/yungbote/coursejobs/internal/data/repos/jobs"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type JobStore = jobs.JobStore
type QueueStore = jobs.QueueStore
type PayloadStore = jobs.PayloadStore
type CourseGraph = course.Graph

// Repos is every store the pipeline reads or writes.
type Repos struct {
	Jobs     JobStore
	Queues   QueueStore
	Payloads PayloadStore
	Course   *CourseGraph
}

func NewRepos(db *gorm.DB, rdb redis.UniversalClient, baseLog *logger.Logger, opts jobs.Options) Repos {
	return Repos{
		Jobs:     jobs.NewJobStore(rdb, baseLog, opts),
		Queues:   jobs.NewQueueStore(rdb, baseLog, opts),
		Payloads: jobs.NewPayloadStore(rdb, baseLog, opts),
		Course:   course.NewGraph(db, baseLog),
	}
}
