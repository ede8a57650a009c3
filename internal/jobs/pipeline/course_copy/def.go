package course_copy

import (
	"context"

	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/modules/coursecopy"
	"github.com/yungbote/coursejobs/internal/observability"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// Copier is satisfied by *coursecopy.Orchestrator.
type Copier interface {
	CopyCourseToTenant(ctx context.Context, jobID string, req jobs.CourseCopyRequest, progress coursecopy.ProgressFunc) (*jobs.CourseCopyResult, error)
}

type Pipeline struct {
	log     *logger.Logger
	copier  Copier
	metrics *observability.Metrics
}

func New(baseLog *logger.Logger, copier Copier, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		log:     baseLog.With("job", "course_copy"),
		copier:  copier,
		metrics: metrics,
	}
}

func (p *Pipeline) Type() jobs.Type { return jobs.TypeCourseCopy }
func (p *Pipeline) Kind() string    { return "Course copy" }
