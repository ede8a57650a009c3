package sub_lecture_generate

import (
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/modules/generation"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// Pipeline adds one lecture to an existing section. Its jobs ride the
// lecture-generation queue.
type Pipeline struct {
	log *logger.Logger
	gen generation.Service
}

func New(baseLog *logger.Logger, gen generation.Service) *Pipeline {
	return &Pipeline{
		log: baseLog.With("job", "sub_lecture_generate"),
		gen: gen,
	}
}

func (p *Pipeline) Type() jobs.Type { return jobs.TypeSubLectureGeneration }
func (p *Pipeline) Kind() string    { return "Sub-lecture generation" }
