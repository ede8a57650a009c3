package lecture_generate

import (
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/modules/generation"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type Pipeline struct {
	log *logger.Logger
	gen generation.Service
}

func New(baseLog *logger.Logger, gen generation.Service) *Pipeline {
	return &Pipeline{
		log: baseLog.With("job", "lecture_generate"),
		gen: gen,
	}
}

func (p *Pipeline) Type() jobs.Type { return jobs.TypeLectureGeneration }
func (p *Pipeline) Kind() string    { return "Lecture generation" }
