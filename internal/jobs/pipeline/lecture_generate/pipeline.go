package lecture_generate

import (
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	jobrt "github.com/yungbote/coursejobs/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	jc.Progress(10, "Starting lecture generation...")

	var req jobs.LectureGenerationRequest
	if err := jc.Payload(&req); err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	jc.Progress(30, "Generating lecture structure...")
	out, err := p.gen.GenerateLecture(jc.Ctx, req.CourseID, req.Prompt)
	if err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	jc.Succeed("Lecture generated successfully", jobs.GenerationResult{
		CourseID:     req.CourseID,
		SectionID:    out.Section.ID,
		Title:        out.Section.Title,
		LectureCount: out.LectureCount,
	})
	return nil
}
