package course_generate

import (
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	jobrt "github.com/yungbote/coursejobs/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	jc.Progress(10, "Starting course generation...")

	var req jobs.CourseGenerationRequest
	if err := jc.Payload(&req); err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	jc.Progress(20, "Parsing course requirements...")
	out, err := p.gen.GenerateCourse(jc.Ctx, req)
	if err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	jc.Succeed("Course generated successfully", jobs.GenerationResult{
		CourseID:     out.Course.ID,
		Title:        out.Course.Title,
		SectionCount: out.SectionCount,
		LectureCount: out.LectureCount,
	})
	return nil
}
