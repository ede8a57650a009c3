package sub_lecture_generate

import (
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	jobrt "github.com/yungbote/coursejobs/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	jc.Progress(10, "Starting sub-lecture generation...")

	var req jobs.SubLectureGenerationRequest
	if err := jc.Payload(&req); err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	jc.Progress(30, "Generating sub-lecture content...")
	lec, err := p.gen.GenerateSubLecture(jc.Ctx, req.CourseID, req.SectionID, req.Prompt)
	if err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	jc.Succeed("Sub-lecture generated successfully", jobs.GenerationResult{
		CourseID:  req.CourseID,
		SectionID: req.SectionID,
		LectureID: lec.ID,
		Title:     lec.Title,
	})
	return nil
}
