package course_copy

import (
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	jobrt "github.com/yungbote/coursejobs/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	jc.Progress(0, "Starting course copy")

	var req jobs.CourseCopyRequest
	if err := jc.Payload(&req); err != nil {
		jc.Fail(p.Kind(), err)
		return nil
	}

	res, err := p.copier.CopyCourseToTenant(jc.Ctx, jc.Job.ID, req, func(msg string, pct int) {
		jc.Progress(pct, msg)
	})
	if res != nil {
		p.metrics.ObserveMedia(res.MediaOutcomes.Copied, res.MediaOutcomes.Skipped, res.MediaOutcomes.Reused)
	}
	if err != nil {
		jc.FailWithResult(p.Kind(), err, res)
		return nil
	}

	p.log.Info("Course copy finished",
		"job_id", jc.Job.ID,
		"new_course_id", res.NewCourseID,
		"duration", res.Duration,
	)
	jc.Succeed("Course copy completed successfully", res)
	return nil
}
