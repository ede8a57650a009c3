package course_copy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/jobs/runtime/runtimetest"
	"github.com/yungbote/coursejobs/internal/modules/coursecopy"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type fakeCopier struct {
	err      error
	percents []int
}

func (f *fakeCopier) CopyCourseToTenant(_ context.Context, _ string, req jobs.CourseCopyRequest, progress coursecopy.ProgressFunc) (*jobs.CourseCopyResult, error) {
	res := &jobs.CourseCopyResult{SourceCourseID: req.SourceCourseID, TargetTenantID: req.TargetTenantID}
	progress("Validating source course", 5)
	f.percents = append(f.percents, 5)
	if f.err != nil {
		res.NewCourseID = "partial"
		res.CopiedEntities.Sections = 2
		res.FailedStage = coursecopy.StageLectures
		return res, &coursecopy.StageError{Stage: coursecopy.StageLectures, Err: f.err}
	}
	progress("Finalizing course copy", 95)
	res.NewCourseID = "c2"
	res.CopiedEntities.Sections = 2
	res.Duration = "3s"
	return res, nil
}

func TestRunSucceeds(t *testing.T) {
	env := runtimetest.New(t)
	req := jobs.CourseCopyRequest{SourceCourseID: "c1", TargetTenantID: "T2"}
	jc := env.Context(t, jobs.TypeCourseCopy, "SYSTEM", req)

	_ = New(logger.Nop(), &fakeCopier{}, nil).Run(jc)

	got := env.Reload(t, jc.Job.ID)
	if got.Status != jobs.StatusCompleted || got.Progress != 100 || got.Message != "Course copy completed successfully" {
		t.Fatalf("job: got=%s/%d/%q", got.Status, got.Progress, got.Message)
	}
	var res jobs.CourseCopyResult
	if err := json.Unmarshal(got.Result, &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.NewCourseID != "c2" || res.TargetTenantID != "T2" || res.CopiedEntities.Sections != 2 {
		t.Fatalf("result: got=%+v", res)
	}
}

func TestRunFailureKeepsPartialResult(t *testing.T) {
	env := runtimetest.New(t)
	req := jobs.CourseCopyRequest{SourceCourseID: "c1", TargetTenantID: "T2"}
	jc := env.Context(t, jobs.TypeCourseCopy, "SYSTEM", req)

	_ = New(logger.Nop(), &fakeCopier{err: errors.New("db down")}, nil).Run(jc)

	got := env.Reload(t, jc.Job.ID)
	if got.Status != jobs.StatusFailed || got.Progress != 5 {
		t.Fatalf("job: got=%s/%d", got.Status, got.Progress)
	}
	if want := "Course copy failed: stage lectures: db down"; got.Message != want {
		t.Fatalf("message: want=%q got=%q", want, got.Message)
	}
	var res jobs.CourseCopyResult
	if err := json.Unmarshal(got.Result, &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.NewCourseID != "partial" || res.FailedStage != coursecopy.StageLectures {
		t.Fatalf("partial result: got=%+v", res)
	}
}
