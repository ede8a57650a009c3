package course_generate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/jobs/runtime/runtimetest"
	"github.com/yungbote/coursejobs/internal/modules/generation"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type fakeGen struct {
	generation.Service
	err    error
	prompt string
}

func (f *fakeGen) GenerateCourse(_ context.Context, req jobs.CourseGenerationRequest) (*generation.GeneratedCourse, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &generation.GeneratedCourse{
		Course:       &course.Course{ID: "c1", Title: "Go Basics"},
		SectionCount: 2,
		LectureCount: 5,
	}, nil
}

func TestRunSucceeds(t *testing.T) {
	env := runtimetest.New(t)
	gen := &fakeGen{}
	jc := env.Context(t, jobs.TypeCourseGeneration, "T1", jobs.CourseGenerationRequest{Prompt: "Teach Go"})

	if err := New(logger.Nop(), gen).Run(jc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gen.prompt != "Teach Go" {
		t.Fatalf("prompt: want=%q got=%q", "Teach Go", gen.prompt)
	}
	got := env.Reload(t, jc.Job.ID)
	if got.Status != jobs.StatusCompleted || got.Progress != 100 || got.Message != "Course generated successfully" {
		t.Fatalf("job: got=%s/%d/%q", got.Status, got.Progress, got.Message)
	}
	var res jobs.GenerationResult
	if err := json.Unmarshal(got.Result, &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.CourseID != "c1" || res.SectionCount != 2 || res.LectureCount != 5 {
		t.Fatalf("result: got=%+v", res)
	}
}

func TestRunGeneratorError(t *testing.T) {
	env := runtimetest.New(t)
	jc := env.Context(t, jobs.TypeCourseGeneration, "T1", jobs.CourseGenerationRequest{Prompt: "x"})

	_ = New(logger.Nop(), &fakeGen{err: errors.New("model unavailable")}).Run(jc)

	got := env.Reload(t, jc.Job.ID)
	if got.Status != jobs.StatusFailed || got.Error != "model unavailable" {
		t.Fatalf("job: got=%s/%q", got.Status, got.Error)
	}
	if want := "Course generation failed: model unavailable"; got.Message != want {
		t.Fatalf("message: want=%q got=%q", want, got.Message)
	}
	// The last persisted progress is from the parsing stage.
	if got.Progress != 20 {
		t.Fatalf("progress: want=20 got=%d", got.Progress)
	}
}

func TestRunMissingPayload(t *testing.T) {
	env := runtimetest.New(t)
	gen := &fakeGen{}
	jc := env.Context(t, jobs.TypeCourseGeneration, "T1", nil)

	_ = New(logger.Nop(), gen).Run(jc)

	got := env.Reload(t, jc.Job.ID)
	if got.Status != jobs.StatusFailed || got.Error != "request data not found for job "+jc.Job.ID {
		t.Fatalf("job: got=%s/%q", got.Status, got.Error)
	}
	if gen.prompt != "" {
		t.Fatalf("generator called without a payload")
	}
}
