package jobs

import (
	"errors"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusQueued},
		{StatusQueued, StatusProcessing},
		{StatusProcessing, StatusProcessing},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusFailed},
		{StatusPending, StatusFailed},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Fatalf("CanTransition(%s, %s): want=true", tr[0], tr[1])
		}
	}
	denied := [][2]Status{
		{StatusQueued, StatusPending},
		{StatusProcessing, StatusQueued},
		{StatusCompleted, StatusFailed},
		{StatusFailed, StatusProcessing},
		{StatusCompleted, StatusCompleted},
		{StatusPending, Status("BOGUS")},
	}
	for _, tr := range denied {
		if CanTransition(tr[0], tr[1]) {
			t.Fatalf("CanTransition(%s, %s): want=false", tr[0], tr[1])
		}
	}
}

func TestTransitionLeavesTerminalJobUntouched(t *testing.T) {
	j := New(NewID(), TypeCourseCopy, time.Now())
	j.Status = StatusCompleted
	err := j.Transition(StatusFailed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Transition: want ErrInvalidTransition got=%v", err)
	}
	if j.Status != StatusCompleted {
		t.Fatalf("Status: want=%s got=%s", StatusCompleted, j.Status)
	}
}

func TestTypeQueue(t *testing.T) {
	if TypeSubLectureGeneration.Queue() != QueueLectureGeneration {
		t.Fatalf("sub-lecture queue: got=%s", TypeSubLectureGeneration.Queue())
	}
	if TypeCourseCopy.Queue() != QueueCourseCopy {
		t.Fatalf("copy queue: got=%s", TypeCourseCopy.Queue())
	}
	if Type("X").Queue() != "" || Type("X").Valid() {
		t.Fatalf("unknown type: want no queue")
	}
}

func TestNewIDIsULID(t *testing.T) {
	a, b := NewID(), NewID()
	if len(a) != 26 || a == b {
		t.Fatalf("NewID: got %q and %q", a, b)
	}
}

func TestRequestValidate(t *testing.T) {
	if err := (CourseCopyRequest{SourceCourseID: "c1"}).Validate(); err == nil {
		t.Fatalf("CourseCopyRequest without target: want error")
	}
	if err := (SubLectureGenerationRequest{CourseID: "c", Prompt: "p"}).Validate(); err == nil {
		t.Fatalf("SubLectureGenerationRequest without section: want error")
	}
	if err := (CourseGenerationRequest{Prompt: "Intro to Go"}).Validate(); err != nil {
		t.Fatalf("CourseGenerationRequest: %v", err)
	}
}
