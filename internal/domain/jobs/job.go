package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/coursejobs/internal/pkg/ids"
)

type Type string

const (
	TypeCourseGeneration     Type = "COURSE_GENERATION"
	TypeLectureGeneration    Type = "LECTURE_GENERATION"
	TypeSubLectureGeneration Type = "SUB_LECTURE_GENERATION"
	TypeCourseCopy           Type = "COURSE_COPY"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCourseGeneration, TypeLectureGeneration, TypeSubLectureGeneration, TypeCourseCopy:
		return true
	default:
		return false
	}
}

// Queue returns the named queue jobs of this type are pushed to. Lecture and
// sub-lecture jobs share one queue.
func (t Type) Queue() Queue {
	switch t {
	case TypeCourseGeneration:
		return QueueCourseGeneration
	case TypeLectureGeneration, TypeSubLectureGeneration:
		return QueueLectureGeneration
	case TypeCourseCopy:
		return QueueCourseCopy
	default:
		return ""
	}
}

type Queue string

const (
	QueueCourseGeneration  Queue = "course-generation"
	QueueLectureGeneration Queue = "lecture-generation"
	QueueCourseCopy        Queue = "course-copy"
)

// Queues lists every queue in dispatcher start order.
var Queues = []Queue{QueueCourseGeneration, QueueLectureGeneration, QueueCourseCopy}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusQueued     Status = "QUEUED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusQueued:
		return 1
	case StatusProcessing:
		return 2
	case StatusCompleted, StatusFailed:
		return 3
	default:
		return -1
	}
}

var ErrInvalidTransition = errors.New("invalid job status transition")

// CanTransition reports whether a job in status from may move to status to.
// Status only moves forward; PROCESSING may repeat for progress updates and
// terminal states are final.
func CanTransition(from, to Status) bool {
	if from.Terminal() || to.rank() < 0 || from.rank() < 0 {
		return false
	}
	if from == StatusProcessing && to == StatusProcessing {
		return true
	}
	return to.rank() > from.rank()
}

type Job struct {
	ID        string          `json:"jobId"`
	Type      Type            `json:"jobType"`
	Status    Status          `json:"status"`
	Progress  int             `json:"progress"`
	Message   string          `json:"message,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	TenantID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewID returns a lexicographically sortable job id.
func NewID() string {
	return ids.New()
}

func New(id string, t Type, now time.Time) *Job {
	return &Job{
		ID:        id,
		Type:      t,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the job to status to, or returns ErrInvalidTransition
// leaving the job untouched.
func (j *Job) Transition(to Status) error {
	if !CanTransition(j.Status, to) {
		return fmt.Errorf("%w: %s -> %s (job %s)", ErrInvalidTransition, j.Status, to, j.ID)
	}
	j.Status = to
	return nil
}

func (j *Job) SetProgress(progress int, message string) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	j.Progress = progress
	j.Message = message
}
