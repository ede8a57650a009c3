package jobs

import (
	"fmt"
	"strings"

	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
)

// CourseGenerationRequest asks for a whole course outline from a free-text prompt.
type CourseGenerationRequest struct {
	Prompt              string   `json:"prompt"`
	CategoryID          string   `json:"categoryId,omitempty"`
	DifficultyLevel     string   `json:"difficultyLevel,omitempty"`
	Language            string   `json:"language,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	CertificateEligible bool     `json:"certificateEligible,omitempty"`
	MaxCompletionDays   int      `json:"maxCompletionDays,omitempty"`
	WritingFormat       string   `json:"writingFormat,omitempty"`
}

func (r CourseGenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

// LectureGenerationRequest asks for one new section (with its lectures) in an existing course.
type LectureGenerationRequest struct {
	CourseID string `json:"courseId"`
	Prompt   string `json:"prompt"`
}

func (r LectureGenerationRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.CourseID) == "":
		return fmt.Errorf("%w: courseId is required", pkgerrors.ErrInvalidArgument)
	case strings.TrimSpace(r.Prompt) == "":
		return fmt.Errorf("%w: prompt is required", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

// SubLectureGenerationRequest asks for one new lecture inside an existing section.
type SubLectureGenerationRequest struct {
	CourseID  string `json:"courseId"`
	SectionID string `json:"sectionId"`
	Prompt    string `json:"prompt"`
}

func (r SubLectureGenerationRequest) Validate() error {
	if err := (LectureGenerationRequest{CourseID: r.CourseID, Prompt: r.Prompt}).Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.SectionID) == "" {
		return fmt.Errorf("%w: sectionId is required", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

// CourseCopyRequest duplicates SourceCourseID into TargetTenantID.
type CourseCopyRequest struct {
	SourceCourseID     string `json:"sourceCourseId"`
	TargetTenantID     string `json:"targetClientId"`
	NewCourseTitle     string `json:"newCourseTitle,omitempty"`
	CopyPublishedState bool   `json:"copyPublishedState"`
}

func (r CourseCopyRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.SourceCourseID) == "":
		return fmt.Errorf("%w: sourceCourseId is required", pkgerrors.ErrInvalidArgument)
	case strings.TrimSpace(r.TargetTenantID) == "":
		return fmt.Errorf("%w: targetClientId is required", pkgerrors.ErrInvalidArgument)
	}
	return nil
}
