package jobs

import "time"

// CopiedEntities counts what a course copy created in the target tenant.
type CopiedEntities struct {
	Sections           int `json:"sections"`
	Lectures           int `json:"lectures"`
	LectureContent     int `json:"lectureContent"`
	SubLessons         int `json:"subLessons"`
	Assessments        int `json:"assessments"`
	QuizQuestions      int `json:"quizQuestions"`
	QuizOptions        int `json:"quizOptions"`
	Resources          int `json:"resources"`
	LearningObjectives int `json:"learningObjectives"`
	MediaAssets        int `json:"mediaAssets"`
}

type MediaOutcomeCounts struct {
	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
	Reused  int `json:"reused"`
}

// CourseCopyResult is stored as the job result of a COURSE_COPY job. On failure
// it carries whatever was created before FailedStage.
type CourseCopyResult struct {
	NewCourseID    string             `json:"newCourseId,omitempty"`
	SourceCourseID string             `json:"sourceCourseId"`
	SourceTenantID string             `json:"sourceClientId,omitempty"`
	TargetTenantID string             `json:"targetClientId"`
	CopiedEntities CopiedEntities     `json:"copiedEntities"`
	MediaOutcomes  MediaOutcomeCounts `json:"mediaOutcomes"`
	FailedStage    string             `json:"failedStage,omitempty"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
	Duration       string             `json:"duration,omitempty"`
}

// GenerationResult is stored as the job result of the generation job types.
type GenerationResult struct {
	CourseID     string `json:"courseId"`
	SectionID    string `json:"sectionId,omitempty"`
	LectureID    string `json:"lectureId,omitempty"`
	Title        string `json:"title"`
	SectionCount int    `json:"sectionCount,omitempty"`
	LectureCount int    `json:"lectureCount,omitempty"`
}
