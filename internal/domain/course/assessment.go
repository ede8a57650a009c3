package course

import "time"

type Assessment struct {
	ID                     string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID               string    `gorm:"column:client_id;not null;index" json:"clientId"`
	CourseID               string    `gorm:"column:course_id;not null;index" json:"courseId"`
	SectionID              *string   `gorm:"column:section_id;index" json:"sectionId,omitempty"`
	LectureID              *string   `gorm:"column:lecture_id;index" json:"lectureId,omitempty"`
	AssessmentType         string    `gorm:"column:assessment_type" json:"assessmentType,omitempty"`
	Title                  string    `gorm:"column:title;not null" json:"title"`
	Description            string    `gorm:"column:description" json:"description,omitempty"`
	Instructions           string    `gorm:"column:instructions" json:"instructions,omitempty"`
	PassingScorePercentage int       `gorm:"column:passing_score_percentage;not null" json:"passingScorePercentage"`
	MaxAttempts            *int      `gorm:"column:max_attempts" json:"maxAttempts,omitempty"`
	TimeLimitSeconds       *int      `gorm:"column:time_limit_seconds" json:"timeLimitSeconds,omitempty"`
	IsRequired             bool      `gorm:"column:is_required;not null;default:false" json:"isRequired"`
	IsPublished            bool      `gorm:"column:is_published;not null;default:false" json:"isPublished"`
	Sequence               int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt              time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt              time.Time `gorm:"not null" json:"updatedAt"`
}

func (Assessment) TableName() string  { return "assessments" }
func (a Assessment) TenantID() string { return a.ClientID }

type QuizQuestion struct {
	ID                           string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID                     string    `gorm:"column:client_id;not null;index" json:"clientId"`
	AssessmentID                 string    `gorm:"column:assessment_id;not null;index" json:"assessmentId"`
	QuestionType                 string    `gorm:"column:question_type" json:"questionType,omitempty"`
	QuestionText                 string    `gorm:"column:question_text;not null" json:"questionText"`
	Points                       int       `gorm:"column:points;not null" json:"points"`
	Sequence                     int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	Explanation                  string    `gorm:"column:explanation" json:"explanation,omitempty"`
	TentativeAnswer              string    `gorm:"column:tentative_answer" json:"tentativeAnswer,omitempty"`
	EditedTentativeAnswer        string    `gorm:"column:edited_tentative_answer" json:"editedTentativeAnswer,omitempty"`
	UseTentativeAnswerForGrading bool      `gorm:"column:use_tentative_answer_for_grading;not null" json:"useTentativeAnswerForGrading"`
	CreatedAt                    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt                    time.Time `gorm:"not null" json:"updatedAt"`
}

func (QuizQuestion) TableName() string  { return "quiz_questions" }
func (q QuizQuestion) TenantID() string { return q.ClientID }

type QuizOption struct {
	ID         string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID   string    `gorm:"column:client_id;not null;index" json:"clientId"`
	QuestionID string    `gorm:"column:question_id;not null;index" json:"questionId"`
	OptionText string    `gorm:"column:option_text;not null" json:"optionText"`
	IsCorrect  bool      `gorm:"column:is_correct;not null;default:false" json:"isCorrect"`
	Sequence   int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

func (QuizOption) TableName() string  { return "quiz_options" }
func (o QuizOption) TenantID() string { return o.ClientID }
