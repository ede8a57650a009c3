package course

import (
	"time"

	"gorm.io/datatypes"
)

// StringList is a JSON-encoded list column (jsonb on Postgres).
type StringList = datatypes.JSONSlice[string]

// Tenanted is implemented by every tenant-owned row.
type Tenanted interface {
	TenantID() string
}

type Course struct {
	ID                   string     `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID             string     `gorm:"column:client_id;not null;index" json:"clientId"`
	Title                string     `gorm:"column:title;not null" json:"title"`
	Description          string     `gorm:"column:description" json:"description,omitempty"`
	IsPublished          bool       `gorm:"column:is_published;not null;default:false" json:"isPublished"`
	IsActive             bool       `gorm:"column:is_active;not null" json:"isActive"`
	ThumbnailURL         string     `gorm:"column:thumbnail_url" json:"thumbnailUrl,omitempty"`
	PreviewVideoURL      string     `gorm:"column:preview_video_url" json:"previewVideoUrl,omitempty"`
	IsFree               bool       `gorm:"column:is_free;not null;default:false" json:"isFree"`
	PricePaise           *int64     `gorm:"column:price_paise" json:"pricePaise,omitempty"`
	Currency             string     `gorm:"column:currency" json:"currency,omitempty"`
	CategoryID           *string    `gorm:"column:category_id;index" json:"categoryId,omitempty"`
	Tags                 StringList `gorm:"column:tags" json:"tags,omitempty"`
	StreamTags           StringList `gorm:"column:stream_tags" json:"streamTags,omitempty"`
	RiasecTags           StringList `gorm:"column:riasec_tags" json:"riasecTags,omitempty"`
	SkillTags            StringList `gorm:"column:skill_tags" json:"skillTags,omitempty"`
	DifficultyLevel      string     `gorm:"column:difficulty_level" json:"difficultyLevel,omitempty"`
	Language             string     `gorm:"column:language" json:"language,omitempty"`
	TotalDurationSeconds int        `gorm:"column:total_duration_seconds;not null;default:0" json:"totalDurationSeconds"`
	TotalLecturesCount   int        `gorm:"column:total_lectures_count;not null;default:0" json:"totalLecturesCount"`
	TotalStudentsCount   int        `gorm:"column:total_students_count;not null;default:0" json:"totalStudentsCount"`
	CertificateEligible  bool       `gorm:"column:certificate_eligible;not null;default:false" json:"certificateEligible"`
	MaxCompletionDays    *int       `gorm:"column:max_completion_days" json:"maxCompletionDays,omitempty"`
	AssignedClassIDs     StringList `gorm:"column:assigned_to_class_ids" json:"assignedToClassIds,omitempty"`
	AssignedSectionIDs   StringList `gorm:"column:assigned_to_section_ids" json:"assignedToSectionIds,omitempty"`
	PublishedAt          *time.Time `gorm:"column:published_at" json:"publishedAt,omitempty"`
	CreatedAt            time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt            time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Course) TableName() string  { return "courses" }
func (c Course) TenantID() string { return c.ClientID }

type Section struct {
	ID          string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID    string    `gorm:"column:client_id;not null;index" json:"clientId"`
	CourseID    string    `gorm:"column:course_id;not null;index" json:"courseId"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Sequence    int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false" json:"isPublished"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Section) TableName() string  { return "sections" }
func (s Section) TenantID() string { return s.ClientID }

type Lecture struct {
	ID              string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID        string    `gorm:"column:client_id;not null;index" json:"clientId"`
	SectionID       string    `gorm:"column:section_id;not null;index" json:"sectionId"`
	CourseID        string    `gorm:"column:course_id;not null;index" json:"courseId"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	Description     string    `gorm:"column:description" json:"description,omitempty"`
	ContentType     string    `gorm:"column:content_type" json:"contentType,omitempty"`
	Sequence        int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null;default:0" json:"durationSeconds"`
	IsPreview       bool      `gorm:"column:is_preview;not null;default:false" json:"isPreview"`
	IsPublished     bool      `gorm:"column:is_published;not null;default:false" json:"isPublished"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

func (Lecture) TableName() string  { return "lectures" }
func (l Lecture) TenantID() string { return l.ClientID }

type LearningObjective struct {
	ID            string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID      string    `gorm:"column:client_id;not null;index" json:"clientId"`
	CourseID      string    `gorm:"column:course_id;not null;index" json:"courseId"`
	ObjectiveText string    `gorm:"column:objective_text;not null" json:"objectiveText"`
	Sequence      int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
}

func (LearningObjective) TableName() string  { return "learning_objectives" }
func (o LearningObjective) TenantID() string { return o.ClientID }
