package course

import "time"

// LectureContent is one piece of media or text attached to a lecture. Its URL
// fields point into the blob store and are rewritten when a course is copied.
type LectureContent struct {
	ID            string     `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID      string     `gorm:"column:client_id;not null;index" json:"clientId"`
	LectureID     string     `gorm:"column:lecture_id;not null;index" json:"lectureId"`
	ContentType   string     `gorm:"column:content_type" json:"contentType,omitempty"`
	Title         string     `gorm:"column:title" json:"title,omitempty"`
	Description   string     `gorm:"column:description" json:"description,omitempty"`
	FileURL       string     `gorm:"column:file_url" json:"fileUrl,omitempty"`
	FileSizeBytes *int64     `gorm:"column:file_size_bytes" json:"fileSizeBytes,omitempty"`
	MimeType      string     `gorm:"column:mime_type" json:"mimeType,omitempty"`
	VideoURL      string     `gorm:"column:video_url" json:"videoUrl,omitempty"`
	TranscriptURL string     `gorm:"column:transcript_url" json:"transcriptUrl,omitempty"`
	SubtitleURLs  StringList `gorm:"column:subtitle_urls" json:"subtitleUrls,omitempty"`
	ThumbnailURL  string     `gorm:"column:thumbnail_url" json:"thumbnailUrl,omitempty"`
	TextContent   string     `gorm:"column:text_content" json:"textContent,omitempty"`
	ExternalURL   string     `gorm:"column:external_url" json:"externalUrl,omitempty"`
	EmbeddedCode  string     `gorm:"column:embedded_code" json:"embeddedCode,omitempty"`
	Sequence      int        `gorm:"column:sequence;not null;default:0" json:"sequence"`
	CreatedAt     time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updatedAt"`
}

func (LectureContent) TableName() string  { return "lecture_contents" }
func (c LectureContent) TenantID() string { return c.ClientID }

type SubLesson struct {
	ID              string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID        string    `gorm:"column:client_id;not null;index" json:"clientId"`
	LectureID       string    `gorm:"column:lecture_id;not null;index" json:"lectureId"`
	Title           string    `gorm:"column:title" json:"title"`
	Description     string    `gorm:"column:description" json:"description,omitempty"`
	ContentType     string    `gorm:"column:content_type" json:"contentType,omitempty"`
	Sequence        int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null;default:0" json:"durationSeconds"`
	FileURL         string    `gorm:"column:file_url" json:"fileUrl,omitempty"`
	FileSizeBytes   *int64    `gorm:"column:file_size_bytes" json:"fileSizeBytes,omitempty"`
	MimeType        string    `gorm:"column:mime_type" json:"mimeType,omitempty"`
	TextContent     string    `gorm:"column:text_content" json:"textContent,omitempty"`
	ExternalURL     string    `gorm:"column:external_url" json:"externalUrl,omitempty"`
	EmbeddedCode    string    `gorm:"column:embedded_code" json:"embeddedCode,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

func (SubLesson) TableName() string  { return "sub_lessons" }
func (s SubLesson) TenantID() string { return s.ClientID }

type CourseResource struct {
	ID             string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID       string    `gorm:"column:client_id;not null;index" json:"clientId"`
	CourseID       string    `gorm:"column:course_id;not null;index" json:"courseId"`
	ResourceType   string    `gorm:"column:resource_type" json:"resourceType,omitempty"`
	Title          string    `gorm:"column:title" json:"title"`
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	FileURL        string    `gorm:"column:file_url" json:"fileUrl,omitempty"`
	FileSizeBytes  *int64    `gorm:"column:file_size_bytes" json:"fileSizeBytes,omitempty"`
	IsDownloadable bool      `gorm:"column:is_downloadable;not null" json:"isDownloadable"`
	DownloadCount  int       `gorm:"column:download_count;not null;default:0" json:"downloadCount"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`
}

func (CourseResource) TableName() string  { return "course_resources" }
func (r CourseResource) TenantID() string { return r.ClientID }
