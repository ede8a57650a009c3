package course

import "time"

type Category struct {
	ID               string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID         string    `gorm:"column:client_id;not null;index" json:"clientId"`
	Name             string    `gorm:"column:name;not null" json:"name"`
	Description      string    `gorm:"column:description" json:"description,omitempty"`
	ParentCategoryID *string   `gorm:"column:parent_category_id" json:"parentCategoryId,omitempty"`
	IconURL          string    `gorm:"column:icon_url" json:"iconUrl,omitempty"`
	Sequence         int       `gorm:"column:sequence;not null;default:0" json:"sequence"`
	IsActive         bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" json:"updatedAt"`
}

func (Category) TableName() string  { return "course_categories" }
func (c Category) TenantID() string { return c.ClientID }

// Tag names are unique per tenant.
type Tag struct {
	ID         string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	ClientID   string    `gorm:"column:client_id;not null;uniqueIndex:idx_course_tags_client_name" json:"clientId"`
	Name       string    `gorm:"column:name;not null;uniqueIndex:idx_course_tags_client_name" json:"name"`
	UsageCount int       `gorm:"column:usage_count;not null;default:0" json:"usageCount"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

func (Tag) TableName() string  { return "course_tags" }
func (t Tag) TenantID() string { return t.ClientID }

// Models lists every table owned by the course graph, in migration order.
func Models() []any {
	return []any{
		&Course{}, &Category{}, &Tag{}, &Section{}, &Lecture{}, &LectureContent{},
		&SubLesson{}, &Assessment{}, &QuizQuestion{}, &QuizOption{}, &CourseResource{},
		&LearningObjective{},
	}
}
