package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CourseOutline is the structure the model is asked to produce for a course.
type CourseOutline struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Sections    []SectionOutline `json:"sections"`
	Objectives  []string         `json:"objectives"`
}

type SectionOutline struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Lectures    []LectureOutline `json:"lectures"`
}

type LectureOutline struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func str() map[string]any { return map[string]any{"type": "string"} }

func object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func array(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func lectureSchema() map[string]any {
	return object(map[string]any{"title": str(), "description": str(), "content": str()})
}

func sectionSchema() map[string]any {
	return object(map[string]any{"title": str(), "description": str(), "lectures": array(lectureSchema())})
}

func courseSchema() map[string]any {
	return object(map[string]any{
		"title":       str(),
		"description": str(),
		"sections":    array(sectionSchema()),
		"objectives":  array(str()),
	})
}

// decode converts the model's generic JSON object into dst.
func decode(obj map[string]any, dst any) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode outline: %w", err)
	}
	return nil
}

func (l LectureOutline) valid() bool { return strings.TrimSpace(l.Title) != "" }

func (s SectionOutline) valid() bool { return strings.TrimSpace(s.Title) != "" }
