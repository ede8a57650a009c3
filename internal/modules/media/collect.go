package media

import (
	"strings"

	"github.com/yungbote/coursejobs/internal/domain/course"
)

// Entities are the rows of a course that carry media URLs.
type Entities struct {
	Course     *course.Course
	Contents   []*course.LectureContent
	SubLessons []*course.SubLesson
	Resources  []*course.CourseResource
}

// CollectURLs returns every distinct non-empty media URL of e in first-seen
// order: course fields, then lecture contents, sub-lessons and resources.
func CollectURLs(e Entities) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	if e.Course != nil {
		add(e.Course.ThumbnailURL)
		add(e.Course.PreviewVideoURL)
	}
	for _, c := range e.Contents {
		add(c.FileURL)
		add(c.VideoURL)
		add(c.TranscriptURL)
		add(c.ThumbnailURL)
		for _, s := range c.SubtitleURLs {
			add(s)
		}
	}
	for _, s := range e.SubLessons {
		add(s.FileURL)
	}
	for _, r := range e.Resources {
		add(r.FileURL)
	}
	return out
}

func rewrite(field *string, mapping map[string]string) bool {
	next, ok := mapping[strings.TrimSpace(*field)]
	if !ok || next == *field {
		return false
	}
	*field = next
	return true
}

func rewriteList(list course.StringList, mapping map[string]string) bool {
	changed := false
	for i := range list {
		if rewrite(&list[i], mapping) {
			changed = true
		}
	}
	return changed
}
