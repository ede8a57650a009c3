package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/pkg/ids"
)

// SeededCourse is the fixture built by SeedCourse.
type SeededCourse struct {
	Course      *course.Course
	Category    *course.Category
	Sections    []*course.Section
	Lectures    []*course.Lecture
	Contents    []*course.LectureContent
	SubLessons  []*course.SubLesson
	Assessments []*course.Assessment
	Questions   []*course.QuizQuestion
	Options     []*course.QuizOption
	Resources   []*course.CourseResource
	Objectives  []*course.LearningObjective
}

// BlobBase is the account URL used by seeded media fields.
const BlobBase = "https://acct.blob.core.windows.net/media"

// SeedCourse creates course "Intro" in tenant: two sections, three lectures
// (two in the first section), one content per lecture, one sub-lesson, one
// section-level assessment with two questions of two options each, one
// resource and two learning objectives.
func SeedCourse(tb testing.TB, ctx context.Context, db *gorm.DB, tenant string) *SeededCourse {
	tb.Helper()
	create := func(v any) {
		tb.Helper()
		if err := db.WithContext(ctx).Create(v).Error; err != nil {
			tb.Fatalf("seed %T: %v", v, err)
		}
	}
	s := &SeededCourse{}
	s.Category = &course.Category{ID: ids.New(), ClientID: tenant, Name: "Programming", IsActive: true}
	create(s.Category)

	s.Course = &course.Course{
		ID:                 ids.New(),
		ClientID:           tenant,
		Title:              "Intro",
		Description:        "An introduction",
		IsPublished:        true,
		IsActive:           true,
		ThumbnailURL:       BlobBase + "/" + tenant + "/courses/src/thumb.png",
		PreviewVideoURL:    "https://videos.example.com/preview.mp4",
		CategoryID:         &s.Category.ID,
		Tags:               course.StringList{"go", "backend"},
		SkillTags:          course.StringList{"concurrency"},
		TotalStudentsCount: 42,
		TotalLecturesCount: 3,
		AssignedClassIDs:   course.StringList{"class-1"},
	}
	create(s.Course)

	for i := 0; i < 2; i++ {
		sec := &course.Section{ID: ids.New(), ClientID: tenant, CourseID: s.Course.ID, Title: "Section", Sequence: i + 1, IsPublished: true}
		create(sec)
		s.Sections = append(s.Sections, sec)
	}
	for i, secIdx := range []int{0, 0, 1} {
		lec := &course.Lecture{
			ID:        ids.New(),
			ClientID:  tenant,
			SectionID: s.Sections[secIdx].ID,
			CourseID:  s.Course.ID,
			Title:     "Lecture",
			Sequence:  i + 1,
		}
		create(lec)
		s.Lectures = append(s.Lectures, lec)

		content := &course.LectureContent{
			ID:           ids.New(),
			ClientID:     tenant,
			LectureID:    lec.ID,
			ContentType:  "VIDEO",
			VideoURL:     BlobBase + "/" + tenant + "/courses/src/video" + string(rune('a'+i)) + ".mp4",
			SubtitleURLs: course.StringList{BlobBase + "/" + tenant + "/courses/src/subs" + string(rune('a'+i)) + ".vtt"},
		}
		create(content)
		s.Contents = append(s.Contents, content)
	}

	sub := &course.SubLesson{ID: ids.New(), ClientID: tenant, LectureID: s.Lectures[0].ID, Title: "Sub", FileURL: BlobBase + "/" + tenant + "/courses/src/notes.pdf"}
	create(sub)
	s.SubLessons = append(s.SubLessons, sub)

	asm := &course.Assessment{
		ID:                     ids.New(),
		ClientID:               tenant,
		CourseID:               s.Course.ID,
		SectionID:              &s.Sections[0].ID,
		LectureID:              &s.Lectures[1].ID,
		Title:                  "Quiz",
		PassingScorePercentage: 70,
	}
	create(asm)
	s.Assessments = append(s.Assessments, asm)
	for i := 0; i < 2; i++ {
		q := &course.QuizQuestion{ID: ids.New(), ClientID: tenant, AssessmentID: asm.ID, QuestionText: "Q", Points: 1, Sequence: i + 1, TentativeAnswer: "A"}
		create(q)
		s.Questions = append(s.Questions, q)
		for j := 0; j < 2; j++ {
			o := &course.QuizOption{ID: ids.New(), ClientID: tenant, QuestionID: q.ID, OptionText: "O", IsCorrect: j == 0, Sequence: j + 1}
			create(o)
			s.Options = append(s.Options, o)
		}
	}

	res := &course.CourseResource{ID: ids.New(), ClientID: tenant, CourseID: s.Course.ID, Title: "Slides", FileURL: BlobBase + "/" + tenant + "/courses/src/slides.pdf", DownloadCount: 9, IsDownloadable: true}
	create(res)
	s.Resources = append(s.Resources, res)

	for i := 0; i < 2; i++ {
		o := &course.LearningObjective{ID: ids.New(), ClientID: tenant, CourseID: s.Course.ID, ObjectiveText: "Objective", Sequence: i + 1}
		create(o)
		s.Objectives = append(s.Objectives, o)
	}
	return s
}
