package generation

import (
	"context"
	"errors"
	"testing"

	coursedata "github.com/yungbote/coursejobs/internal/data/repos/course"
	"github.com/yungbote/coursejobs/internal/data/repos/testutil"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
)

type fakeAI struct {
	replies map[string]map[string]any
	calls   []string
	err     error
}

func (f *fakeAI) GenerateJSON(_ context.Context, _, _, schemaName string, _ map[string]any) (map[string]any, error) {
	f.calls = append(f.calls, schemaName)
	if f.err != nil {
		return nil, f.err
	}
	return f.replies[schemaName], nil
}

func lecture(title string) map[string]any {
	return map[string]any{"title": title, "description": "d", "content": "# " + title}
}

func newFakeAI() *fakeAI {
	return &fakeAI{replies: map[string]map[string]any{
		"course_outline": {
			"title":       "Go Basics",
			"description": "Learn Go",
			"sections": []any{
				map[string]any{"title": "Syntax", "description": "", "lectures": []any{lecture("Variables"), lecture("Loops")}},
				map[string]any{"title": "Types", "description": "", "lectures": []any{lecture("Structs")}},
				map[string]any{"title": " ", "description": "", "lectures": []any{}},
			},
			"objectives": []any{"Write Go", "Read Go"},
		},
		"section_outline": {"title": "Concurrency", "description": "", "lectures": []any{lecture("Goroutines"), lecture("Channels")}},
		"lecture_outline": lecture("Select"),
	}}
}

func newService(t *testing.T, ai *fakeAI) (Service, *coursedata.Graph) {
	t.Helper()
	db := testutil.DB(t)
	graph := coursedata.NewGraph(db, testutil.Logger(t))
	return NewService(testutil.Logger(t), ai, graph), graph
}

func TestGenerateCourse(t *testing.T) {
	svc, graph := newService(t, newFakeAI())
	ctx := ctxutil.WithTenant(context.Background(), "T1")

	out, err := svc.GenerateCourse(ctx, jobs.CourseGenerationRequest{Prompt: "teach go", Tags: []string{"go"}, MaxCompletionDays: 30})
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
	if out.SectionCount != 2 || out.LectureCount != 3 {
		t.Fatalf("counts: want sections=2 lectures=3 got sections=%d lectures=%d", out.SectionCount, out.LectureCount)
	}
	dbc := dbctx.Of(ctx)
	c, err := graph.Courses.GetByID(dbc, out.Course.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if c.ClientID != "T1" || c.Title != "Go Basics" || c.TotalLecturesCount != 3 || c.MaxCompletionDays == nil || *c.MaxCompletionDays != 30 {
		t.Fatalf("course: got=%+v", c)
	}
	objs, err := graph.Objectives.ListBy(dbc, "course_id", c.ID)
	if err != nil || len(objs) != 2 {
		t.Fatalf("objectives: got=%d err=%v", len(objs), err)
	}
	tags, err := graph.Tags.ListBy(dbc, "client_id", "T1")
	if err != nil || len(tags) != 1 {
		t.Fatalf("tags: got=%d err=%v", len(tags), err)
	}
	lectures, err := graph.Lectures.ListBy(dbc, "course_id", c.ID)
	if err != nil || len(lectures) != 3 {
		t.Fatalf("lectures: got=%d err=%v", len(lectures), err)
	}
	contents, err := graph.Contents.ListBy(dbc, "lecture_id", lectures[0].ID)
	if err != nil || len(contents) != 1 || contents[0].TextContent == "" {
		t.Fatalf("content: got=%+v err=%v", contents, err)
	}
}

func TestGenerateLectureAndSubLecture(t *testing.T) {
	ai := newFakeAI()
	svc, graph := newService(t, ai)
	ctx := ctxutil.WithTenant(context.Background(), "T1")
	base, err := svc.GenerateCourse(ctx, jobs.CourseGenerationRequest{Prompt: "teach go"})
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}

	sec, err := svc.GenerateLecture(ctx, base.Course.ID, "add concurrency")
	if err != nil {
		t.Fatalf("GenerateLecture: %v", err)
	}
	if sec.Section.Sequence != 3 || sec.LectureCount != 2 || sec.Section.Title != "Concurrency" {
		t.Fatalf("section: seq=%d lectures=%d title=%q", sec.Section.Sequence, sec.LectureCount, sec.Section.Title)
	}

	lec, err := svc.GenerateSubLecture(ctx, base.Course.ID, sec.Section.ID, "add select")
	if err != nil {
		t.Fatalf("GenerateSubLecture: %v", err)
	}
	if lec.Sequence != 3 || lec.SectionID != sec.Section.ID || lec.Title != "Select" {
		t.Fatalf("lecture: got=%+v", lec)
	}
	c, err := graph.Courses.GetByID(dbctx.Of(ctx), base.Course.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if c.TotalLecturesCount != 6 {
		t.Fatalf("TotalLecturesCount: want=6 got=%d", c.TotalLecturesCount)
	}
}

func TestGenerateLectureOtherTenantCourse(t *testing.T) {
	svc, _ := newService(t, newFakeAI())
	base, err := svc.GenerateCourse(ctxutil.WithTenant(context.Background(), "T1"), jobs.CourseGenerationRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
	_, err = svc.GenerateLecture(ctxutil.WithTenant(context.Background(), "T2"), base.Course.ID, "y")
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGenerateRequiresConcreteTenant(t *testing.T) {
	ai := newFakeAI()
	svc, _ := newService(t, ai)
	for _, ctx := range []context.Context{context.Background(), ctxutil.WithSystemTenant(context.Background())} {
		if _, err := svc.GenerateCourse(ctx, jobs.CourseGenerationRequest{Prompt: "x"}); !errors.Is(err, pkgerrors.ErrNoTenant) {
			t.Fatalf("want ErrNoTenant, got %v", err)
		}
	}
	if len(ai.calls) != 0 {
		t.Fatalf("model called without tenant: %v", ai.calls)
	}
}

func TestGenerateCourseModelError(t *testing.T) {
	ai := newFakeAI()
	ai.err = errors.New("quota")
	svc, _ := newService(t, ai)
	if _, err := svc.GenerateCourse(ctxutil.WithTenant(context.Background(), "T1"), jobs.CourseGenerationRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}
