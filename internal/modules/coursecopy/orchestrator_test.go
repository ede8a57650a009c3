package coursecopy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	coursedata "github.com/yungbote/coursejobs/internal/data/repos/course"
	"github.com/yungbote/coursejobs/internal/data/repos/testutil"
	"github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/modules/media"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/pkg/ids"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
)

type memStore struct{ objects map[string]bool }

func (m *memStore) Name() string            { return "mem" }
func (m *memStore) Owns(rawURL string) bool { return strings.HasPrefix(rawURL, testutil.BlobBase+"/") }
func (m *memStore) URL(key string) string   { return testutil.BlobBase + "/" + key }

func (m *memStore) KeyFromURL(rawURL string) (string, error) {
	return strings.TrimPrefix(rawURL, testutil.BlobBase+"/"), nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) { return m.objects[key], nil }

func (m *memStore) CopyFromURL(_ context.Context, _, dstKey string) error {
	m.objects[dstKey] = true
	return nil
}

type progressLog struct {
	messages []string
	percents []int
}

func (p *progressLog) record(msg string, pct int) {
	p.messages = append(p.messages, msg)
	p.percents = append(p.percents, pct)
}

func setup(t *testing.T) (*Orchestrator, *coursedata.Graph, *testutil.SeededCourse, *memStore) {
	t.Helper()
	ctx := ctxutil.WithSystemTenant(context.Background())
	db := testutil.DB(t)
	seed := testutil.SeedCourse(t, ctx, db, "T1")
	log := testutil.Logger(t)
	graph := coursedata.NewGraph(db, log)
	store := &memStore{objects: map[string]bool{}}
	return NewOrchestrator(log, graph, media.NewDuplicator(log, store, graph)), graph, seed, store
}

func TestCopyCourseToTenant(t *testing.T) {
	o, graph, seed, _ := setup(t)
	caller := ctxutil.WithTenant(context.Background(), "T1")
	var p progressLog

	res, err := o.CopyCourseToTenant(caller, "job-1", jobs.CourseCopyRequest{
		SourceCourseID: seed.Course.ID,
		TargetTenantID: "T2",
	}, p.record)
	if err != nil {
		t.Fatalf("CopyCourseToTenant: %v", err)
	}
	if id := ctxutil.TenantID(caller); id != "T1" {
		t.Fatalf("caller tenant changed: got=%q", id)
	}

	want := jobs.CopiedEntities{
		Sections:           2,
		Lectures:           3,
		LectureContent:     3,
		SubLessons:         1,
		Assessments:        1,
		QuizQuestions:      2,
		QuizOptions:        4,
		Resources:          1,
		LearningObjectives: 2,
		MediaAssets:        9,
	}
	if res.CopiedEntities != want {
		t.Fatalf("CopiedEntities: want=%+v got=%+v", want, res.CopiedEntities)
	}
	if res.SourceTenantID != "T1" || res.TargetTenantID != "T2" || res.NewCourseID == "" {
		t.Fatalf("result ids: got=%+v", res)
	}
	if res.CompletedAt == nil || res.Duration == "" || res.FailedStage != "" {
		t.Fatalf("result completion: got=%+v", res)
	}
	if p.percents[0] != 5 || p.percents[len(p.percents)-1] != 95 {
		t.Fatalf("progress bounds: got=%v", p.percents)
	}
	for i := 1; i < len(p.percents); i++ {
		if p.percents[i] < p.percents[i-1] {
			t.Fatalf("progress went backwards: %v", p.percents)
		}
	}
	var sawMedia bool
	for _, m := range p.messages {
		if m == "Duplicating media files (9/9)" {
			sawMedia = true
		}
	}
	if !sawMedia {
		t.Fatalf("media progress message missing: %v", p.messages)
	}

	dbc := dbctx.Of(ctxutil.WithTenant(context.Background(), "T2"))
	c, err := graph.Courses.GetByID(dbc, res.NewCourseID)
	if err != nil {
		t.Fatalf("GetByID copy: %v", err)
	}
	if c.Title != "Copy of Intro" || c.IsPublished || c.PublishedAt != nil {
		t.Fatalf("copy header: got title=%q published=%v", c.Title, c.IsPublished)
	}
	if c.TotalStudentsCount != 0 || len(c.AssignedClassIDs) != 0 {
		t.Fatalf("copy counters: students=%d classes=%v", c.TotalStudentsCount, c.AssignedClassIDs)
	}
	if !strings.Contains(c.ThumbnailURL, "/T2/courses/"+c.ID+"/") {
		t.Fatalf("thumbnail not rewritten: %q", c.ThumbnailURL)
	}
	if c.CategoryID == nil {
		t.Fatalf("category not set")
	}
	cat, err := graph.Categories.GetByID(dbc, *c.CategoryID)
	if err != nil || cat.ClientID != "T2" || cat.Name != "Programming" {
		t.Fatalf("category: got=%+v err=%v", cat, err)
	}
	tags, err := graph.Tags.ListBy(dbc, "client_id", "T2")
	if err != nil || len(tags) != 2 {
		t.Fatalf("tags in target: got=%d err=%v", len(tags), err)
	}

	sections, err := graph.Sections.ListBy(dbc, "course_id", c.ID)
	if err != nil || len(sections) != 2 {
		t.Fatalf("sections: got=%d err=%v", len(sections), err)
	}
	asm, err := graph.Assessments.ListBy(dbc, "course_id", c.ID)
	if err != nil || len(asm) != 1 {
		t.Fatalf("assessments: got=%d err=%v", len(asm), err)
	}
	if asm[0].SectionID == nil || *asm[0].SectionID != sections[0].ID {
		t.Fatalf("assessment section not remapped: got=%v want=%s", asm[0].SectionID, sections[0].ID)
	}
	lectures, err := graph.Lectures.ListBy(dbc, "section_id", sections[0].ID)
	if err != nil || len(lectures) != 2 {
		t.Fatalf("lectures of first section: got=%d err=%v", len(lectures), err)
	}
	if asm[0].LectureID == nil || *asm[0].LectureID != lectures[1].ID {
		t.Fatalf("assessment lecture not remapped: got=%v want=%s", asm[0].LectureID, lectures[1].ID)
	}
	resources, err := graph.Resources.ListBy(dbc, "course_id", c.ID)
	if err != nil || len(resources) != 1 || resources[0].DownloadCount != 0 {
		t.Fatalf("resources: got=%+v err=%v", resources, err)
	}

	// Source rows stay where they were.
	src, err := graph.Courses.GetByID(dbctx.Of(caller), seed.Course.ID)
	if err != nil || src.ThumbnailURL != seed.Course.ThumbnailURL {
		t.Fatalf("source course modified: got=%+v err=%v", src, err)
	}
}

func TestCopyCourseToTenantTitleAndPublished(t *testing.T) {
	o, graph, seed, _ := setup(t)
	sys := ctxutil.WithSystemTenant(context.Background())
	existing := &course.Category{ID: ids.New(), ClientID: "T2", Name: "Programming", IsActive: true}
	if err := graph.Categories.Create(dbctx.Of(sys), existing); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	res, err := o.CopyCourseToTenant(context.Background(), "job-2", jobs.CourseCopyRequest{
		SourceCourseID:     seed.Course.ID,
		TargetTenantID:     "T2",
		NewCourseTitle:     "  Go 101 ",
		CopyPublishedState: true,
	}, nil)
	if err != nil {
		t.Fatalf("CopyCourseToTenant: %v", err)
	}
	c, err := graph.Courses.GetByID(dbctx.Of(sys), res.NewCourseID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if c.Title != "Go 101" || !c.IsPublished || c.PublishedAt == nil {
		t.Fatalf("copy header: title=%q published=%v at=%v", c.Title, c.IsPublished, c.PublishedAt)
	}
	if c.CategoryID == nil || *c.CategoryID != existing.ID {
		t.Fatalf("category: want=%s got=%v", existing.ID, c.CategoryID)
	}
}

func TestCopyCourseToTenantMissingSource(t *testing.T) {
	o, _, _, _ := setup(t)
	var p progressLog
	res, err := o.CopyCourseToTenant(context.Background(), "job-3", jobs.CourseCopyRequest{
		SourceCourseID: "nope",
		TargetTenantID: "T2",
	}, p.record)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageValidate {
		t.Fatalf("want StageError at %s, got %v", StageValidate, err)
	}
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if res == nil || res.FailedStage != StageValidate || res.NewCourseID != "" {
		t.Fatalf("partial result: got=%+v", res)
	}
	if len(p.percents) != 1 || p.percents[0] != 5 {
		t.Fatalf("progress: got=%v", p.percents)
	}
}

func TestCopyCourseToTenantMediaFailure(t *testing.T) {
	ctx := ctxutil.WithSystemTenant(context.Background())
	db := testutil.DB(t)
	seed := testutil.SeedCourse(t, ctx, db, "T1")
	log := testutil.Logger(t)
	graph := coursedata.NewGraph(db, log)
	o := NewOrchestrator(log, graph, failingMedia{})

	res, err := o.CopyCourseToTenant(context.Background(), "job-4", jobs.CourseCopyRequest{
		SourceCourseID: seed.Course.ID,
		TargetTenantID: "T2",
	}, nil)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageMedia {
		t.Fatalf("want StageError at %s, got %v", StageMedia, err)
	}
	if res.NewCourseID == "" || res.CopiedEntities.Sections != 2 || res.CopiedEntities.LearningObjectives != 2 {
		t.Fatalf("partial counts: got=%+v", res.CopiedEntities)
	}
}

type failingMedia struct{}

func (failingMedia) DuplicateAllMedia(dbctx.Context, *course.Course, string, media.ProgressFunc) (media.Summary, error) {
	return media.Summary{}, errors.New("rows unavailable")
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{59*time.Second + 900*time.Millisecond, "59s"},
		{60 * time.Second, "1m 0s"},
		{61 * time.Second, "1m 1s"},
		{59*time.Minute + 59*time.Second, "59m 59s"},
		{time.Hour, "1h 0m"},
		{2*time.Hour + 5*time.Minute + 3*time.Second, "2h 5m"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%v): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestIDMap(t *testing.T) {
	var m idMap
	m.put("s2", "d2")
	m.put("s1", "d1")
	m.put("s2", "d2b")

	if got := strings.Join(m.order, ","); got != "s2,s1" {
		t.Fatalf("order: want=%q got=%q", "s2,s1", got)
	}
	src := "s2"
	if got := m.remap(&src); got == nil || *got != "d2b" {
		t.Fatalf("remap(s2): want=d2b got=%v", got)
	}
	missing := "s9"
	if got := m.remap(&missing); got != nil {
		t.Fatalf("remap(s9): want=nil got=%q", *got)
	}
	if got := m.remap(nil); got != nil {
		t.Fatalf("remap(nil): want=nil got=%q", *got)
	}
}
