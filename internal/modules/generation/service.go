package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/pkg/ids"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
	"github.com/yungbote/coursejobs/internal/platform/openai"
)

// Service generates course material and stores it in the tenant carried by
// ctx.
type Service interface {
	GenerateCourse(ctx context.Context, req jobs.CourseGenerationRequest) (*GeneratedCourse, error)
	// GenerateLecture appends a new section, with lectures, to courseID.
	GenerateLecture(ctx context.Context, courseID, prompt string) (*GeneratedSection, error)
	// GenerateSubLecture appends a new lecture to sectionID.
	GenerateSubLecture(ctx context.Context, courseID, sectionID, prompt string) (*course.Lecture, error)
}

type GeneratedCourse struct {
	Course       *course.Course
	SectionCount int
	LectureCount int
}

type GeneratedSection struct {
	Section      *course.Section
	LectureCount int
}

const systemPrompt = "You design online courses. Reply only with JSON matching the schema. " +
	"Lecture content is complete teaching text in Markdown."

type service struct {
	log   *logger.Logger
	ai    openai.Client
	graph *repos.CourseGraph
}

func NewService(baseLog *logger.Logger, ai openai.Client, graph *repos.CourseGraph) Service {
	return &service{
		log:   baseLog.With("service", "CourseGeneration"),
		ai:    ai,
		graph: graph,
	}
}

// tenantOf returns the concrete tenant generated rows belong to.
func tenantOf(ctx context.Context) (string, error) {
	t, ok := ctxutil.TenantFrom(ctx)
	if !ok || t.System || t.ID == "" {
		return "", fmt.Errorf("%w: generation needs a concrete tenant", pkgerrors.ErrNoTenant)
	}
	return t.ID, nil
}

func system(writingFormat string) string {
	if f := strings.TrimSpace(writingFormat); f != "" {
		return systemPrompt + "\nWriting format:\n" + f
	}
	return systemPrompt
}

func (s *service) GenerateCourse(ctx context.Context, req jobs.CourseGenerationRequest) (*GeneratedCourse, error) {
	tenant, err := tenantOf(ctx)
	if err != nil {
		return nil, err
	}
	obj, err := s.ai.GenerateJSON(ctx, system(req.WritingFormat), "Create a course for this request:\n"+req.Prompt, "course_outline", courseSchema())
	if err != nil {
		return nil, fmt.Errorf("generate course outline: %w", err)
	}
	var outline CourseOutline
	if err := decode(obj, &outline); err != nil {
		return nil, err
	}
	if strings.TrimSpace(outline.Title) == "" {
		return nil, fmt.Errorf("generated outline has no title")
	}

	c := &course.Course{
		ID:                  ids.New(),
		ClientID:            tenant,
		Title:               strings.TrimSpace(outline.Title),
		Description:         outline.Description,
		IsActive:            true,
		IsFree:              true,
		DifficultyLevel:     req.DifficultyLevel,
		Language:            req.Language,
		CertificateEligible: req.CertificateEligible,
		Tags:                course.StringList(req.Tags),
	}
	if id := strings.TrimSpace(req.CategoryID); id != "" {
		c.CategoryID = &id
	}
	if req.MaxCompletionDays > 0 {
		days := req.MaxCompletionDays
		c.MaxCompletionDays = &days
	}

	out := &GeneratedCourse{Course: c}
	err = s.graph.Transaction(dbctx.Of(ctx), func(tx dbctx.Context) error {
		for _, tag := range req.Tags {
			if _, err := s.graph.EnsureTag(tx, tenant, tag); err != nil {
				return err
			}
		}
		if err := s.graph.Courses.Create(tx, c); err != nil {
			return err
		}
		seq := 0
		for _, so := range outline.Sections {
			if !so.valid() {
				continue
			}
			seq++
			_, n, err := s.createSection(tx, c, so, seq)
			if err != nil {
				return err
			}
			out.SectionCount++
			out.LectureCount += n
		}
		for i, text := range outline.Objectives {
			if strings.TrimSpace(text) == "" {
				continue
			}
			o := &course.LearningObjective{ID: ids.New(), ClientID: tenant, CourseID: c.ID, ObjectiveText: text, Sequence: i + 1}
			if err := s.graph.Objectives.Create(tx, o); err != nil {
				return err
			}
		}
		c.TotalLecturesCount = out.LectureCount
		return s.graph.Courses.Save(tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("save generated course: %w", err)
	}
	s.log.Info("Course generated", "course_id", c.ID, "sections", out.SectionCount, "lectures", out.LectureCount)
	return out, nil
}

func (s *service) GenerateLecture(ctx context.Context, courseID, prompt string) (*GeneratedSection, error) {
	if _, err := tenantOf(ctx); err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)
	c, err := s.graph.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, err
	}
	existing, err := s.graph.Sections.ListBy(dbc, "course_id", c.ID)
	if err != nil {
		return nil, err
	}
	seqs := make([]int, 0, len(existing))
	for _, e := range existing {
		seqs = append(seqs, e.Sequence)
	}
	user := fmt.Sprintf("Course: %s\n%s\n\nWrite one new section with its lectures for this request:\n%s", c.Title, c.Description, prompt)
	obj, err := s.ai.GenerateJSON(ctx, systemPrompt, user, "section_outline", sectionSchema())
	if err != nil {
		return nil, fmt.Errorf("generate section outline: %w", err)
	}
	var so SectionOutline
	if err := decode(obj, &so); err != nil {
		return nil, err
	}
	if !so.valid() {
		return nil, fmt.Errorf("generated section has no title")
	}

	out := &GeneratedSection{}
	err = s.graph.Transaction(dbc, func(tx dbctx.Context) error {
		sec, n, err := s.createSection(tx, c, so, nextSequence(seqs))
		if err != nil {
			return err
		}
		out.Section, out.LectureCount = sec, n
		c.TotalLecturesCount += n
		return s.graph.Courses.Save(tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("save generated section: %w", err)
	}
	return out, nil
}

func (s *service) GenerateSubLecture(ctx context.Context, courseID, sectionID, prompt string) (*course.Lecture, error) {
	if _, err := tenantOf(ctx); err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)
	c, err := s.graph.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, err
	}
	sec, err := s.graph.Sections.GetByID(dbc, sectionID)
	if err != nil {
		return nil, err
	}
	if sec.CourseID != c.ID {
		return nil, fmt.Errorf("%w: section %s does not belong to course %s", pkgerrors.ErrNotFound, sectionID, courseID)
	}
	existing, err := s.graph.Lectures.ListBy(dbc, "section_id", sec.ID)
	if err != nil {
		return nil, err
	}
	seqs := make([]int, 0, len(existing))
	for _, e := range existing {
		seqs = append(seqs, e.Sequence)
	}
	user := fmt.Sprintf("Course: %s\nSection: %s\n%s\n\nWrite one new lecture for this request:\n%s", c.Title, sec.Title, sec.Description, prompt)
	obj, err := s.ai.GenerateJSON(ctx, systemPrompt, user, "lecture_outline", lectureSchema())
	if err != nil {
		return nil, fmt.Errorf("generate lecture: %w", err)
	}
	var lo LectureOutline
	if err := decode(obj, &lo); err != nil {
		return nil, err
	}
	if !lo.valid() {
		return nil, fmt.Errorf("generated lecture has no title")
	}

	var lec *course.Lecture
	err = s.graph.Transaction(dbc, func(tx dbctx.Context) error {
		var err error
		if lec, err = s.createLecture(tx, c, sec, lo, nextSequence(seqs)); err != nil {
			return err
		}
		c.TotalLecturesCount++
		return s.graph.Courses.Save(tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("save generated lecture: %w", err)
	}
	return lec, nil
}

func (s *service) createSection(tx dbctx.Context, c *course.Course, so SectionOutline, seq int) (*course.Section, int, error) {
	sec := &course.Section{
		ID:          ids.New(),
		ClientID:    c.ClientID,
		CourseID:    c.ID,
		Title:       strings.TrimSpace(so.Title),
		Description: so.Description,
		Sequence:    seq,
	}
	if err := s.graph.Sections.Create(tx, sec); err != nil {
		return nil, 0, err
	}
	n := 0
	for _, lo := range so.Lectures {
		if !lo.valid() {
			continue
		}
		n++
		if _, err := s.createLecture(tx, c, sec, lo, n); err != nil {
			return nil, 0, err
		}
	}
	return sec, n, nil
}

func (s *service) createLecture(tx dbctx.Context, c *course.Course, sec *course.Section, lo LectureOutline, seq int) (*course.Lecture, error) {
	lec := &course.Lecture{
		ID:          ids.New(),
		ClientID:    c.ClientID,
		SectionID:   sec.ID,
		CourseID:    c.ID,
		Title:       strings.TrimSpace(lo.Title),
		Description: lo.Description,
		ContentType: "TEXT",
		Sequence:    seq,
	}
	if err := s.graph.Lectures.Create(tx, lec); err != nil {
		return nil, err
	}
	content := &course.LectureContent{
		ID:          ids.New(),
		ClientID:    c.ClientID,
		LectureID:   lec.ID,
		ContentType: "TEXT",
		Title:       lec.Title,
		TextContent: lo.Content,
	}
	if err := s.graph.Contents.Create(tx, content); err != nil {
		return nil, err
	}
	return lec, nil
}

// nextSequence is one past the highest of seqs.
func nextSequence(seqs []int) int {
	next := 1
	for _, seq := range seqs {
		if seq >= next {
			next = seq + 1
		}
	}
	return next
}
