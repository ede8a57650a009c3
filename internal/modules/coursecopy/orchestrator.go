package coursecopy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/modules/media"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/pkg/ids"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

const (
	StageValidate    = "validate"
	StageCourse      = "course"
	StageTaxonomy    = "taxonomy"
	StageSections    = "sections"
	StageLectures    = "lectures"
	StageContents    = "lecture_contents"
	StageSubLessons  = "sub_lessons"
	StageAssessments = "assessments"
	StageResources   = "resources"
	StageObjectives  = "learning_objectives"
	StageMedia       = "media"
	StageFinalize    = "finalize"
)

var tracer = otel.Tracer("github.com/yungbote/coursejobs/internal/modules/coursecopy")

// ProgressFunc receives a human readable stage message and a percentage.
type ProgressFunc func(message string, percent int)

// MediaDuplicator copies a course's media into the target tenant.
type MediaDuplicator interface {
	DuplicateAllMedia(dbc dbctx.Context, c *course.Course, targetTenant string, progress media.ProgressFunc) (media.Summary, error)
}

// Orchestrator copies a course and everything under it into another tenant.
type Orchestrator struct {
	log   *logger.Logger
	graph *repos.CourseGraph
	media MediaDuplicator
	now   func() time.Time
}

func NewOrchestrator(baseLog *logger.Logger, graph *repos.CourseGraph, dup MediaDuplicator) *Orchestrator {
	return &Orchestrator{
		log:   baseLog.With("service", "CourseCopy"),
		graph: graph,
		media: dup,
		now:   time.Now,
	}
}

// run is the state of one copy.
type run struct {
	o        *Orchestrator
	ctx      context.Context
	log      *logger.Logger
	req      jobs.CourseCopyRequest
	progress ProgressFunc
	res      *jobs.CourseCopyResult

	source     *course.Course
	target     *course.Course
	sections idMap
	lectures idMap
}

// idMap maps source row ids to the ids of their copies. order keeps the
// source ids in the order they were copied.
type idMap struct {
	order []string
	ids   map[string]string
}

func (m *idMap) put(src, dst string) {
	if m.ids == nil {
		m.ids = make(map[string]string)
	}
	if _, ok := m.ids[src]; !ok {
		m.order = append(m.order, src)
	}
	m.ids[src] = dst
}

// remap returns the copy of *src, or nil when src is nil or was not copied.
func (m *idMap) remap(src *string) *string {
	if src == nil {
		return nil
	}
	dst, ok := m.ids[*src]
	if !ok {
		return nil
	}
	return &dst
}

// CopyCourseToTenant copies req.SourceCourseID into req.TargetTenantID. It
// reads and writes across tenants with a system tenant derived from ctx; the
// caller's ctx is not modified. The returned result is never nil: on error it
// holds what was created before the failing stage.
func (o *Orchestrator) CopyCourseToTenant(ctx context.Context, jobID string, req jobs.CourseCopyRequest, progress ProgressFunc) (*jobs.CourseCopyResult, error) {
	started := o.now()
	if progress == nil {
		progress = func(string, int) {}
	}
	r := &run{
		o:        o,
		ctx:      ctxutil.WithSystemTenant(ctx),
		log:      o.log.With("job_id", jobID, "source_course_id", req.SourceCourseID, "target_tenant", req.TargetTenantID),
		req:      req,
		progress: progress,
		res: &jobs.CourseCopyResult{
			SourceCourseID: req.SourceCourseID,
			TargetTenantID: req.TargetTenantID,
		},
	}

	stages := []struct {
		name    string
		percent int
		message string
		fn      func(dbctx.Context) error
	}{
		{StageValidate, 5, "Validating source course", r.validate},
		{StageCourse, 10, "Creating course copy", r.copyCourse},
		{StageTaxonomy, 15, "Processing categories and tags", r.copyTaxonomy},
		{StageSections, 25, "Copying sections", r.copySections},
		{StageLectures, 40, "Copying lectures", r.copyLectures},
		{StageContents, 50, "Copying lecture content", r.copyContents},
		{StageSubLessons, 55, "Copying sub-lessons", r.copySubLessons},
		{StageAssessments, 65, "Copying assessments and quizzes", r.copyAssessments},
		{StageResources, 75, "Copying course resources", r.copyResources},
		{StageObjectives, 80, "Copying learning objectives", r.copyObjectives},
		{StageMedia, 85, "Duplicating media files", r.duplicateMedia},
		{StageFinalize, 95, "Finalizing course copy", r.finalize},
	}
	for _, s := range stages {
		r.progress(s.message, s.percent)
		if err := r.stage(s.name, s.fn); err != nil {
			r.res.FailedStage = s.name
			r.log.Error("Course copy stage failed", "stage", s.name, "error", err)
			return r.res, &StageError{Stage: s.name, Err: err}
		}
	}

	done := o.now().UTC()
	r.res.CompletedAt = &done
	r.res.Duration = FormatDuration(done.Sub(started))
	r.log.Info("Course copied",
		"new_course_id", r.res.NewCourseID,
		"sections", r.res.CopiedEntities.Sections,
		"lectures", r.res.CopiedEntities.Lectures,
		"media_assets", r.res.CopiedEntities.MediaAssets,
		"duration", r.res.Duration,
	)
	return r.res, nil
}

func (r *run) stage(name string, fn func(dbctx.Context) error) error {
	ctx, span := tracer.Start(r.ctx, "coursecopy."+name)
	defer span.End()
	span.SetAttributes(
		attribute.String("course.source_id", r.req.SourceCourseID),
		attribute.String("tenant.target", r.req.TargetTenantID),
	)
	if err := fn(dbctx.Of(ctx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *run) validate(dbc dbctx.Context) error {
	src, err := r.o.graph.Courses.GetByID(dbc, r.req.SourceCourseID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return fmt.Errorf("source course not found: %s: %w", r.req.SourceCourseID, pkgerrors.ErrNotFound)
		}
		return err
	}
	r.source = src
	r.res.SourceTenantID = src.ClientID
	return nil
}

func (r *run) copyCourse(dbc dbctx.Context) error {
	src := r.source
	title := strings.TrimSpace(r.req.NewCourseTitle)
	if title == "" {
		title = "Copy of " + src.Title
	}
	t := &course.Course{
		ID:                   ids.New(),
		ClientID:             r.req.TargetTenantID,
		Title:                title,
		Description:          src.Description,
		IsPublished:          r.req.CopyPublishedState,
		IsActive:             true,
		ThumbnailURL:         src.ThumbnailURL,
		PreviewVideoURL:      src.PreviewVideoURL,
		IsFree:               src.IsFree,
		PricePaise:           src.PricePaise,
		Currency:             src.Currency,
		DifficultyLevel:      src.DifficultyLevel,
		Language:             src.Language,
		CertificateEligible:  src.CertificateEligible,
		MaxCompletionDays:    src.MaxCompletionDays,
		AssignedClassIDs:     course.StringList{},
		AssignedSectionIDs:   course.StringList{},
		TotalDurationSeconds: src.TotalDurationSeconds,
		TotalLecturesCount:   src.TotalLecturesCount,
		TotalStudentsCount:   0,
	}
	if t.IsPublished {
		now := r.o.now().UTC()
		t.PublishedAt = &now
	}
	if err := r.o.graph.Courses.Create(dbc, t); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	r.target = t
	r.res.NewCourseID = t.ID
	return nil
}

func (r *run) copyTaxonomy(dbc dbctx.Context) error {
	src, t := r.source, r.target
	if src.CategoryID != nil && *src.CategoryID != "" {
		catID, err := r.resolveCategory(dbc, *src.CategoryID)
		if err != nil {
			return err
		}
		t.CategoryID = catID
	}
	if len(src.Tags) > 0 {
		tags := make(course.StringList, 0, len(src.Tags))
		for _, name := range src.Tags {
			if _, err := r.o.graph.EnsureTag(dbc, t.ClientID, name); err != nil {
				return err
			}
			tags = append(tags, name)
		}
		t.Tags = tags
	}
	t.StreamTags = cloneList(src.StreamTags)
	t.RiasecTags = cloneList(src.RiasecTags)
	t.SkillTags = cloneList(src.SkillTags)
	return r.o.graph.Courses.Save(dbc, t)
}

// resolveCategory returns the target tenant's active category with the source
// category's name, creating it when missing. A dangling source category id
// yields nil.
func (r *run) resolveCategory(dbc dbctx.Context, srcCategoryID string) (*string, error) {
	src, err := r.o.graph.Categories.GetByID(dbc, srcCategoryID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		r.log.Warn("Source category missing, leaving copy uncategorized", "category_id", srcCategoryID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	existing, err := r.o.graph.FindActiveCategoryByName(dbc, r.target.ClientID, src.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.ID, nil
	}
	cat := &course.Category{
		ID:          ids.New(),
		ClientID:    r.target.ClientID,
		Name:        src.Name,
		Description: src.Description,
		IconURL:     src.IconURL,
		Sequence:    src.Sequence,
		IsActive:    src.IsActive,
	}
	if err := r.o.graph.Categories.Create(dbc, cat); err != nil {
		return nil, fmt.Errorf("create category %q: %w", src.Name, err)
	}
	return &cat.ID, nil
}

func (r *run) copySections(dbc dbctx.Context) error {
	rows, err := r.o.graph.Sections.ListBy(dbc, "course_id", r.source.ID)
	if err != nil {
		return err
	}
	for _, s := range rows {
		cp := &course.Section{
			ID:          ids.New(),
			ClientID:    r.target.ClientID,
			CourseID:    r.target.ID,
			Title:       s.Title,
			Description: s.Description,
			Sequence:    s.Sequence,
			IsPublished: s.IsPublished,
		}
		if err := r.o.graph.Sections.Create(dbc, cp); err != nil {
			return err
		}
		r.sections.put(s.ID, cp.ID)
		r.res.CopiedEntities.Sections++
	}
	return nil
}

func (r *run) copyLectures(dbc dbctx.Context) error {
	for _, srcSection := range r.sections.order {
		rows, err := r.o.graph.Lectures.ListBy(dbc, "section_id", srcSection)
		if err != nil {
			return err
		}
		for _, l := range rows {
			cp := &course.Lecture{
				ID:              ids.New(),
				ClientID:        r.target.ClientID,
				SectionID:       r.sections.ids[srcSection],
				CourseID:        r.target.ID,
				Title:           l.Title,
				Description:     l.Description,
				ContentType:     l.ContentType,
				Sequence:        l.Sequence,
				DurationSeconds: l.DurationSeconds,
				IsPreview:       l.IsPreview,
				IsPublished:     l.IsPublished,
			}
			if err := r.o.graph.Lectures.Create(dbc, cp); err != nil {
				return err
			}
			r.lectures.put(l.ID, cp.ID)
			r.res.CopiedEntities.Lectures++
		}
	}
	return nil
}

func (r *run) copyContents(dbc dbctx.Context) error {
	for _, srcLecture := range r.lectures.order {
		rows, err := r.o.graph.Contents.ListBy(dbc, "lecture_id", srcLecture)
		if err != nil {
			return err
		}
		for _, c := range rows {
			cp := &course.LectureContent{
				ID:            ids.New(),
				ClientID:      r.target.ClientID,
				LectureID:     r.lectures.ids[srcLecture],
				ContentType:   c.ContentType,
				Title:         c.Title,
				Description:   c.Description,
				FileURL:       c.FileURL,
				FileSizeBytes: c.FileSizeBytes,
				MimeType:      c.MimeType,
				VideoURL:      c.VideoURL,
				TranscriptURL: c.TranscriptURL,
				SubtitleURLs:  cloneList(c.SubtitleURLs),
				ThumbnailURL:  c.ThumbnailURL,
				TextContent:   c.TextContent,
				ExternalURL:   c.ExternalURL,
				EmbeddedCode:  c.EmbeddedCode,
				Sequence:      c.Sequence,
			}
			if err := r.o.graph.Contents.Create(dbc, cp); err != nil {
				return err
			}
			r.res.CopiedEntities.LectureContent++
		}
	}
	return nil
}

func (r *run) copySubLessons(dbc dbctx.Context) error {
	for _, srcLecture := range r.lectures.order {
		rows, err := r.o.graph.SubLessons.ListBy(dbc, "lecture_id", srcLecture)
		if err != nil {
			return err
		}
		for _, s := range rows {
			cp := &course.SubLesson{
				ID:              ids.New(),
				ClientID:        r.target.ClientID,
				LectureID:       r.lectures.ids[srcLecture],
				Title:           s.Title,
				Description:     s.Description,
				ContentType:     s.ContentType,
				Sequence:        s.Sequence,
				DurationSeconds: s.DurationSeconds,
				FileURL:         s.FileURL,
				FileSizeBytes:   s.FileSizeBytes,
				MimeType:        s.MimeType,
				TextContent:     s.TextContent,
				ExternalURL:     s.ExternalURL,
				EmbeddedCode:    s.EmbeddedCode,
			}
			if err := r.o.graph.SubLessons.Create(dbc, cp); err != nil {
				return err
			}
			r.res.CopiedEntities.SubLessons++
		}
	}
	return nil
}

func (r *run) copyAssessments(dbc dbctx.Context) error {
	rows, err := r.o.graph.Assessments.ListBy(dbc, "course_id", r.source.ID)
	if err != nil {
		return err
	}
	for _, a := range rows {
		cp := &course.Assessment{
			ID:                     ids.New(),
			ClientID:               r.target.ClientID,
			CourseID:               r.target.ID,
			SectionID:              r.sections.remap(a.SectionID),
			LectureID:              r.lectures.remap(a.LectureID),
			AssessmentType:         a.AssessmentType,
			Title:                  a.Title,
			Description:            a.Description,
			Instructions:           a.Instructions,
			PassingScorePercentage: a.PassingScorePercentage,
			MaxAttempts:            a.MaxAttempts,
			TimeLimitSeconds:       a.TimeLimitSeconds,
			IsRequired:             a.IsRequired,
			IsPublished:            a.IsPublished,
			Sequence:               a.Sequence,
		}
		if err := r.o.graph.Assessments.Create(dbc, cp); err != nil {
			return err
		}
		r.res.CopiedEntities.Assessments++
		if err := r.copyQuestions(dbc, a.ID, cp.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) copyQuestions(dbc dbctx.Context, srcAssessmentID, dstAssessmentID string) error {
	rows, err := r.o.graph.Questions.ListBy(dbc, "assessment_id", srcAssessmentID)
	if err != nil {
		return err
	}
	for _, q := range rows {
		cp := &course.QuizQuestion{
			ID:                           ids.New(),
			ClientID:                     r.target.ClientID,
			AssessmentID:                 dstAssessmentID,
			QuestionType:                 q.QuestionType,
			QuestionText:                 q.QuestionText,
			Points:                       q.Points,
			Sequence:                     q.Sequence,
			Explanation:                  q.Explanation,
			TentativeAnswer:              q.TentativeAnswer,
			EditedTentativeAnswer:        q.EditedTentativeAnswer,
			UseTentativeAnswerForGrading: q.UseTentativeAnswerForGrading,
		}
		if err := r.o.graph.Questions.Create(dbc, cp); err != nil {
			return err
		}
		r.res.CopiedEntities.QuizQuestions++

		opts, err := r.o.graph.Options.ListBy(dbc, "question_id", q.ID)
		if err != nil {
			return err
		}
		for _, opt := range opts {
			ocp := &course.QuizOption{
				ID:         ids.New(),
				ClientID:   r.target.ClientID,
				QuestionID: cp.ID,
				OptionText: opt.OptionText,
				IsCorrect:  opt.IsCorrect,
				Sequence:   opt.Sequence,
			}
			if err := r.o.graph.Options.Create(dbc, ocp); err != nil {
				return err
			}
			r.res.CopiedEntities.QuizOptions++
		}
	}
	return nil
}

func (r *run) copyResources(dbc dbctx.Context) error {
	rows, err := r.o.graph.Resources.ListBy(dbc, "course_id", r.source.ID)
	if err != nil {
		return err
	}
	for _, res := range rows {
		cp := &course.CourseResource{
			ID:             ids.New(),
			ClientID:       r.target.ClientID,
			CourseID:       r.target.ID,
			ResourceType:   res.ResourceType,
			Title:          res.Title,
			Description:    res.Description,
			FileURL:        res.FileURL,
			FileSizeBytes:  res.FileSizeBytes,
			IsDownloadable: res.IsDownloadable,
			DownloadCount:  0,
		}
		if err := r.o.graph.Resources.Create(dbc, cp); err != nil {
			return err
		}
		r.res.CopiedEntities.Resources++
	}
	return nil
}

func (r *run) copyObjectives(dbc dbctx.Context) error {
	rows, err := r.o.graph.Objectives.ListBy(dbc, "course_id", r.source.ID)
	if err != nil {
		return err
	}
	for _, obj := range rows {
		cp := &course.LearningObjective{
			ID:            ids.New(),
			ClientID:      r.target.ClientID,
			CourseID:      r.target.ID,
			ObjectiveText: obj.ObjectiveText,
			Sequence:      obj.Sequence,
		}
		if err := r.o.graph.Objectives.Create(dbc, cp); err != nil {
			return err
		}
		r.res.CopiedEntities.LearningObjectives++
	}
	return nil
}

func (r *run) duplicateMedia(dbc dbctx.Context) error {
	if r.o.media == nil {
		r.log.Warn("No media duplicator configured, skipping media")
		return nil
	}
	sum, err := r.o.media.DuplicateAllMedia(dbc, r.target, r.target.ClientID, func(current, total int) {
		pct := 85
		if total > 0 {
			pct += int(float64(current) / float64(total) * 10)
		}
		r.progress(fmt.Sprintf("Duplicating media files (%d/%d)", current, total), pct)
	})
	r.res.MediaOutcomes = jobs.MediaOutcomeCounts{Copied: sum.Copied, Skipped: sum.Skipped, Reused: sum.Reused}
	r.res.CopiedEntities.MediaAssets = sum.Assets()
	return err
}

func (r *run) finalize(dbc dbctx.Context) error {
	return r.o.graph.Courses.Save(dbc, r.target)
}

func cloneList(in course.StringList) course.StringList {
	if in == nil {
		return nil
	}
	return append(course.StringList{}, in...)
}
