package course

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	"github.com/yungbote/coursejobs/internal/pkg/ids"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

const bySequence = "sequence ASC, id ASC"

// Graph groups the repositories of every entity reachable from a course.
type Graph struct {
	db  *gorm.DB
	log *logger.Logger

	Courses     *Repo[domain.Course]
	Categories  *Repo[domain.Category]
	Tags        *Repo[domain.Tag]
	Sections    *Repo[domain.Section]
	Lectures    *Repo[domain.Lecture]
	Contents    *Repo[domain.LectureContent]
	SubLessons  *Repo[domain.SubLesson]
	Assessments *Repo[domain.Assessment]
	Questions   *Repo[domain.QuizQuestion]
	Options     *Repo[domain.QuizOption]
	Resources   *Repo[domain.CourseResource]
	Objectives  *Repo[domain.LearningObjective]
}

func NewGraph(db *gorm.DB, baseLog *logger.Logger) *Graph {
	return &Graph{
		db:          db,
		log:         baseLog.With("repo", "CourseGraph"),
		Courses:     newRepo[domain.Course](db, baseLog, "CourseRepo", "created_at ASC, id ASC"),
		Categories:  newRepo[domain.Category](db, baseLog, "CategoryRepo", bySequence),
		Tags:        newRepo[domain.Tag](db, baseLog, "TagRepo", "name ASC"),
		Sections:    newRepo[domain.Section](db, baseLog, "SectionRepo", bySequence),
		Lectures:    newRepo[domain.Lecture](db, baseLog, "LectureRepo", bySequence),
		Contents:    newRepo[domain.LectureContent](db, baseLog, "LectureContentRepo", bySequence),
		SubLessons:  newRepo[domain.SubLesson](db, baseLog, "SubLessonRepo", bySequence),
		Assessments: newRepo[domain.Assessment](db, baseLog, "AssessmentRepo", bySequence),
		Questions:   newRepo[domain.QuizQuestion](db, baseLog, "QuizQuestionRepo", bySequence),
		Options:     newRepo[domain.QuizOption](db, baseLog, "QuizOptionRepo", bySequence),
		Resources:   newRepo[domain.CourseResource](db, baseLog, "CourseResourceRepo", "created_at ASC, id ASC"),
		Objectives:  newRepo[domain.LearningObjective](db, baseLog, "LearningObjectiveRepo", bySequence),
	}
}

// Transaction runs fn with dbc bound to a new transaction.
func (g *Graph) Transaction(dbc dbctx.Context, fn func(tx dbctx.Context) error) error {
	return dbc.DB(g.db).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}

// FindActiveCategoryByName returns the first active category of tenantID named
// name, or nil.
func (g *Graph) FindActiveCategoryByName(dbc dbctx.Context, tenantID, name string) (*domain.Category, error) {
	transaction, err := g.Categories.scoped(dbc)
	if err != nil {
		return nil, err
	}
	var rows []*domain.Category
	err = transaction.
		Where("client_id = ? AND is_active = ? AND name = ?", tenantID, true, name).
		Order(bySequence).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// EnsureTag makes sure tenantID has a tag row named name. created is false when
// the row already existed, including when a concurrent writer won the insert.
func (g *Graph) EnsureTag(dbc dbctx.Context, tenantID, name string) (created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	transaction, err := g.Tags.scoped(dbc)
	if err != nil {
		return false, err
	}
	var n int64
	if err := transaction.Model(&domain.Tag{}).Where("client_id = ? AND name = ?", tenantID, name).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	tag := &domain.Tag{ID: ids.New(), ClientID: tenantID, Name: name, UsageCount: 1}
	if err := g.Tags.Create(dbc, tag); err != nil {
		if isUniqueViolation(err) {
			g.log.Debug("Tag created concurrently", "tenant_id", tenantID, "tag", name)
			return false, nil
		}
		return false, fmt.Errorf("create tag %q: %w", name, err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
