package media

import (
	"fmt"
	"strings"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// ProgressFunc is called once per file before it is duplicated.
type ProgressFunc func(current, total int)

// Duplicator copies a course's blob-store media into the target tenant's
// namespace and points the course rows at the copies.
type Duplicator struct {
	log   *logger.Logger
	blobs BlobStore
	graph *repos.CourseGraph
}

// NewDuplicator returns a Duplicator. blobs may be nil when no store is
// configured; every duplication is then a no-op.
func NewDuplicator(baseLog *logger.Logger, blobs BlobStore, graph *repos.CourseGraph) *Duplicator {
	return &Duplicator{
		log:   baseLog.With("component", "MediaDuplicator"),
		blobs: blobs,
		graph: graph,
	}
}

// TargetKey is the key a copied file gets in the target tenant. A source key
// laid out as "{tenant}/courses/{course}/rest" keeps rest; any other key keeps
// its whole path, so files with the same name in different folders stay apart.
// Applying it to a key it produced returns that key unchanged.
func TargetKey(targetTenant, courseID, sourceKey string) string {
	return fmt.Sprintf("%s/courses/%s/%s", targetTenant, courseID, relativeKey(sourceKey))
}

func relativeKey(key string) string {
	key = strings.TrimLeft(key, "/")
	parts := strings.SplitN(key, "/", 4)
	if len(parts) == 4 && parts[0] != "" && parts[1] == "courses" && parts[2] != "" && parts[3] != "" {
		return parts[3]
	}
	return key
}

// DuplicateAllMedia duplicates every store-owned file referenced by c (already
// in the target tenant) and its lectures, then saves the rows whose URLs
// changed. A file that cannot be copied keeps its original URL.
func (d *Duplicator) DuplicateAllMedia(dbc dbctx.Context, c *course.Course, targetTenant string, progress ProgressFunc) (Summary, error) {
	var sum Summary
	if d.blobs == nil {
		d.log.Warn("No blob store configured, skipping media duplication", "course_id", c.ID)
		return sum, nil
	}
	ents, err := d.load(dbc, c)
	if err != nil {
		return sum, fmt.Errorf("load media rows: %w", err)
	}

	var urls []string
	for _, u := range CollectURLs(ents) {
		if d.blobs.Owns(u) {
			urls = append(urls, u)
		}
	}
	d.log.Info("Duplicating media", "course_id", c.ID, "target_tenant", targetTenant, "files", len(urls), "store", d.blobs.Name())

	mapping := map[string]string{}
	for i, u := range urls {
		if progress != nil {
			progress(i+1, len(urls))
		}
		o := d.duplicate(dbc, u, targetTenant, c.ID)
		sum.add(o)
		if _, reused := o.(Reused); !reused {
			mapping[u] = o.Target()
		}
	}

	n, err := d.rewrite(dbc, ents, mapping)
	sum.Rewritten = n
	if err != nil {
		return sum, fmt.Errorf("save rewritten media urls: %w", err)
	}
	d.log.Info("Media duplication done",
		"course_id", c.ID,
		"copied", sum.Copied,
		"skipped", sum.Skipped,
		"reused", sum.Reused,
		"rows_updated", sum.Rewritten,
	)
	return sum, nil
}

func (d *Duplicator) duplicate(dbc dbctx.Context, srcURL, targetTenant, courseID string) Outcome {
	key, err := d.blobs.KeyFromURL(srcURL)
	if err != nil {
		d.log.Warn("Unparseable media URL, keeping original", "url", srcURL, "error", err)
		return Reused{SourceURL: srcURL, Err: err}
	}
	dst := TargetKey(targetTenant, courseID, key)
	exists, err := d.blobs.Exists(dbc.Ctx, dst)
	if err != nil {
		d.log.Warn("Media existence check failed, copying anyway", "key", dst, "error", err)
	}
	if exists {
		return Skipped{SourceURL: srcURL, ExistingURL: d.blobs.URL(dst)}
	}
	if err := d.blobs.CopyFromURL(dbc.Ctx, srcURL, dst); err != nil {
		d.log.Warn("Media copy failed, keeping original", "url", srcURL, "key", dst, "error", err)
		return Reused{SourceURL: srcURL, Err: err}
	}
	return Copied{SourceURL: srcURL, NewURL: d.blobs.URL(dst)}
}

func (d *Duplicator) load(dbc dbctx.Context, c *course.Course) (Entities, error) {
	ents := Entities{Course: c}
	lectures, err := d.graph.Lectures.ListBy(dbc, "course_id", c.ID)
	if err != nil {
		return ents, err
	}
	lectureIDs := make([]string, 0, len(lectures))
	for _, l := range lectures {
		lectureIDs = append(lectureIDs, l.ID)
	}
	if ents.Contents, err = d.graph.Contents.ListBy(dbc, "lecture_id", lectureIDs...); err != nil {
		return ents, err
	}
	if ents.SubLessons, err = d.graph.SubLessons.ListBy(dbc, "lecture_id", lectureIDs...); err != nil {
		return ents, err
	}
	if ents.Resources, err = d.graph.Resources.ListBy(dbc, "course_id", c.ID); err != nil {
		return ents, err
	}
	return ents, nil
}

func (d *Duplicator) rewrite(dbc dbctx.Context, ents Entities, mapping map[string]string) (int, error) {
	if len(mapping) == 0 {
		return 0, nil
	}
	saved := 0
	if c := ents.Course; c != nil {
		changed := rewrite(&c.ThumbnailURL, mapping)
		changed = rewrite(&c.PreviewVideoURL, mapping) || changed
		if changed {
			if err := d.graph.Courses.Save(dbc, c); err != nil {
				return saved, err
			}
			saved++
		}
	}
	for _, lc := range ents.Contents {
		changed := rewrite(&lc.FileURL, mapping)
		changed = rewrite(&lc.VideoURL, mapping) || changed
		changed = rewrite(&lc.TranscriptURL, mapping) || changed
		changed = rewrite(&lc.ThumbnailURL, mapping) || changed
		changed = rewriteList(lc.SubtitleURLs, mapping) || changed
		if changed {
			if err := d.graph.Contents.Save(dbc, lc); err != nil {
				return saved, err
			}
			saved++
		}
	}
	for _, s := range ents.SubLessons {
		if rewrite(&s.FileURL, mapping) {
			if err := d.graph.SubLessons.Save(dbc, s); err != nil {
				return saved, err
			}
			saved++
		}
	}
	for _, r := range ents.Resources {
		if rewrite(&r.FileURL, mapping) {
			if err := d.graph.Resources.Save(dbc, r); err != nil {
				return saved, err
			}
			saved++
		}
	}
	return saved, nil
}
