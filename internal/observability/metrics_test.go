package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	domain "github.com/yungbote/coursejobs/internal/domain/jobs"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.JobStarted()
	m.ObserveJob("COURSE_COPY", "COMPLETED", time.Second)
	m.ObserveMedia(1, 2, 3)
	if err := m.WritePrometheus(&strings.Builder{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
}

func TestInitDisabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	if m := Init(nil); m != nil {
		t.Fatalf("Init: want=nil got=%v", m)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := newMetrics()
	m.JobStarted()
	m.ObserveJob("COURSE_COPY", "COMPLETED", 3*time.Second)
	m.ObserveAPI("POST", "/api/courses/:id/copy", 202, 20*time.Millisecond)
	m.ObserveMedia(7, 1, 1)

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		`cj_job_runs_total{type="COURSE_COPY",status="COMPLETED"} 1`,
		`cj_job_duration_seconds_bucket{type="COURSE_COPY",le="5"} 1`,
		`cj_job_duration_seconds_bucket{type="COURSE_COPY",le="1"} 0`,
		`cj_job_duration_seconds_count{type="COURSE_COPY"} 1`,
		`cj_jobs_active 0`,
		`cj_api_requests_total{method="POST",route="/api/courses/:id/copy",status="202"} 1`,
		`cj_media_files_total{outcome="copied"} 7`,
		"# TYPE cj_queue_depth gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in:\n%s", want, out)
		}
	}
}

type fixedQueues map[domain.Queue]int64

func (f fixedQueues) Len(_ context.Context, q domain.Queue) (int64, error) { return f[q], nil }

func TestEscapeLabel(t *testing.T) {
	got := escapeLabel("a\"b\\c\nd")
	if want := `a\"b\\c\nd`; got != want {
		t.Fatalf("escapeLabel: want=%q got=%q", want, got)
	}
}

func TestQueueCollector(t *testing.T) {
	t.Setenv("METRICS_SCRAPE_INTERVAL", "10ms")
	m := newMetrics()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartQueueCollector(ctx, nil, fixedQueues{domain.QueueCourseCopy: 4})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.queueDepth.get(string(domain.QueueCourseCopy)) == 4 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("queue depth: want=4 got=%v", m.queueDepth.get(string(domain.QueueCourseCopy)))
}
