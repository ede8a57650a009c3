package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/platform/envutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// QueueLengther reports the number of ids waiting in a queue.
type QueueLengther interface {
	Len(ctx context.Context, q domain.Queue) (int64, error)
}

type Metrics struct {
	apiRequests *counterVec
	apiLatency  *histogramVec
	apiInflight *gaugeVec

	jobRuns     *counterVec
	jobDuration *histogramVec
	jobsActive  *gaugeVec

	mediaOutcomes *counterVec
	llmRequests   *counterVec
	llmLatency    *histogramVec

	queueDepth *gaugeVec
	redisUp    *gaugeVec
	redisPing  *gaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second)
}

// Init returns the process-wide registry, or nil when METRICS_ENABLED is off.
// Every method is safe on a nil receiver.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	latency := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}
	jobBuckets := []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600}
	return &Metrics{
		apiRequests: newCounterVec("cj_api_requests_total", "API requests by method/route/status.", "method", "route", "status"),
		apiLatency:  newHistogramVec("cj_api_request_duration_seconds", "API request latency by method/route.", latency, "method", "route"),
		apiInflight: newGaugeVec("cj_api_inflight_requests", "In-flight API requests."),

		jobRuns:     newCounterVec("cj_job_runs_total", "Finished job runs by type/status.", "type", "status"),
		jobDuration: newHistogramVec("cj_job_duration_seconds", "Job run time by type.", jobBuckets, "type"),
		jobsActive:  newGaugeVec("cj_jobs_active", "Jobs currently being processed."),

		mediaOutcomes: newCounterVec("cj_media_files_total", "Media files handled during course copy by outcome.", "outcome"),
		llmRequests:   newCounterVec("cj_llm_requests_total", "Model requests by schema/status.", "schema", "status"),
		llmLatency:    newHistogramVec("cj_llm_request_duration_seconds", "Model request latency by schema.", latency, "schema"),

		queueDepth: newGaugeVec("cj_queue_depth", "Job ids waiting per queue.", "queue"),
		redisUp:    newGaugeVec("cj_redis_up", "1 when the last Redis ping succeeded."),
		redisPing:  newGaugeVec("cj_redis_ping_seconds", "Last Redis ping round trip."),
	}
}

func (m *Metrics) collectors() []collector {
	return []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.jobRuns, m.jobDuration, m.jobsActive,
		m.mediaOutcomes, m.llmRequests, m.llmLatency,
		m.queueDepth, m.redisUp, m.redisPing,
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		log.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.collectors() {
		if err := c.write(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.add(1, method, route, strconv.Itoa(status))
	m.apiLatency.observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.add(delta)
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.jobsActive.add(1)
}

// ObserveJob records a finished run; status is the job's final status.
func (m *Metrics) ObserveJob(jobType, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.jobsActive.add(-1)
	m.jobRuns.add(1, jobType, status)
	m.jobDuration.observe(dur.Seconds(), jobType)
}

func (m *Metrics) ObserveMedia(copied, skipped, reused int) {
	if m == nil {
		return
	}
	m.mediaOutcomes.add(float64(copied), "copied")
	m.mediaOutcomes.add(float64(skipped), "skipped")
	m.mediaOutcomes.add(float64(reused), "reused")
}

func (m *Metrics) ObserveLLM(schema string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.llmRequests.add(1, schema, status)
	m.llmLatency.observe(dur.Seconds(), schema)
}

// StartQueueCollector samples queue lengths until ctx ends.
func (m *Metrics) StartQueueCollector(ctx context.Context, log *logger.Logger, queues QueueLengther) {
	if m == nil || queues == nil {
		return
	}
	go tick(ctx, scrapeInterval(), func() {
		for _, q := range domain.Queues {
			n, err := queues.Len(ctx, q)
			if err != nil {
				log.Warn("metrics: queue length failed", "queue", q, "error", err)
				continue
			}
			m.queueDepth.set(float64(n), string(q))
		}
	})
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go tick(ctx, scrapeInterval(), func() {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.set(0)
			log.Warn("metrics: redis ping failed", "error", err)
			return
		}
		m.redisUp.set(1)
		m.redisPing.set(time.Since(start).Seconds())
	})
}

func tick(ctx context.Context, every time.Duration, fn func()) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}
