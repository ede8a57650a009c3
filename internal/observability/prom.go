package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Minimal Prometheus text exposition. Label values are keyed by their
// rendered form so output is stable between scrapes.

type collector interface {
	write(w io.Writer) error
}

type family struct {
	name   string
	help   string
	kind   string
	labels []string
}

func (f family) header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.name, f.help, f.name, f.kind)
	return err
}

func (f family) key(values []string) string {
	if len(f.labels) == 0 {
		return ""
	}
	parts := make([]string, len(f.labels))
	for i, name := range f.labels {
		v := "unknown"
		if i < len(values) && values[i] != "" {
			v = values[i]
		}
		parts[i] = name + `="` + escapeLabel(v) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func escapeLabel(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(v)
}

func withLe(key, le string) string {
	if key == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(key, "}") + `,le="` + le + `"}`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// scalarVec backs both counters and gauges.
type scalarVec struct {
	family
	mu     sync.Mutex
	values map[string]float64
}

type counterVec struct{ scalarVec }

type gaugeVec struct{ scalarVec }

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{scalarVec{family: family{name, help, "counter", labels}, values: map[string]float64{}}}
}

func newGaugeVec(name, help string, labels ...string) *gaugeVec {
	return &gaugeVec{scalarVec{family: family{name, help, "gauge", labels}, values: map[string]float64{}}}
}

func (s *scalarVec) add(v float64, values ...string) {
	k := s.key(values)
	s.mu.Lock()
	s.values[k] += v
	s.mu.Unlock()
}

func (s *scalarVec) set(v float64, values ...string) {
	k := s.key(values)
	s.mu.Lock()
	s.values[k] = v
	s.mu.Unlock()
}

func (s *scalarVec) get(values ...string) float64 {
	k := s.key(values)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[k]
}

func (s *scalarVec) write(w io.Writer) error {
	if err := s.header(w); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range sortedKeys(s.values) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.name, k, s.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type histogramVec struct {
	family
	bounds []float64
	mu     sync.Mutex
	series map[string]*histogram
}

type histogram struct {
	counts []uint64 // cumulative; last slot is +Inf
	sum    float64
}

func newHistogramVec(name, help string, bounds []float64, labels ...string) *histogramVec {
	return &histogramVec{
		family: family{name, help, "histogram", labels},
		bounds: bounds,
		series: map[string]*histogram{},
	}
}

func (h *histogramVec) observe(v float64, values ...string) {
	k := h.key(values)
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.series[k]
	if !ok {
		s = &histogram{counts: make([]uint64, len(h.bounds)+1)}
		h.series[k] = s
	}
	s.sum += v
	for i, b := range h.bounds {
		if v <= b {
			s.counts[i]++
		}
	}
	s.counts[len(h.bounds)]++
}

func (h *histogramVec) write(w io.Writer) error {
	if err := h.header(w); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range sortedKeys(h.series) {
		s := h.series[k]
		for i, b := range h.bounds {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), s.counts[i]); err != nil {
				return err
			}
		}
		total := s.counts[len(h.bounds)]
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %g\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), total, h.name, k, s.sum, h.name, k, total); err != nil {
			return err
		}
	}
	return nil
}
