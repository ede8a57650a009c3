package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
)

func serveTraced(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *ctxutil.TraceData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/jobs/:id", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if seen == nil {
		t.Fatalf("trace data missing from request context")
	}
	return rec, seen
}

func TestAttachTraceContextKeepsCallerIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/j1", nil)
	req.Header.Set(headerRequestID, "req-42")
	req.Header.Set(headerTraceID, "trace-7")

	rec, td := serveTraced(t, req)
	if td.RequestID != "req-42" || td.TraceID != "trace-7" {
		t.Fatalf("ids: want=req-42/trace-7 got=%s/%s", td.RequestID, td.TraceID)
	}
	if got := rec.Header().Get(headerRequestID); got != "req-42" {
		t.Fatalf("echoed request id: want=req-42 got=%q", got)
	}
	if got := rec.Header().Get(headerTraceID); got != "trace-7" {
		t.Fatalf("echoed trace id: want=trace-7 got=%q", got)
	}
}

func TestAttachTraceContextReplacesUnusableIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/j1", nil)
	req.Header.Set(headerRequestID, strings.Repeat("x", maxCorrelationID+1))
	req.Header.Set(headerTraceID, "has space")

	rec, td := serveTraced(t, req)
	if td.RequestID == "" || len(td.RequestID) > maxCorrelationID {
		t.Fatalf("request id not replaced: %q", td.RequestID)
	}
	if td.TraceID == "has space" || td.TraceID == "" {
		t.Fatalf("trace id not replaced: %q", td.TraceID)
	}
	if rec.Header().Get(headerRequestID) != td.RequestID {
		t.Fatalf("echoed request id: want=%s got=%s", td.RequestID, rec.Header().Get(headerRequestID))
	}
}

func TestAttachTraceContextPrefersActiveSpan(t *testing.T) {
	traceID := trace.TraceID{0x0a, 0x0b, 0x0c, 0x01}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{0x01},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/j1", nil)
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
	req.Header.Set(headerTraceID, "caller-trace")

	_, td := serveTraced(t, req)
	if td.TraceID != traceID.String() {
		t.Fatalf("trace id: want=%s got=%s", traceID.String(), td.TraceID)
	}
}
