package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewMetricsDisabledIsNilSafe(t *testing.T) {
	m := NewMetrics(nil, MetricsConfig{})
	if m != nil {
		t.Fatalf("disabled metrics: want nil")
	}
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncEventDispatched("ContentCompleted", "hub", "ok")
	m.SSEClientConnected()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("disabled scrape status: want=%d got=%d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestMetricsRecordsAggregateAndAPI(t *testing.T) {
	m := NewMetrics(nil, MetricsConfig{Enabled: true})
	m.ObserveAggregateOperation("Learning.Completion.CompleteContent", "success", 3*time.Millisecond)
	m.ObserveAggregateOperation("Learning.Completion.CompleteContent", "business_rule_violation", time.Millisecond)
	m.IncAggregateConflict("Learning.Completion.CompleteContent")
	m.ObserveAPI("POST", "/api/contents/:id/complete", 200, 10*time.Millisecond)

	if got := m.aggregateOps.Value("Learning.Completion.CompleteContent", "success"); got != 1 {
		t.Fatalf("aggregate ops success: want=1 got=%v", got)
	}
	if got := m.aggregateLatency.Count("Learning.Completion.CompleteContent", "business_rule_violation"); got != 1 {
		t.Fatalf("aggregate latency count: want=1 got=%d", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`cp_aggregate_conflicts_total{op="Learning.Completion.CompleteContent"} 1`,
		`cp_api_requests_total{method="POST",route="/api/contents/:id/complete",status="200"} 1`,
		`# TYPE cp_api_request_duration_seconds histogram`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestLabelStringEscapes(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString: got=%s", got)
	}
	if le := withLe(`{a="1"}`, "0.5"); le != `{a="1",le="0.5"}` {
		t.Fatalf("withLe: got=%s", le)
	}
}
