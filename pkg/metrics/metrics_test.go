package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// counterValue gathers a metric family and sums its counter samples,
// optionally filtered by one label value
func counterValue(t *testing.T, r *Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var sum float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue != "" && !hasLabelValue(m, labelValue) {
				continue
			}
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func hasLabelValue(m *dto.Metric, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetValue() == value {
			return true
		}
	}
	return false
}

func TestRecordBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordBuild("ok", 20*time.Millisecond, 100, 250, false)
	r.RecordBuild("ok", 30*time.Millisecond, 600, 900, true)
	r.RecordBuild("error", 5*time.Millisecond, 0, 0, false)

	if got := counterValue(t, r, "linkscope_graph_builds_total", "ok"); got != 2 {
		t.Errorf("ok builds = %v, want 2", got)
	}
	if got := counterValue(t, r, "linkscope_graph_builds_total", "error"); got != 1 {
		t.Errorf("error builds = %v, want 1", got)
	}
	if got := counterValue(t, r, "linkscope_graph_builds_truncated_total", ""); got != 1 {
		t.Errorf("truncated builds = %v, want 1", got)
	}
}

func TestRecordFetch(t *testing.T) {
	r := NewRegistry()

	r.RecordFetch("applied")
	r.RecordFetch("superseded")
	r.RecordFetch("superseded")

	if got := counterValue(t, r, "linkscope_fetches_total", "applied"); got != 1 {
		t.Errorf("applied fetches = %v, want 1", got)
	}
	if got := counterValue(t, r, "linkscope_fetches_superseded_total", ""); got != 2 {
		t.Errorf("superseded fetches = %v, want 2", got)
	}
}

func TestRecordFocusRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordFocusRequest("published")
	r.RecordFocusRequest("publish_error")

	if got := counterValue(t, r, "linkscope_focus_requests_total", "published"); got != 1 {
		t.Errorf("published = %v, want 1", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("GET", "/api/v1/graph", "200", 15*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/v1/graph", "200", 25*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/v1/graph", "404", 5*time.Millisecond)

	if got := counterValue(t, r, "linkscope_http_requests_total", "200"); got != 2 {
		t.Errorf("200 requests = %v, want 2", got)
	}
}

func TestCacheCounters(t *testing.T) {
	r := NewRegistry()

	r.BuildCacheHits.Inc()
	r.BuildCacheMisses.Inc()
	r.BuildCacheMisses.Inc()

	if got := counterValue(t, r, "linkscope_payload_cache_hits_total", ""); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := counterValue(t, r, "linkscope_payload_cache_misses_total", ""); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild("ok", time.Millisecond, 10, 20, false)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "linkscope_graph_builds_total") {
		t.Error("Exposition missing build counter")
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.RecordFetch("applied")

	if got := counterValue(t, b, "linkscope_fetches_total", "applied"); got != 0 {
		t.Errorf("Registries share state: %v", got)
	}
}
