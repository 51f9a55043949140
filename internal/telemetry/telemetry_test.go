package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	t.Parallel()
	m := NewMetrics(nil)

	m.ObserveRun("success", 2*time.Second)
	m.ObserveRun("success", time.Second)
	m.ObserveRun("unreachable", 0)

	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("expected 2 successful runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("unreachable")); got != 1 {
		t.Errorf("expected 1 unreachable run, got %v", got)
	}
	if got := testutil.CollectAndCount(m.RunDuration); got != 1 {
		t.Errorf("expected 1 histogram series, got %d", got)
	}
}

func TestObservePages(t *testing.T) {
	t.Parallel()
	m := NewMetrics(nil)

	m.ObservePages(3, 2)
	m.ObservePages(1, 0)

	if got := testutil.ToFloat64(m.PagesFetched); got != 4 {
		t.Errorf("expected 4 pages fetched, got %v", got)
	}
	if got := testutil.ToFloat64(m.PageFailures); got != 2 {
		t.Errorf("expected 2 page failures, got %v", got)
	}
}

func TestObserveRequest(t *testing.T) {
	t.Parallel()
	m := NewMetrics(nil)

	m.ObserveRequest(http.MethodPost, "/api/analyze", http.StatusOK)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/analyze", "200")); got != 1 {
		t.Errorf("expected 1 analyze request, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("expected unmatched route label, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveRun("success", time.Second)
	m.ObserveMonitor(1, 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		`rivalscope_runs_total{result="success"} 1`,
		"rivalscope_run_duration_seconds_bucket",
		"rivalscope_content_changes_total 1",
		"rivalscope_rankings_recorded_total 4",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("expected exposition to contain %q", name)
		}
	}
}
