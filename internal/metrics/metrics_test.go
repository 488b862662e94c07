package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequest(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("GET", "/anchors", "200", 20*time.Millisecond)
	m.ObserveRequest("GET", "/anchors", "200", 30*time.Millisecond)
	m.ObserveRequest("DELETE", "/anchors/{id}", "error", time.Second)

	if got := counterValue(t, m.RequestsTotal.WithLabelValues("GET", "/anchors", "200")); got != 2 {
		t.Fatalf("expected 2 GET requests; got %v", got)
	}
	if got := counterValue(t, m.RequestsTotal.WithLabelValues("DELETE", "/anchors/{id}", "error")); got != 1 {
		t.Fatalf("expected 1 failed DELETE; got %v", got)
	}
}

func TestObserveMutationAndNotice(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveMutation("create", nil)
	m.ObserveMutation("delete", errors.New("boom"))
	m.ObserveNotice("error")

	if got := counterValue(t, m.Mutations.WithLabelValues("create", "success")); got != 1 {
		t.Fatalf("create success: %v", got)
	}
	if got := counterValue(t, m.Mutations.WithLabelValues("delete", "error")); got != 1 {
		t.Fatalf("delete error: %v", got)
	}
	if got := counterValue(t, m.Notices.WithLabelValues("error")); got != 1 {
		t.Fatalf("notices: %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveRequest("GET", "/x", "200", time.Millisecond)
	m.ObserveNotice("info")
	m.ObserveMutation("update", nil)
}

func TestHandlerExposesCollectors(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("GET", "/system/status", "200", time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "livewatch_backend_requests_total") {
		t.Fatalf("metrics output missing request counter:\n%s", body)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
