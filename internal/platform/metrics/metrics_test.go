package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncEditsApplied("toggle")
	m.IncEditsApplied("toggle")
	m.IncEditsRejected("out_of_range")
	m.IncCutListsSaved()

	called := false
	rec := httptest.NewRecorder()
	m.Handler(func() {
		called = true
		m.SetActiveSessions(3)
	}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !called {
		t.Error("updateGauges not called before scrape")
	}
	body := rec.Body.String()
	for _, want := range []string{
		`cutlist_edits_applied_total{op="toggle"} 2`,
		`cutlist_edits_rejected_total{reason="out_of_range"} 1`,
		"cutlist_saved_total 1",
		"cutlist_active_sessions 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}
}

func TestRequestMiddleware(t *testing.T) {
	m := New()
	h := RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	for _, p := range []string{"/ok", "/bad", "/ok"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "cutlist_requests_total 3") || !strings.Contains(body, "cutlist_errors_total 1") {
		t.Errorf("unexpected counters:\n%s", body)
	}
}

func TestRequestMiddleware_routeLabels(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(RequestMiddleware(m))
	r.Post("/sessions/{media_id}/segments/{index}/toggle", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	for _, p := range []string{"/sessions/a/segments/1/toggle", "/sessions/b/segments/7/toggle"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, p, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	m.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`cutlist_http_requests_total{method="POST",route="/sessions/{media_id}/segments/{index}/toggle",status="422"} 2`,
		`cutlist_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
		`cutlist_http_request_duration_seconds_count{route="/sessions/{media_id}/segments/{index}/toggle"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}
}
