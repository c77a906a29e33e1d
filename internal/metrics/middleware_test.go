package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/mongodb/documents/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/mongodb/documents/{id}", "404"))
	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest("GET", "/api/mongodb/documents/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/mongodb/documents/{id}", "404"))

	if after-before != 3 {
		t.Errorf("expected 3 requests on one series, got %v", after-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("case") {
		case "bad":
			w.WriteHeader(http.StatusBadRequest)
		case "fail":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"results":[]}`))
		}
	})

	tests := []struct {
		query  string
		status string
	}{
		{"", "200"},
		{"?case=bad", "400"},
		{"?case=fail", "500"},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/search", tc.status))
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/search"+tc.query, http.NoBody))
			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/search", tc.status))
			if after-before != 1 {
				t.Errorf("expected one request with status %s, got %v", tc.status, after-before)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q", got)
	}
	if got := normalizePath("/health"); got != "/health" {
		t.Errorf("normalizePath(/health) = %q", got)
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	SearchTotal.WithLabelValues("fallback", StatusOK).Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "docsearch_search_total") {
		t.Error("expected docsearch_search_total in exposition")
	}
}
