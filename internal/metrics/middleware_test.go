package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(t *testing.T, r chi.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/reverse", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"addresses":[]}`))
	})

	if rr := serve(t, r, "GET", "/v1/reverse"); rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/reverse", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/reverse", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve(t, r, "GET", "/v1/reverse")
	serve(t, r, "GET", "/healthz")

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/reverse", "400")); v < 1 {
		t.Errorf("expected 400 count >= 1, got %f", v)
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/healthz", "200")); v < 1 {
		t.Errorf("expected 200 count >= 1, got %f", v)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf(`normalizePath("") = %q, want "unknown"`, got)
	}
	if got := normalizePath("/v1/reverse"); got != "/v1/reverse" {
		t.Errorf("normalizePath must keep route patterns, got %q", got)
	}
}
