package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMetricsEndpoint(t *testing.T) {
	h := NewMux(&mockService{docs: nil}, Config{})
	_ = do(t, h, http.MethodGet, "/v1/documents/abc", "")
	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "ragd_http_requests_total") {
		t.Fatalf("metrics missing request counter")
	}
	// route pattern, not the raw path
	if !strings.Contains(body, `path="/v1/documents/{id}"`) {
		t.Fatalf("expected route pattern label")
	}
	if strings.Contains(body, `path="/v1/documents/abc"`) {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestRoutePatternOrPath_FallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/unrouted", nil)
	if got := routePatternOrPath(req); got != "/unrouted" {
		t.Fatalf("got %q", got)
	}
	r := chi.NewRouter()
	var seen string
	r.Get("/x/{id}", func(w http.ResponseWriter, r *http.Request) { seen = routePatternOrPath(r) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/1", nil))
	if seen != "/x/{id}" {
		t.Fatalf("seen=%q", seen)
	}
}

func TestStatusRecorder_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	sr.WriteHeader(http.StatusTeapot)
	sr.Flush()
	if sr.status != http.StatusTeapot || !rec.Flushed {
		t.Fatalf("status=%d flushed=%v", sr.status, rec.Flushed)
	}
}

func TestIncrementBackpressure_EmptyReason(t *testing.T) {
	IncrementBackpressure("")
	w := do(t, NewMux(&mockService{}, Config{}), http.MethodGet, "/metrics", "")
	if !strings.Contains(w.Body.String(), `ragd_http_backpressure_total{reason="unspecified"}`) {
		t.Fatalf("backpressure counter missing")
	}
}
