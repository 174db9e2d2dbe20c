package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("GET", "/api/v1/orders", 200, 42*time.Millisecond)
	m.Observe("POST", "/api/v1/orders", 201, 100*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body := w.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Fatalf("expected request counter in scrape output")
	}
	if !strings.Contains(body, `route="/api/v1/orders"`) {
		t.Fatalf("expected route label in scrape output:\n%s", body)
	}
}

func TestObserveOnNilMetricsIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "", 200, time.Millisecond)
}
