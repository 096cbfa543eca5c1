package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"relatoriomei/internal/log"
)

func TestDetector_DetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name string
		req  func() *http.Request
		want bool
	}{
		{"plain page", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/ui/form", nil) }, false},
		{"path traversal", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/static/../.env", nil) }, true},
		{"scanner agent", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("User-Agent", "sqlmap/1.7")
			return r
		}, true},
		{"curl is allowed", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
			r.Header.Set("User-Agent", "curl/8.0")
			return r
		}, false},
		{"trace method", func() *http.Request { return httptest.NewRequest("TRACE", "/", nil) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.DetectSuspiciousRequest(tt.req()); got != tt.want {
				t.Fatalf("DetectSuspiciousRequest() = %v, want %v", got, tt.want)
			}
		})
	}
	if m := d.GetMetrics(); m.SuspiciousRequests != 3 {
		t.Fatalf("SuspiciousRequests = %d, want 3", m.SuspiciousRequests)
	}
}

func TestDetector_MiddlewareBlocksTrace(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(log.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("TRACE", "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("TRACE status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wp-admin", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("logged request should still be served, got %d", rr.Code)
	}
	if m := d.GetMetrics(); m.BlockedRequests != 1 {
		t.Fatalf("BlockedRequests = %d, want 1", m.BlockedRequests)
	}
}

func TestDetector_ExtractClientIP(t *testing.T) {
	d := NewDetector()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.10:5000"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 192.168.1.10")
	if got := d.ExtractClientIP(r); got != "203.0.113.7" {
		t.Fatalf("trusted proxy: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.2:5000"
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := d.ExtractClientIP(r); got != "198.51.100.2" {
		t.Fatalf("untrusted peer must not be overridden, got %q", got)
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Fatal("missing CSP")
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS must only be sent over TLS")
	}
}
