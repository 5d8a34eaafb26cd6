package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.7:5555", nil, "203.0.113.7"},
		{"untrusted proxy header ignored", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7"},
		{"trusted proxy forwarded for", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2"}, "198.51.100.4"},
		{"trusted proxy real ip", "127.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := extractClientIP(r); got != tc.want {
				t.Fatalf("extractClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsSuspiciousRequest(t *testing.T) {
	cases := []struct {
		method, target string
		want           bool
	}{
		{http.MethodGet, "/?month=3", false},
		{http.MethodGet, "/.env", true},
		{http.MethodGet, "/static/../../etc/passwd", true},
		{http.MethodGet, "/wp-admin/setup.php", true},
		{http.MethodGet, "/?q=<script>", true},
		{"TRACE", "/", true},
		{http.MethodGet, "/?x=" + strings.Repeat("a", 2100), true},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, tc.target, nil)
		if got := isSuspiciousRequest(r); got != tc.want {
			t.Errorf("%s %s: got %v, want %v", tc.method, tc.target, got, tc.want)
		}
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.stop()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Fatal("third request in the window should be refused")
	}
	if !rl.allow("b") {
		t.Fatal("other clients have their own budget")
	}

	now = now.Add(time.Minute)
	if !rl.allow("a") {
		t.Fatal("a new window should reset the budget")
	}
	if rl.activeClients() != 2 {
		t.Fatalf("activeClients = %d", rl.activeClients())
	}

	now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()
	if rl.activeClients() != 0 {
		t.Fatalf("stale clients kept: %d", rl.activeClients())
	}
}

func TestNilRateLimiterAllowsEverything(t *testing.T) {
	rl := newRateLimiter(0)
	if rl != nil {
		t.Fatal("expected nil limiter for zero limit")
	}
	for i := 0; i < 100; i++ {
		if !rl.allow("x") {
			t.Fatal("nil limiter refused a request")
		}
	}
	rl.stop()
	if rl.activeClients() != 0 {
		t.Fatal("nil limiter tracks no clients")
	}
}
