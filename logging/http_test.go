package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHTTPLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	h := NewHTTPLogger(New("ui-serve", INFO, &buf), 0)
	h.newID = func() string { return "req-1" }

	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin-panel/ecs-fc/match/9/delete", strings.NewReader(`{}`))
	req.Header.Set("X-CSRFToken", "secret-value")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("expected request id header, got %q", got)
	}
	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != "WARN" || entry.RequestID != "req-1" || entry.Category != "http" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.DurationMS == nil {
		t.Fatalf("expected duration to be recorded")
	}
	if entry.Fields["response_body"] != `{"success":false}` {
		t.Fatalf("expected response body, got %v", entry.Fields["response_body"])
	}
	if strings.Contains(buf.String(), "secret-value") {
		t.Fatalf("csrf token leaked into log: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "XMLHttpRequest") {
		t.Fatalf("expected non-sensitive headers to be logged")
	}
}

func TestHTTPLoggerKeepsRequestBodyReadable(t *testing.T) {
	var buf bytes.Buffer
	h := NewHTTPLogger(New("ui-serve", INFO, &buf), 0)

	var seen string
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b bytes.Buffer
		_, _ = b.ReadFrom(r.Body)
		seen = b.String()
	}))
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"id":3}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != `{"id":3}` {
		t.Fatalf("handler saw %q", seen)
	}
	if !strings.Contains(buf.String(), `request_body`) {
		t.Fatalf("expected request body in log, got %s", buf.String())
	}
}

func TestHTTPLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHTTPLogger(New("ui-serve", WARN, &buf), 0)
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected 2xx to be filtered at WARN, got %s", buf.String())
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "abcdef", max: 3, want: "abc... [truncated]"},
		// "é" is two bytes; cutting at 2 would split it.
		{in: "aébc", max: 2, want: "a... [truncated]"},
		{in: "aébc", max: 3, want: "aé... [truncated]"},
		{in: "日本語", max: 4, want: "日... [truncated]"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d): expected %q got %q", tc.in, tc.max, tc.want, got)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.max)
		}
	}
}
