package logging

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const defaultMaxBody = 4 * 1024

// HTTPLogger records one entry per request served by the preview server.
type HTTPLogger struct {
	logger      *Logger
	maxBodySize int
	newID       func() string
}

// NewHTTPLogger wraps logger. A maxBodySize of zero keeps 4KB of each body.
func NewHTTPLogger(logger *Logger, maxBodySize int) *HTTPLogger {
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBody
	}
	return &HTTPLogger{
		logger:      logger,
		maxBodySize: maxBodySize,
		newID:       func() string { return uuid.New().String() },
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status      int
	size        int
	body        bytes.Buffer
	limit       int
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	if room := r.limit - r.body.Len(); room > 0 {
		r.body.Write(b[:min(n, room)])
	}
	return n, err
}

func (r *responseRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Middleware logs each request with its status, size and duration. The
// request ID is echoed in the X-Request-ID response header.
func (h *HTTPLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := h.newID()

		var requestBody string
		if r.Body != nil && r.ContentLength > 0 && r.ContentLength <= int64(h.maxBodySize) {
			data, err := io.ReadAll(io.LimitReader(r.Body, int64(h.maxBodySize)))
			if err == nil {
				requestBody = string(data)
				r.Body = io.NopCloser(bytes.NewReader(data))
			}
		}

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK, limit: h.maxBodySize}
		rec.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(rec, r)

		duration := time.Since(start).Milliseconds()
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"size":        rec.size,
			"remote_addr": r.RemoteAddr,
		}
		if q := r.URL.RawQuery; q != "" {
			fields["query"] = q
		}
		if requestBody != "" {
			fields["request_body"] = truncate(requestBody, 1000)
		}
		if rec.body.Len() > 0 && isTextual(rec.Header().Get("Content-Type")) {
			fields["response_body"] = truncate(rec.body.String(), 1000)
		}
		headers := make(map[string]string)
		for name, values := range r.Header {
			if !isSensitiveHeader(name) {
				headers[name] = strings.Join(values, ", ")
			}
		}
		if len(headers) > 0 {
			fields["request_headers"] = headers
		}

		level := INFO
		switch {
		case rec.status >= 500:
			level = ERROR
		case rec.status >= 400:
			level = WARN
		}
		if !h.logger.Enabled(level) {
			return
		}
		entry := h.logger.entry(level, "http", fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, rec.status), fields)
		entry.RequestID = requestID
		entry.DurationMS = &duration
		h.logger.write(entry)
	})
}

// isTextual skips wasm and image payloads.
func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "json") || strings.Contains(ct, "javascript")
}

// isSensitiveHeader hides credentials, including the X-CSRFToken header the
// admin panel sends on every state-changing request.
func isSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "auth") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "cookie") ||
		strings.Contains(lower, "csrf") ||
		strings.Contains(lower, "secret")
}

// truncate cuts s to at most maxLen bytes without splitting a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "... [truncated]"
}
