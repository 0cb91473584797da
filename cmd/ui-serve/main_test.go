//go:build !js && !wasm

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/Its-donkey/ecs-webui/internal/ui/actions"
	"github.com/Its-donkey/ecs-webui/internal/ui/config"
	"github.com/Its-donkey/ecs-webui/logging"
)

const testIndex = `<!doctype html><html><head><meta name="csrf-token" content="placeholder"></head>
<body><button data-action="delete-match" data-match-id="4">x</button></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(testIndex), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.wasm"), []byte("\x00asm"), 0o644); err != nil {
		t.Fatalf("write wasm: %v", err)
	}
	handler, err := newHandler(serveOptions{dir: dir, csrfKey: []byte("0123456789abcdef0123456789abcdef")}, logging.Discard())
	if err != nil {
		t.Fatalf("newHandler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// fetchToken loads the index page and returns the token written into its meta tag.
func fetchToken(t *testing.T, client *http.Client, base string) string {
	t.Helper()
	resp, err := client.Get(base + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if doc.Find(`[data-action="delete-match"]`).Length() != 1 {
		t.Fatalf("expected page body to be preserved")
	}
	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok || token == "" || token == "placeholder" {
		t.Fatalf("expected csrf token in meta tag, got %q", token)
	}
	return token
}

func TestServesWasmWithContentType(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/main.wasm")
	if err != nil {
		t.Fatalf("get wasm: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/wasm" {
		t.Fatalf("expected wasm content type, got %q", ct)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request logging middleware to tag the response")
	}
}

func TestStubDeleteMatchAcceptsClientRequests(t *testing.T) {
	srv := newTestServer(t)
	httpClient := newJarClient(t)
	token := fetchToken(t, httpClient, srv.URL)
	client := actions.NewClient(srv.URL, func() string { return token }, httpClient)

	res, err := client.Post(context.Background(), "/admin-panel/ecs-fc/match/4/delete", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestStubDeleteMatchRequiresCSRF(t *testing.T) {
	srv := newTestServer(t)
	httpClient := newJarClient(t)
	fetchToken(t, httpClient, srv.URL)
	client := actions.NewClient(srv.URL, nil, httpClient)

	_, err := client.Post(context.Background(), "/admin-panel/ecs-fc/match/4/delete", nil)
	var status *actions.StatusError
	if !errors.As(err, &status) || status.Code != http.StatusForbidden {
		t.Fatalf("expected 403 status error, got %v", err)
	}
	if !strings.Contains(status.Message, "CSRF") {
		t.Fatalf("expected csrf failure message, got %q", status.Message)
	}
}

func TestStubDeleteMatchRejectsPlainRequests(t *testing.T) {
	h := stubDeleteMatch(logging.Discard())
	req := httptest.NewRequest(http.MethodPost, "/admin-panel/ecs-fc/match/4/delete", nil)
	req.SetPathValue("id", "4")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStubDeleteMatchRejectsBadID(t *testing.T) {
	h := stubDeleteMatch(logging.Discard())
	req := httptest.NewRequest(http.MethodPost, "/admin-panel/ecs-fc/match/abc/delete", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestNewHandlerRejectsMissingDir(t *testing.T) {
	_, err := newHandler(serveOptions{dir: filepath.Join(t.TempDir(), "missing")}, logging.Discard())
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestApplyConfigSeedsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.json")
	data := `{"debug": true, "log_level": "debug", "csrf_meta": "xsrf", "api_base": "https://panel.example"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	opts := applyConfig(serveOptions{logLevel: "warn", csrfMeta: "csrf-token"}, cfg, func(name string) bool {
		return name == "log-level"
	})
	if opts.api != "https://panel.example" || opts.csrfMeta != "xsrf" {
		t.Fatalf("expected config to seed api and csrf meta, got %+v", opts)
	}
	if opts.logLevel != "warn" {
		t.Fatalf("explicit --log-level must win, got %q", opts.logLevel)
	}
	if opts.page == nil || !opts.page.Debug || opts.page.APIBase != "" || opts.page.CSRFMeta != "xsrf" {
		t.Fatalf("unexpected page config %+v", opts.page)
	}
}

func TestConfigIsStampedOntoBody(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(testIndex), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	cfg := config.Default()
	cfg.Debug = true
	cfg.ErrorTitle = "Schedule error"
	opts := applyConfig(serveOptions{dir: dir, csrfMeta: "csrf-token"}, cfg, func(string) bool { return false })
	handler, err := newHandler(opts, logging.Discard())
	if err != nil {
		t.Fatalf("newHandler: %v", err)
	}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	body := doc.Find("body")
	if v, _ := body.Attr("data-delegation-debug"); v != "true" {
		t.Fatalf("expected debug attribute, got %q", v)
	}
	if v, _ := body.Attr("data-delegation-error-title"); v != "Schedule error" {
		t.Fatalf("expected error title attribute, got %q", v)
	}
	if token, _ := doc.Find(`meta[name="csrf-token"]`).Attr("content"); token == "" || token == "placeholder" {
		t.Fatalf("expected csrf token alongside config, got %q", token)
	}
}
