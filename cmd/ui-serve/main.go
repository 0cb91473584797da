//go:build !js && !wasm

// Command ui-serve serves the built admin UI bundle for local preview. Without
// --api it answers the match endpoints itself so delegated actions can be
// exercised without the Flask backend.
package main

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/csrf"
	"github.com/spf13/cobra"

	"github.com/Its-donkey/ecs-webui/internal/ui/actions"
	"github.com/Its-donkey/ecs-webui/internal/ui/config"
	"github.com/Its-donkey/ecs-webui/logging"
)

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ui-serve: %v\n", err)
		os.Exit(1)
	}
}

type serveOptions struct {
	listen   string
	dir      string
	api      string
	logLevel string
	csrfMeta string
	csrfKey  []byte
	// page is stamped onto index.html's <body> as data-delegation-*
	// attributes when set.
	page *config.Config
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := serveOptions{}
	var configPath string
	cmd := &cobra.Command{
		Use:           "ui-serve",
		Short:         "Serve the admin UI bundle for local preview",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				opts = applyConfig(opts, cfg, cmd.Flags().Changed)
			}
			logger := logging.New("ui-serve", logging.ParseLevel(opts.logLevel), stderr)
			handler, err := newHandler(opts, logger)
			if err != nil {
				return err
			}
			logger.Info("lifecycle", "serving admin UI", map[string]any{
				"dir":    opts.dir,
				"listen": opts.listen,
				"api":    opts.api,
			})
			return http.ListenAndServe(opts.listen, handler)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "127.0.0.1:4173", "address to serve the static UI")
	cmd.Flags().StringVar(&opts.dir, "dir", "ui", "directory containing index.html, main.wasm and wasm_exec.js")
	cmd.Flags().StringVar(&opts.api, "api", "", "admin panel base URL to proxy /admin-panel/ to (empty serves local stubs)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.csrfMeta, "csrf-meta", "csrf-token", "name of the <meta> tag the CSRF token is written into")
	cmd.Flags().StringVar(&configPath, "config", "", "JSON UI config; seeds --api, --csrf-meta and --log-level and is stamped onto the page body")
	cmd.SetErr(stderr)
	return cmd
}

func newHandler(opts serveOptions, logger *logging.Logger) (http.Handler, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolve static directory: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return nil, fmt.Errorf("static directory %s is invalid: %w", root, err)
	}
	_ = mime.AddExtensionType(".wasm", "application/wasm")

	var rewrites []func(*goquery.Document, *http.Request)
	if opts.page != nil {
		attrs := config.Attributes(*opts.page)
		rewrites = append(rewrites, func(doc *goquery.Document, _ *http.Request) {
			body := doc.Find("body")
			for name, value := range attrs {
				body.SetAttr(name, value)
			}
		})
	}

	mux := http.NewServeMux()
	if opts.api != "" {
		apiURL, err := url.Parse(opts.api)
		if err != nil || apiURL.Scheme == "" {
			return nil, fmt.Errorf("invalid API target %q: %v", opts.api, err)
		}
		mux.Handle("/admin-panel/", proxyHandler(apiURL))
		mux.Handle("/", staticHandler(root, chainRewrites(rewrites)))
		return logging.NewHTTPLogger(logger, 0).Middleware(mux), nil
	}

	key := opts.csrfKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
	}
	protect := csrf.Protect(key,
		csrf.Secure(false),
		csrf.Path("/"),
		csrf.RequestHeader("X-CSRFToken"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			msg := "CSRF check failed"
			if reason := csrf.FailureReason(r); reason != nil {
				msg += ": " + reason.Error()
			}
			writeResult(w, http.StatusForbidden, actions.Result{Message: msg})
		})),
	)
	metaName := opts.csrfMeta
	if metaName == "" {
		metaName = "csrf-token"
	}
	mux.Handle("POST /admin-panel/ecs-fc/match/{id}/delete", stubDeleteMatch(logger))
	rewrites = append(rewrites, func(doc *goquery.Document, r *http.Request) {
		doc.Find(fmt.Sprintf("meta[name=%q]", metaName)).SetAttr("content", csrf.Token(r))
	})
	mux.Handle("/", staticHandler(root, chainRewrites(rewrites)))
	return logging.NewHTTPLogger(logger, 0).Middleware(plaintext(protect(mux))), nil
}

// applyConfig seeds opts from cfg for every flag the user did not set.
func applyConfig(opts serveOptions, cfg config.Config, changed func(name string) bool) serveOptions {
	if !changed("api") && cfg.APIBase != "" {
		opts.api = cfg.APIBase
	}
	if !changed("csrf-meta") {
		opts.csrfMeta = cfg.CSRFMeta
	}
	if !changed("log-level") {
		opts.logLevel = cfg.LogLevel
	}
	// The page always talks to this server, which fronts /admin-panel/ in
	// both modes, and reads the token from the meta tag written here.
	page := cfg
	page.APIBase = ""
	page.CSRFMeta = opts.csrfMeta
	opts.page = &page
	return opts
}

func chainRewrites(fns []func(*goquery.Document, *http.Request)) func(*goquery.Document, *http.Request) {
	if len(fns) == 0 {
		return nil
	}
	return func(doc *goquery.Document, r *http.Request) {
		for _, fn := range fns {
			fn(doc, r)
		}
	}
}

// plaintext marks requests served without TLS so the CSRF check does not
// demand an https Referer.
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

func proxyHandler(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Host = target.Host
		proxy.ServeHTTP(w, r)
	})
}

// staticHandler serves the bundle from root. When rewrite is set, index.html
// is parsed and passed through it before being written.
func staticHandler(root string, rewrite func(*goquery.Document, *http.Request)) http.Handler {
	fileServer := http.FileServer(http.Dir(root))
	index := filepath.Join(root, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "" || r.URL.Path == "/index.html" {
			if rewrite == nil {
				http.ServeFile(w, r, index)
				return
			}
			serveRewrittenIndex(w, r, index, rewrite)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		fileServer.ServeHTTP(w, r)
	})
}

func serveRewrittenIndex(w http.ResponseWriter, r *http.Request, path string, rewrite func(*goquery.Document, *http.Request)) {
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "index not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		http.Error(w, fmt.Sprintf("parse index: %v", err), http.StatusInternalServerError)
		return
	}
	rewrite(doc, r)
	html, err := doc.Html()
	if err != nil {
		http.Error(w, fmt.Sprintf("render index: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, html)
}

// stubDeleteMatch mimics the admin panel's delete endpoint. The CSRF token
// has already been checked by the middleware.
func stubDeleteMatch(logger *logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			writeResult(w, http.StatusBadRequest, actions.Result{Message: "AJAX request required"})
			return
		}
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || id <= 0 {
			writeResult(w, http.StatusNotFound, actions.Result{Message: "Match not found"})
			return
		}
		logger.Info("stub", "match deleted", map[string]any{"match_id": id})
		writeResult(w, http.StatusOK, actions.Result{Success: true, Message: "Match deleted successfully"})
	})
}

func writeResult(w http.ResponseWriter, status int, res actions.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}
