// Package config loads the admin UI delegation settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultGlobalName     = "EventDelegation"
	defaultNotifyFunction = "showNotification"
	defaultErrorTitle     = "Error"
	defaultCSRFMeta       = "csrf-token"
	defaultLogLevel       = "info"

	// AttributePrefix marks <body> attributes that override config values,
	// e.g. data-delegation-debug="true".
	AttributePrefix = "data-delegation-"
)

// Config captures the runtime settings of the browser layer.
type Config struct {
	Debug          bool   `json:"debug"`
	LogLevel       string `json:"log_level"`
	GlobalName     string `json:"global_name"`
	NotifyFunction string `json:"notify_function"`
	ErrorTitle     string `json:"error_title"`
	CSRFMeta       string `json:"csrf_meta"`
	APIBase        string `json:"api_base"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return normalise(Config{})
}

// Load reads the JSON config at path and applies defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes JSON config bytes and applies defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalise(cfg), nil
}

// FromAttributes overlays data-delegation-* attributes read through lookup
// onto base. A malformed boolean is reported and leaves base.Debug as is.
func FromAttributes(base Config, lookup func(name string) (string, bool)) (Config, error) {
	cfg := base
	if lookup == nil {
		return normalise(cfg), nil
	}
	var firstErr error
	if v, ok := lookup(AttributePrefix + "debug"); ok {
		if strings.TrimSpace(v) == "" {
			cfg.Debug = true
		} else if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Debug = b
		} else {
			firstErr = fmt.Errorf("parse %sdebug: %w", AttributePrefix, err)
		}
	}
	overlay := []struct {
		name string
		dst  *string
	}{
		{"log-level", &cfg.LogLevel},
		{"global-name", &cfg.GlobalName},
		{"notify-function", &cfg.NotifyFunction},
		{"error-title", &cfg.ErrorTitle},
		{"csrf-meta", &cfg.CSRFMeta},
		{"api-base", &cfg.APIBase},
	}
	for _, o := range overlay {
		if v, ok := lookup(AttributePrefix + o.name); ok && strings.TrimSpace(v) != "" {
			*o.dst = strings.TrimSpace(v)
		}
	}
	return normalise(cfg), firstErr
}

// Attributes renders cfg as the data-delegation-* attributes FromAttributes
// reads, so a host can stamp a config file onto the page's <body>.
func Attributes(cfg Config) map[string]string {
	cfg = normalise(cfg)
	attrs := map[string]string{
		AttributePrefix + "debug":           strconv.FormatBool(cfg.Debug),
		AttributePrefix + "log-level":       cfg.LogLevel,
		AttributePrefix + "global-name":     cfg.GlobalName,
		AttributePrefix + "notify-function": cfg.NotifyFunction,
		AttributePrefix + "error-title":     cfg.ErrorTitle,
		AttributePrefix + "csrf-meta":       cfg.CSRFMeta,
	}
	if cfg.APIBase != "" {
		attrs[AttributePrefix+"api-base"] = cfg.APIBase
	}
	return attrs
}

func normalise(cfg Config) Config {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(cfg.GlobalName) == "" {
		cfg.GlobalName = defaultGlobalName
	}
	if strings.TrimSpace(cfg.NotifyFunction) == "" {
		cfg.NotifyFunction = defaultNotifyFunction
	}
	if strings.TrimSpace(cfg.ErrorTitle) == "" {
		cfg.ErrorTitle = defaultErrorTitle
	}
	if strings.TrimSpace(cfg.CSRFMeta) == "" {
		cfg.CSRFMeta = defaultCSRFMeta
	}
	cfg.APIBase = strings.TrimSuffix(strings.TrimSpace(cfg.APIBase), "/")
	return cfg
}
