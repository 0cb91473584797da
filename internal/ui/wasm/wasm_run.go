//go:build js && wasm

// Package wasm boots the admin panel's delegated event dispatch in the browser.
package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/ecs-webui/internal/ui/actions"
	"github.com/Its-donkey/ecs-webui/internal/ui/config"
	"github.com/Its-donkey/ecs-webui/internal/ui/delegation"
	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
	"github.com/Its-donkey/ecs-webui/logging"
)

var (
	// Document references the global browser document for DOM interactions.
	Document js.Value
	target   *documentTarget
	// globalFuncs keeps the exported API and ready callback alive.
	globalFuncs []js.Func
)

// RunApp configures the page registry, registers the Go feature modules,
// starts dispatch once the document is parsed and blocks forever.
func RunApp() {
	done := make(chan struct{})
	window := js.Global()
	Document = window.Get("document")

	cfg, cfgErr := loadConfig()
	logger := logging.New("delegation", logging.ParseLevel(cfg.LogLevel), consoleWriter{})
	if cfgErr != nil {
		logger.Warn("config", "ignoring malformed body attribute", map[string]any{"error": cfgErr.Error()})
	}

	reg := delegation.Default()
	reg.SetLogger(logger)
	reg.SetNotifier(globalNotifier(cfg.NotifyFunction))
	reg.SetErrorTitle(cfg.ErrorTitle)
	if cfg.Debug {
		reg.EnableDebug()
	}

	target = &documentTarget{doc: Document}
	initDispatch := func() error { return reg.Init(target) }
	globalFuncs = exposeGlobal(reg, cfg.GlobalName, initDispatch)

	registerFeatures(reg, cfg, logger)

	// Dispatch starts only after every feature module above has registered.
	if Document.Get("readyState").String() == "loading" {
		var ready js.Func
		ready = js.FuncOf(func(js.Value, []js.Value) any {
			if err := initDispatch(); err != nil {
				logger.Warn("lifecycle", "init skipped", map[string]any{"error": err.Error()})
			}
			ready.Release()
			return nil
		})
		Document.Call("addEventListener", "DOMContentLoaded", ready)
	} else if err := initDispatch(); err != nil {
		logger.Warn("lifecycle", "init skipped", map[string]any{"error": err.Error()})
	}
	<-done
}

func loadConfig() (config.Config, error) {
	body := Document.Get("body")
	if !body.Truthy() {
		return config.Default(), nil
	}
	lookup := func(name string) (string, bool) {
		return jsElement{v: body}.Attr(name)
	}
	return config.FromAttributes(config.Default(), lookup)
}

func registerFeatures(reg *delegation.Registry, cfg config.Config, logger *logging.Logger) {
	matches := &actions.MatchActions{
		Client:   actions.NewClient(cfg.APIBase, csrfToken(Document, cfg.CSRFMeta), nil),
		Notifier: globalNotifier(cfg.NotifyFunction),
		Confirm:  confirmDialog,
		OnDeleted: func(el dom.Element, ref actions.MatchRef) {
			e, ok := el.(jsElement)
			if !ok {
				return
			}
			if row := e.v.Call("closest", "tr"); row.Truthy() {
				row.Call("remove")
			}
		},
	}
	if err := matches.Register(reg); err != nil {
		logger.Error("register", "match actions unavailable", err, nil)
	}
}
