//go:build js && wasm

package wasm

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/Its-donkey/ecs-webui/internal/ui/delegation"
	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// exposeGlobal publishes reg as window[name] so non-module scripts can
// register plain JS functions against the same registry. The returned funcs
// live for the page lifetime.
func exposeGlobal(reg *delegation.Registry, name string, initFn func() error) []js.Func {
	var funcs []js.Func
	api := js.Global().Get("Object").New()
	bind := func(method string, fn func(args []js.Value) any) {
		f := js.FuncOf(func(_ js.Value, args []js.Value) any { return fn(args) })
		funcs = append(funcs, f)
		api.Set(method, f)
	}

	bind("register", func(args []js.Value) any {
		if len(args) < 2 || args[0].Type() != js.TypeString {
			return reg.Register("", nil) == nil
		}
		action := args[0].String()
		if args[1].Type() != js.TypeFunction {
			return reg.Register(action, nil) == nil
		}
		var opts delegation.Options
		if len(args) > 2 && args[2].Type() == js.TypeObject {
			opts.PreventDefault = args[2].Get("preventDefault").Truthy()
			opts.StopPropagation = args[2].Get("stopPropagation").Truthy()
		}
		return reg.Register(action, jsHandler(args[1]), opts) == nil
	})
	bind("unregister", func(args []js.Value) any {
		if len(args) > 0 {
			reg.Unregister(args[0].String())
		}
		return nil
	})
	bind("isRegistered", func(args []js.Value) any {
		return len(args) > 0 && reg.IsRegistered(args[0].String())
	})
	bind("getRegisteredActions", func([]js.Value) any {
		return stringArray(reg.RegisteredActions())
	})
	bind("getDuplicates", func([]js.Value) any {
		return stringArray(reg.Duplicates())
	})
	bind("getStats", func([]js.Value) any {
		s := reg.Stats()
		return map[string]any{
			"handlersRegistered": s.HandlersRegistered,
			"registrations":      float64(s.Registrations),
			"eventsProcessed":    float64(s.EventsProcessed),
			"errorsEncountered":  float64(s.ErrorsEncountered),
			"registeredActions":  s.RegisteredActions,
		}
	})
	bind("resetStats", func([]js.Value) any {
		reg.ResetStats()
		return nil
	})
	bind("enableDebug", func([]js.Value) any {
		reg.EnableDebug()
		return nil
	})
	bind("disableDebug", func([]js.Value) any {
		reg.DisableDebug()
		return nil
	})
	bind("init", func([]js.Value) any {
		err := initFn()
		return err == nil || errors.Is(err, delegation.ErrAlreadyInitialized)
	})

	js.Global().Set(name, api)
	return funcs
}

// jsHandler adapts a JS function(element, event) to a Handler. A thrown JS
// exception becomes the handler's error.
func jsHandler(fn js.Value) delegation.Handler {
	return func(el dom.Element, ev dom.Event) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if jsErr, ok := rec.(js.Error); ok {
					err = jsErr
					return
				}
				err = fmt.Errorf("%v", rec)
			}
		}()
		var elValue, evValue js.Value
		if e, ok := el.(jsElement); ok {
			elValue = e.v
		}
		if e, ok := ev.(jsEvent); ok {
			evValue = e.v
		}
		fn.Invoke(elValue, evValue)
		return nil
	}
}

func stringArray(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
