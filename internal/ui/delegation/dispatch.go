package delegation

import (
	"fmt"
	"runtime"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// Dispatch is the document listener body shared by every delegated event
// type. It resolves the nearest element carrying the attribute for ev's type,
// runs the handler registered under its value and contains any failure.
// Events delivered before Init are dropped.
func (r *Registry) Dispatch(ev dom.Event) {
	if ev == nil {
		return
	}
	attr, ok := ev.Type().Attribute()
	if !ok {
		return
	}
	el := dom.Closest(ev.Target(), attr)
	if el == nil {
		return
	}
	action, _ := el.Attr(attr)

	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return
	}
	h := r.handlers[action]
	if h != nil {
		r.stats.eventsProcessed++
	}
	debug := r.debug
	logger := r.logger
	r.mu.Unlock()

	if h == nil {
		if debug {
			logger.Warn(logCategoryDispatch, "no handler registered for action", map[string]any{
				"action": action,
				"event":  string(ev.Type()),
				"attr":   attr,
			})
		}
		return
	}

	id := r.newID()
	if debug {
		logger.WithDispatchID(id).
			WithCategory(logCategoryDispatch).
			WithField("action", action).
			WithField("event", string(ev.Type())).
			WithField("element", el.TagName()).
			Debug("dispatching action")
	}

	if err := invoke(h, el, ev); err != nil {
		r.fail(id, action, ev.Type(), err)
	}
}

// invoke runs h and converts a panic into an error wrapping ErrHandlerPanic.
func invoke(h Handler, el dom.Element, ev dom.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			err = &panicError{value: rec, stack: string(stack[:n])}
		}
	}()
	return h(el, ev)
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrHandlerPanic, e.value)
}

func (e *panicError) Unwrap() error { return ErrHandlerPanic }

func (r *Registry) fail(id, action string, t dom.EventType, err error) {
	r.mu.Lock()
	r.stats.errorsEncountered++
	logger, notifier, title := r.logger, r.notifier, r.errorTitle
	r.mu.Unlock()

	lc := logger.WithDispatchID(id).
		WithCategory(logCategoryDispatch).
		WithField("action", action).
		WithField("event", string(t))
	if pe, ok := err.(*panicError); ok {
		lc = lc.WithField("stack", pe.stack)
	}
	lc.Error("action handler failed", err)

	notify(notifier, title, fmt.Sprintf("%s: %v", action, err))
}
