// Package delegation routes delegated DOM events to handlers registered by
// action name.
//
// Page markup names actions in data-action / data-on-* attributes. One
// listener per event type is bound at the document root by Init; each event
// is resolved to the nearest ancestor carrying the attribute for its type and
// the handler registered under that attribute's value runs. Handler failures
// are counted, logged and reported through an optional Notifier but never
// escape the listener, so one broken feature cannot break the rest of the page.
package delegation

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
	"github.com/Its-donkey/ecs-webui/logging"
)

var (
	// ErrEmptyAction is returned when registering a blank action name.
	ErrEmptyAction = errors.New("action name is empty")
	// ErrInvalidHandler is returned when registering a nil handler.
	ErrInvalidHandler = errors.New("handler is not callable")
	// ErrAlreadyInitialized is returned by a second Init call.
	ErrAlreadyInitialized = errors.New("delegation already initialized")
	// ErrNilTarget is returned when Init is given no event target.
	ErrNilTarget = errors.New("event target is nil")
	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("handler panicked")
)

const (
	logCategoryRegister  = "register"
	logCategoryDispatch  = "dispatch"
	logCategoryLifecycle = "lifecycle"

	// DefaultErrorTitle is the notification title used for handler failures.
	DefaultErrorTitle = "Error"
)

// Handler runs when its action's event fires. el is the element carrying the
// action attribute, which may be an ancestor of the event's target.
type Handler func(el dom.Element, ev dom.Event) error

// Options adjust the event before the handler body runs.
type Options struct {
	PreventDefault  bool
	StopPropagation bool
}

// Registry maps action names to handlers and dispatches delegated events.
type Registry struct {
	mu          sync.RWMutex
	handlers    map[string]Handler
	duplicates  map[string]struct{}
	debug       bool
	initialized bool
	stats       counters

	// logger is derived from the injected one so debug mode never changes
	// the level of a logger shared with other components.
	logger     *logging.Logger
	notifier   Notifier
	errorTitle string
	newID      func() string
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithLogger sets the logger used for registration and dispatch events.
// Entries are written through it; its level is never modified.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNotifier sets the user-facing error reporter.
func WithNotifier(n Notifier) Option {
	return func(r *Registry) { r.notifier = n }
}

// WithErrorTitle overrides the notification title for handler failures.
func WithErrorTitle(title string) Option {
	return func(r *Registry) {
		if title != "" {
			r.errorTitle = title
		}
	}
}

// WithDebug starts the registry with verbose logging enabled.
func WithDebug(enabled bool) Option {
	return func(r *Registry) { r.debug = enabled }
}

// WithIDGenerator replaces the dispatch ID source.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New constructs an isolated, uninitialized registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		handlers:   make(map[string]Handler),
		duplicates: make(map[string]struct{}),
		logger:     logging.Discard(),
		errorTitle: DefaultErrorTitle,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Derive()
	if r.debug {
		r.logger.SetLevel(logging.DEBUG)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the page-wide registry. Configure it with SetLogger and
// SetNotifier before feature modules register against it.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// SetLogger replaces the logger after construction. Like WithLogger, it
// leaves logger's level alone.
func (r *Registry) SetLogger(logger *logging.Logger) {
	if logger == nil {
		return
	}
	derived := logger.Derive()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = derived
	if r.debug {
		derived.SetLevel(logging.DEBUG)
	}
}

// SetNotifier replaces the error reporter; nil disables notifications.
func (r *Registry) SetNotifier(n Notifier) {
	r.mu.Lock()
	r.notifier = n
	r.mu.Unlock()
}

// SetErrorTitle replaces the notification title; blank values are ignored.
func (r *Registry) SetErrorTitle(title string) {
	if title == "" {
		return
	}
	r.mu.Lock()
	r.errorTitle = title
	r.mu.Unlock()
}

// Register binds h to action. A nil handler or blank action is logged and
// skipped. Registering an action that already has a handler replaces it,
// logs a warning and records the name in Duplicates; partial page re-renders
// legitimately re-register their actions.
func (r *Registry) Register(action string, h Handler, opts ...Options) error {
	logger := r.currentLogger()
	if action == "" {
		logger.Error(logCategoryRegister, "refusing to register handler", ErrEmptyAction, nil)
		return ErrEmptyAction
	}
	if h == nil {
		logger.Error(logCategoryRegister, "refusing to register handler", ErrInvalidHandler, map[string]any{"action": action})
		return ErrInvalidHandler
	}

	var opt Options
	for _, o := range opts {
		opt.PreventDefault = opt.PreventDefault || o.PreventDefault
		opt.StopPropagation = opt.StopPropagation || o.StopPropagation
	}

	r.mu.Lock()
	_, exists := r.handlers[action]
	if exists {
		r.duplicates[action] = struct{}{}
	} else {
		r.stats.handlersRegistered++
	}
	r.handlers[action] = wrap(h, opt)
	r.stats.registrations++
	debug := r.debug
	r.mu.Unlock()

	if exists {
		logger.Warn(logCategoryRegister, "action registered more than once; replacing previous handler", map[string]any{"action": action})
	}
	if debug {
		logger.Debug(logCategoryRegister, "registered action", map[string]any{
			"action":          action,
			"preventDefault":  opt.PreventDefault,
			"stopPropagation": opt.StopPropagation,
		})
	}
	return nil
}

func wrap(h Handler, opt Options) Handler {
	if !opt.PreventDefault && !opt.StopPropagation {
		return h
	}
	return func(el dom.Element, ev dom.Event) error {
		if opt.PreventDefault {
			ev.PreventDefault()
		}
		if opt.StopPropagation {
			ev.StopPropagation()
		}
		return h(el, ev)
	}
}

// Unregister removes action's handler. Unknown actions are ignored.
func (r *Registry) Unregister(action string) {
	r.mu.Lock()
	_, ok := r.handlers[action]
	if ok {
		delete(r.handlers, action)
		r.stats.handlersRegistered--
	}
	debug := r.debug
	r.mu.Unlock()

	if ok && debug {
		r.currentLogger().Debug(logCategoryRegister, "unregistered action", map[string]any{"action": action})
	}
}

// IsRegistered reports whether action has a handler.
func (r *Registry) IsRegistered(action string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[action]
	return ok
}

// RegisteredActions returns the current action names, sorted.
func (r *Registry) RegisteredActions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Duplicates returns every action name that was ever registered over an
// existing handler, sorted. The set is never cleared.
func (r *Registry) Duplicates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.duplicates))
	for name := range r.duplicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnableDebug turns on verbose logging of registrations and dispatches.
func (r *Registry) EnableDebug() {
	r.mu.Lock()
	r.debug = true
	logger := r.logger
	r.mu.Unlock()
	logger.SetLevel(logging.DEBUG)
	logger.Debug(logCategoryLifecycle, "debug enabled", nil)
}

// DisableDebug turns verbose logging off; the registry follows the injected
// logger's current level again.
func (r *Registry) DisableDebug() {
	r.mu.Lock()
	r.debug = false
	logger := r.logger
	r.mu.Unlock()
	logger.ClearLevel()
}

// Debug reports whether verbose logging is on.
func (r *Registry) Debug() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.debug
}

// Init binds one listener per delegated event type on target. It must run
// after feature modules have registered their handlers and succeeds once.
func (r *Registry) Init(target dom.EventTarget) error {
	if target == nil {
		return ErrNilTarget
	}
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return ErrAlreadyInitialized
	}
	r.initialized = true
	count := len(r.handlers)
	r.mu.Unlock()

	for _, t := range dom.EventTypes {
		target.AddEventListener(t, r.Dispatch)
	}
	r.currentLogger().Info(logCategoryLifecycle, "event delegation initialized", map[string]any{
		"handlers":   count,
		"eventTypes": len(dom.EventTypes),
	})
	return nil
}

// Initialized reports whether Init has bound the document listeners.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

func (r *Registry) currentLogger() *logging.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}
