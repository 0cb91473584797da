package htmldom

import "github.com/Its-donkey/ecs-webui/internal/ui/dom"

// Event is a synthetic DOM event that records the calls made on it.
type Event struct {
	typ                dom.EventType
	target             *Element
	defaultPrevented   bool
	propagationStopped bool
	// PreventCalls counts PreventDefault calls, which lets tests check
	// ordering against a handler body.
	PreventCalls int
}

// NewEvent builds an event of type t whose original target is target.
func NewEvent(t dom.EventType, target *Element) *Event {
	return &Event{typ: t, target: target}
}

func (e *Event) Type() dom.EventType { return e.typ }

// Target returns the original target, or nil for a target-less event.
func (e *Event) Target() dom.Element {
	if e.target == nil {
		return nil
	}
	return e.target
}

func (e *Event) PreventDefault() {
	e.PreventCalls++
	e.defaultPrevented = true
}

func (e *Event) StopPropagation() { e.propagationStopped = true }

func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

var _ dom.Event = (*Event)(nil)
