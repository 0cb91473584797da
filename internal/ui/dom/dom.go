// Package dom describes the slice of the browser DOM the admin UI dispatches against.
package dom

import "strings"

// EventType names a DOM event delegated at the document root.
type EventType string

const (
	Click   EventType = "click"
	Change  EventType = "change"
	Input   EventType = "input"
	Submit  EventType = "submit"
	KeyDown EventType = "keydown"
)

// Attribute names carrying action names, keyed by the event they react to.
const (
	ActionAttr    = "data-action"
	OnChangeAttr  = "data-on-change"
	OnInputAttr   = "data-on-input"
	OnSubmitAttr  = "data-on-submit"
	OnKeyDownAttr = "data-on-keydown"
)

// EventTypes lists every delegated event type in binding order.
var EventTypes = []EventType{Click, Change, Input, Submit, KeyDown}

// Attribute returns the data-* attribute read for the event type and false
// for event types that are not delegated.
func (t EventType) Attribute() (string, bool) {
	switch t {
	case Click:
		return ActionAttr, true
	case Change:
		return OnChangeAttr, true
	case Input:
		return OnInputAttr, true
	case Submit:
		return OnSubmitAttr, true
	case KeyDown:
		return OnKeyDownAttr, true
	default:
		return "", false
	}
}

// Element is a node in the document tree.
type Element interface {
	// Attr returns the attribute value and whether the attribute is present.
	Attr(name string) (string, bool)
	// Parent returns the parent element, or nil at the document boundary.
	Parent() Element
	// TagName returns the lower-case tag name.
	TagName() string
}

// Event is a dispatched DOM event.
type Event interface {
	Type() EventType
	// Target is the element the event originated from.
	Target() Element
	PreventDefault()
	StopPropagation()
	DefaultPrevented() bool
}

// Listener receives events bound at the document root.
type Listener func(Event)

// EventTarget is the document root listeners are attached to.
type EventTarget interface {
	AddEventListener(t EventType, fn Listener)
}

// NativeCloser is implemented by elements that can resolve the nearest
// ancestor in one call, like the browser's Element.closest.
type NativeCloser interface {
	ClosestWithAttr(attr string) Element
}

// Closest walks from el up through its ancestors (el included) and returns
// the first element carrying attr, or nil.
func Closest(el Element, attr string) Element {
	if el == nil {
		return nil
	}
	if nc, ok := el.(NativeCloser); ok {
		return nc.ClosestWithAttr(attr)
	}
	for el != nil {
		if _, ok := el.Attr(attr); ok {
			return el
		}
		el = el.Parent()
	}
	return nil
}

// Dataset mirrors the browser's element.dataset lookup: key "matchId" reads
// the data-match-id attribute.
func Dataset(el Element, key string) (string, bool) {
	if el == nil {
		return "", false
	}
	return el.Attr(DatasetAttr(key))
}

// DatasetAttr converts a camelCase dataset key to its data-* attribute name.
func DatasetAttr(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 8)
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DatasetKey converts a data-* attribute name to its camelCase dataset key.
// Attributes without the data- prefix return "".
func DatasetKey(attr string) string {
	rest, ok := strings.CutPrefix(strings.ToLower(attr), "data-")
	if !ok {
		return ""
	}
	var b strings.Builder
	b.Grow(len(rest))
	upper := false
	for _, r := range rest {
		if r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}
