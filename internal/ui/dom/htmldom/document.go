// Package htmldom implements the dom contract over parsed HTML so delegated
// dispatch can run, and be exercised, without a browser.
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// Document is a parsed page with document-root event listeners.
type Document struct {
	doc       *goquery.Document
	elements  map[*html.Node]*Element
	listeners map[dom.EventType][]dom.Listener
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		doc:       doc,
		elements:  make(map[*html.Node]*Element),
		listeners: make(map[dom.EventType][]dom.Listener),
	}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Selection exposes the underlying goquery document for ad hoc queries.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// Find returns the first element matching selector, or nil.
func (d *Document) Find(selector string) *Element {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return d.wrap(sel.Get(0))
}

// FindAll returns every element matching selector in document order.
func (d *Document) FindAll(selector string) []*Element {
	sel := d.doc.Find(selector)
	out := make([]*Element, 0, sel.Length())
	for _, node := range sel.Nodes {
		out = append(out, d.wrap(node))
	}
	return out
}

// AddEventListener binds fn at the document root. Listeners run in
// registration order.
func (d *Document) AddEventListener(t dom.EventType, fn dom.Listener) {
	if fn == nil {
		return
	}
	d.listeners[t] = append(d.listeners[t], fn)
}

// ListenerCount reports how many document listeners are bound for t.
func (d *Document) ListenerCount(t dom.EventType) int {
	return len(d.listeners[t])
}

// Dispatch fires an event of type t originating at target and delivers it to
// the document listeners, as the bubble phase arriving at the root would.
func (d *Document) Dispatch(target *Element, t dom.EventType) *Event {
	ev := NewEvent(t, target)
	for _, fn := range d.listeners[t] {
		fn(ev)
	}
	return ev
}

// Trigger finds the first element matching selector and dispatches t on it.
func (d *Document) Trigger(selector string, t dom.EventType) (*Event, error) {
	el := d.Find(selector)
	if el == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return d.Dispatch(el, t), nil
}

// Click is Trigger for click events.
func (d *Document) Click(selector string) (*Event, error) {
	return d.Trigger(selector, dom.Click)
}

func (d *Document) wrap(node *html.Node) *Element {
	if node == nil {
		return nil
	}
	if el, ok := d.elements[node]; ok {
		return el
	}
	el := &Element{doc: d, node: node}
	d.elements[node] = el
	return el
}

var _ dom.EventTarget = (*Document)(nil)
