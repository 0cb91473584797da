package htmldom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// Element wraps an element node of a parsed Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Parent returns the enclosing element; nil once the walk reaches the document node.
func (e *Element) Parent() dom.Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

// Dataset reads a data-* attribute by its camelCase key.
func (e *Element) Dataset(key string) string {
	v, _ := dom.Dataset(e, key)
	return v
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.TrimSpace(b.String())
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

var _ dom.Element = (*Element)(nil)
