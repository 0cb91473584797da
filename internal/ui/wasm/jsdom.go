//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

const elementNode = 1

// jsElement adapts a browser Element.
type jsElement struct {
	v js.Value
}

func wrapElement(v js.Value) dom.Element {
	if !v.Truthy() || v.Get("nodeType").Int() != elementNode {
		return nil
	}
	return jsElement{v: v}
}

func (e jsElement) Attr(name string) (string, bool) {
	value := e.v.Call("getAttribute", name)
	if value.IsNull() || value.IsUndefined() {
		return "", false
	}
	return value.String(), true
}

func (e jsElement) Parent() dom.Element {
	return wrapElement(e.v.Get("parentElement"))
}

func (e jsElement) TagName() string {
	return jsLower(e.v.Get("tagName"))
}

// ClosestWithAttr resolves the nearest match with the native Element.closest.
func (e jsElement) ClosestWithAttr(attr string) dom.Element {
	return wrapElement(e.v.Call("closest", "["+attr+"]"))
}

// Value exposes the underlying js.Value to handlers that need the raw node.
func (e jsElement) Value() js.Value { return e.v }

func jsLower(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.Call("toLowerCase").String()
}

// jsEvent adapts a browser Event.
type jsEvent struct {
	v js.Value
}

func (e jsEvent) Type() dom.EventType { return dom.EventType(e.v.Get("type").String()) }

// Target returns the originating element; text-node targets resolve to their parent.
func (e jsEvent) Target() dom.Element {
	target := e.v.Get("target")
	if !target.Truthy() {
		return nil
	}
	if target.Get("nodeType").Int() != elementNode {
		return wrapElement(target.Get("parentElement"))
	}
	return jsElement{v: target}
}

func (e jsEvent) PreventDefault()        { e.v.Call("preventDefault") }
func (e jsEvent) StopPropagation()       { e.v.Call("stopPropagation") }
func (e jsEvent) DefaultPrevented() bool { return e.v.Get("defaultPrevented").Bool() }

// Value exposes the native event.
func (e jsEvent) Value() js.Value { return e.v }

// documentTarget binds listeners on the live document. Bound funcs are kept
// for the page lifetime; there is no teardown path.
type documentTarget struct {
	doc   js.Value
	funcs []js.Func
}

func (d *documentTarget) AddEventListener(t dom.EventType, fn dom.Listener) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(jsEvent{v: args[0]})
		}
		return nil
	})
	d.funcs = append(d.funcs, cb)
	d.doc.Call("addEventListener", string(t), cb)
}

var (
	_ dom.Element      = jsElement{}
	_ dom.NativeCloser = jsElement{}
	_ dom.Event        = jsEvent{}
	_ dom.EventTarget  = (*documentTarget)(nil)
)
