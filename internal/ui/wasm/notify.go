//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/ecs-webui/internal/ui/delegation"
)

// globalNotifier calls window[name](title, message) when the page defines it.
func globalNotifier(name string) delegation.Notifier {
	return delegation.NotifierFunc(func(title, message string) {
		// Invoke panics when the page function throws.
		defer func() { _ = recover() }()
		fn := js.Global().Get(name)
		if fn.Type() != js.TypeFunction {
			return
		}
		fn.Invoke(title, message)
	})
}

func confirmDialog(message string) bool {
	fn := js.Global().Get("confirm")
	if fn.Type() != js.TypeFunction {
		return true
	}
	return fn.Invoke(message).Truthy()
}

func csrfToken(doc js.Value, metaName string) func() string {
	return func() string {
		meta := doc.Call("querySelector", `meta[name="`+metaName+`"]`)
		if !meta.Truthy() {
			return ""
		}
		content := meta.Call("getAttribute", "content")
		if content.Type() != js.TypeString {
			return ""
		}
		return content.String()
	}
}
