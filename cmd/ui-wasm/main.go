//go:build js && wasm

// Command ui-wasm is the browser entrypoint of the admin panel's event delegation layer.
package main

import "github.com/Its-donkey/ecs-webui/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
