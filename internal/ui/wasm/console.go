//go:build js && wasm

package wasm

import (
	"encoding/json"
	"strings"
	"syscall/js"
)

// consoleWriter routes JSON log lines to console.error/warn/debug/log by level.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	console := js.Global().Get("console")
	if !console.Truthy() {
		return len(p), nil
	}
	line := strings.TrimSpace(string(p))
	var head struct {
		Level string `json:"level"`
	}
	_ = json.Unmarshal(p, &head)
	method := "log"
	switch head.Level {
	case "ERROR":
		method = "error"
	case "WARN":
		method = "warn"
	case "DEBUG":
		method = "debug"
	}
	console.Call(method, line)
	return len(p), nil
}
