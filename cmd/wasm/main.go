//go:build js && wasm

// Command wasm exposes the racer engine to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	runSimulation(jsonString, format?) -> string | Uint8Array
//
// The input is a JSON-encoded SimulationInput. The log comes back as a JSON
// string, or as msgpack bytes when format is "msgpack".
package main

import (
	"syscall/js"

	"github.com/cxd309/racer-engine/internal/engine"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}
	format := engine.FormatJSON
	if len(args) > 1 && args[1].Type() == js.TypeString {
		format = args[1].String()
	}

	out, err := engine.Run([]byte(args[0].String()), format)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	if format != engine.FormatMsgpack {
		return string(out)
	}
	buf := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(buf, out)
	return buf
}
