//go:build wasip1

// Command rpncalc-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "rpn": "1 2 + 3 4 + *" }
//	stdout: { "value": 21, "infix": "(1 + 2) * (3 + 4)" }   on success
//	        { "error": "<message>", "code": "<code>" }     on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o rpncalc.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"rpn":"6 1 - 1 1 + *"}' | wasmtime rpncalc.wasm
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/rpncalc"
	"github.com/sandrolain/rpncalc/pkg/types"
)

type request struct {
	RPN string `json:"rpn"`
}

type response struct {
	Value *int64          `json:"value,omitempty"`
	Infix string          `json:"infix,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  types.ErrorCode `json:"code,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func fail(err error) {
	writeResponse(response{Error: err.Error(), Code: types.CodeOf(err)}, 1)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	calc := rpncalc.New(rpncalc.WithConcurrency(false))

	v, err := calc.EvalString(req.RPN)
	if err != nil {
		fail(err)
	}
	s, err := calc.Infix(req.RPN)
	if err != nil {
		fail(err)
	}

	writeResponse(response{Value: &v, Infix: s}, 0)
}
