//go:build js && wasm

// Command rpncalc-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `rpncalc` object with the following API:
//
//	rpncalc.version()     → string
//	rpncalc.eval(rpn)     → number | Error
//	rpncalc.infix(rpn)    → string | Error
//
// Failures are returned, not thrown: a panic inside a Go callback would stop
// the Go program and every later call would fail. The returned Error carries
// the error code in its `code` property:
//
//	const v = rpncalc.eval('1 0 /')
//	if (v instanceof Error) console.log(v.code, v.message) // A0202 ...
//
// Values are returned as JS numbers, so results beyond 2^53 lose precision.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o rpncalc.wasm ./cmd/wasm/js/
package main

import (
	"syscall/js"

	"github.com/sandrolain/rpncalc"
	"github.com/sandrolain/rpncalc/pkg/types"
)

var calc = rpncalc.New(rpncalc.WithConcurrency(false), rpncalc.WithCaching(true))

// jsError converts err to a JS Error value with a `code` property.
func jsError(err error) js.Value {
	e := js.Global().Get("Error").New(err.Error())
	e.Set("code", string(types.CodeOf(err)))
	return e
}

// jsFunc adapts a call* function to a JS callback.
func jsFunc(fn func(*rpncalc.Calculator, []string) (interface{}, error)) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		strs := make([]string, len(args))
		for i, a := range args {
			strs[i] = a.String()
		}
		v, err := fn(calc, strs)
		if err != nil {
			return jsError(err)
		}
		return js.ValueOf(v)
	})
}

func main() {
	api := map[string]interface{}{
		"eval":  jsFunc(callEval),
		"infix": jsFunc(callInfix),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return rpncalc.Version()
		}),
	}
	js.Global().Set("rpncalc", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
