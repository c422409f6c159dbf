//go:build (js && wasm) || wasip1

package evaluator

// init disables concurrent batch evaluation on WebAssembly targets.
//
// On js/wasm the JavaScript runtime is single-threaded, so a worker pool
// only adds scheduling overhead. On wasip1 the Go runtime has no thread
// support either.
func init() {
	defaultConcurrency = false
}
