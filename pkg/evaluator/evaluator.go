// Package evaluator implements the RPN evaluation engine.
//
// The evaluator consumes an ordered token list and reduces it on an int64
// operand stack in a single left-to-right pass. Every arithmetic operator is
// checked for signed overflow, and division and modulo enforce their domain
// before computing, so no input can panic or wrap around.
//
// # Example
//
//	ev := evaluator.New()
//	v, err := ev.Eval([]string{"1", "2", "+", "3", "4", "+", "*"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// v == 21
//
// # Tracing
//
// WithTrace(true) prints the unconsumed tokens and the stack after every
// step to stdout. Use WithTraceFunc to capture the steps instead.
package evaluator

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/sandrolain/rpncalc/pkg/cache"
	"github.com/sandrolain/rpncalc/pkg/parser"
	"github.com/sandrolain/rpncalc/pkg/types"
)

// Evaluator evaluates RPN token lists.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	cache  *cache.Cache[int64] // non-nil when Caching is enabled
	trace  TraceFunc           // non-nil when tracing is enabled
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Trace enables the per-step diagnostic trace. Off by default.
	Trace bool
	// TraceWriter receives the trace when TraceFunc is nil. Defaults to os.Stdout.
	TraceWriter io.Writer
	// TraceFunc receives every trace step. Takes precedence over TraceWriter.
	TraceFunc TraceFunc
	// Caching enables result caching keyed by formula text.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached results.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom result cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache[int64]
	// Concurrency lets EvalMany spread formulas over worker goroutines.
	Concurrency bool
	// Workers bounds the EvalMany pool. Defaults to GOMAXPROCS.
	Workers int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// defaultConcurrency controls the default value of EvalOptions.Concurrency for
// newly created Evaluators. It is false on WebAssembly targets, see
// evaluator_wasm.go.
var defaultConcurrency = true

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Trace:       false,
		Caching:     false,
		Concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache[int64]
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New[int64](options.CacheSize)
	}

	var trace TraceFunc
	if options.Trace {
		switch {
		case options.TraceFunc != nil:
			trace = options.TraceFunc
		case options.TraceWriter != nil:
			trace = WriterTrace(options.TraceWriter)
		default:
			trace = WriterTrace(os.Stdout)
		}
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		cache:  c,
		trace:  trace,
	}
}

// Cache returns the result cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache[int64] {
	return e.cache
}

// Tracing reports whether the evaluator emits a trace.
func (e *Evaluator) Tracing() bool {
	return e.trace != nil
}

// Eval evaluates an RPN expression given as an ordered token list.
//
// Failures are *types.Error values. Token positions in errors are 1-based.
func (e *Evaluator) Eval(tokens []string) (int64, error) {
	// A cached value would skip the trace, so tracing always recomputes.
	if e.cache != nil && e.trace == nil {
		if key, ok := cacheKey(tokens); ok {
			return e.cache.GetOrCompute(key, func() (int64, error) {
				return e.eval(tokens)
			})
		}
	}
	return e.eval(tokens)
}

// EvalString splits rpn on whitespace and evaluates the resulting tokens.
func (e *Evaluator) EvalString(rpn string) (int64, error) {
	return e.Eval(parser.Split(rpn))
}

func (e *Evaluator) eval(tokens []string) (int64, error) {
	v, err := e.reduce(tokens)
	if e.opts.Debug {
		if err != nil {
			e.logger.Debug("rpn eval failed", "tokens", tokens, "error", err)
		} else {
			e.logger.Debug("rpn eval", "tokens", tokens, "result", v)
		}
	}
	return v, err
}

func (e *Evaluator) reduce(tokens []string) (int64, error) {
	stack := make(operandStack, 0, len(tokens)/2+1)
	lx := parser.NewLexer(tokens, 1)

	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}

		if tok.IsNumber() {
			stack.push(tok.Number)
		} else {
			if len(stack) < 2 {
				return 0, types.NewError(types.ErrInsufficientOperands, "invalid syntax", tok.Position).WithToken(tok.Text)
			}
			y := stack.pop()
			x := stack.pop()

			if tok.Type != parser.TokenOperator {
				return 0, types.NewError(types.ErrInvalidToken, "invalid token", tok.Position).WithToken(tok.Text)
			}
			res, err := apply(tok.Op, x, y)
			if err != nil {
				err.Position = tok.Position
				return 0, err.WithToken(tok.Text)
			}
			stack.push(res)
		}

		if e.trace != nil {
			e.trace(newTraceStep(tok, lx.Remaining(), stack))
		}
	}

	if len(stack) != 1 {
		return 0, types.NewError(types.ErrMalformedResult, "invalid syntax", -1)
	}
	return stack[0], nil
}

// operandStack holds partial results; the top is the last element.
type operandStack []int64

func (s *operandStack) push(v int64) {
	*s = append(*s, v)
}

// pop removes the top value. Callers check the depth first, so an empty
// stack here is a bug.
func (s *operandStack) pop() int64 {
	n := len(*s)
	if n == 0 {
		panic("evaluator: pop from empty operand stack")
	}
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v
}

// cacheKey joins tokens with spaces. Tokens that contain whitespace would
// make the key ambiguous, so they are never cached.
func cacheKey(tokens []string) (string, bool) {
	for _, t := range tokens {
		if strings.IndexFunc(t, unicode.IsSpace) >= 0 {
			return "", false
		}
	}
	return strings.Join(tokens, " "), true
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithTrace enables or disables the per-step trace to stdout (or to the
// writer/func set with WithTraceWriter/WithTraceFunc).
func WithTrace(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Trace = enabled
	}
}

// WithTraceWriter enables tracing and sends it to w.
func WithTraceWriter(w io.Writer) EvalOption {
	return func(opts *EvalOptions) {
		opts.Trace = true
		opts.TraceWriter = w
	}
}

// WithTraceFunc enables tracing and hands every step to fn.
func WithTraceFunc(fn TraceFunc) EvalOption {
	return func(opts *EvalOptions) {
		opts.Trace = fn != nil
		opts.TraceFunc = fn
	}
}

// WithCaching enables or disables result caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached results.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external result cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache[int64]) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithConcurrency enables or disables concurrent batch evaluation.
func WithConcurrency(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Concurrency = enabled
	}
}

// WithWorkers sets the EvalMany pool size.
func WithWorkers(n int) EvalOption {
	return func(opts *EvalOptions) {
		opts.Workers = n
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}
