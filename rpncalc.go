// Package rpncalc evaluates integer Reverse Polish Notation expressions and
// renders them as infix text.
//
// It is meant to sit inside tools that generate many candidate formulas,
// such as "make 10" puzzle solvers, and need to check and display them.
// Arithmetic is over int64 and every operation is checked: overflow, division
// by zero and non-positive modulus are reported as errors, never wrapped.
//
// # Quick Start
//
//	v, err := rpncalc.Eval([]string{"1", "2", "+", "3", "4", "+", "*"}) // 21
//
//	s, err := rpncalc.Infix("6 1 - 1 1 + *") // "(6 - 1) * (1 + 1)"
//
//	// Reusable calculator with options
//	calc := rpncalc.New(rpncalc.WithTrace(true), rpncalc.WithCaching(true))
//	ok, err := calc.Check("4 3 1 / * 2 -", 10)
//
// # Errors
//
// All failures are *types.Error values carrying a code and, where a token
// is at fault, its position. The evaluator numbers tokens from 1 and the
// infix renderer from 0.
//
// # More Information
//
//   - Evaluator: github.com/sandrolain/rpncalc/pkg/evaluator
//   - Infix rendering: github.com/sandrolain/rpncalc/pkg/infix
//   - Tokens: github.com/sandrolain/rpncalc/pkg/parser
//   - Errors: github.com/sandrolain/rpncalc/pkg/types
package rpncalc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sandrolain/rpncalc/pkg/evaluator"
	"github.com/sandrolain/rpncalc/pkg/infix"
)

// Version returns the current version of rpncalc.
func Version() string {
	return "v0.1.0-dev"
}

// Calculator bundles an evaluator and an infix renderer configured from the
// same options. It is safe for concurrent use; see WithTrace for the one
// caveat.
type Calculator struct {
	eval     *evaluator.Evaluator
	renderer *infix.Renderer
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var infixOpts []infix.Option
	if cfg.caching {
		infixOpts = append(infixOpts, infix.WithCaching(true))
	}
	if cfg.logger != nil {
		infixOpts = append(infixOpts, infix.WithLogger(cfg.logger))
	}
	if cfg.debug {
		infixOpts = append(infixOpts, infix.WithDebug(true))
	}

	return &Calculator{
		eval:     evaluator.New(cfg.evalOpts...),
		renderer: infix.New(infixOpts...),
	}
}

// Eval evaluates a pre-split RPN token list.
func (c *Calculator) Eval(tokens []string) (int64, error) {
	return c.eval.Eval(tokens)
}

// EvalString evaluates a whitespace-separated RPN string.
func (c *Calculator) EvalString(rpn string) (int64, error) {
	return c.eval.EvalString(rpn)
}

// Infix renders a whitespace-separated RPN string in infix notation.
func (c *Calculator) Infix(rpn string) (string, error) {
	return c.renderer.Render(rpn)
}

// Check evaluates rpn and reports whether it equals target.
func (c *Calculator) Check(rpn string, target int64) (bool, error) {
	v, err := c.eval.EvalString(rpn)
	if err != nil {
		return false, err
	}
	return v == target, nil
}

// Evaluator returns the underlying evaluator.
func (c *Calculator) Evaluator() *evaluator.Evaluator {
	return c.eval
}

// Eval is a convenience function that evaluates tokens with a one-off evaluator.
//
// For repeated evaluations, use New or evaluator.New.
func Eval(tokens []string, opts ...Option) (int64, error) {
	return New(opts...).Eval(tokens)
}

// EvalString is like Eval for a whitespace-separated RPN string.
func EvalString(rpn string, opts ...Option) (int64, error) {
	return New(opts...).EvalString(rpn)
}

// Infix renders rpn in infix notation.
func Infix(rpn string) (string, error) {
	return infix.Render(rpn)
}

// MustEval is like EvalString but panics if the expression cannot be evaluated.
// It simplifies safe initialization of global variables.
func MustEval(rpn string) int64 {
	v, err := EvalString(rpn)
	if err != nil {
		panic(fmt.Sprintf("rpncalc: MustEval(%q): %v", rpn, err))
	}
	return v
}

// MustInfix is like Infix but panics on error.
func MustInfix(rpn string) string {
	s, err := Infix(rpn)
	if err != nil {
		panic(fmt.Sprintf("rpncalc: MustInfix(%q): %v", rpn, err))
	}
	return s
}

type config struct {
	evalOpts []evaluator.EvalOption
	caching  bool
	debug    bool
	logger   *slog.Logger
}

// Option configures a Calculator.
type Option func(*config)

// WithTrace enables or disables the per-step evaluation trace on stdout.
// Calculators shared between goroutines write interleaved traces.
func WithTrace(enabled bool) Option {
	return func(c *config) {
		c.evalOpts = append(c.evalOpts, evaluator.WithTrace(enabled))
	}
}

// WithTraceWriter enables tracing to w.
func WithTraceWriter(w io.Writer) Option {
	return func(c *config) {
		c.evalOpts = append(c.evalOpts, evaluator.WithTraceWriter(w))
	}
}

// WithTraceFunc enables tracing through fn.
func WithTraceFunc(fn evaluator.TraceFunc) Option {
	return func(c *config) {
		c.evalOpts = append(c.evalOpts, evaluator.WithTraceFunc(fn))
	}
}

// WithCaching enables result caching for both evaluation and rendering.
func WithCaching(enabled bool) Option {
	return func(c *config) {
		c.caching = enabled
		c.evalOpts = append(c.evalOpts, evaluator.WithCaching(enabled))
	}
}

// WithConcurrency enables or disables concurrent batch evaluation.
func WithConcurrency(enabled bool) Option {
	return func(c *config) {
		c.evalOpts = append(c.evalOpts, evaluator.WithConcurrency(enabled))
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(c *config) {
		c.debug = enabled
		c.evalOpts = append(c.evalOpts, evaluator.WithDebug(enabled))
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
		c.evalOpts = append(c.evalOpts, evaluator.WithLogger(logger))
	}
}
