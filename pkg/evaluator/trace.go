package evaluator

import (
	"io"
	"slices"

	"github.com/davecgh/go-spew/spew"

	"github.com/sandrolain/rpncalc/pkg/parser"
)

// TraceStep is the evaluator state after one token has been consumed.
type TraceStep struct {
	Position  int      // 1-based position of the consumed token
	Token     string   // the consumed token
	Remaining []string // tokens not yet consumed, in input order
	Stack     []int64  // operand stack, bottom first
}

// TraceFunc receives trace steps. Calls happen synchronously on the
// evaluating goroutine.
type TraceFunc func(step TraceStep)

var spewConf = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

// WriterTrace returns a TraceFunc that writes one "<remaining> <stack>"
// line per step to w, e.g. "[*] [3 7]".
//
// Concurrent evaluators sharing w may interleave lines unless w is synchronized.
func WriterTrace(w io.Writer) TraceFunc {
	return func(step TraceStep) {
		_, _ = spewConf.Fprintf(w, "%v %v\n", step.Remaining, step.Stack)
	}
}

func newTraceStep(tok parser.Token, remaining []string, stack operandStack) TraceStep {
	return TraceStep{
		Position:  tok.Position,
		Token:     tok.Text,
		Remaining: slices.Clone(remaining),
		Stack:     slices.Clone([]int64(stack)),
	}
}
