package evaluator_test

import (
	"bytes"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/rpncalc/pkg/cache"
	"github.com/sandrolain/rpncalc/pkg/evaluator"
	"github.com/sandrolain/rpncalc/pkg/types"
)

// Helper functions

func eval(t *testing.T, tokens ...string) int64 {
	t.Helper()
	v, err := evaluator.New().Eval(tokens)
	require.NoError(t, err, "Eval(%q)", tokens)
	return v
}

func evalExpectError(t *testing.T, tokens ...string) *types.Error {
	t.Helper()
	_, err := evaluator.New().Eval(tokens)
	require.Error(t, err, "Eval(%q) should fail", tokens)
	var e *types.Error
	require.ErrorAs(t, err, &e)
	return e
}

// Literal tests

func TestEvalLiterals(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  int64
	}{
		{"small", "5", 5},
		{"tens", "50", 50},
		{"negative", "-50", -50},
		{"zero", "0", 0},
		{"max", "9223372036854775807", math.MaxInt64},
		{"min", "-9223372036854775808", math.MinInt64},
		// A leading + is accepted, as strconv.ParseInt does.
		{"plus sign", "+5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.token))
		})
	}
}

func TestEvalLiteralRoundTrip(t *testing.T) {
	for _, n := range []int64{math.MinInt64, math.MinInt64 + 1, -1, 0, 1, 10, 1 << 40, math.MaxInt64 - 1, math.MaxInt64} {
		assert.Equal(t, n, eval(t, strconv.FormatInt(n, 10)))
	}
}

// Arithmetic tests

func TestEvalKnownGood(t *testing.T) {
	tests := []struct {
		tokens []string
		want   int64
	}{
		{[]string{"2", "3", "+"}, 5},
		{[]string{"2", "3", "*"}, 6},
		{[]string{"2", "3", "-"}, -1},
		{[]string{"2", "3", "/"}, 0},
		{[]string{"2", "3", "%"}, 2},
		{[]string{"1", "2", "+", "3", "4", "+", "*"}, 21},
		{[]string{"4", "3", "1", "/", "*", "2", "-"}, 10},
		{[]string{"-7", "2", "/"}, -3},
		{[]string{"-7", "2", "%"}, -1},
		{[]string{"-9223372036854775808", "1", "/"}, math.MinInt64},
		{[]string{"-9223372036854775807", "1", "-"}, math.MinInt64},
		{[]string{"9223372036854775806", "1", "+"}, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.tokens, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.tokens...))
		})
	}
}

func TestEvalPlusSignedLiteral(t *testing.T) {
	v, err := evaluator.New().Eval([]string{"+5"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	assert.Equal(t, int64(8), eval(t, "+5", "+3", "+"))

	e := evalExpectError(t, "+9223372036854775808")
	assert.Equal(t, types.ErrInsufficientOperands, e.Code)
}

func TestEvalString(t *testing.T) {
	v, err := evaluator.New().EvalString("  1 2 +   3 4 + * ")
	require.NoError(t, err)
	assert.Equal(t, int64(21), v)
}

// Error tests

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		code    types.ErrorCode
		pos     int
		message string
	}{
		{"no operator", []string{"1", "1"}, types.ErrMalformedResult, -1, "invalid syntax"},
		{"empty", nil, types.ErrMalformedResult, -1, "invalid syntax"},
		{"unknown operator", []string{"1", "1", "^"}, types.ErrInvalidToken, 3, "invalid token"},
		{"operator short", []string{"1", "1", "-", "+"}, types.ErrInsufficientOperands, 4, "invalid syntax"},
		{"lone operator", []string{"+"}, types.ErrInsufficientOperands, 1, "invalid syntax"},
		{"one operand", []string{"1", "*"}, types.ErrInsufficientOperands, 2, "invalid syntax"},
		{"literal too large", []string{"9223372036854775808"}, types.ErrInsufficientOperands, 1, "invalid syntax"},
		{"add overflow", []string{"9223372036854775807", "1", "+"}, types.ErrOverflow, 3, "overflow"},
		{"sub overflow", []string{"-9223372036854775808", "1", "-"}, types.ErrOverflow, 3, "overflow"},
		{"mul overflow", []string{"9223372036854775807", "2", "*"}, types.ErrOverflow, 3, "overflow"},
		{"div overflow", []string{"-9223372036854775808", "-1", "/"}, types.ErrOverflow, 3, "overflow"},
		{"div by zero", []string{"1", "0", "/"}, types.ErrDivisionByZero, 3, "division by zero"},
		{"mod negative", []string{"100", "-1", "%"}, types.ErrNonPositiveModulus, 3, "division by negative"},
		{"mod zero", []string{"100", "0", "%"}, types.ErrNonPositiveModulus, 3, "modulo by zero"},
		{"late overflow", []string{"1", "9223372036854775807", "2", "*", "+"}, types.ErrOverflow, 4, "overflow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := evalExpectError(t, tt.tokens...)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.pos, e.Position)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestEvalErrorCarriesToken(t *testing.T) {
	e := evalExpectError(t, "1", "2", "x")
	assert.Equal(t, "x", e.Token)
	assert.Equal(t, "R0101 at position 3: invalid token", e.Error())
}

func TestEvalInvalidTokenPositions(t *testing.T) {
	for _, bad := range []string{"^", "abc", "1.5", "--1", "0x10", "**"} {
		t.Run(bad, func(t *testing.T) {
			e := evalExpectError(t, "1", "2", bad)
			assert.Equal(t, types.ErrInvalidToken, e.Code)
			assert.Equal(t, 3, e.Position)
		})
	}
}

// Trace tests

func TestTraceFunc(t *testing.T) {
	var steps []evaluator.TraceStep
	ev := evaluator.New(evaluator.WithTraceFunc(func(s evaluator.TraceStep) {
		steps = append(steps, s)
	}))
	require.True(t, ev.Tracing())

	v, err := ev.Eval([]string{"2", "3", "+"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	require.Len(t, steps, 3)
	assert.Equal(t, 1, steps[0].Position)
	assert.Equal(t, "2", steps[0].Token)
	assert.Equal(t, []string{"3", "+"}, steps[0].Remaining)
	assert.Equal(t, []int64{2}, steps[0].Stack)

	assert.Equal(t, []string{"+"}, steps[1].Remaining)
	assert.Equal(t, []int64{2, 3}, steps[1].Stack)

	assert.Equal(t, "+", steps[2].Token)
	assert.Empty(t, steps[2].Remaining)
	assert.Equal(t, []int64{5}, steps[2].Stack)
}

func TestTraceStopsAtFailure(t *testing.T) {
	var steps []evaluator.TraceStep
	ev := evaluator.New(evaluator.WithTraceFunc(func(s evaluator.TraceStep) {
		steps = append(steps, s)
	}))
	_, err := ev.Eval([]string{"1", "0", "/", "5"})
	require.Error(t, err)
	assert.Len(t, steps, 2)
}

func TestTraceWriter(t *testing.T) {
	var buf bytes.Buffer
	ev := evaluator.New(evaluator.WithTraceWriter(&buf))

	v, err := ev.Eval([]string{"2", "3", "+"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "[+]")
	assert.Contains(t, lines[1], "[2 3]")
	assert.Contains(t, lines[2], "[5]")
}

func TestTraceOffByDefault(t *testing.T) {
	assert.False(t, evaluator.New().Tracing())

	var buf bytes.Buffer
	ev := evaluator.New(evaluator.WithTraceWriter(&buf), evaluator.WithTrace(false))
	assert.False(t, ev.Tracing())
	_, err := ev.Eval([]string{"2", "3", "+"})
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}

func TestTraceDoesNotChangeResult(t *testing.T) {
	tokens := []string{"4", "3", "1", "/", "*", "2", "-"}
	plain := eval(t, tokens...)

	traced, err := evaluator.New(evaluator.WithTraceFunc(func(evaluator.TraceStep) {})).Eval(tokens)
	require.NoError(t, err)
	assert.Equal(t, plain, traced)
}

// Cache tests

func TestCaching(t *testing.T) {
	ev := evaluator.New(evaluator.WithCaching(true), evaluator.WithCacheSize(8))
	require.NotNil(t, ev.Cache())
	assert.Equal(t, 8, ev.Cache().Capacity())

	for i := 0; i < 3; i++ {
		v, err := ev.Eval([]string{"1", "2", "+"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), v)
	}
	assert.Equal(t, 1, ev.Cache().Len())

	_, err := ev.Eval([]string{"1", "0", "/"})
	require.Error(t, err)
	assert.Equal(t, 1, ev.Cache().Len(), "errors must not be cached")
}

func TestCachingDisabledByDefault(t *testing.T) {
	assert.Nil(t, evaluator.New().Cache())
}

func TestExternalCache(t *testing.T) {
	c := cache.New[int64](4)
	a := evaluator.New(evaluator.WithCache(c))
	b := evaluator.New(evaluator.WithCache(c))

	_, err := a.Eval([]string{"6", "7", "*"})
	require.NoError(t, err)

	v, ok := c.Get("6 7 *")
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	got, err := b.Eval([]string{"6", "7", "*"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestCacheIgnoresTokensWithSpaces(t *testing.T) {
	ev := evaluator.New(evaluator.WithCaching(true))
	_, err := ev.Eval([]string{"1", "2", "+"})
	require.NoError(t, err)

	e := evalExpectErrorWith(t, ev, "1 2", "+")
	assert.Equal(t, types.ErrInsufficientOperands, e.Code)
}

func TestTracingBypassesCache(t *testing.T) {
	calls := 0
	ev := evaluator.New(
		evaluator.WithCaching(true),
		evaluator.WithTraceFunc(func(evaluator.TraceStep) { calls++ }),
	)
	for i := 0; i < 2; i++ {
		_, err := ev.Eval([]string{"1", "2", "+"})
		require.NoError(t, err)
	}
	assert.Equal(t, 6, calls)
	assert.Equal(t, 0, ev.Cache().Len())
}

func evalExpectErrorWith(t *testing.T, ev *evaluator.Evaluator, tokens ...string) *types.Error {
	t.Helper()
	_, err := ev.Eval(tokens)
	var e *types.Error
	require.ErrorAs(t, err, &e)
	return e
}

// Logging tests

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ev := evaluator.New(evaluator.WithDebug(true), evaluator.WithLogger(logger))
	_, err := ev.Eval([]string{"1", "2", "+"})
	require.NoError(t, err)
	_, err = ev.Eval([]string{"1", "+"})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "rpn eval")
	assert.Contains(t, out, "result=3")
	assert.Contains(t, out, "rpn eval failed")
}

func TestNoLoggingWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := evaluator.New(evaluator.WithLogger(logger)).Eval([]string{"1", "2", "+"})
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}

// Benchmarks

func BenchmarkEval(b *testing.B) {
	ev := evaluator.New()
	tokens := []string{"1", "2", "+", "3", "4", "+", "*", "5", "-", "7", "%"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Eval(tokens); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvalCached(b *testing.B) {
	ev := evaluator.New(evaluator.WithCaching(true))
	tokens := []string{"1", "2", "+", "3", "4", "+", "*", "5", "-", "7", "%"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Eval(tokens); err != nil {
			b.Fatal(err)
		}
	}
}
