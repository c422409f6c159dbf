// Package infix renders RPN expressions as infix text.
//
// Parentheses are added only around an operand of * or / that contains a
// bare + or -, which is all that is needed with the usual precedence
// (* / above + -, both left-associative).
//
//	infix.Render("6 1 - 1 1 + *") // "(6 - 1) * (1 + 1)"
//
// Token positions in errors are 0-based, unlike the evaluator.
package infix

import (
	"log/slog"

	"github.com/sandrolain/rpncalc/pkg/cache"
	"github.com/sandrolain/rpncalc/pkg/parser"
	"github.com/sandrolain/rpncalc/pkg/types"
)

// Renderer converts RPN strings to infix strings.
type Renderer struct {
	opts   Options
	logger *slog.Logger
	cache  *cache.Cache[string]
}

// Options configures a Renderer.
type Options struct {
	// Caching enables caching of rendered strings.
	Caching bool
	// CacheSize sets the maximum number of cached strings.
	CacheSize int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Options)

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	r := &Renderer{opts: options, logger: options.Logger}
	if options.Caching {
		r.cache = cache.New[string](options.CacheSize)
	}
	return r
}

// Render converts a whitespace-separated RPN expression to infix notation.
func Render(rpn string) (string, error) {
	return New().Render(rpn)
}

// Render converts a whitespace-separated RPN expression to infix notation.
func (r *Renderer) Render(rpn string) (string, error) {
	if r.cache != nil {
		return r.cache.GetOrCompute(rpn, func() (string, error) {
			return r.render(rpn)
		})
	}
	return r.render(rpn)
}

func (r *Renderer) render(rpn string) (string, error) {
	out, err := r.build(parser.Lex(rpn))
	if r.opts.Debug {
		if err != nil {
			r.logger.Debug("rpn render failed", "rpn", rpn, "error", err)
		} else {
			r.logger.Debug("rpn render", "rpn", rpn, "infix", out)
		}
	}
	return out, err
}

func (r *Renderer) build(toks []parser.Token) (string, error) {
	var frags []string

	for _, tok := range toks {
		if tok.IsNumber() {
			frags = append(frags, tok.Text)
			continue
		}
		if len(frags) < 2 {
			return "", types.NewError(types.ErrInsufficientOperands, "invalid syntax", tok.Position).WithToken(tok.Text)
		}
		if tok.Type != parser.TokenOperator {
			return "", types.NewError(types.ErrInvalidToken, "invalid token", tok.Position).WithToken(tok.Text)
		}

		x, y := frags[len(frags)-2], frags[len(frags)-1]
		frags = frags[:len(frags)-2]

		if tok.Op.Multiplicative() {
			x = wrap(x)
			y = wrap(y)
		}
		frags = append(frags, x+" "+tok.Op.String()+" "+y)
	}

	if len(frags) != 1 {
		return "", types.NewError(types.ErrMalformedResult, "invalid syntax", -1)
	}
	return frags[0], nil
}

func wrap(frag string) string {
	if NeedsParens(frag) {
		return "(" + frag + ")"
	}
	return frag
}

// NeedsParens reports whether frag must be parenthesized before being used
// as an operand of * or /.
//
// frag needs parentheses if a + or - appears before the first "(" when read
// from the left, or before the first ")" when read from the right. The check
// is purely textual and relies on every fragment being a well-formed infix
// expression built by the renderer.
func NeedsParens(frag string) bool {
	return bareAdditive(frag, false) || bareAdditive(frag, true)
}

func bareAdditive(frag string, fromRight bool) bool {
	n := len(frag)
	for i := 0; i < n; i++ {
		c := frag[i]
		if fromRight {
			c = frag[n-1-i]
		}
		switch {
		case c == '+' || c == '-':
			return true
		case !fromRight && c == '(':
			return false
		case fromRight && c == ')':
			return false
		}
	}
	return false
}

// WithCaching enables or disables caching of rendered strings.
func WithCaching(enabled bool) Option {
	return func(opts *Options) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached strings.
func WithCacheSize(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
