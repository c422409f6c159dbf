// Package parser holds the tokenization rules shared by the evaluator and
// the infix renderer.
//
// A token is either a base-10 integer literal that fits in an int64, or
// exactly one of the operator symbols + - * / %. Tokens in string form are
// separated by whitespace.
package parser

import (
	"strconv"
	"strings"

	"github.com/sandrolain/rpncalc/pkg/types"
)

// Split breaks an RPN string into its whitespace-separated tokens.
func Split(rpn string) []string {
	return strings.Fields(rpn)
}

// ParseNumber parses text as a signed 64-bit decimal literal.
// Values outside [-2^63, 2^63-1] are rejected.
func ParseNumber(text string) (int64, bool) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Classify converts a single token text into a Token at the given position.
// Literals take priority over operators, so "-5" is a number and "-" an operator.
func Classify(text string, pos int) Token {
	if n, ok := ParseNumber(text); ok {
		return Token{Type: TokenNumber, Text: text, Position: pos, Number: n}
	}
	if op, ok := types.LookupOperator(text); ok {
		return Token{Type: TokenOperator, Text: text, Position: pos, Op: op}
	}
	return Token{Type: TokenInvalid, Text: text, Position: pos}
}

// Lexer walks a pre-split token list, classifying one token per call.
type Lexer struct {
	texts   []string
	current int
	base    int
}

// NewLexer creates a lexer over texts. Positions reported by Next start at base.
func NewLexer(texts []string, base int) *Lexer {
	return &Lexer{texts: texts, base: base}
}

// Next returns the next token and true, or a zero Token and false at the end.
func (l *Lexer) Next() (Token, bool) {
	if l.current >= len(l.texts) {
		return Token{}, false
	}
	tok := Classify(l.texts[l.current], l.current+l.base)
	l.current++
	return tok, true
}

// Remaining returns the token texts not yet consumed by Next.
// The returned slice aliases the lexer input and must not be modified.
func (l *Lexer) Remaining() []string {
	return l.texts[l.current:]
}

// Lex splits rpn and classifies every token, numbering positions from 0.
func Lex(rpn string) []Token {
	texts := Split(rpn)
	toks := make([]Token, 0, len(texts))
	l := NewLexer(texts, 0)
	for {
		tok, ok := l.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}
