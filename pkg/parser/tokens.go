package parser

import "github.com/sandrolain/rpncalc/pkg/types"

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	TokenInvalid  TokenType = iota
	TokenNumber             // -12, 0, 42
	TokenOperator           // + - * / %
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenInvalid:
		return "(invalid)"
	case TokenNumber:
		return "(number)"
	case TokenOperator:
		return "(operator)"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token in an RPN expression.
type Token struct {
	Type     TokenType      // Type of the token
	Text     string         // Source text of the token
	Position int            // Index of the token in the token list
	Number   int64          // Parsed value when Type is TokenNumber
	Op       types.Operator // Operator when Type is TokenOperator
}

// IsNumber reports whether the token is an integer literal.
func (t Token) IsNumber() bool {
	return t.Type == TokenNumber
}
