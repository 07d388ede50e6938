// Package token defines the lexical token types for the expression grammar.
//
// The token set is closed: every token a query can produce is one of the
// constants below. There is no mechanism for registering new token types at
// runtime, which is part of the engine's no-dynamic-dispatch guarantee.
package token

import "fmt"

// Type identifies the kind of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals
	IDENT  // radius, sqrt, _tmp
	NUMBER // 123, 45.67, 1e10

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	CARET // ^

	// Delimiters
	COMMA  // ,
	LPAREN // (
	RPAREN // )
)

var typeNames = map[Type]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	CARET:   "^",
	COMMA:   ",",
	LPAREN:  "(",
	RPAREN:  ")",
}

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

// Token is a single lexical token with its source position.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// Span returns the byte range the token covers in the query text.
func (t Token) Span() Span {
	return NewSpan(t.Pos, len(t.Literal))
}
