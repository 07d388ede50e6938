package parser

import (
	"fmt"

	"github.com/aindus-labs/veritas/pkg/token"
)

// ParseError represents a grammar violation. Span covers the offending
// token so callers can quote the query fragment that failed to reduce.
type ParseError struct {
	Pos      token.Position
	Span     token.Span
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: unexpected %s, expected %s",
		e.Pos.Line, e.Pos.Column, e.Found, e.Expected)
}

// LexError represents an unrecognized character in the input. Span
// covers the character itself.
type LexError struct {
	Pos  token.Position
	Span token.Span
	Char string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: unrecognized character %q",
		e.Pos.Line, e.Pos.Column, e.Char)
}
