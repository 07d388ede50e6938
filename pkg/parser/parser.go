// Package parser turns query text into the closed expression AST.
//
// # Usage
//
//	expr, err := parser.Parse("radius^2 * 3.14159")
//	if err != nil {
//	    // handle *parser.LexError or *parser.ParseError
//	}
//
// # Grammar
//
// The parser implements precedence climbing over a fixed grammar:
//
//	expression → term (('+' | '-') term)*
//	term       → power (('*' | '/') power)*
//	power      → unary ('^' power)?            right-associative
//	unary      → ('+' | '-') unary | primary
//	primary    → NUMBER | IDENT | IDENT '(' args ')' | '(' expression ')'
//	args       → expression (',' expression)* | ε
//
// Anything not reducible under this grammar fails with a positioned error.
// There is no fallback interpretation: the output type can only represent
// the five core.Expr variants, none of which denotes executing code.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/token"
)

// Operator precedence levels.
const (
	precLowest  = 0
	precSum     = 1 // + -
	precProduct = 2 // * /
	precPower   = 3 // ^
	precUnary   = 4 // -x +x
)

// maxParseDepth bounds parser recursion for pathological input. The static
// validator enforces the configured expression-depth limit separately; this
// guard only prevents stack exhaustion when the parser is used standalone
// on unbounded input.
const maxParseDepth = 10000

// Parser parses expression text into a core.Expr.
type Parser struct {
	lexer    *Lexer
	token    token.Token // current token
	peek     token.Token // lookahead token
	errors   []error
	depth    int
	maxDepth int
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the input and returns the AST root.
func Parse(input string) (core.Expr, error) {
	return NewParser(input).Parse()
}

// Parse parses the parser's input and returns the AST root.
func (p *Parser) Parse() (core.Expr, error) {
	expr := p.parseExpression(precLowest + 1)

	// The whole input must reduce to a single expression.
	if len(p.errors) == 0 && p.token.Type != token.EOF {
		p.addError("end of expression", p.describe(p.token))
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return expr, nil
}

// MaxNesting returns the deepest syntactic nesting observed while parsing.
// Parentheses do not survive into the AST, so the static validator checks
// this value against the depth bound in addition to measuring the tree.
func (p *Parser) MaxNesting() int {
	return p.maxDepth
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.Type) bool {
	return p.token.Type == t
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(t.String(), p.describe(p.token))
	return false
}

// addError records a parse error at the current token position.
func (p *Parser) addError(expected, found string) {
	p.errors = append(p.errors, &ParseError{
		Pos:      p.token.Pos,
		Span:     p.token.Span(),
		Expected: expected,
		Found:    found,
	})
}

// describe renders a token for error messages.
func (p *Parser) describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NUMBER, token.IDENT:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}

// ---------- Expression Parsing ----------

// parseExpression implements precedence climbing.
func (p *Parser) parseExpression(minPrecedence int) core.Expr {
	if p.depth++; p.depth > maxParseDepth {
		p.addError("shallower expression", "nesting beyond parser limit")
		return nil
	}
	if p.depth > p.maxDepth {
		p.maxDepth = p.depth
	}
	defer func() { p.depth-- }()

	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		prec := infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}

		op := p.token
		p.nextToken()

		// '^' is right-associative: parse the right side at the same
		// precedence so a^b^c groups as a^(b^c).
		nextMin := prec + 1
		if op.Type == token.CARET {
			nextMin = prec
		}

		right := p.parseExpression(nextMin)
		if right == nil {
			return nil
		}
		left = &core.BinaryExpr{Left: left, Op: op.Type, Right: right}
	}

	return left
}

// infixPrecedence returns the precedence of t as an infix operator,
// or precLowest if t is not an infix operator.
func infixPrecedence(t token.Type) int {
	switch t {
	case token.PLUS, token.MINUS:
		return precSum
	case token.STAR, token.SLASH:
		return precProduct
	case token.CARET:
		return precPower
	default:
		return precLowest
	}
}

// parsePrefix parses unary operators and primary expressions.
func (p *Parser) parsePrefix() core.Expr {
	switch p.token.Type {
	case token.MINUS, token.PLUS:
		op := p.token
		p.nextToken()
		operand := p.parseExpression(precUnary)
		if operand == nil {
			return nil
		}
		return &core.UnaryExpr{Op: op.Type, OpPos: op.Pos, Operand: operand}
	default:
		return p.parsePrimary()
	}
}

// parsePrimary parses a number, variable, function call, or parenthesized
// expression.
func (p *Parser) parsePrimary() core.Expr {
	switch p.token.Type {
	case token.NUMBER:
		return p.parseNumber()

	case token.IDENT:
		ident := p.token
		p.nextToken()
		if p.check(token.LPAREN) {
			return p.parseCall(ident)
		}
		return &core.VarRef{Name: ident.Literal, NamePos: ident.Pos}

	case token.LPAREN:
		p.nextToken()
		expr := p.parseExpression(precLowest + 1)
		if expr == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return expr

	case token.ILLEGAL:
		p.errors = append(p.errors, &LexError{Pos: p.token.Pos, Span: p.token.Span(), Char: p.token.Literal})
		return nil

	default:
		p.addError("expression", p.describe(p.token))
		return nil
	}
}

// parseNumber parses a numeric literal.
func (p *Parser) parseNumber() core.Expr {
	tok := p.token
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.addError("number", fmt.Sprintf("invalid number literal %q", tok.Literal))
		return nil
	}
	p.nextToken()
	return &core.NumberLit{Value: value, Literal: tok.Literal, NumPos: tok.Pos}
}

// parseCall parses IDENT '(' args ')' into a CallExpr. Whether the name is
// actually a whitelisted function is the validator's decision, not the
// parser's; here it is pure syntax.
func (p *Parser) parseCall(ident token.Token) core.Expr {
	p.nextToken() // consume '('

	call := &core.CallExpr{Name: ident.Literal, NamePos: ident.Pos}

	if p.check(token.RPAREN) {
		p.nextToken()
		return call
	}

	for {
		arg := p.parseExpression(precLowest + 1)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)

		if p.check(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expect(token.RPAREN) {
		return nil
	}
	return call
}

// ---------- Normalization ----------

// Normalize rewrites a query into its canonical spacing: token literals
// joined by single spaces. Two queries that differ only in whitespace
// normalize to the same string, which keeps verification hashes stable.
// Returns an error if the input contains an unrecognized character.
func Normalize(input string) (string, error) {
	var parts []string
	l := NewLexer(input)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.ILLEGAL {
			return "", &LexError{Pos: tok.Pos, Span: tok.Span(), Char: tok.Literal}
		}
		parts = append(parts, tok.Literal)
	}
	return strings.Join(parts, " "), nil
}
