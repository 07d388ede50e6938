package core

import "github.com/aindus-labs/veritas/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
}

// Expr is a marker interface for expression nodes. The marker method keeps
// the variant set closed to this package's types.
type Expr interface {
	Node
	exprNode()
}

// ---------- Expression Types ----------

// NumberLit represents a numeric literal.
type NumberLit struct {
	Value   float64
	Literal string // original text, kept for step descriptions
	NumPos  token.Position
}

func (*NumberLit) exprNode() {}

// Pos implements Node.
func (n *NumberLit) Pos() token.Position { return n.NumPos }

// VarRef represents a reference to a caller-supplied variable binding.
type VarRef struct {
	Name    string
	NamePos token.Position
}

func (*VarRef) exprNode() {}

// Pos implements Node.
func (v *VarRef) Pos() token.Position { return v.NamePos }

// UnaryExpr represents a unary operation (+x or -x).
type UnaryExpr struct {
	Op      token.Type // PLUS or MINUS
	OpPos   token.Position
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// Pos implements Node.
func (u *UnaryExpr) Pos() token.Position { return u.OpPos }

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    token.Type // PLUS, MINUS, STAR, SLASH, or CARET
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// Pos implements Node.
func (b *BinaryExpr) Pos() token.Position {
	if b.Left != nil {
		return b.Left.Pos()
	}
	return token.Position{}
}

// CallExpr represents a call to a whitelisted named function.
type CallExpr struct {
	Name    string
	NamePos token.Position
	Args    []Expr
}

func (*CallExpr) exprNode() {}

// Pos implements Node.
func (c *CallExpr) Pos() token.Position { return c.NamePos }
