package ast

import "strconv"

// ---------- Expression Types ----------

// Identifier is a column reference. Name keeps its source case.
type Identifier struct {
	NodeInfo
	Name string
}

func (*Identifier) exprNode() {}

// LiteralType is the declared type of a literal.
type LiteralType string

// LiteralType constants.
const (
	LiteralInt    LiteralType = "INT"
	LiteralString LiteralType = "STRING"
)

// Literal is either an *IntLiteral or a *StringLiteral.
type Literal interface {
	Expr
	Type() LiteralType
	literalNode()
}

// IntLiteral is an integer constant.
type IntLiteral struct {
	NodeInfo
	Value int64
}

func (*IntLiteral) exprNode()    {}
func (*IntLiteral) literalNode() {}

// Type implements Literal.
func (*IntLiteral) Type() LiteralType { return LiteralInt }

// String returns the decimal form of the value.
func (l *IntLiteral) String() string { return strconv.FormatInt(l.Value, 10) }

// StringLiteral is a string constant with escapes already resolved.
type StringLiteral struct {
	NodeInfo
	Value string
}

func (*StringLiteral) exprNode()    {}
func (*StringLiteral) literalNode() {}

// Type implements Literal.
func (*StringLiteral) Type() LiteralType { return LiteralString }

// Operator is a comparison operator.
type Operator string

// Operator constants. Both "!=" and "<>" parse to OpNe.
const (
	OpEq Operator = "="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpGt Operator = ">"
	OpLe Operator = "<="
	OpGe Operator = ">="
)

// ParseOperator maps an operator lexeme to its Operator.
func ParseOperator(lexeme string) (Operator, bool) {
	switch lexeme {
	case "=":
		return OpEq, true
	case "!=", "<>":
		return OpNe, true
	case "<":
		return OpLt, true
	case ">":
		return OpGt, true
	case "<=":
		return OpLe, true
	case ">=":
		return OpGe, true
	}
	return "", false
}

// BinaryExpr is a single comparison. Its position is the operator's.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    Operator
	Right Expr
}

func (*BinaryExpr) exprNode() {}
