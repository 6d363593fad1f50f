// Package ast defines the abstract syntax tree produced by the parser.
//
// The node set is closed: Statement and Expr carry unexported marker methods,
// so only this package can add variants. Behavior over nodes lives outside
// them, in Visitor implementations dispatched by Visit, or in Walk callbacks.
package ast

import "github.com/leapstack-labs/minisql/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the token the node originates from.
	Pos() token.Position
}

// Statement is a marker interface for top-level statement nodes.
type Statement interface {
	Node
	stmtNode()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// NodeInfo carries the originating source position of a node.
type NodeInfo struct {
	Position token.Position
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Position }

// At returns a NodeInfo for pos.
func At(pos token.Position) NodeInfo { return NodeInfo{Position: pos} }

// Program is the parse root: an ordered sequence of statements.
type Program struct {
	NodeInfo
	Statements []Statement
}

// DataType is a column type. Name is canonical upper case (INT, VARCHAR,
// CHAR). Size is set only for sized character types.
type DataType struct {
	NodeInfo
	Name string
	Size *int
}

// Canonical data type names.
const (
	TypeInt     = "INT"
	TypeVarchar = "VARCHAR"
	TypeChar    = "CHAR"
)

// IsCharacter reports whether the type holds strings.
func (d *DataType) IsCharacter() bool {
	return d.Name == TypeVarchar || d.Name == TypeChar
}

// ColumnDef is one column of a CREATE TABLE.
type ColumnDef struct {
	NodeInfo
	Name string
	Type *DataType
}

// Size returns a pointer to n, for building sized DataType values.
func Size(n int) *int { return &n }
