package ast

import "github.com/leapstack-labs/minisql/pkg/token"

// ---------- Statement Types ----------

// CreateTableStmt represents CREATE TABLE name (col type, ...).
// Columns is never empty for a parsed statement.
type CreateTableStmt struct {
	NodeInfo
	Table   string
	Columns []*ColumnDef
}

func (*CreateTableStmt) stmtNode() {}

// InsertStmt represents INSERT INTO name [(cols)] VALUES (...).
// Columns is nil when no explicit column list was given. Values holds one
// row per VALUES tuple; the parser produces exactly one.
type InsertStmt struct {
	NodeInfo
	Table   string
	Columns []*Identifier
	Values  [][]Literal
}

func (*InsertStmt) stmtNode() {}

// SelectStmt represents SELECT cols FROM name [WHERE expr].
type SelectStmt struct {
	NodeInfo
	Columns []*Identifier
	From    string
	Where   Expr // nil when absent
}

func (*SelectStmt) stmtNode() {}

// DeleteStmt represents DELETE FROM name [WHERE expr].
type DeleteStmt struct {
	NodeInfo
	Table string
	Where Expr
}

func (*DeleteStmt) stmtNode() {}

// UpdateStmt represents UPDATE name SET col = value, ... [WHERE expr].
type UpdateStmt struct {
	NodeInfo
	Table       string
	Assignments []Assignment
	Where       Expr
}

func (*UpdateStmt) stmtNode() {}

// Assignment is one "column = value" pair of an UPDATE. Value is an
// Identifier or a Literal.
type Assignment struct {
	Column string
	Value  Expr
	Pos    token.Position
}
