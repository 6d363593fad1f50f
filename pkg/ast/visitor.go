package ast

import "fmt"

// Visitor is the traversal protocol over the closed node set. An
// implementation must provide a method for every node kind, so adding a
// kind breaks every Visitor at compile time until it is handled.
//
// Visit dispatches to the matching method. Methods decide themselves whether
// to descend into children, typically by calling Visit again.
type Visitor[R any] interface {
	VisitProgram(n *Program) (R, error)
	VisitCreateTable(n *CreateTableStmt) (R, error)
	VisitInsert(n *InsertStmt) (R, error)
	VisitSelect(n *SelectStmt) (R, error)
	VisitDelete(n *DeleteStmt) (R, error)
	VisitUpdate(n *UpdateStmt) (R, error)
	VisitColumnDef(n *ColumnDef) (R, error)
	VisitDataType(n *DataType) (R, error)
	VisitIdentifier(n *Identifier) (R, error)
	VisitIntLiteral(n *IntLiteral) (R, error)
	VisitStringLiteral(n *StringLiteral) (R, error)
	VisitBinary(n *BinaryExpr) (R, error)
}

// Visit dispatches n to the method of v for its concrete kind.
// A nil node yields the zero value and no error.
func Visit[R any](n Node, v Visitor[R]) (R, error) {
	var zero R
	switch n := n.(type) {
	case nil:
		return zero, nil
	case *Program:
		return v.VisitProgram(n)
	case *CreateTableStmt:
		return v.VisitCreateTable(n)
	case *InsertStmt:
		return v.VisitInsert(n)
	case *SelectStmt:
		return v.VisitSelect(n)
	case *DeleteStmt:
		return v.VisitDelete(n)
	case *UpdateStmt:
		return v.VisitUpdate(n)
	case *ColumnDef:
		return v.VisitColumnDef(n)
	case *DataType:
		return v.VisitDataType(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *IntLiteral:
		return v.VisitIntLiteral(n)
	case *StringLiteral:
		return v.VisitStringLiteral(n)
	case *BinaryExpr:
		return v.VisitBinary(n)
	default:
		return zero, fmt.Errorf("ast: unknown node type %T", n)
	}
}
