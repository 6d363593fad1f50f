package ast

import "github.com/leapstack-labs/minisql/pkg/token"

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
func Walk(node Node, fn func(node Node) bool) {
	if isNil(node) {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

func walkNode(node Node, fn func(node Node) bool) {
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Walk(stmt, fn)
		}

	case *CreateTableStmt:
		for _, col := range n.Columns {
			Walk(col, fn)
		}

	case *ColumnDef:
		Walk(n.Type, fn)

	case *InsertStmt:
		for _, col := range n.Columns {
			Walk(col, fn)
		}
		for _, row := range n.Values {
			for _, lit := range row {
				Walk(lit, fn)
			}
		}

	case *SelectStmt:
		for _, col := range n.Columns {
			Walk(col, fn)
		}
		Walk(n.Where, fn)

	case *DeleteStmt:
		Walk(n.Where, fn)

	case *UpdateStmt:
		for _, a := range n.Assignments {
			Walk(a.Value, fn)
		}
		Walk(n.Where, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	// Leaf nodes - no children to walk
	case *DataType, *Identifier, *IntLiteral, *StringLiteral:
	}
}

// isNil catches both untyped nil and typed nil pointers stored in the
// interface.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Program:
		return n == nil
	case *CreateTableStmt:
		return n == nil
	case *InsertStmt:
		return n == nil
	case *SelectStmt:
		return n == nil
	case *DeleteStmt:
		return n == nil
	case *UpdateStmt:
		return n == nil
	case *ColumnDef:
		return n == nil
	case *DataType:
		return n == nil
	case *Identifier:
		return n == nil
	case *IntLiteral:
		return n == nil
	case *StringLiteral:
		return n == nil
	case *BinaryExpr:
		return n == nil
	}
	return false
}

// Identifiers returns all column references under node, in source order.
func Identifiers(node Node) []*Identifier {
	var ids []*Identifier
	Walk(node, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Literals returns all literals under node, in source order.
func Literals(node Node) []Literal {
	var lits []Literal
	Walk(node, func(n Node) bool {
		if lit, ok := n.(Literal); ok {
			lits = append(lits, lit)
		}
		return true
	})
	return lits
}

// Tables returns the distinct table names referenced by statements under
// node. Names are compared with token.Fold, as the catalog compares them;
// the first spelling wins.
func Tables(node Node) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := token.Fold(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	Walk(node, func(n Node) bool {
		switch s := n.(type) {
		case *CreateTableStmt:
			add(s.Table)
		case *InsertStmt:
			add(s.Table)
		case *SelectStmt:
			add(s.From)
		case *DeleteStmt:
			add(s.Table)
		case *UpdateStmt:
			add(s.Table)
		}
		return true
	})
	return names
}

// TableOf returns the table a statement targets.
func TableOf(stmt Statement) string {
	switch s := stmt.(type) {
	case *CreateTableStmt:
		return s.Table
	case *InsertStmt:
		return s.Table
	case *SelectStmt:
		return s.From
	case *DeleteStmt:
		return s.Table
	case *UpdateStmt:
		return s.Table
	}
	return ""
}
