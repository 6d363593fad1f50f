package format

import (
	"github.com/leapstack-labs/minisql/pkg/ast"
)

// SQL formats a node as canonical SQL with one clause per line.
// Statements are terminated with a semicolon. Parsing the output yields
// the same tree, positions aside.
func SQL(node ast.Node) string {
	return render(node, false)
}

// Compact formats a node like SQL, but with each statement on one line.
func Compact(node ast.Node) string {
	return render(node, true)
}

func render(node ast.Node, compact bool) string {
	p := newPrinter(compact)
	_, _ = ast.Visit[none](node, p)
	if _, ok := node.(ast.Statement); ok {
		p.write(";")
	}
	return p.String()
}
