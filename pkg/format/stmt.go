package format

import (
	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/token"
)

type none = struct{}

var _ ast.Visitor[none] = (*Printer)(nil)

// VisitProgram prints each statement followed by a semicolon, separated by
// a blank line unless compact.
func (p *Printer) VisitProgram(n *ast.Program) (none, error) {
	for i, stmt := range n.Statements {
		if i > 0 {
			p.writeln()
			if !p.compact {
				p.writeln()
			}
		}
		_, _ = ast.Visit[none](stmt, p)
		p.write(";")
	}
	return none{}, nil
}

func (p *Printer) VisitCreateTable(n *ast.CreateTableStmt) (none, error) {
	p.kw(token.CREATE, token.TABLE)
	p.space()
	p.write(n.Table)
	p.write(" (")

	if p.compact {
		p.formatList(len(n.Columns), func(i int) {
			_, _ = ast.Visit[none](n.Columns[i], p)
		}, ", ", false)
		p.write(")")
		return none{}, nil
	}

	p.writeln()
	p.indent()
	p.formatList(len(n.Columns), func(i int) {
		_, _ = ast.Visit[none](n.Columns[i], p)
	}, ",", true)
	p.dedent()
	p.writeln()
	p.write(")")
	return none{}, nil
}

func (p *Printer) VisitColumnDef(n *ast.ColumnDef) (none, error) {
	p.write(n.Name)
	p.space()
	return ast.Visit[none](n.Type, p)
}

func (p *Printer) VisitInsert(n *ast.InsertStmt) (none, error) {
	p.kw(token.INSERT, token.INTO)
	p.space()
	p.write(n.Table)

	if n.Columns != nil {
		p.write(" (")
		p.formatList(len(n.Columns), func(i int) {
			_, _ = ast.Visit[none](n.Columns[i], p)
		}, ", ", false)
		p.write(")")
	}

	p.newline()
	p.clause(token.VALUES, len(n.Values), func(i int) {
		row := n.Values[i]
		p.write("(")
		p.formatList(len(row), func(j int) {
			_, _ = ast.Visit[none](row[j], p)
		}, ", ", false)
		p.write(")")
	})
	return none{}, nil
}

func (p *Printer) VisitSelect(n *ast.SelectStmt) (none, error) {
	p.clause(token.SELECT, len(n.Columns), func(i int) {
		_, _ = ast.Visit[none](n.Columns[i], p)
	})

	p.newline()
	p.kw(token.FROM)
	p.space()
	p.write(n.From)

	p.formatWhere(n.Where)
	return none{}, nil
}

func (p *Printer) VisitDelete(n *ast.DeleteStmt) (none, error) {
	p.kw(token.DELETE, token.FROM)
	p.space()
	p.write(n.Table)

	p.formatWhere(n.Where)
	return none{}, nil
}

func (p *Printer) VisitUpdate(n *ast.UpdateStmt) (none, error) {
	p.kw(token.UPDATE)
	p.space()
	p.write(n.Table)

	p.newline()
	p.clause(token.SET, len(n.Assignments), func(i int) {
		a := n.Assignments[i]
		p.write(a.Column)
		p.write(" = ")
		_, _ = ast.Visit[none](a.Value, p)
	})

	p.formatWhere(n.Where)
	return none{}, nil
}

func (p *Printer) formatWhere(where ast.Expr) {
	if where == nil {
		return
	}
	p.newline()
	p.clause(token.WHERE, 1, func(int) {
		_, _ = ast.Visit[none](where, p)
	})
}
