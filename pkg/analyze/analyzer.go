// Package analyze validates parsed programs against a schema catalog.
//
// The Analyzer reports problems as Diagnostics instead of failing, so one
// pass lists every finding. Tables created by earlier statements of the
// same program are visible to later ones, even though the catalog itself
// is only changed by Apply.
package analyze

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/catalog"
	"github.com/leapstack-labs/minisql/pkg/token"
)

type none = struct{}

// Analyzer checks statements against a catalog. It implements
// ast.Visitor; use Check rather than visiting directly.
type Analyzer struct {
	catalog *catalog.Catalog
	logger  *slog.Logger

	pending map[string]catalog.TableInfo
	scope   *catalog.TableInfo // table the current statement reads from
	diags   []Diagnostic
}

var _ ast.Visitor[none] = (*Analyzer)(nil)

// New creates an analyzer over cat. A nil logger discards output.
func New(cat *catalog.Catalog, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{catalog: cat, logger: logger}
}

// Check analyzes every statement of prog and returns the diagnostics in
// statement order.
func (a *Analyzer) Check(prog *ast.Program) []Diagnostic {
	a.pending = make(map[string]catalog.TableInfo)
	a.scope = nil
	a.diags = nil

	_, _ = ast.Visit[none](prog, a)

	diags := a.diags
	a.diags = nil
	return diags
}

func (a *Analyzer) report(sev Severity, code Code, pos token.Position, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// lookup finds a table among those created earlier in the program, then
// in the catalog.
func (a *Analyzer) lookup(name string) (catalog.TableInfo, bool) {
	if t, ok := a.pending[catalog.Key(name)]; ok {
		return t, true
	}
	return a.catalog.GetTable(name)
}

// enter resolves the table a statement targets and makes it the scope for
// column references. It reports an unknown table.
func (a *Analyzer) enter(name string, pos token.Position) bool {
	t, ok := a.lookup(name)
	if !ok {
		a.scope = nil
		a.report(SeverityError, CodeUnknownTable, pos, "table '%s' does not exist", name)
		return false
	}
	a.scope = &t
	return true
}

func (a *Analyzer) column(name string) (catalog.ColumnInfo, bool) {
	if a.scope == nil {
		return catalog.ColumnInfo{}, false
	}
	return a.scope.Column(name)
}

// ---------- Statements ----------

// VisitProgram implements ast.Visitor.
func (a *Analyzer) VisitProgram(n *ast.Program) (none, error) {
	for _, stmt := range n.Statements {
		before := len(a.diags)
		_, _ = ast.Visit[none](stmt, a)
		a.scope = nil

		a.logger.Debug("checked statement",
			"pos", stmt.Pos().String(),
			"table", ast.TableOf(stmt),
			"diagnostics", len(a.diags)-before)
	}
	return none{}, nil
}

// VisitCreateTable implements ast.Visitor.
func (a *Analyzer) VisitCreateTable(n *ast.CreateTableStmt) (none, error) {
	before := len(a.diags)

	if _, ok := a.lookup(n.Table); ok {
		a.report(SeverityError, CodeTableExists, n.Pos(), "table '%s' already exists", n.Table)
	}

	seen := make(map[string]bool, len(n.Columns))
	for _, col := range n.Columns {
		k := catalog.Key(col.Name)
		if seen[k] {
			a.report(SeverityError, CodeDuplicateColumn, col.Pos(), "column '%s' is defined more than once", col.Name)
		}
		seen[k] = true
		_, _ = ast.Visit[none](col, a)
	}

	if len(a.diags) == before {
		a.pending[catalog.Key(n.Table)] = TableInfo(n)
	}
	return none{}, nil
}

// VisitColumnDef implements ast.Visitor.
func (a *Analyzer) VisitColumnDef(n *ast.ColumnDef) (none, error) {
	return ast.Visit[none](n.Type, a)
}

// VisitDataType implements ast.Visitor.
func (a *Analyzer) VisitDataType(n *ast.DataType) (none, error) {
	if n.IsCharacter() && n.Size != nil && *n.Size == 0 {
		a.report(SeverityError, CodeZeroSize, n.Pos(), "%s size must be greater than zero", n.Name)
	}
	return none{}, nil
}

// VisitInsert implements ast.Visitor.
func (a *Analyzer) VisitInsert(n *ast.InsertStmt) (none, error) {
	if !a.enter(n.Table, n.Pos()) {
		return none{}, nil
	}

	targets := a.scope.Columns
	if n.Columns != nil {
		targets = make([]catalog.ColumnInfo, 0, len(n.Columns))
		seen := make(map[string]bool, len(n.Columns))
		valid := true
		for _, id := range n.Columns {
			k := catalog.Key(id.Name)
			if seen[k] {
				a.report(SeverityError, CodeDuplicateColumn, id.Pos(), "column '%s' is listed more than once", id.Name)
				valid = false
			}
			seen[k] = true

			col, ok := a.column(id.Name)
			if !ok {
				a.report(SeverityError, CodeUnknownColumn, id.Pos(), "column '%s' does not exist in table '%s'", id.Name, n.Table)
				valid = false
				continue
			}
			targets = append(targets, col)
		}
		if !valid {
			return none{}, nil
		}
	}

	for _, row := range n.Values {
		if len(row) != len(targets) {
			pos := n.Pos()
			if len(row) > 0 {
				pos = row[0].Pos()
			}
			a.report(SeverityError, CodeValueCount, pos, "INSERT has %d values but %d columns", len(row), len(targets))
			continue
		}
		for i, lit := range row {
			a.checkValue(targets[i], lit)
		}
	}
	return none{}, nil
}

// VisitSelect implements ast.Visitor.
func (a *Analyzer) VisitSelect(n *ast.SelectStmt) (none, error) {
	if !a.enter(n.From, n.Pos()) {
		return none{}, nil
	}
	for _, col := range n.Columns {
		_, _ = ast.Visit[none](col, a)
	}
	return ast.Visit[none](n.Where, a)
}

// VisitDelete implements ast.Visitor.
func (a *Analyzer) VisitDelete(n *ast.DeleteStmt) (none, error) {
	if !a.enter(n.Table, n.Pos()) {
		return none{}, nil
	}
	return ast.Visit[none](n.Where, a)
}

// VisitUpdate implements ast.Visitor.
func (a *Analyzer) VisitUpdate(n *ast.UpdateStmt) (none, error) {
	if !a.enter(n.Table, n.Pos()) {
		return none{}, nil
	}
	for _, asg := range n.Assignments {
		col, ok := a.column(asg.Column)
		if !ok {
			a.report(SeverityError, CodeUnknownColumn, asg.Pos, "column '%s' does not exist in table '%s'", asg.Column, n.Table)
			continue
		}
		switch v := asg.Value.(type) {
		case ast.Literal:
			a.checkValue(col, v)
		case *ast.Identifier:
			if other, ok := a.column(v.Name); !ok {
				_, _ = ast.Visit[none](v, a)
			} else {
				a.checkCompatible(col, other, v.Pos())
			}
		}
	}
	return ast.Visit[none](n.Where, a)
}

// ---------- Expressions ----------

// VisitIdentifier implements ast.Visitor.
func (a *Analyzer) VisitIdentifier(n *ast.Identifier) (none, error) {
	if a.scope == nil {
		return none{}, nil
	}
	if _, ok := a.scope.Column(n.Name); !ok {
		a.report(SeverityError, CodeUnknownColumn, n.Pos(), "column '%s' does not exist in table '%s'", n.Name, a.scope.Name)
	}
	return none{}, nil
}

// VisitIntLiteral implements ast.Visitor.
func (a *Analyzer) VisitIntLiteral(*ast.IntLiteral) (none, error) { return none{}, nil }

// VisitStringLiteral implements ast.Visitor.
func (a *Analyzer) VisitStringLiteral(*ast.StringLiteral) (none, error) { return none{}, nil }

// VisitBinary implements ast.Visitor.
func (a *Analyzer) VisitBinary(n *ast.BinaryExpr) (none, error) {
	_, _ = ast.Visit[none](n.Left, a)
	_, _ = ast.Visit[none](n.Right, a)

	leftLit, leftIsLit := n.Left.(ast.Literal)
	rightLit, rightIsLit := n.Right.(ast.Literal)

	switch {
	case leftIsLit && rightIsLit:
		a.report(SeverityWarning, CodeConstantCondition, n.Pos(), "comparison between two constants")
		if leftLit.Type() != rightLit.Type() {
			a.report(SeverityError, CodeTypeMismatch, n.Pos(), "cannot compare %s with %s", leftLit.Type(), rightLit.Type())
		}
	case leftIsLit:
		if col, ok := a.identColumn(n.Right); ok {
			a.checkComparable(col, leftLit, n.Pos())
		}
	case rightIsLit:
		if col, ok := a.identColumn(n.Left); ok {
			a.checkComparable(col, rightLit, n.Pos())
		}
	default:
		l, lok := a.identColumn(n.Left)
		r, rok := a.identColumn(n.Right)
		if lok && rok {
			a.checkCompatible(l, r, n.Pos())
		}
	}
	return none{}, nil
}

func (a *Analyzer) identColumn(e ast.Expr) (catalog.ColumnInfo, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return catalog.ColumnInfo{}, false
	}
	return a.column(id.Name)
}

// ---------- Type checks ----------

func isCharacter(dataType string) bool {
	return dataType == ast.TypeVarchar || dataType == ast.TypeChar
}

func literalFits(col catalog.ColumnInfo, lit ast.Literal) bool {
	if isCharacter(col.DataType) {
		return lit.Type() == ast.LiteralString
	}
	return lit.Type() == ast.LiteralInt
}

// checkValue checks a literal stored into col.
func (a *Analyzer) checkValue(col catalog.ColumnInfo, lit ast.Literal) {
	if !literalFits(col, lit) {
		a.report(SeverityError, CodeTypeMismatch, lit.Pos(),
			"column '%s' is %s but the value is %s", col.Name, col.DataType, lit.Type())
		return
	}
	s, ok := lit.(*ast.StringLiteral)
	if !ok || col.Size == nil || *col.Size <= 0 {
		return
	}
	if n := utf8.RuneCountInString(s.Value); n > *col.Size {
		a.report(SeverityError, CodeValueTooLong, lit.Pos(),
			"value of length %d exceeds %s(%d) of column '%s'", n, col.DataType, *col.Size, col.Name)
	}
}

// checkComparable checks a comparison between col and a literal.
func (a *Analyzer) checkComparable(col catalog.ColumnInfo, lit ast.Literal, pos token.Position) {
	if !literalFits(col, lit) {
		a.report(SeverityError, CodeTypeMismatch, pos,
			"cannot compare column '%s' (%s) with %s", col.Name, col.DataType, lit.Type())
	}
}

// checkCompatible checks that two columns hold the same kind of value.
func (a *Analyzer) checkCompatible(left, right catalog.ColumnInfo, pos token.Position) {
	if isCharacter(left.DataType) != isCharacter(right.DataType) {
		a.report(SeverityError, CodeTypeMismatch, pos,
			"column '%s' (%s) is not compatible with column '%s' (%s)",
			left.Name, left.DataType, right.Name, right.DataType)
	}
}
