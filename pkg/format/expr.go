package format

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/minisql/pkg/ast"
)

func (p *Printer) VisitDataType(n *ast.DataType) (none, error) {
	p.write(n.Name)
	if n.Size != nil {
		p.write("(" + strconv.Itoa(*n.Size) + ")")
	}
	return none{}, nil
}

func (p *Printer) VisitIdentifier(n *ast.Identifier) (none, error) {
	p.write(n.Name)
	return none{}, nil
}

func (p *Printer) VisitIntLiteral(n *ast.IntLiteral) (none, error) {
	p.write(n.String())
	return none{}, nil
}

func (p *Printer) VisitStringLiteral(n *ast.StringLiteral) (none, error) {
	p.write(Quote(n.Value))
	return none{}, nil
}

func (p *Printer) VisitBinary(n *ast.BinaryExpr) (none, error) {
	_, _ = ast.Visit[none](n.Left, p)
	p.write(" " + string(n.Op) + " ")
	return ast.Visit[none](n.Right, p)
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Quote returns s as a single-quoted string literal that the lexer reads
// back as s.
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
