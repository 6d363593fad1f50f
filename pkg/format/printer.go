// Package format renders ASTs back to SQL and catalogs to text tables.
package format

import (
	"bytes"
	"strings"
)

const indentSize = 2

// Printer handles SQL formatting with indentation. In compact mode every
// statement is written on a single line.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	compact     bool
}

func newPrinter(compact bool) *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
		compact:     compact,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// kw prints keywords separated by spaces.
func (p *Printer) kw(keywords ...string) {
	p.write(strings.Join(keywords, " "))
}

// newline starts the next clause of a statement.
func (p *Printer) newline() {
	if p.compact {
		p.space()
		return
	}
	p.writeln()
}

// clause prints a keyword followed by its items, one indented item per line
// unless compact.
func (p *Printer) clause(keyword string, count int, item func(i int)) {
	p.kw(keyword)
	if p.compact {
		p.space()
		p.formatList(count, item, ", ", false)
		return
	}
	p.writeln()
	p.indent()
	p.formatList(count, item, ",", true)
	p.dedent()
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
}
