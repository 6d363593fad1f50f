package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/minisql/pkg/catalog"
)

// Catalog writes a summary table with one row per catalog table.
func Catalog(w io.Writer, cat *catalog.Catalog) {
	names := cat.TableNames()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "(0 tables)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Columns"})

	for _, name := range names {
		info, ok := cat.GetTable(name)
		if !ok {
			continue
		}
		cols := make([]string, len(info.Columns))
		for i, col := range info.Columns {
			cols[i] = col.String()
		}
		t.AppendRow(table.Row{info.Name, strings.Join(cols, ", ")})
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d tables", len(names)), ""})
	t.Render()
}

// Table writes the columns of one table.
func Table(w io.Writer, info catalog.TableInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(info.Name)
	t.AppendHeader(table.Row{"#", "Column", "Type", "Nullable"})

	for i, col := range info.Columns {
		typ := col.DataType
		if col.Size != nil && *col.Size > 0 {
			typ += "(" + strconv.Itoa(*col.Size) + ")"
		}
		nullable := "NO"
		if col.Nullable() {
			nullable = "YES"
		}
		t.AppendRow(table.Row{i + 1, col.Name, typ, nullable})
	}

	t.Render()
}
