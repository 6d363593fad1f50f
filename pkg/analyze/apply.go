package analyze

import (
	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/catalog"
)

// TableInfo converts a CREATE TABLE statement into catalog metadata.
// Columns are nullable; the grammar has no NOT NULL.
func TableInfo(stmt *ast.CreateTableStmt) catalog.TableInfo {
	cols := make([]catalog.ColumnInfo, len(stmt.Columns))
	for i, def := range stmt.Columns {
		col := catalog.ColumnInfo{
			Name:     def.Name,
			DataType: def.Type.Name,
		}
		if def.Type.Size != nil {
			size := *def.Type.Size
			col.Size = &size
		}
		cols[i] = col
	}
	return catalog.TableInfo{Name: stmt.Table, Columns: cols}
}

// Apply performs the catalog change of a DDL statement. It reports whether
// stmt was DDL; other statements leave the catalog untouched.
func Apply(cat *catalog.Catalog, stmt ast.Statement) (bool, error) {
	create, ok := stmt.(*ast.CreateTableStmt)
	if !ok {
		return false, nil
	}
	t := TableInfo(create)
	return true, cat.CreateTable(t.Name, t.Columns)
}
