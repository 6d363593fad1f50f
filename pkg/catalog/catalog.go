// Package catalog is the in-memory registry of table and column metadata.
//
// Table and column names are matched case-insensitively; the stored names
// keep the case they were created with. A Catalog is safe for concurrent
// use.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/minisql/pkg/token"
)

// Sentinel errors returned (wrapped) by catalog operations.
var (
	ErrTableExists     = errors.New("table already exists")
	ErrTableNotFound   = errors.New("table does not exist")
	ErrColumnNotFound  = errors.New("column does not exist")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrNoColumns       = errors.New("table must have at least one column")
)

// ColumnInfo describes one column of a table. A column accepts NULL unless
// NotNull is set. Files carry the flag as is_nullable.
type ColumnInfo struct {
	Name     string
	DataType string
	Size     *int
	NotNull  bool
}

// Nullable reports whether the column accepts NULL.
func (c ColumnInfo) Nullable() bool {
	return !c.NotNull
}

// String renders the column as "name TYPE" or "name TYPE(size)".
func (c ColumnInfo) String() string {
	if c.Size != nil && *c.Size > 0 {
		return fmt.Sprintf("%s %s(%d)", c.Name, c.DataType, *c.Size)
	}
	return c.Name + " " + c.DataType
}

func (c ColumnInfo) clone() ColumnInfo {
	if c.Size != nil {
		size := *c.Size
		c.Size = &size
	}
	c.DataType = CanonicalType(c.DataType)
	return c
}

// TableInfo describes a table and its ordered columns.
type TableInfo struct {
	Name    string       `json:"name" yaml:"name"`
	Columns []ColumnInfo `json:"columns" yaml:"columns"`
}

// Column returns the column with the given name, ignoring case.
func (t TableInfo) Column(name string) (ColumnInfo, bool) {
	k := Key(name)
	for _, col := range t.Columns {
		if Key(col.Name) == k {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// ColumnNames returns the column names in declaration order.
func (t TableInfo) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

func (t TableInfo) clone() TableInfo {
	cols := make([]ColumnInfo, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = col.clone()
	}
	return TableInfo{Name: t.Name, Columns: cols}
}

// Key returns the normalized lookup key for a table or column name.
func Key(name string) string {
	return token.Fold(name)
}

// CanonicalType returns the stored spelling of a data type name: upper
// case, with INTEGER written as INT.
func CanonicalType(name string) string {
	t := strings.ToUpper(strings.TrimSpace(name))
	if t == "INTEGER" {
		return "INT"
	}
	return t
}

// Catalog maps normalized table names to table metadata.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]TableInfo
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[string]TableInfo)}
}

// CreateTable registers a new table. It fails with ErrTableExists when a
// table of the same name (ignoring case) is present, in which case the
// existing entry is left untouched. Data types are stored in their
// CanonicalType spelling.
func (c *Catalog) CreateTable(name string, columns []ColumnInfo) error {
	if err := validateTable(name, columns); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := Key(name)
	if _, ok := c.tables[k]; ok {
		return fmt.Errorf("%w: '%s'", ErrTableExists, name)
	}
	c.tables[k] = TableInfo{Name: name, Columns: columns}.clone()
	return nil
}

func validateTable(name string, columns []ColumnInfo) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: '%s'", ErrNoColumns, name)
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		k := Key(col.Name)
		if seen[k] {
			return fmt.Errorf("%w: '%s' in table '%s'", ErrDuplicateColumn, col.Name, name)
		}
		seen[k] = true
	}
	return nil
}

// DropTable removes a table. It fails with ErrTableNotFound, and changes
// nothing, when the table is absent.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := Key(name)
	if _, ok := c.tables[k]; !ok {
		return fmt.Errorf("%w: '%s'", ErrTableNotFound, name)
	}
	delete(c.tables, k)
	return nil
}

// TableExists reports whether the table is registered.
func (c *Catalog) TableExists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[Key(name)]
	return ok
}

// ColumnExists reports whether the table exists and has the column.
func (c *Catalog) ColumnExists(table, column string) bool {
	_, ok := c.GetColumn(table, column)
	return ok
}

// GetTable returns a copy of the table's metadata.
func (c *Catalog) GetTable(name string) (TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[Key(name)]
	if !ok {
		return TableInfo{}, false
	}
	return t.clone(), true
}

// GetColumn returns a copy of the column's metadata.
func (c *Catalog) GetColumn(table, column string) (ColumnInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[Key(table)]
	if !ok {
		return ColumnInfo{}, false
	}
	col, ok := t.Column(column)
	if !ok {
		return ColumnInfo{}, false
	}
	return col.clone(), true
}

// GetColumnType returns the column's data type name.
func (c *Catalog) GetColumnType(table, column string) (string, bool) {
	col, ok := c.GetColumn(table, column)
	if !ok {
		return "", false
	}
	return col.DataType, true
}

// ValidateColumns checks that the table exists and has every listed column.
// The error names the table, or the first column that is missing.
func (c *Catalog) ValidateColumns(table string, columns []string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[Key(table)]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrTableNotFound, table)
	}
	for _, name := range columns {
		if _, ok := t.Column(name); !ok {
			return fmt.Errorf("%w: '%s' in table '%s'", ErrColumnNotFound, name, table)
		}
	}
	return nil
}

// Clear removes every table.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.tables)
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// TableNames returns the stored table names sorted by their keys.
func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.tables))
	for k := range c.tables {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = c.tables[k].Name
	}
	return names
}

// String returns "Catalog[T1 T2 ...]" with the stored table names.
func (c *Catalog) String() string {
	return "Catalog[" + strings.Join(c.TableNames(), " ") + "]"
}
