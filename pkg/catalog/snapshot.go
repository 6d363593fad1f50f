package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Snapshot is the persisted form of a catalog: normalized table name to
// table record.
type Snapshot map[string]TableInfo

// Export returns a deep copy of the catalog contents.
func (c *Catalog) Export() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := make(Snapshot, len(c.tables))
	for k, t := range c.tables {
		s[k] = t.clone()
	}
	return s
}

// Import replaces the catalog contents with s. Records are keyed again by
// their names, so a hand-written snapshot need not use upper-case keys.
// On error the catalog is left unchanged.
func (c *Catalog) Import(s Snapshot) error {
	tables := make(map[string]TableInfo, len(s))
	for key, t := range s {
		if t.Name == "" {
			t.Name = key
		}
		if err := validateTable(t.Name, t.Columns); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		k := Key(t.Name)
		if _, dup := tables[k]; dup {
			return fmt.Errorf("import: %w: '%s'", ErrTableExists, t.Name)
		}
		tables[k] = t.clone()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = tables
	return nil
}

// ---------- Records ----------

// columnRecord is the persisted form of ColumnInfo; a missing is_nullable
// means nullable.
type columnRecord struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	DataType string `json:"data_type" yaml:"data_type" mapstructure:"data_type"`
	Size     *int   `json:"size" yaml:"size" mapstructure:"size"`
	Nullable *bool  `json:"is_nullable" yaml:"is_nullable" mapstructure:"is_nullable"`
}

func (r columnRecord) column() ColumnInfo {
	return ColumnInfo{
		Name:     r.Name,
		DataType: CanonicalType(r.DataType),
		Size:     r.Size,
		NotNull:  r.Nullable != nil && !*r.Nullable,
	}
}

func (c ColumnInfo) record() columnRecord {
	nullable := c.Nullable()
	return columnRecord{Name: c.Name, DataType: c.DataType, Size: c.Size, Nullable: &nullable}
}

// MarshalJSON writes the column with an explicit is_nullable flag.
func (c ColumnInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.record())
}

// UnmarshalJSON reads a column record; a missing is_nullable means nullable.
func (c *ColumnInfo) UnmarshalJSON(data []byte) error {
	var rec columnRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*c = rec.column()
	return nil
}

// MarshalYAML writes the column with an explicit is_nullable flag.
func (c ColumnInfo) MarshalYAML() (any, error) {
	return c.record(), nil
}

// UnmarshalYAML reads a column record; a missing is_nullable means nullable.
func (c *ColumnInfo) UnmarshalYAML(node *yaml.Node) error {
	var rec columnRecord
	if err := node.Decode(&rec); err != nil {
		return err
	}
	*c = rec.column()
	return nil
}

type tableRecord struct {
	Name    string         `mapstructure:"name"`
	Columns []columnRecord `mapstructure:"columns"`
}

// FromMap decodes a snapshot from generic maps, such as the result of
// unmarshaling JSON or YAML into map[string]any.
func FromMap(data map[string]any) (Snapshot, error) {
	var records map[string]tableRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &records,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	s := make(Snapshot, len(records))
	for key, rec := range records {
		t := TableInfo{Name: rec.Name, Columns: make([]ColumnInfo, len(rec.Columns))}
		for i, col := range rec.Columns {
			t.Columns[i] = col.column()
		}
		s[key] = t
	}
	return s, nil
}

// ---------- Encoding ----------

// Format is a serialization format for catalog files.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string is returned as is.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown catalog format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("cannot infer catalog format from %q", path)
}

// Encode writes the catalog snapshot to w.
func (c *Catalog) Encode(w io.Writer, format Format) error {
	s := c.Export()
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown catalog format %q", format)
}

// Decode replaces the catalog contents with a snapshot read from r.
func (c *Catalog) Decode(r io.Reader, format Format) error {
	var data map[string]any
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode catalog: %w", err)
		}
	default:
		return fmt.Errorf("unknown catalog format %q", format)
	}

	s, err := FromMap(data)
	if err != nil {
		return err
	}
	return c.Import(s)
}

// SaveFile writes the catalog to path. An empty format is inferred from
// the extension.
func (c *Catalog) SaveFile(path string, format Format) error {
	format, err := resolveFormat(path, format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf, format); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// LoadFile replaces the catalog contents with the file at path. An empty
// format is inferred from the extension.
func (c *Catalog) LoadFile(path string, format Format) error {
	format, err := resolveFormat(path, format)
	if err != nil {
		return err
	}

	f, err := os.Open(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	return c.Decode(f, format)
}

func resolveFormat(path string, format Format) (Format, error) {
	if format != "" {
		return ParseFormat(string(format))
	}
	return FormatFromPath(path)
}
