package compiler_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/minisql/internal/config"
	"github.com/leapstack-labs/minisql/internal/testutil"
	"github.com/leapstack-labs/minisql/pkg/analyze"
	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/catalog"
	"github.com/leapstack-labs/minisql/pkg/compiler"
	"github.com/leapstack-labs/minisql/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, opts compiler.Options) *compiler.Session {
	t.Helper()
	opts.Logger = testutil.NewTestLogger(t)
	return compiler.NewSession(nil, opts)
}

func TestCompile_AppliesDDL(t *testing.T) {
	s := newSession(t, compiler.DefaultOptions())

	res, err := s.Compile(`CREATE TABLE student (id INT, name VARCHAR(20));
		INSERT INTO student VALUES (1, 'Ann');
		CREATE TABLE course (code CHAR(4))`)
	require.NoError(t, err)

	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.HasErrors())
	assert.Len(t, res.Program.Statements, 3)
	assert.Equal(t, []string{"student", "course"}, res.Applied)

	cat := s.Catalog()
	assert.True(t, cat.TableExists("STUDENT"))
	typ, ok := cat.GetColumnType("student", "name")
	require.True(t, ok)
	assert.Equal(t, "VARCHAR", typ)
	col, ok := cat.GetColumn("course", "code")
	require.True(t, ok)
	require.NotNil(t, col.Size)
	assert.Equal(t, 4, *col.Size)
}

func TestCompile_ErrorsBlockDDL(t *testing.T) {
	s := newSession(t, compiler.DefaultOptions())

	res, err := s.Compile("CREATE TABLE t (a INT); SELECT b FROM t")
	require.NoError(t, err)

	require.True(t, res.HasErrors())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, analyze.CodeUnknownColumn, res.Diagnostics[0].Code)
	assert.Empty(t, res.Applied)
	assert.Equal(t, 0, s.Catalog().Len())
}

func TestCompile_WarningsDoNotBlockDDL(t *testing.T) {
	s := newSession(t, compiler.DefaultOptions())

	res, err := s.Compile("CREATE TABLE t (a INT); SELECT a FROM t WHERE 1 = 1")
	require.NoError(t, err)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, analyze.SeverityWarning, res.Diagnostics[0].Severity)
	assert.Equal(t, []string{"t"}, res.Applied)
}

func TestCompile_StateCarriesAcrossCalls(t *testing.T) {
	s := newSession(t, compiler.DefaultOptions())

	_, err := s.Compile("CREATE TABLE t (a INT)")
	require.NoError(t, err)

	res, err := s.Compile("INSERT INTO t VALUES (1)")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	res, err = s.Compile("CREATE TABLE T (b INT)")
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, analyze.CodeTableExists, res.Diagnostics[0].Code)
}

func TestCompile_WithoutValidation(t *testing.T) {
	s := newSession(t, compiler.Options{ApplyDDL: true})

	res, err := s.Compile("SELECT x FROM nowhere; CREATE TABLE t (a INT)")
	require.NoError(t, err)
	assert.Nil(t, res.Diagnostics)
	assert.Equal(t, []string{"t"}, res.Applied)

	_, err = s.Compile("CREATE TABLE t (b INT)")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrTableExists)
	assert.Contains(t, err.Error(), "1:1")
}

func TestCompile_FailedDDLLeavesCatalogUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		before string
		source string
		want   []string
	}{
		{
			name:   "empty catalog",
			source: "CREATE TABLE a (x INT); CREATE TABLE b (y INT); CREATE TABLE a (z INT);",
		},
		{
			name:   "existing tables",
			before: "CREATE TABLE keep (k INT)",
			source: "CREATE TABLE c (x INT); CREATE TABLE KEEP (y INT)",
			want:   []string{"keep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, compiler.Options{ApplyDDL: true})
			if tt.before != "" {
				_, err := s.Compile(tt.before)
				require.NoError(t, err)
			}
			before := s.Catalog().Export()

			res, err := s.Compile(tt.source)
			require.ErrorIs(t, err, catalog.ErrTableExists)
			require.NotNil(t, res)
			assert.Empty(t, res.Applied)
			assert.Equal(t, before, s.Catalog().Export())
			assert.Equal(t, len(tt.want), s.Catalog().Len())
			if tt.want != nil {
				assert.Equal(t, tt.want, s.Catalog().TableNames())
			}
		})
	}
}

func TestCompile_WithoutApply(t *testing.T) {
	s := newSession(t, compiler.Options{Validate: true})

	res, err := s.Compile("CREATE TABLE t (a INT)")
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.Equal(t, 0, s.Catalog().Len())
}

func TestCompile_SyntaxErrors(t *testing.T) {
	s := newSession(t, compiler.DefaultOptions())

	_, err := s.Compile("SELECT FROM t")
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Pos().Line)
	assert.Equal(t, 8, perr.Pos().Column)

	_, err = s.Compile("SELECT a FROM t WHERE a = @")
	var lerr *parser.LexError
	require.ErrorAs(t, err, &lerr)
}

func TestSession_LogsCarrySessionID(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger(t)
	s := compiler.NewSession(nil, compiler.Options{Validate: true, ApplyDDL: true, Logger: logger})

	_, err := s.Compile("CREATE TABLE t (a INT)")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "session="+s.ID().String())
	assert.Contains(t, out, "program compiled")
	assert.Contains(t, out, "table=t")
}

func TestSession_ConcurrentCompile(t *testing.T) {
	opts := compiler.DefaultOptions()
	opts.Logger = testutil.NewTestLoggerLevel(t, slog.LevelInfo)
	s := compiler.NewSession(nil, opts)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Compile("CREATE TABLE " + name + " (x INT)")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, s.Catalog().Len())
}

func TestOpenAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "catalog.yaml")
	cfg := &config.Config{
		Catalog:  config.CatalogConfig{Path: path},
		Compiler: config.CompilerConfig{Validate: true, ApplyDDL: true},
	}

	s, err := compiler.Open(cfg, testutil.NewTestLogger(t))
	require.NoError(t, err, "a missing catalog file starts empty")
	assert.Equal(t, 0, s.Catalog().Len())

	_, err = s.Compile("CREATE TABLE student (id INT, name VARCHAR(50))")
	require.NoError(t, err)
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "student")

	reopened, err := compiler.Open(cfg, nil)
	require.NoError(t, err)
	info, ok := reopened.Catalog().GetTable("student")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, info.ColumnNames())
	assert.NotEqual(t, s.ID(), reopened.ID())

	res, err := reopened.Compile("INSERT INTO student (id, name) VALUES (1, 'Ann')")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o600))

	tests := []struct {
		name      string
		cfg       config.CatalogConfig
		errSubstr string
	}{
		{"bad format", config.CatalogConfig{Path: "c.json", Format: "xml"}, "invalid catalog configuration"},
		{"uninferable", config.CatalogConfig{Path: "catalog.db"}, "invalid catalog configuration"},
		{"corrupt file", config.CatalogConfig{Path: corrupt}, "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Open(&config.Config{Catalog: tt.cfg}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestSave_InMemory(t *testing.T) {
	s, err := compiler.Open(&config.Config{}, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Save())
}

func TestParseAll(t *testing.T) {
	sources := []string{
		"SELECT a FROM t",
		"CREATE TABLE u (x INT); DELETE FROM u",
		"",
		"UPDATE t SET a = 1 WHERE b = 'x'",
	}

	programs, err := compiler.ParseAll(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, programs, len(sources))

	assert.IsType(t, &ast.SelectStmt{}, programs[0].Statements[0])
	assert.Len(t, programs[1].Statements, 2)
	assert.Empty(t, programs[2].Statements)
	assert.IsType(t, &ast.UpdateStmt{}, programs[3].Statements[0])
}

func TestParseAll_Error(t *testing.T) {
	sources := []string{"SELECT a FROM t", "SELECT a FROM", "DELETE FROM t"}

	programs, err := compiler.ParseAll(context.Background(), sources)
	require.Error(t, err)
	assert.Nil(t, programs)
	assert.True(t, strings.HasPrefix(err.Error(), "source 1: "), err.Error())

	var perr *parser.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestParseAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := compiler.ParseAll(ctx, []string{"SELECT a FROM t"})
	assert.ErrorIs(t, err, context.Canceled)
}
