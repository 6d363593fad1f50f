// Package compiler runs SQL source through the front end: tokenize, parse,
// analyze against a catalog and apply DDL.
package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/leapstack-labs/minisql/internal/config"
	"github.com/leapstack-labs/minisql/pkg/analyze"
	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/catalog"
	"github.com/leapstack-labs/minisql/pkg/parser"
)

// Options configures a Session.
type Options struct {
	// Validate runs semantic analysis before DDL is applied.
	Validate bool
	// ApplyDDL applies CREATE TABLE statements to the catalog.
	ApplyDDL bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DefaultOptions validates and applies DDL.
func DefaultOptions() Options {
	return Options{Validate: true, ApplyDDL: true}
}

// Result is the outcome of compiling one source.
type Result struct {
	Program     *ast.Program
	Diagnostics []analyze.Diagnostic
	// Applied lists the tables created in the catalog, in statement order.
	Applied []string
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return analyze.HasErrors(r.Diagnostics)
}

// Session compiles sources against one catalog. It is safe for concurrent
// use; compilations are serialized so DDL applies in call order.
type Session struct {
	mu      sync.Mutex
	id      uuid.UUID
	catalog *catalog.Catalog
	opts    Options
	logger  *slog.Logger

	path   string
	format catalog.Format
}

// NewSession creates a session over cat. A nil catalog starts empty.
func NewSession(cat *catalog.Catalog, opts Options) *Session {
	if cat == nil {
		cat = catalog.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.New()
	return &Session{
		id:      id,
		catalog: cat,
		opts:    opts,
		logger:  logger.With("session", id.String()),
	}
}

// Open builds a session from configuration. The catalog file named by
// cfg.Catalog.Path is loaded when it exists; a missing file starts an
// empty catalog that Save will create.
func Open(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	format, err := cfg.Catalog.CatalogFormat()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog configuration: %w", err)
	}

	cat := catalog.New()
	if cfg.Catalog.Path != "" {
		err := cat.LoadFile(cfg.Catalog.Path, format)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	s := NewSession(cat, Options{
		Validate: cfg.Compiler.Validate,
		ApplyDDL: cfg.Compiler.ApplyDDL,
		Logger:   logger,
	})
	s.path = cfg.Catalog.Path
	s.format = format
	s.logger.Info("session opened", "catalog", s.path, "tables", cat.Len())
	return s, nil
}

// ID returns the session identifier attached to its log records.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Catalog returns the catalog the session compiles against.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Compile parses source and, as configured, analyzes it and applies its
// DDL. Lexical and syntax failures are returned as the error. Semantic
// problems are reported in the result; when any is an error, no DDL is
// applied. DDL is applied all or nothing: if one statement fails, the
// catalog keeps its contents from before the call.
func (s *Session) Compile(source string) (*Result, error) {
	prog, err := parser.ParseString(source)
	if err != nil {
		s.logger.Debug("compile failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{Program: prog}
	if s.opts.Validate {
		res.Diagnostics = analyze.New(s.catalog, s.logger).Check(prog)
		if res.HasErrors() {
			s.logger.Info("program rejected",
				"statements", len(prog.Statements),
				"diagnostics", len(res.Diagnostics))
			return res, nil
		}
	}

	if s.opts.ApplyDDL {
		applied, err := s.apply(prog)
		if err != nil {
			s.logger.Debug("ddl rolled back", "error", err)
			return res, err
		}
		res.Applied = applied
	}

	s.logger.Info("program compiled",
		"statements", len(prog.Statements),
		"diagnostics", len(res.Diagnostics),
		"tables_created", len(res.Applied))
	return res, nil
}

// apply runs the program's DDL against a copy of the catalog and installs
// the copy only when every statement succeeded.
func (s *Session) apply(prog *ast.Program) ([]string, error) {
	if !slices.ContainsFunc(prog.Statements, isDDL) {
		return nil, nil
	}

	staged := catalog.New()
	if err := staged.Import(s.catalog.Export()); err != nil {
		return nil, fmt.Errorf("failed to stage catalog: %w", err)
	}

	var applied []string
	for _, stmt := range prog.Statements {
		ddl, err := analyze.Apply(staged, stmt)
		if err != nil {
			return nil, fmt.Errorf("failed to apply statement at %s: %w", stmt.Pos(), err)
		}
		if ddl {
			name := stmt.(*ast.CreateTableStmt).Table
			applied = append(applied, name)
			s.logger.Debug("table created", "table", name)
		}
	}

	if err := s.catalog.Import(staged.Export()); err != nil {
		return nil, fmt.Errorf("failed to commit catalog: %w", err)
	}
	return applied, nil
}

func isDDL(stmt ast.Statement) bool {
	_, ok := stmt.(*ast.CreateTableStmt)
	return ok
}

// Save writes the catalog to the configured path. Sessions without a
// catalog path have nothing to save.
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.SaveFile(s.path, s.format); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	s.logger.Info("catalog saved", "path", s.path, "tables", s.catalog.Len())
	return nil
}
