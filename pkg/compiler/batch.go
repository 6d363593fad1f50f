package compiler

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/parser"
	"golang.org/x/sync/errgroup"
)

// ParseAll parses independent sources concurrently. The programs are
// returned in input order. The first failure cancels the remaining work
// and is returned with the index of its source.
func ParseAll(ctx context.Context, sources []string) ([]*ast.Program, error) {
	programs := make([]*ast.Program, len(sources))

	eg, egctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			prog, err := parser.ParseString(src)
			if err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
			programs[i] = prog
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return programs, nil
}
