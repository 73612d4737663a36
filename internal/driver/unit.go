package driver

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
)

// LoadUnit reads a syntax tree written by the front end.
func LoadUnit(path string) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open unit: %w", err)
	}
	defer f.Close()
	prog, err := ast.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// WriteUnit encodes prog to path.
func WriteUnit(path string, prog *ast.Program) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := ast.Encode(w, prog); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// CompileFile loads and compiles one unit. A unit that cannot be decoded
// yields a result with a single load diagnostic.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	notify(opts.Progress, Event{File: path, Phase: "load", Status: StatusWorking})
	prog, err := LoadUnit(path)
	if err != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		bag.Add(diag.NewError(diag.IOLoadFailed, source.Span{}, err.Error()))
		notify(opts.Progress, Event{File: path, Status: StatusError})
		return &Result{Path: path, Files: source.NewFileSet(), Bag: bag}, nil
	}
	return compile(ctx, path, prog, opts)
}
