package driver

import (
	"context"
	"errors"
	"fmt"

	"ember/internal/ast"
	"ember/internal/backend/llvm"
	"ember/internal/diag"
	"ember/internal/layout"
	"ember/internal/observ"
	"ember/internal/sema"
	"ember/internal/source"
	"ember/internal/symbols"
	"ember/internal/trace"
	"ember/internal/types"
)

// Stage selects how far Compile runs.
type Stage uint8

const (
	// StageCheck stops after validation.
	StageCheck Stage = iota
	// StageEmit also lowers the program to IR.
	StageEmit
)

type Options struct {
	Target layout.Target
	Stage  Stage
	// Entry is the qualified name of the function wrapped into the platform
	// entry symbol; empty emits no wrapper.
	Entry          string
	MaxDiagnostics int
	// Timings adds a timing diagnostic to the bag.
	Timings bool
	// Progress, when set, receives phase and completion events.
	Progress ProgressSink
}

// Result is the outcome of one unit. Faults of the program itself end up in
// Bag; Compile only returns errors for failures outside the program.
type Result struct {
	Path   string
	Files  *source.FileSet
	Bag    *diag.Bag
	Sema   *sema.Result
	IR     string
	Timing observ.Report
}

// Failed reports whether the unit produced an error diagnostic.
func (r *Result) Failed() bool {
	return r != nil && r.Bag.HasErrors()
}

// Compile runs registration, interface resolution and body validation on
// prog and, for StageEmit, code generation.
func Compile(ctx context.Context, prog *ast.Program, opts Options) (*Result, error) {
	return compile(ctx, "", prog, opts)
}

func compile(ctx context.Context, path string, prog *ast.Program, opts Options) (*Result, error) {
	if prog == nil {
		return nil, fmt.Errorf("driver: nil program")
	}
	if opts.Target.Triple == "" {
		opts.Target = layout.Default()
	}
	if err := opts.Target.Validate(); err != nil {
		return nil, err
	}
	res := &Result{
		Path:  path,
		Files: fileSetOf(prog),
		Bag:   diag.NewBag(opts.MaxDiagnostics),
	}
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, root)
	timer := observ.NewTimer()

	err := runPipeline(ctx, path, prog, opts, res, timer)
	res.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, res.Path, res.Timing)
	}
	root.End(outcome(err))
	if err != nil && !diag.ReportError(&diag.BagReporter{Bag: res.Bag}, err) {
		notify(opts.Progress, Event{File: path, Status: StatusError, Elapsed: res.Timing.Duration()})
		return res, err
	}
	notify(opts.Progress, Event{File: path, Status: finished(res), Elapsed: res.Timing.Duration()})
	return res, nil
}

func runPipeline(ctx context.Context, path string, prog *ast.Program, opts Options, res *Result, timer *observ.Timer) error {
	tracer := trace.FromContext(ctx)
	parent := trace.ParentFromContext(ctx)
	phase := func(name string, fn func() error) error {
		notify(opts.Progress, Event{File: path, Phase: name, Status: StatusWorking})
		sp := trace.Begin(tracer, trace.ScopePass, name, parent)
		err := timer.Track(name, fn)
		sp.End(outcome(err))
		return err
	}

	in := types.NewInterner(nil)
	var table *symbols.Table
	if err := phase("register", func() (err error) {
		table, err = symbols.Register(prog, in)
		return err
	}); err != nil {
		return err
	}

	var checked *sema.Result
	if err := phase("check", func() (err error) {
		checked, err = sema.Check(ctx, prog, table, in, opts.Target)
		return err
	}); err != nil {
		return err
	}
	res.Sema = checked
	if opts.Stage < StageEmit {
		return nil
	}

	return phase("emit", func() error {
		emitOpts := llvm.Options{}
		if opts.Entry != "" {
			id, err := ResolveEntry(checked, opts.Entry)
			if err != nil {
				return err
			}
			emitOpts.Entry = id
		}
		ir, err := llvm.Emit(checked, emitOpts)
		res.IR = ir
		return err
	})
}

func outcome(err error) string {
	var de *diag.Error
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &de):
		return de.Code().ID()
	}
	return "error"
}

// fileSetOf indexes the files of prog so that FileID i is Program.Files[i].
func fileSetOf(prog *ast.Program) *source.FileSet {
	fs := source.NewFileSet()
	if prog == nil {
		return fs
	}
	for _, f := range prog.Files {
		if f.Content == nil {
			fs.AddVirtual(f.Path, nil)
			continue
		}
		fs.Add(f.Path, f.Content, 0)
	}
	return fs
}
