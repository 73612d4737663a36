package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ember/internal/trace"
)

// CheckUnits compiles every unit in paths. Units run concurrently, at most
// jobs at a time (GOMAXPROCS when jobs <= 0); each unit is checked on a
// single goroutine with its own type interner and symbol table. Results are
// returned in the order of paths.
func CheckUnits(ctx context.Context, paths []string, opts Options, jobs int) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check_units", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, sp)

	// every goroutine writes only its own index
	results := make([]*Result, len(paths))
	for _, path := range paths {
		notify(opts.Progress, Event{File: path, Status: StatusQueued})
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := CompileFile(gctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	sp.End(outcome(err))
	return results, err
}
