package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/fndispatch/internal/caller"
	"github.com/vk/fndispatch/internal/ctxlog"
	"github.com/vk/fndispatch/internal/manifest"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one call.
type Result struct {
	Name     string
	Function string
	Output   string // JSON rendering of the returned value
	Err      error
}

// Run executes the main application logic based on the App's configuration.
// Calls run concurrently, bounded by the worker count. A failing call does
// not stop the others; every failure is reported in the returned error.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.List {
		a.list()
		if len(a.config.ManifestPaths) == 0 && a.config.Call == "" {
			return nil
		}
	}

	calls, err := a.collectCalls(ctx)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		a.logger.Warn("No calls found, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting calls.", "count", len(calls), "workers", a.config.WorkerCount)
	results := a.runCalls(ctx, calls)

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(a.outW, "%s: error: %v\n", res.Name, res.Err)
			errs = append(errs, fmt.Errorf("call %q: %w", res.Name, res.Err))
			continue
		}
		fmt.Fprintf(a.outW, "%s = %s\n", res.Name, res.Output)
	}
	a.logger.Info("🏁 Calls finished.", "count", len(results), "failed", len(errs))

	a.logger.Debug("App.Run method finished.")
	return errors.Join(errs...)
}

func (a *App) list() {
	for _, name := range a.registry.Names() {
		inv, ok := a.registry.LookupInvoker(name)
		if !ok {
			continue
		}
		fmt.Fprintf(a.outW, "%s %s\n", name, inv.Signature())
	}
}

func (a *App) collectCalls(ctx context.Context) ([]*manifest.Call, error) {
	var calls []*manifest.Call
	if len(a.config.ManifestPaths) > 0 {
		loaded, err := manifest.Load(ctx, a.config.ManifestPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		calls = append(calls, loaded...)
	}
	if a.config.Call != "" {
		args, err := manifest.ParseArgs(a.config.Args)
		if err != nil {
			return nil, err
		}
		calls = append(calls, &manifest.Call{Name: a.config.Call, Function: a.config.Call, Args: args})
	}
	return calls, nil
}

// runCalls runs every call and returns the results in call order.
func (a *App) runCalls(ctx context.Context, calls []*manifest.Call) []Result {
	results := make([]Result, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)

	for i, c := range calls {
		g.Go(func() error {
			results[i] = a.runCall(gctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *App) runCall(ctx context.Context, c *manifest.Call) Result {
	logger := ctxlog.FromContext(ctx).With("call", c.Name, "function", c.Function)
	res := Result{Name: c.Name, Function: c.Function}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	inv, err := a.registry.Invoker(c.Function)
	if err != nil {
		res.Err = err
		return res
	}
	args, err := manifest.ConvertArgs(ctx, inv.Signature(), c.Args)
	if err != nil {
		res.Err = err
		return res
	}

	logger.Debug("Calling function.", "args", len(args))
	out, err := caller.CallByName(a.registry, c.Function, args...)
	if err != nil {
		logger.Debug("Call failed.", "error", err)
		res.Err = err
		return res
	}
	res.Output, res.Err = manifest.Render(out)
	return res
}
