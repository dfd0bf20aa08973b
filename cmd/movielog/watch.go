package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/fsnotify"
)

// Run executes the watch command. It builds once, then rebuilds on every
// settled change until the context is cancelled.
func (c *WatchCmd) Run(deps *Dependencies) error {
	b, cleanup, err := newBuilder(deps, c.SourceFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}
	defer cleanup()

	out := orDefault(c.Out, deps.Config.Paths.Artifact)
	rebuild := func(ctx context.Context) error {
		result, err := b.Build(ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
			return err
		}
		printResult(deps, result, out)
		return nil
	}

	// A broken source at startup is reported but does not stop the watch.
	_ = rebuild(deps.Ctx)

	w := fsnotify.NewWatcher(orDefault(c.Src, deps.Config.Paths.SourceDir), rebuild, deps.Logger)
	if err := w.Start(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	<-deps.Ctx.Done()
	return w.Stop()
}
