package main

import (
	"fmt"

	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/catalog"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	b, cleanup, err := newBuilder(deps, c.SourceFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}
	defer cleanup()

	result, err := b.Build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	printResult(deps, result, orDefault(c.Out, deps.Config.Paths.Artifact))
	return nil
}

func printResult(deps *Dependencies, result *catalog.Result, out string) {
	fmt.Fprintf(deps.Stdout, "Built %d entries from %d documents (%d unpublished) -> %s\n",
		result.Published, result.Scanned, result.Excluded, out)
	deps.Logger.Debug("artifact digest", "digest", result.Digest)
}
