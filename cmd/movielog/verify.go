package main

import (
	"fmt"

	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/catalog"
	"github.com/fwojciec/movielog/fs"
	mlslog "github.com/fwojciec/movielog/slog"
	"github.com/fwojciec/movielog/yaml"
)

// Run executes the verify command.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	out := orDefault(c.Out, deps.Config.Paths.Artifact)

	stored, err := fs.NewArtifactStore(out).ReadRaw()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	b := &catalog.Builder{
		Source:      mlslog.NewLoggingDocumentSource(fs.NewDocumentSource(orDefault(c.Src, deps.Config.Paths.SourceDir)), deps.Logger),
		Parser:      yaml.NewParser(),
		Concurrency: deps.Config.Build.Concurrency,
	}

	v, err := b.Verify(deps.Ctx, stored)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	if v.Stale() {
		err := movielog.Errorf(movielog.ECONFLICT, "artifact %s is stale (digest %s, sources give %s); run 'movielog build'", out, v.Actual, v.Expected)
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s is up to date (%d entries)\n", out, v.Result.Published)
	return nil
}
