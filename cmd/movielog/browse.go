package main

import (
	"fmt"

	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/bubbletea"
	"github.com/fwojciec/movielog/glamour"
	"github.com/fwojciec/movielog/query"
)

// Run executes the browse command.
func (c *BrowseCmd) Run(deps *Dependencies) error {
	engine, err := loadEngine(deps, c.CatalogFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	renderer, err := glamour.NewRenderer(orDefault(c.Style, deps.Config.Render.Style), deps.Config.Render.Width)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	model := bubbletea.NewModel(query.NewSession(engine), renderer)
	if err := deps.RunProgram(deps.Ctx, model, deps.Stdout); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}
	return nil
}
