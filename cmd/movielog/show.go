package main

import (
	"fmt"

	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/glamour"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	engine, err := loadEngine(deps, c.CatalogFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	entry, err := engine.Entry(c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	width := deps.Config.Render.Width
	if c.Width > 0 {
		width = c.Width
	}
	renderer, err := glamour.NewRenderer(orDefault(c.Style, deps.Config.Render.Style), width)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	rank, _ := engine.Rank(entry.ID)
	out, err := renderer.RenderEntry(entry, rank)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, out)
	return nil
}
