package main

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/movielog"
)

// Run executes the tags command.
func (c *TagsCmd) Run(deps *Dependencies) error {
	engine, err := loadEngine(deps, c.CatalogFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	tags := engine.Tags()
	if len(tags) == 0 {
		fmt.Fprintln(deps.Stdout, "No tags found.")
		return nil
	}

	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		n := len(engine.Find(movielog.Query{Tags: []string{tag}}))
		rows = append(rows, []string{tag, strconv.Itoa(n)})
	}

	fmt.Fprintln(deps.Stdout, renderTable([]string{"Tag", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
	return nil
}
