package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/movielog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	sort, err := movielog.ParseSortKey(c.Sort)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	engine, err := loadEngine(deps, c.CatalogFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", movielog.ErrorMessage(err))
		return err
	}

	entries := engine.Find(movielog.Query{Search: c.Search, Sort: sort, Tags: c.Tag})
	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No entries match.")
		return nil
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	headers := []string{"Rank", "ID", "Title", "Score", "Watched", "Released", "Tags"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rank := ""
		if r, ok := engine.Rank(e.ID); ok {
			rank = "#" + strconv.Itoa(r)
		}
		rows = append(rows, []string{
			rank,
			e.ID,
			e.Title,
			e.Score.String(),
			movielog.FormatDate(e.WatchDate),
			movielog.FormatDate(e.ReleaseDate),
			strings.Join(e.Tags, ", "),
		})
	}

	fmt.Fprintln(deps.Stdout, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
	return nil
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
