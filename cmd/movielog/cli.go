package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/catalog"
	"github.com/fwojciec/movielog/etree"
	"github.com/fwojciec/movielog/fs"
	"github.com/fwojciec/movielog/query"
	mlslog "github.com/fwojciec/movielog/slog"
	"github.com/fwojciec/movielog/sqlite"
	"github.com/fwojciec/movielog/toml"
	"github.com/fwojciec/movielog/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Config     *toml.Config
	Logger     *slog.Logger
	RunProgram func(ctx context.Context, model tea.Model, stdout io.Writer) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" help:"Config file (default: $MOVIELOG_CONFIG or ./movielog.toml)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Build  BuildCmd  `cmd:"" help:"Build the catalog artifact from source documents"`
	Verify VerifyCmd `cmd:"" help:"Check that the artifact matches the source documents"`
	List   ListCmd   `cmd:"" help:"List catalog entries"`
	Tags   TagsCmd   `cmd:"" help:"List the tag vocabulary"`
	Show   ShowCmd   `cmd:"" help:"Show one entry in detail"`
	Browse BrowseCmd `cmd:"" help:"Browse the catalog interactively"`
	Watch  WatchCmd  `cmd:"" help:"Rebuild the artifact whenever source documents change"`
}

// SourceFlags select the build inputs and outputs. Empty values fall back
// to the config file.
type SourceFlags struct {
	Src         string `help:"Source directory of markdown documents"`
	Out         string `help:"Artifact output path"`
	DB          string `name:"db" help:"Also export the catalog to this SQLite database"`
	Feed        string `help:"Also export an Atom feed to this path"`
	Concurrency int    `help:"Parallel document parsing limit"`
}

// CatalogFlags select the catalog that read-only commands load.
type CatalogFlags struct {
	Artifact string `help:"Artifact path to read"`
	DB       string `name:"db" help:"Read the catalog from a SQLite export instead of the artifact"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	SourceFlags `embed:""`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	Src string `help:"Source directory of markdown documents"`
	Out string `help:"Artifact path to check"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	CatalogFlags `embed:""`

	Search string   `short:"s" help:"Case-insensitive title substring"`
	Tag    []string `short:"t" help:"Only entries with this tag (repeatable)"`
	Sort   string   `default:"watch_date_desc" enum:"watch_date_desc,watch_date_asc,point_desc,point_asc,release_date_desc,release_date_asc" help:"Sort order (${enum})"`
	Limit  int      `short:"n" help:"Show at most this many entries"`
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct {
	CatalogFlags `embed:""`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	CatalogFlags `embed:""`

	ID    string `arg:"" help:"Entry ID (source file name without extension)"`
	Style string `help:"Glamour style: auto, dark, light, notty or a JSON style path"`
	Width int    `help:"Word-wrap width"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct {
	CatalogFlags `embed:""`

	Style string `help:"Glamour style for the detail view"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	SourceFlags `embed:""`
}

// newBuilder wires a catalog builder from flags and config. The returned
// cleanup closes any export database.
func newBuilder(deps *Dependencies, flags SourceFlags) (*catalog.Builder, func(), error) {
	cfg := deps.Config
	src := orDefault(flags.Src, cfg.Paths.SourceDir)
	out := orDefault(flags.Out, cfg.Paths.Artifact)
	dbPath := orDefault(flags.DB, cfg.Paths.Database)
	feedPath := orDefault(flags.Feed, cfg.Paths.Feed)

	concurrency := cfg.Build.Concurrency
	if flags.Concurrency > 0 {
		concurrency = flags.Concurrency
	}

	b := &catalog.Builder{
		Source:      mlslog.NewLoggingDocumentSource(fs.NewDocumentSource(src), deps.Logger),
		Parser:      yaml.NewParser(),
		Artifact:    mlslog.NewLoggingArtifactWriter(fs.NewArtifactStore(out), "artifact", deps.Logger),
		Concurrency: concurrency,
	}

	cleanup := func() {}
	if dbPath != "" {
		db := sqlite.NewDB(dbPath)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		cleanup = func() { db.Close() }
		b.Exports = append(b.Exports,
			mlslog.NewLoggingArtifactWriter(sqlite.NewCatalogStore(db), "database", deps.Logger))
	}
	if feedPath != "" {
		feed := etree.NewFeedWriter(feedPath)
		feed.Title = cfg.Feed.Title
		feed.Link = cfg.Feed.Link
		feed.Author = cfg.Feed.Author
		feed.Limit = cfg.Feed.Limit
		b.Exports = append(b.Exports, mlslog.NewLoggingArtifactWriter(feed, "feed", deps.Logger))
	}

	return b, cleanup, nil
}

// loadEngine reads the catalog selected by flags into a query engine.
func loadEngine(deps *Dependencies, flags CatalogFlags) (*query.Engine, error) {
	var reader movielog.ArtifactReader = fs.NewArtifactStore(orDefault(flags.Artifact, deps.Config.Paths.Artifact))
	if flags.DB != "" {
		db := sqlite.NewDB(flags.DB)
		if err := db.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", flags.DB, err)
		}
		defer db.Close()
		reader = sqlite.NewCatalogStore(db)
	}

	entries, err := mlslog.NewLoggingArtifactReader(reader, deps.Logger).ReadArtifact(deps.Ctx)
	if err != nil {
		return nil, err
	}
	return query.NewEngine(entries), nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
