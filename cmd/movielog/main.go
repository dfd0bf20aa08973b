package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/toml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded by Run unless set beforehand.
	Config *toml.Config

	// RunProgram runs the interactive browser. Replaced in tests.
	RunProgram func(ctx context.Context, model tea.Model, stdout io.Writer) error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		RunProgram: runProgram,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:        ctx,
		Stdout:     stdout,
		Stderr:     stderr,
		RunProgram: m.RunProgram,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("movielog"),
		kong.Description("Build and browse a movie review catalog from markdown notes."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'movielog --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var configPath string
	if m.Config == nil {
		cfg, path, exists, err := toml.Load(cli.Config)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", movielog.ErrorMessage(err))
			return err
		}
		m.Config = cfg
		if exists {
			configPath = path
		}
	}
	deps.Config = m.Config

	level := m.Config.LogLevel()
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if configPath != "" {
		deps.Logger.Debug("config loaded", "path", configPath)
	}

	return kongCtx.Run(deps)
}

func runProgram(ctx context.Context, model tea.Model, stdout io.Writer) error {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(stdout),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
