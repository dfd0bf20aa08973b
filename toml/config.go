// Package toml loads movielog configuration from TOML files.
package toml

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pelletier/go-toml/v2"

	"github.com/fwojciec/movielog"
)

// EnvConfigPath names the environment variable holding the config path.
const EnvConfigPath = "MOVIELOG_CONFIG"

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "movielog.toml"

// Config is the movielog configuration.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Build   Build   `toml:"build"`
	Feed    Feed    `toml:"feed"`
	Logging Logging `toml:"logging"`
	Render  Render  `toml:"render"`
}

// Paths locates inputs and outputs. Empty Database and Feed disable those exports.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	Artifact  string `toml:"artifact"`
	Database  string `toml:"database"`
	Feed      string `toml:"feed"`
}

// Build tunes the catalog builder.
type Build struct {
	Concurrency int `toml:"concurrency"`
}

// Feed describes the Atom feed export.
type Feed struct {
	Title  string `toml:"title"`
	Link   string `toml:"link"`
	Author string `toml:"author"`
	Limit  int    `toml:"limit"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level string `toml:"level"`
}

// Render configures terminal rendering of entry details.
type Render struct {
	Style string `toml:"style"`
	Width int    `toml:"width"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: "content/movies",
			Artifact:  "public/movies.json",
		},
		Build:   Build{Concurrency: 8},
		Feed:    Feed{Title: "Movie log", Limit: 20},
		Logging: Logging{Level: "info"},
		Render:  Render{Style: "auto", Width: 80},
	}
}

// Load locates, parses, and validates a configuration file. An empty path
// falls back to $MOVIELOG_CONFIG, then ./movielog.toml. A missing file yields
// the defaults. Load returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, movielog.Errorf(movielog.EINVALID, "unknown config keys in %s:\n%s", resolved, strict.String())
			}
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				row, col := decodeErr.Position()
				return nil, "", false, movielog.Errorf(movielog.EINVALID, "parse config %s:%d:%d: %s", resolved, row, col, decodeErr.Error())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigFile
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return "", false, movielog.Errorf(movielog.ENOTFOUND, "config file %s not found", expanded)
		}
		return expanded, false, nil
	case err != nil:
		return "", false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return "", false, movielog.Errorf(movielog.EINVALID, "config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) normalize() error {
	for _, p := range []*string{&c.Paths.SourceDir, &c.Paths.Artifact, &c.Paths.Database, &c.Paths.Feed} {
		expanded, err := expandPath(strings.TrimSpace(*p))
		if err != nil {
			return err
		}
		*p = expanded
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Render.Style = strings.TrimSpace(c.Render.Style)
	return nil
}

// Validate reports the first invalid setting as an EINVALID error.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Paths),
		validation.Field(&c.Build),
		validation.Field(&c.Feed),
		validation.Field(&c.Logging),
		validation.Field(&c.Render),
	)
	if err != nil {
		return movielog.Errorf(movielog.EINVALID, "invalid config: %s", err)
	}
	return nil
}

func (p Paths) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.SourceDir, validation.Required.Error("source directory is required")),
		validation.Field(&p.Artifact, validation.Required.Error("artifact path is required")),
	)
}

func (b Build) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Concurrency, validation.Min(1), validation.Max(256)),
	)
}

func (f Feed) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required),
		validation.Field(&f.Link, validation.When(f.Link != "", is.URL)),
		validation.Field(&f.Limit, validation.Min(1)),
	)
}

func (l Logging) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error").Error("must be one of debug, info, warn, error")),
	)
}

func (r Render) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Width, validation.Min(20)),
	)
}

// LogLevel returns the slog level named by Logging.Level.
func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	return filepath.Clean(pathValue), nil
}
