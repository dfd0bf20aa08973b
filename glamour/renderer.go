// Package glamour renders entry details as styled terminal markdown.
package glamour

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fwojciec/movielog"
)

// Style names accepted by NewRenderer besides a path to a JSON style file.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// DefaultWidth is the word-wrap width used when none is configured.
const DefaultWidth = 80

// Compile-time interface verification.
var _ movielog.EntryRenderer = (*Renderer)(nil)

// Renderer implements movielog.EntryRenderer using glamour.
type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer creates a Renderer with the given style and wrap width.
func NewRenderer(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	styleOpt := glamour.WithStylePath(style)
	if style == "" || style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}

	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, movielog.Errorf(movielog.EINVALID, "invalid render style %q: %s", style, err)
	}
	return &Renderer{term: term}, nil
}

// RenderEntry renders the detail view of entry.
func (r *Renderer) RenderEntry(entry *movielog.Entry, rank int) (string, error) {
	out, err := r.term.Render(movielog.FormatEntry(entry, rank))
	if err != nil {
		return "", fmt.Errorf("render entry %q: %w", entry.ID, err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
