package bubbletea

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the browser.
type Styles struct {
	Header      lipgloss.Style
	Muted       lipgloss.Style
	Tag         lipgloss.Style
	TagSelected lipgloss.Style
	TagCursor   lipgloss.Style
	Row         lipgloss.Style
	RowCursor   lipgloss.Style
	Rank        lipgloss.Style
	Footer      lipgloss.Style
}

// DefaultStyles returns the default browser styles.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	muted := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#6C6C6C"}
	gold := lipgloss.Color("#E5B80B")

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Tag: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),

		TagSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1),

		TagCursor: lipgloss.NewStyle().
			Underline(true),

		Row: lipgloss.NewStyle().
			PaddingLeft(2),

		RowCursor: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			PaddingLeft(2),

		Rank: lipgloss.NewStyle().
			Foreground(gold).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
