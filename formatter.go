package movielog

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display layout for watch and release dates.
const DateLayout = "January 2, 2006"

// FormatDate formats an optional date for display, or "N/A" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format(DateLayout)
}

// FormatEntry formats an entry's detail view as markdown.
// Rank is 1-3 for ranked entries and 0 otherwise.
func FormatEntry(e *Entry, rank int) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(e.Title)
	b.WriteString("\n\n")

	if rank > 0 {
		b.WriteString("**#")
		b.WriteString(strconv.Itoa(rank))
		b.WriteString("** · ")
	}
	b.WriteString("Score: ")
	b.WriteString(e.Score.String())
	b.WriteString("/10\n\n")

	b.WriteString("- Watched: ")
	b.WriteString(FormatDate(e.WatchDate))
	b.WriteString("\n- Released: ")
	b.WriteString(FormatDate(e.ReleaseDate))
	if e.National != nil && *e.National != "" {
		b.WriteString("\n- Origin: ")
		b.WriteString(*e.National)
	}
	if len(e.Tags) > 0 {
		b.WriteString("\n- Tags: ")
		for i, t := range e.Tags {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("`" + t + "`")
		}
	}
	b.WriteString("\n")

	if e.Summary != "" {
		b.WriteString("\n> ")
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(e.Summary), "\n", "\n> "))
		b.WriteString("\n")
	}
	if e.Impression != "" {
		b.WriteString("\n## Impression\n\n")
		b.WriteString(strings.TrimSpace(e.Impression))
		b.WriteString("\n")
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	return b.String()
}
