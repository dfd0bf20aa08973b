// Package query answers filter, sort and ranking questions against an
// in-memory catalog artifact.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/movielog"
	"golang.org/x/text/cases"
)

// RankSize is the number of entries that receive a rank badge.
const RankSize = 3

// Engine holds a fixed artifact together with values derived from it.
// Derived values are computed once since the artifact never changes.
type Engine struct {
	entries []*movielog.Entry
	byID    map[string]*movielog.Entry
	tags    []string
	ranked  []*movielog.Entry
	ranks   map[string]int
}

// NewEngine creates an Engine over entries. The slice is copied; entries
// themselves are shared and must not be modified by the caller.
func NewEngine(entries []*movielog.Entry) *Engine {
	e := &Engine{
		entries: slices.Clone(entries),
		byID:    make(map[string]*movielog.Entry, len(entries)),
	}
	for _, entry := range e.entries {
		e.byID[entry.ID] = entry
	}
	e.tags = Vocabulary(e.entries)
	e.ranked = TopScores(e.entries, RankSize)
	e.ranks = make(map[string]int, len(e.ranked))
	for i, entry := range e.ranked {
		e.ranks[entry.ID] = i + 1
	}
	return e
}

// Len returns the number of entries in the artifact.
func (e *Engine) Len() int {
	return len(e.entries)
}

// Tags returns the distinct tags of the artifact in ascending order.
func (e *Engine) Tags() []string {
	return slices.Clone(e.tags)
}

// Ranked returns the top-scored entries in rank order.
func (e *Engine) Ranked() []*movielog.Entry {
	return slices.Clone(e.ranked)
}

// Rank returns the 1-based rank of the entry, if it is ranked.
// Ranks do not depend on any query.
func (e *Engine) Rank(id string) (int, bool) {
	r, ok := e.ranks[id]
	return r, ok
}

// Entry returns the entry with the given ID.
// Returns ENOTFOUND if no such entry exists.
func (e *Engine) Entry(id string) (*movielog.Entry, error) {
	entry, ok := e.byID[id]
	if !ok {
		return nil, movielog.Errorf(movielog.ENOTFOUND, "entry %q not found", id)
	}
	return entry, nil
}

// Find returns the entries matching q in q.Sort order. The result is a new
// slice on every call.
func (e *Engine) Find(q movielog.Query) []*movielog.Entry {
	folder := cases.Fold()
	search := folder.String(q.Search)

	out := make([]*movielog.Entry, 0, len(e.entries))
	for _, entry := range e.entries {
		if matches(folder, entry, search, q.Tags) {
			out = append(out, entry)
		}
	}

	if fn := Comparator(q.Sort); fn != nil {
		slices.SortStableFunc(out, fn)
	}
	return out
}

// matches reports whether the folded title contains search and the entry
// carries every selected tag.
func matches(folder cases.Caser, entry *movielog.Entry, search string, tags []string) bool {
	if search != "" && !strings.Contains(folder.String(entry.Title), search) {
		return false
	}
	for _, t := range tags {
		if !entry.HasTag(t) {
			return false
		}
	}
	return true
}

// Vocabulary returns every tag used by entries, deduplicated and sorted.
func Vocabulary(entries []*movielog.Entry) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, t := range e.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// TopScores returns the n highest-scored entries. Ties keep artifact order.
func TopScores(entries []*movielog.Entry, n int) []*movielog.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, Comparator(movielog.SortPointDesc))
	return sorted[:min(n, len(sorted))]
}

// Comparator returns the ordering for key, or nil for unknown keys.
func Comparator(key movielog.SortKey) func(a, b *movielog.Entry) int {
	switch key {
	case movielog.SortWatchDateDesc:
		return func(a, b *movielog.Entry) int { return cmp.Compare(dateKey(b.WatchDate), dateKey(a.WatchDate)) }
	case movielog.SortWatchDateAsc:
		return func(a, b *movielog.Entry) int { return cmp.Compare(dateKey(a.WatchDate), dateKey(b.WatchDate)) }
	case movielog.SortReleaseDateDesc:
		return func(a, b *movielog.Entry) int { return cmp.Compare(dateKey(b.ReleaseDate), dateKey(a.ReleaseDate)) }
	case movielog.SortReleaseDateAsc:
		return func(a, b *movielog.Entry) int { return cmp.Compare(dateKey(a.ReleaseDate), dateKey(b.ReleaseDate)) }
	case movielog.SortPointDesc:
		return func(a, b *movielog.Entry) int { return cmp.Compare(b.Score, a.Score) }
	case movielog.SortPointAsc:
		return func(a, b *movielog.Entry) int { return cmp.Compare(a.Score, b.Score) }
	}
	return nil
}

// dateKey returns Unix milliseconds, treating a missing date as the epoch.
// Undated entries therefore sort between pre-1970 and post-1970 dates.
func dateKey(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}
