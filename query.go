package movielog

import (
	"slices"
	"strings"
)

// SortKey selects the ordering of a query projection.
type SortKey string

// SortKey constants for Query.
const (
	SortWatchDateDesc   SortKey = "watch_date_desc"
	SortWatchDateAsc    SortKey = "watch_date_asc"
	SortReleaseDateDesc SortKey = "release_date_desc"
	SortReleaseDateAsc  SortKey = "release_date_asc"
	SortPointDesc       SortKey = "point_desc"
	SortPointAsc        SortKey = "point_asc"
)

// SortKeys lists every supported sort key in menu order.
var SortKeys = []SortKey{
	SortWatchDateDesc,
	SortWatchDateAsc,
	SortPointDesc,
	SortPointAsc,
	SortReleaseDateDesc,
	SortReleaseDateAsc,
}

// ParseSortKey returns the SortKey named by s.
// Returns EINVALID for unknown keys.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	if !slices.Contains(SortKeys, k) {
		return "", Errorf(EINVALID, "unknown sort key %q", s)
	}
	return k, nil
}

// Reverse returns the key with the opposite direction.
func (k SortKey) Reverse() SortKey {
	if base, ok := strings.CutSuffix(string(k), "_desc"); ok {
		return SortKey(base + "_asc")
	}
	if base, ok := strings.CutSuffix(string(k), "_asc"); ok {
		return SortKey(base + "_desc")
	}
	return k
}

// Label returns a human-readable description of the key.
func (k SortKey) Label() string {
	switch k {
	case SortWatchDateDesc:
		return "Watch Date (Newest)"
	case SortWatchDateAsc:
		return "Watch Date (Oldest)"
	case SortPointDesc:
		return "Score (High to Low)"
	case SortPointAsc:
		return "Score (Low to High)"
	case SortReleaseDateDesc:
		return "Release Date (Newest)"
	case SortReleaseDateAsc:
		return "Release Date (Oldest)"
	}
	return string(k)
}

// Next returns the key following k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Query represents the filter and sort state applied to the catalog.
type Query struct {
	// Search is matched case-insensitively against entry titles.
	Search string `json:"search"`

	// Sort selects the projection order.
	Sort SortKey `json:"sort"`

	// Tags must all be present on an entry for it to match.
	Tags []string `json:"tags"`
}

// DefaultQuery returns the initial query state of a session.
func DefaultQuery() Query {
	return Query{Sort: SortWatchDateDesc}
}

// HasTag reports whether tag is selected.
func (q Query) HasTag(tag string) bool {
	return slices.Contains(q.Tags, tag)
}

// ToggleTag returns a copy of q with tag removed if selected, added otherwise.
func (q Query) ToggleTag(tag string) Query {
	if q.HasTag(tag) {
		q.Tags = slices.DeleteFunc(slices.Clone(q.Tags), func(t string) bool { return t == tag })
		return q
	}
	q.Tags = append(slices.Clone(q.Tags), tag)
	return q
}

// Key returns a canonical string for the query. Queries selecting the same
// tag set in a different order share a key.
func (q Query) Key() string {
	tags := slices.Clone(q.Tags)
	slices.Sort(tags)
	tags = slices.Compact(tags)
	return q.Search + "\x00" + string(q.Sort) + "\x00" + strings.Join(tags, "\x00")
}
