package query

import (
	"slices"

	"github.com/fwojciec/movielog"
)

// Session holds the query state of one browsing session and exposes the
// mutators used by the presentation layer. A Session is not safe for
// concurrent use.
type Session struct {
	engine   *Engine
	query    movielog.Query
	selected string

	cacheKey string
	cache    []*movielog.Entry
	cached   bool
}

// NewSession creates a Session over engine with the default query.
func NewSession(engine *Engine) *Session {
	return &Session{
		engine: engine,
		query:  movielog.DefaultQuery(),
	}
}

// Engine returns the underlying engine.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Query returns a copy of the current query state.
func (s *Session) Query() movielog.Query {
	q := s.query
	q.Tags = slices.Clone(q.Tags)
	return q
}

// SetQuery replaces the whole query state.
func (s *Session) SetQuery(q movielog.Query) {
	q.Tags = slices.Clone(q.Tags)
	s.query = q
}

// SetSearch sets the title search text.
func (s *Session) SetSearch(text string) {
	s.query.Search = text
}

// SetSort sets the projection order. Unknown keys keep artifact order.
func (s *Session) SetSort(key movielog.SortKey) {
	s.query.Sort = key
}

// ToggleTag removes tag from the selection if present, adds it otherwise.
func (s *Session) ToggleTag(tag string) {
	s.query = s.query.ToggleTag(tag)
}

// SelectEntry opens the detail view of the entry with the given ID.
// Returns ENOTFOUND if no such entry exists.
func (s *Session) SelectEntry(id string) error {
	if _, err := s.engine.Entry(id); err != nil {
		return err
	}
	s.selected = id
	return nil
}

// CloseEntry closes the detail view.
func (s *Session) CloseEntry() {
	s.selected = ""
}

// Selected returns the entry whose detail view is open, if any.
func (s *Session) Selected() (*movielog.Entry, bool) {
	if s.selected == "" {
		return nil, false
	}
	entry, err := s.engine.Entry(s.selected)
	if err != nil {
		return nil, false
	}
	return entry, true
}

// Entries returns the filtered and sorted projection for the current query.
// The projection is recomputed only when the query changes.
func (s *Session) Entries() []*movielog.Entry {
	key := s.query.Key()
	if !s.cached || key != s.cacheKey {
		s.cache = s.engine.Find(s.query)
		s.cacheKey = key
		s.cached = true
	}
	return slices.Clone(s.cache)
}
