package mock

import "github.com/fwojciec/movielog"

var _ movielog.EntryRenderer = (*EntryRenderer)(nil)

// EntryRenderer is a mock implementation of movielog.EntryRenderer.
type EntryRenderer struct {
	RenderEntryFn func(entry *movielog.Entry, rank int) (string, error)
}

func (r *EntryRenderer) RenderEntry(entry *movielog.Entry, rank int) (string, error) {
	return r.RenderEntryFn(entry, rank)
}
