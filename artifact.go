package movielog

import (
	"bytes"
	"encoding/json"
	"slices"
)

// EncodeArtifact serializes entries as an indented JSON array.
// Field order follows the Entry struct, so equal input yields equal bytes.
func EncodeArtifact(entries []*Entry) ([]byte, error) {
	if entries == nil {
		entries = []*Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeArtifact parses an artifact produced by EncodeArtifact.
// Returns EINVALID if the data is not a valid artifact.
func DecodeArtifact(data []byte) ([]*Entry, error) {
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, Errorf(EINVALID, "malformed artifact: %s", err)
	}
	for _, e := range entries {
		if e == nil {
			return nil, Errorf(EINVALID, "malformed artifact: null entry")
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}
	}
	return entries, nil
}

// CompareWatchDate orders entries by watch date, newest first. Entries
// without a watch date sort after every dated entry.
func CompareWatchDate(a, b *Entry) int {
	switch {
	case a.WatchDate == nil && b.WatchDate == nil:
		return 0
	case a.WatchDate == nil:
		return 1
	case b.WatchDate == nil:
		return -1
	}
	return b.WatchDate.Compare(*a.WatchDate)
}

// SortArtifact stable-sorts entries into the default artifact order.
func SortArtifact(entries []*Entry) {
	slices.SortStableFunc(entries, CompareWatchDate)
}
