// Package yaml parses markdown source documents with YAML front matter.
package yaml

import (
	"bytes"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/movielog"
	"gopkg.in/yaml.v3"
)

// Ensure Parser implements movielog.DocumentParser at compile time.
var _ movielog.DocumentParser = (*Parser)(nil)

const fence = "---"

// Parser parses "---" fenced YAML front matter followed by a markdown body.
type Parser struct{}

// NewParser returns a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// frontMatter mirrors the supported front-matter keys.
type frontMatter struct {
	Title       *string     `yaml:"title"`
	Published   *bool       `yaml:"published"`
	Tags        tagList     `yaml:"tags"`
	National    string      `yaml:"national"`
	CoverImage  string      `yaml:"cover_image"`
	ReleaseDate *dateValue  `yaml:"release_date"`
	WatchDate   *dateValue  `yaml:"watch_date"`
	Point       *scoreValue `yaml:"point"`
	Summary     string      `yaml:"summary"`
	Impression  string      `yaml:"impression"`
}

// ParseDocument splits raw into front matter and body and decodes the
// front matter. A document without an opening fence has no metadata.
func (p *Parser) ParseDocument(raw *movielog.RawDocument) (*movielog.Document, error) {
	header, body, err := Split(raw.Content)
	if err != nil {
		return nil, err
	}

	doc := &movielog.Document{Slug: raw.Slug, Body: body}
	if len(bytes.TrimSpace(header)) == 0 {
		return doc, nil
	}

	// Unpublished documents are dropped before any field is converted, so
	// drafts may hold placeholder values.
	var flag struct {
		Published *bool `yaml:"published"`
	}
	if err := yaml.Unmarshal(header, &flag); err != nil {
		return nil, movielog.Errorf(movielog.EINVALID, "invalid front matter: %s", err)
	}
	if flag.Published != nil && !*flag.Published {
		doc.Metadata.Published = flag.Published
		return doc, nil
	}

	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, movielog.Errorf(movielog.EINVALID, "invalid front matter: %s", err)
	}

	doc.Metadata = movielog.Metadata{
		Title:      fm.Title,
		Published:  fm.Published,
		Tags:       fm.Tags,
		National:   fm.National,
		CoverImage: fm.CoverImage,
		Summary:    fm.Summary,
		Impression: fm.Impression,
	}
	if fm.ReleaseDate != nil && !fm.ReleaseDate.IsZero() {
		t := time.Time(*fm.ReleaseDate)
		doc.Metadata.ReleaseDate = &t
	}
	if fm.WatchDate != nil && !fm.WatchDate.IsZero() {
		t := time.Time(*fm.WatchDate)
		doc.Metadata.WatchDate = &t
	}
	if fm.Point != nil && fm.Point.set {
		s := fm.Point.score
		doc.Metadata.Score = &s
	}
	return doc, nil
}

// Split separates the front-matter block from the body. The body starts
// after the line holding the closing fence and keeps its original bytes.
// Returns EINVALID if the opening fence is never closed.
func Split(content []byte) (header []byte, body string, err error) {
	text := string(bytes.TrimPrefix(content, []byte("\ufeff")))

	first, rest, found := strings.Cut(text, "\n")
	if !isFence(first) {
		return nil, text, nil
	}
	if !found {
		return nil, "", movielog.Errorf(movielog.EINVALID, "unterminated front matter")
	}

	var lines []string
	for {
		line, next, more := strings.Cut(rest, "\n")
		if isFence(line) {
			return []byte(strings.Join(lines, "\n")), next, nil
		}
		if !more {
			return nil, "", movielog.Errorf(movielog.EINVALID, "unterminated front matter")
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		rest = next
	}
}

func isFence(line string) bool {
	return strings.TrimRight(line, " \t\r") == fence
}

// tagList accepts either a sequence of tags or a single scalar tag.
type tagList []string

func (l *tagList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			*l = nil
			return nil
		}
		*l = tagList{node.Value}
		return nil
	case yaml.SequenceNode:
		tags := make(tagList, 0, len(node.Content))
		for _, n := range node.Content {
			if n.Kind != yaml.ScalarNode {
				return movielog.Errorf(movielog.EINVALID, "line %d: tags must be strings", n.Line)
			}
			if n.Value == "" {
				continue
			}
			tags = append(tags, n.Value)
		}
		*l = tags
		return nil
	}
	return movielog.Errorf(movielog.EINVALID, "line %d: tags must be a list", node.Line)
}

// dateValue parses dates in any layout dateparse understands.
// Values without a zone are read as UTC.
type dateValue time.Time

func (d *dateValue) IsZero() bool {
	return time.Time(*d).IsZero()
}

func (d *dateValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return movielog.Errorf(movielog.EINVALID, "line %d: date must be a scalar", node.Line)
	}
	v := strings.TrimSpace(node.Value)
	if node.Tag == "!!null" || v == "" {
		*d = dateValue{}
		return nil
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return movielog.Errorf(movielog.EINVALID, "line %d: invalid date %q", node.Line, v)
	}
	*d = dateValue(t.UTC())
	return nil
}

// scoreValue accepts numeric and string scores.
type scoreValue struct {
	score movielog.Score
	set   bool
}

func (s *scoreValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return movielog.Errorf(movielog.EINVALID, "line %d: point must be a scalar", node.Line)
	}
	if node.Tag == "!!null" || strings.TrimSpace(node.Value) == "" {
		*s = scoreValue{}
		return nil
	}
	*s = scoreValue{score: movielog.ParseScore(node.Value), set: true}
	return nil
}
