package compiler

import (
	"slices"
	"sync"

	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// Meta is the code generation metadata collected by earlier stages.
type Meta struct {
	Sources  *Sources
	Comments *Comments
}

// NewMeta creates empty stores.
func NewMeta() *Meta {
	return &Meta{
		Sources:  NewSources(),
		Comments: NewComments(),
	}
}

// Sources registers original source files so source maps can name them and
// embed their content.
type Sources struct {
	mu      sync.Mutex
	content map[string]string
}

// NewSources creates an empty registry.
func NewSources() *Sources {
	return &Sources{content: make(map[string]string)}
}

// Register records the content of a source file, replacing any previous
// content under the same name.
func (s *Sources) Register(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[name] = content
}

// Content returns the registered content of name.
func (s *Sources) Content(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content[name]
	return c, ok
}

// Len returns the number of registered sources.
func (s *Sources) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.content)
}

// Comment is a comment in its source form, including delimiters,
// e.g. "// note" or "/* note */".
type Comment struct {
	Text string
}

// IsBlock reports whether the comment is a block comment.
func (c Comment) IsBlock() bool {
	return len(c.Text) >= 2 && c.Text[:2] == "/*"
}

// Comments stores the comments attached to tree nodes, keyed by node
// location.
type Comments struct {
	mu       sync.Mutex
	leading  map[jsast.Loc][]Comment
	trailing map[jsast.Loc][]Comment
}

// NewComments creates an empty store.
func NewComments() *Comments {
	return &Comments{
		leading:  make(map[jsast.Loc][]Comment),
		trailing: make(map[jsast.Loc][]Comment),
	}
}

// AddLeading attaches a comment printed before the node at loc.
func (c *Comments) AddLeading(loc jsast.Loc, comment Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leading[loc] = append(c.leading[loc], comment)
}

// AddTrailing attaches a comment printed after the node at loc.
func (c *Comments) AddTrailing(loc jsast.Loc, comment Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trailing[loc] = append(c.trailing[loc], comment)
}

// Leading returns the comments printed before the node at loc.
func (c *Comments) Leading(loc jsast.Loc) []Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.leading[loc])
}

// Trailing returns the comments printed after the node at loc.
func (c *Comments) Trailing(loc jsast.Loc) []Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.trailing[loc])
}
