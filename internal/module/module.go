// Package module defines the resolved, transformed modules handed to code
// generation and the chunk pots that group them.
package module

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// ID identifies a module by its resolved path relative to the project root,
// for example "./src/index.js".
type ID string

// Ast is the content of a module. It is exactly one of *ScriptAst, *StyleAst
// or NoAst.
type Ast interface{ isAst() }

func (*ScriptAst) isAst() {}
func (*StyleAst) isAst()  {}
func (noAst) isAst()      {}

// ScriptAst is a JavaScript module body.
type ScriptAst struct {
	AST jsast.AST
}

// StyleAst is a stylesheet module. Its content does not take part in chunk
// code generation.
type StyleAst struct {
	Source string
}

type noAst struct{}

// NoAst marks a module whose tree was never produced.
var NoAst Ast = noAst{}

// Module is a module after transformation. It is immutable once built.
type Module struct {
	ID ID
	// Ast is the transformed tree; nil is treated like NoAst.
	Ast Ast
	// ContentHash fingerprints the raw source bytes.
	ContentHash string
	// RawHash fingerprints the post-transform state.
	RawHash uint64
}

// CacheKey is the key under which the module's wrapped function is memoized.
func (m *Module) CacheKey() string {
	return fmt.Sprintf("%s.%x", m.ContentHash, m.RawHash)
}

// Script creates a script module.
func Script(id ID, ast jsast.AST, contentHash string, rawHash uint64) *Module {
	return &Module{ID: id, Ast: &ScriptAst{AST: ast}, ContentHash: contentHash, RawHash: rawHash}
}

// Style creates a stylesheet module.
func Style(id ID, source, contentHash string, rawHash uint64) *Module {
	return &Module{ID: id, Ast: &StyleAst{Source: source}, ContentHash: contentHash, RawHash: rawHash}
}

// ChunkPot is a chunk's id and its modules in insertion order, ready for
// final serialization.
type ChunkPot struct {
	ChunkID string
	order   []ID
	modules map[ID]*Module
}

// NewChunkPot creates an empty pot.
func NewChunkPot(chunkID string) *ChunkPot {
	return &ChunkPot{
		ChunkID: chunkID,
		modules: make(map[ID]*Module),
	}
}

// Add inserts m. Adding an id twice replaces the module but keeps its
// original position.
func (p *ChunkPot) Add(m *Module) {
	if _, ok := p.modules[m.ID]; !ok {
		p.order = append(p.order, m.ID)
	}
	p.modules[m.ID] = m
}

// Get returns the module with the given id.
func (p *ChunkPot) Get(id ID) (*Module, bool) {
	m, ok := p.modules[id]
	return m, ok
}

// Len returns the number of modules.
func (p *ChunkPot) Len() int {
	return len(p.order)
}

// IDs returns module ids in insertion order.
func (p *ChunkPot) IDs() []ID {
	return slices.Clone(p.order)
}

// SortedIDs returns module ids in ascending byte order.
func (p *ChunkPot) SortedIDs() []ID {
	ids := slices.Clone(p.order)
	slices.Sort(ids)
	return ids
}
