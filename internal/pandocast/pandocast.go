// Package pandocast decodes and re-encodes the pandoc JSON AST and provides
// the primitives needed to walk and mutate it in place. Pandoc's AST has no
// fixed Go shape per node kind (a Math node's "c" is a pair of a math-type
// tag and a string; a Header's "c" is a triple of level, attributes, and an
// inline list) so nodes are kept as generic decoded JSON values rather than
// a typed AST.
package pandocast

import (
	"encoding/json"
	"fmt"
)

// Pandoc is the top-level document the host hands to the filter on stdin
// and expects back on stdout.
type Pandoc struct {
	APIVersion []int          `json:"pandoc-api-version"`
	Meta       map[string]any `json:"meta"`
	Blocks     []any          `json:"blocks"`
}

// Decode parses a pandoc JSON document.
func Decode(data []byte) (*Pandoc, error) {
	var p Pandoc
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("pandocast: decoding document: %w", err)
	}
	if p.Blocks == nil {
		p.Blocks = []any{}
	}
	return &p, nil
}

// Encode serialises the document back to pandoc JSON.
func (p *Pandoc) Encode() ([]byte, error) {
	out, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("pandocast: encoding document: %w", err)
	}
	return out, nil
}

// Path identifies a single slot in a node list (a Blocks array, or the
// decoded value of some node's "c" field) so the holder of a Path can
// replace that slot's value without the tree holding a pointer back to the
// fragment, and without the fragment holding a pointer into the tree. Both
// sides only ever reach the node through the same backing slice, satisfying
// the "origin is a sequence of child indices, never a back-pointer" rule.
type Path struct {
	slice []any
	index int
}

// NewPath captures a position within slice. slice must not be reallocated
// (grown past its capacity) after the Path is created, or Set will silently
// write to stale storage; extractor.go only ever builds Paths over slices
// it is done appending to.
func NewPath(slice []any, index int) Path {
	return Path{slice: slice, index: index}
}

// Valid reports whether this Path was built over a real slice, as opposed
// to being a zero value.
func (p Path) Valid() bool {
	return p.slice != nil
}

// Get returns the node currently occupying this slot.
func (p Path) Get() any {
	return p.slice[p.index]
}

// Set replaces the node occupying this slot.
func (p Path) Set(node any) {
	p.slice[p.index] = node
}

// Tag returns the "t" discriminator of a decoded AST node.
func Tag(node any) (string, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return "", false
	}
	t, ok := m["t"].(string)
	return t, ok
}

// Content returns the "c" payload of a decoded AST node.
func Content(node any) (any, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	c, ok := m["c"]
	return c, ok
}

// AsNodeList asserts that v decodes to a JSON array, as Block and Inline
// lists do.
func AsNodeList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// AsString asserts that v decodes to a JSON string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Clone returns a deep copy of p via an encode/decode round-trip, so a
// caller can extract Fragments and splice rewritten nodes into the copy
// without ever mutating the original, the basis of Filter.Render's atomic
// success-or-failure guarantee.
func Clone(p *Pandoc) (*Pandoc, error) {
	data, err := p.Encode()
	if err != nil {
		return nil, fmt.Errorf("pandocast: cloning document: %w", err)
	}
	return Decode(data)
}

// RawNode builds a RawBlock/RawInline node for the given format and text,
// the shape the rewriter produces both when splicing rendered images and
// when blanking hidden fragments.
func RawNode(tag, format, text string) map[string]any {
	return map[string]any{
		"t": tag,
		"c": []any{format, text},
	}
}
