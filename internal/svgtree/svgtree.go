// Package svgtree decodes the narrow subset of SVG dvisvgm emits (path, use,
// image, g, and text/glyph path elements with matrix/translate/scale/rotate
// transform lists) into a small typed tree and computes tight axis-aligned
// bounding boxes in document space. No repo in the corpus ships an SVG
// geometry library with path-bbox math, so this is written directly against
// encoding/xml rather than reached for from a rasterizer dependency.
package svgtree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
)

var ErrNoRoot = errors.New("svgtree: document has no root element")

// Rect is an axis-aligned bounding box in document units.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether r and other overlap, inclusive of touching edges.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && other.X <= r.X+r.W &&
		r.Y <= other.Y+other.H && other.Y <= r.Y+r.H
}

// Union returns the smallest Rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.W, other.X+other.W)
	y1 := math.Max(r.Y+r.H, other.Y+other.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inflate grows r by eps on every side.
func (r Rect) Inflate(eps float64) Rect {
	return Rect{X: r.X - eps, Y: r.Y - eps, W: r.W + 2*eps, H: r.H + 2*eps}
}

// Intersect returns the overlapping region of r and other. The second
// return value is false when the rectangles do not overlap.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.W, other.X+other.W)
	y1 := math.Min(r.Y+r.H, other.Y+other.H)
	if x1 < x0 || y1 < y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Element is a decoded SVG node. Transform is the matrix accumulated from
// every transform attribute from the root down to this element, so BBox
// never needs to walk back up the tree.
type Element struct {
	Tag       string
	Attrs     map[string]string
	Transform Matrix
	Children  []*Element
}

type rawNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []rawNode  `xml:",any"`
}

// Decode parses an SVG document and returns its root element with every
// descendant's Transform pre-composed against Identity.
func Decode(data []byte) (*Element, error) {
	var root rawNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("svgtree: decoding: %w", err)
	}
	if root.XMLName.Local == "" {
		return nil, ErrNoRoot
	}
	return build(root, Identity), nil
}

func build(n rawNode, parent Matrix) *Element {
	el := &Element{
		Tag:   n.XMLName.Local,
		Attrs: make(map[string]string, len(n.Attrs)),
	}
	for _, a := range n.Attrs {
		el.Attrs[a.Name.Local] = a.Value
	}

	local := Identity
	if ts, ok := el.Attrs["transform"]; ok {
		local = ParseTransform(ts)
	}
	el.Transform = parent.Mul(local)

	for _, child := range n.Nodes {
		if child.XMLName.Local == "" {
			continue
		}
		el.Children = append(el.Children, build(child, el.Transform))
	}
	return el
}

// ViewBox parses el's viewBox attribute. Returns false when the attribute
// is absent or malformed.
func ViewBox(el *Element) (Rect, bool) {
	raw, ok := el.Attrs["viewBox"]
	if !ok {
		return Rect{}, false
	}
	vals := parseFloatList(raw)
	if len(vals) != 4 {
		return Rect{}, false
	}
	return Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, true
}

// Walk calls fn for el and every descendant, depth-first.
func Walk(el *Element, fn func(*Element)) {
	if el == nil {
		return
	}
	fn(el)
	for _, c := range el.Children {
		Walk(c, fn)
	}
}

// BBox computes the tight axis-aligned bounding box, in document space, of
// el and every descendant that renders a visible primitive: path, use, and
// image elements (dvisvgm represents every glyph as a path, so text runs
// never need separate handling). Returns false if el contains no such
// primitive.
func BBox(el *Element) (Rect, bool) {
	var (
		acc   Rect
		found bool
	)
	Walk(el, func(e *Element) {
		r, ok := primitiveBBox(e)
		if !ok {
			return
		}
		if !found {
			acc = r
			found = true
			return
		}
		acc = acc.Union(r)
	})
	return acc, found
}

// Primitives collects the document-space bounding box of every visible
// primitive in el and its descendants, without unioning them, so a caller
// can test each one individually against a region of interest before
// deciding which to keep: the Refiner's intersect-then-union rule
// needs the per-primitive boxes, not BBox's single union.
func Primitives(el *Element) []Rect {
	var out []Rect
	Walk(el, func(e *Element) {
		if r, ok := primitiveBBox(e); ok {
			out = append(out, r)
		}
	})
	return out
}

func primitiveBBox(el *Element) (Rect, bool) {
	switch el.Tag {
	case "path":
		d, ok := el.Attrs["d"]
		if !ok {
			return Rect{}, false
		}
		r, ok := PathBBox(d)
		if !ok {
			return Rect{}, false
		}
		return el.Transform.ApplyRect(r), true
	case "use", "image":
		x := parseFloatAttr(el.Attrs["x"])
		y := parseFloatAttr(el.Attrs["y"])
		w := parseFloatAttr(el.Attrs["width"])
		h := parseFloatAttr(el.Attrs["height"])
		if w == 0 && h == 0 {
			return Rect{}, false
		}
		return el.Transform.ApplyRect(Rect{X: x, Y: y, W: w, H: h}), true
	default:
		return Rect{}, false
	}
}

func parseFloatAttr(s string) float64 {
	if s == "" {
		return 0
	}
	var f float64
	_, _ = fmt.Sscanf(s, "%g", &f)
	return f
}
