package texlens

import (
	"fmt"

	"github.com/texlens/texlens/internal/svgtree"
)

// texToSVGScale converts TeX points (1/72.27 in) into the CSS-point user
// units (1/72 in) dvisvgm emits SVG coordinates in.
const texToSVGScale = 72.0 / 72.27

// SVGDoc is the generated SVG decoded once for the whole refinement stage:
// the document-space bounding box of every renderable primitive, plus the
// root viewBox origin.
type SVGDoc struct {
	primitives []svgtree.Rect
	originX    float64
	originY    float64
}

// DecodeSVG parses the generated SVG for use by Project and Refine.
func DecodeSVG(svg []byte) (*SVGDoc, error) {
	root, err := svgtree.Decode(svg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefiner, err)
	}
	doc := &SVGDoc{primitives: svgtree.Primitives(root)}
	if vb, ok := svgtree.ViewBox(root); ok {
		doc.originX, doc.originY = vb.X, vb.Y
	}
	return doc, nil
}

// Project converts page-space regions (TeX points, origin at the top-left
// of the page) into the SVG's own coordinate space: scaled into CSS points
// and offset by the root viewBox origin. SyncTeX and dvisvgm describe the
// same page, but in different units and with different origins, and the
// emitted svgView(viewBox(...)) crops address the SVG's space.
func (d *SVGDoc) Project(regions map[FragmentID]LocatedRegion) map[FragmentID]LocatedRegion {
	out := make(map[FragmentID]LocatedRegion, len(regions))
	for id, r := range regions {
		out[id] = LocatedRegion{
			FragmentID: r.FragmentID,
			Page:       r.Page,
			X:          r.X*texToSVGScale + d.originX,
			Y:          r.Y*texToSVGScale + d.originY,
			W:          r.W * texToSVGScale,
			H:          r.H * texToSVGScale,
			BaselineY:  r.BaselineY*texToSVGScale + d.originY,
		}
	}
	return out
}

// Refine tightens each already-projected LocatedRegion: it keeps the
// primitives whose bbox intersects the region inflated by eps, unions
// those boxes, and intersects the union with the inflated region. An empty
// result (no primitive intersects, or the intersection is degenerate)
// falls back to the projected LocatedRegion unchanged, a conservative
// choice that prevents disappearing output.
// Refine is idempotent: running it again on an already-tight region keeps
// the same primitive set and therefore the same result.
func (d *SVGDoc) Refine(regions map[FragmentID]LocatedRegion, eps float64) map[FragmentID]RefinedRegion {
	out := make(map[FragmentID]RefinedRegion, len(regions))
	for id, loc := range regions {
		out[id] = refineOne(loc, d.primitives, eps)
	}
	return out
}

func refineOne(loc LocatedRegion, primitives []svgtree.Rect, eps float64) RefinedRegion {
	located := svgtree.Rect{X: loc.X, Y: loc.Y, W: loc.W, H: loc.H}
	inflated := located.Inflate(eps)

	var (
		union svgtree.Rect
		found bool
	)
	for _, p := range primitives {
		if !p.Intersects(inflated) {
			continue
		}
		if !found {
			union, found = p, true
			continue
		}
		union = union.Union(p)
	}

	if found {
		if tight, ok := union.Intersect(inflated); ok && tight.W > 0 && tight.H > 0 {
			return RefinedRegion{FragmentID: loc.FragmentID, Page: loc.Page, X: tight.X, Y: tight.Y, W: tight.W, H: tight.H}
		}
	}

	return RefinedRegion{FragmentID: loc.FragmentID, Page: loc.Page, X: loc.X, Y: loc.Y, W: loc.W, H: loc.H}
}
