// Package svgopt shrinks the SVG dvisvgm produces before it is packed.
//
// With --no-fonts, dvisvgm converts every glyph to a path (some glyphs in
// TeX fonts are not reachable from Unicode code points, so it cannot keep
// them as text). A document that repeats a glyph therefore repeats its full
// outline, and complex glyphs bloat the SVG badly. Optimize identifies
// paths that are the same shape up to a translation, defines each shape
// once inside a <defs> section, and replaces every occurrence with a
// <use> reference carrying the translation. The uncompressed SVG can
// shrink to a fraction of its original size; the LZMA-compressed payload
// changes little, but the client decompresses and renders it faster.
//
// Path coordinates arrive as limited-precision decimals, so shape equality
// has to tolerate rounding. Coordinates are normalized against each path's
// first point and snapped to an eps grid before keying, which makes the
// whole pass a single map lookup per path.
package svgopt

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/texlens/texlens/internal/svgtree"
)

// DefaultEpsilon is the coordinate tolerance for shape matching, matched to
// the decimal precision dvisvgm prints path data with.
const DefaultEpsilon = 0.01

var ErrNoClosingTag = errors.New("svgopt: document has no closing svg tag")

const (
	stateStandalone = iota
	stateReferred
	stateReferring
)

// pathElem is one self-closed <path/> element: its byte span in the input,
// its dedup key (ancestor transforms, style attributes, and the normalized
// shape), and the absolute position of its first point.
type pathElem struct {
	start, end     int
	key            string
	shiftX, shiftY float64
	state          int
	ref            int
}

// Optimize rewrites svg so that paths sharing a shape and style are defined
// once under <defs> and referenced with <use> everywhere they occur. It
// returns the rewritten document and the number of paths replaced by
// references; an input with no duplicates is returned unchanged.
func Optimize(svg []byte, eps float64) ([]byte, int, error) {
	paths, err := scanPaths(svg, eps)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]int, len(paths))
	replaced := 0
	for i := range paths {
		p := &paths[i]
		if canonical, dup := seen[p.key]; dup {
			p.state = stateReferring
			p.ref = canonical
			paths[canonical].state = stateReferred
			replaced++
			continue
		}
		seen[p.key] = i
	}
	if replaced == 0 {
		return svg, 0, nil
	}

	var out, defs bytes.Buffer
	last := 0
	for i := range paths {
		p := paths[i]
		if p.state == stateStandalone {
			continue
		}
		out.Write(svg[last:p.start])
		switch p.state {
		case stateReferred:
			fmt.Fprintf(&out, `<use x="0" y="0" href="#%s"/>`, defID(i))
			fmt.Fprintf(&defs, `<g id="%s">`, defID(i))
			defs.Write(svg[p.start:p.end])
			defs.WriteString("</g>")
		case stateReferring:
			target := paths[p.ref]
			fmt.Fprintf(&out, `<use x="%.3f" y="%.3f" href="#%s"/>`,
				p.shiftX-target.shiftX, p.shiftY-target.shiftY, defID(p.ref))
		}
		last = p.end
	}
	out.Write(svg[last:])

	result := out.Bytes()
	idx := bytes.LastIndex(result, []byte("</svg>"))
	if idx < 0 {
		return nil, 0, ErrNoClosingTag
	}

	var final bytes.Buffer
	final.Grow(len(result) + defs.Len() + len("<defs></defs>"))
	final.Write(result[:idx])
	final.WriteString("<defs>")
	final.Write(defs.Bytes())
	final.WriteString("</defs>")
	final.Write(result[idx:])
	return final.Bytes(), replaced, nil
}

// defID names a <defs> entry. The XML spec admits most Unicode characters
// in ids, so subscript letters keep these away from any id dvisvgm emits.
func defID(i int) string {
	return fmt.Sprintf("ⱼₗ%d", i)
}

// scanPaths streams through the document once, recording every self-closed
// <path/> element together with the dedup key built from its ancestor
// transform chain, its non-geometry attributes, and its normalized shape.
// Paths with children, or whose data cannot be parsed, are left alone.
func scanPaths(svg []byte, eps float64) ([]pathElem, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))

	var (
		out        []pathElem
		pending    *pathElem
		transforms []string
	)

	for {
		startOff := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svgopt: scanning svg: %w", err)
		}
		endOff := dec.InputOffset()

		// The token right after a candidate start decides whether that
		// <path/> was self-closed: the decoder synthesizes a zero-width
		// EndElement for it immediately.
		if pending != nil {
			if end, ok := tok.(xml.EndElement); ok && end.Name.Local == "path" && startOff == endOff {
				out = append(out, *pending)
			}
			pending = nil
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "path" && t.Name.Space == "" {
				if elem, ok := newPathElem(t, int(startOff), int(endOff), transforms, eps); ok {
					pending = &elem
				}
			}
			transforms = append(transforms, transformAttr(t))
		case xml.EndElement:
			if len(transforms) > 0 {
				transforms = transforms[:len(transforms)-1]
			}
		}
	}

	return out, nil
}

// newPathElem builds the dedup candidate for one <path/> start tag.
// Ancestor transforms are part of the key: two textually identical paths
// under different transform chains are not the same shape on screen.
func newPathElem(t xml.StartElement, start, end int, transforms []string, eps float64) (pathElem, bool) {
	var (
		d     string
		style []string
	)
	for _, a := range t.Attr {
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + a.Name.Local
		}
		switch name {
		case "d":
			d = a.Value
		case "id":
		default:
			style = append(style, name+"="+a.Value)
		}
	}
	if d == "" {
		return pathElem{}, false
	}

	fp, ok := fingerprintPath(d, eps)
	if !ok {
		return pathElem{}, false
	}

	sort.Strings(style)
	key := strings.Join(transforms, ">") + "|" + strings.Join(style, ";") + "|" + fp.key
	return pathElem{start: start, end: end, key: key, shiftX: fp.shiftX, shiftY: fp.shiftY}, true
}

func transformAttr(t xml.StartElement) string {
	for _, a := range t.Attr {
		if a.Name.Local == "transform" && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

type fingerprint struct {
	key            string
	shiftX, shiftY float64
}

// fingerprintPath normalizes a path's data into a translation-invariant
// key: commands are absolutized (H/V become L), every coordinate is taken
// relative to the path's first point, and the result is snapped to the eps
// grid. The first point itself becomes the shift a <use> reference needs.
func fingerprintPath(d string, eps float64) (fingerprint, bool) {
	segs := svgtree.PathSegments(d)
	if len(segs) == 0 || eps <= 0 {
		return fingerprint{}, false
	}

	var (
		b              strings.Builder
		curX, curY     float64
		startX, startY float64
		shiftSet       bool
		sx, sy         float64
	)

	quant := func(v float64) int64 { return int64(math.Round(v / eps)) }
	point := func(x, y float64) {
		if !shiftSet {
			sx, sy, shiftSet = x, y, true
		}
		fmt.Fprintf(&b, " %d,%d", quant(x-sx), quant(y-sy))
	}

	for _, seg := range segs {
		rel := seg.Cmd >= 'a' && seg.Cmd <= 'z'
		cmd := seg.Cmd
		if rel {
			cmd -= 'a' - 'A'
		}

		switch cmd {
		case 'M', 'L':
			for i := 0; i+1 < len(seg.Args); i += 2 {
				x, y := seg.Args[i], seg.Args[i+1]
				if rel {
					x += curX
					y += curY
				}
				b.WriteByte(cmd)
				point(x, y)
				curX, curY = x, y
				if cmd == 'M' {
					startX, startY = x, y
				}
			}
		case 'H':
			for _, v := range seg.Args {
				x := v
				if rel {
					x += curX
				}
				b.WriteByte('L')
				point(x, curY)
				curX = x
			}
		case 'V':
			for _, v := range seg.Args {
				y := v
				if rel {
					y += curY
				}
				b.WriteByte('L')
				point(curX, y)
				curY = y
			}
		case 'C':
			for i := 0; i+5 < len(seg.Args); i += 6 {
				b.WriteByte('C')
				for j := 0; j < 6; j += 2 {
					x, y := seg.Args[i+j], seg.Args[i+j+1]
					if rel {
						x += curX
						y += curY
					}
					point(x, y)
					if j == 4 {
						curX, curY = x, y
					}
				}
			}
		case 'S', 'Q':
			for i := 0; i+3 < len(seg.Args); i += 4 {
				b.WriteByte(cmd)
				for j := 0; j < 4; j += 2 {
					x, y := seg.Args[i+j], seg.Args[i+j+1]
					if rel {
						x += curX
						y += curY
					}
					point(x, y)
					if j == 2 {
						curX, curY = x, y
					}
				}
			}
		case 'T':
			for i := 0; i+1 < len(seg.Args); i += 2 {
				x, y := seg.Args[i], seg.Args[i+1]
				if rel {
					x += curX
					y += curY
				}
				b.WriteByte('T')
				point(x, y)
				curX, curY = x, y
			}
		case 'A':
			for i := 0; i+6 < len(seg.Args); i += 7 {
				b.WriteByte('A')
				for j := 0; j < 5; j++ {
					fmt.Fprintf(&b, " %d", quant(seg.Args[i+j]))
				}
				x, y := seg.Args[i+5], seg.Args[i+6]
				if rel {
					x += curX
					y += curY
				}
				point(x, y)
				curX, curY = x, y
			}
		case 'Z':
			b.WriteByte('Z')
			curX, curY = startX, startY
		}
	}

	if !shiftSet {
		return fingerprint{}, false
	}
	return fingerprint{key: b.String(), shiftX: sx, shiftY: sy}, true
}
