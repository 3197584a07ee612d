package svgtree

import (
	"math"
	"strconv"
)

// PathBBox computes the tight axis-aligned bounding box of an SVG path "d"
// attribute, supporting the M/L/H/V/C/S/Q/T/Z commands (absolute and
// relative) that dvisvgm emits for glyph outlines and TikZ vector paths.
// Cubic and quadratic Bezier segments are bounded by solving for the
// parameter t where the derivative is zero (the control polygon alone
// over-approximates the box; this refines it to the curve's true extrema).
func PathBBox(d string) (Rect, bool) {
	segs := PathSegments(d)
	if len(segs) == 0 {
		return Rect{}, false
	}

	var (
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		found      bool
		cur        point
		start      point
		prevCtrl   point
		prevCmd    byte
	)

	include := func(p point) {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
		found = true
	}

	for _, seg := range segs {
		cmd := seg.Cmd
		args := seg.Args
		rel := cmd >= 'a' && cmd <= 'z'
		upper := toUpper(cmd)

		switch upper {
		case 'M':
			for i := 0; i+1 < len(args); i += 2 {
				p := point{args[i], args[i+1]}
				if rel {
					p.x += cur.x
					p.y += cur.y
				}
				cur = p
				start = p
				include(p)
			}
		case 'L':
			for i := 0; i+1 < len(args); i += 2 {
				p := point{args[i], args[i+1]}
				if rel {
					p.x += cur.x
					p.y += cur.y
				}
				include(p)
				cur = p
			}
		case 'H':
			for _, x := range args {
				p := cur
				if rel {
					p.x += x
				} else {
					p.x = x
				}
				include(p)
				cur = p
			}
		case 'V':
			for _, y := range args {
				p := cur
				if rel {
					p.y += y
				} else {
					p.y = y
				}
				include(p)
				cur = p
			}
		case 'C':
			for i := 0; i+5 < len(args); i += 6 {
				c1 := offset(point{args[i], args[i+1]}, cur, rel)
				c2 := offset(point{args[i+2], args[i+3]}, cur, rel)
				end := offset(point{args[i+4], args[i+5]}, cur, rel)
				includeCubicBBox(cur, c1, c2, end, include)
				prevCtrl = c2
				cur = end
			}
		case 'S':
			for i := 0; i+3 < len(args); i += 4 {
				c1 := reflectControl(cur, prevCtrl, prevCmd)
				c2 := offset(point{args[i], args[i+1]}, cur, rel)
				end := offset(point{args[i+2], args[i+3]}, cur, rel)
				includeCubicBBox(cur, c1, c2, end, include)
				prevCtrl = c2
				cur = end
			}
		case 'Q':
			for i := 0; i+3 < len(args); i += 4 {
				c1 := offset(point{args[i], args[i+1]}, cur, rel)
				end := offset(point{args[i+2], args[i+3]}, cur, rel)
				includeQuadraticBBox(cur, c1, end, include)
				prevCtrl = c1
				cur = end
			}
		case 'T':
			for i := 0; i+1 < len(args); i += 2 {
				c1 := reflectControl(cur, prevCtrl, prevCmd)
				end := offset(point{args[i], args[i+1]}, cur, rel)
				includeQuadraticBBox(cur, c1, end, include)
				prevCtrl = c1
				cur = end
			}
		case 'Z':
			cur = start
			include(cur)
		case 'A':
			// dvisvgm never emits elliptical arcs; bound by the endpoint only.
			for i := 0; i+6 < len(args); i += 7 {
				end := offset(point{args[i+5], args[i+6]}, cur, rel)
				include(end)
				cur = end
			}
		}
		prevCmd = upper
	}

	if !found {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

type point struct{ x, y float64 }

func offset(p, cur point, rel bool) point {
	if rel {
		return point{p.x + cur.x, p.y + cur.y}
	}
	return p
}

// reflectControl mirrors the previous curve's final control point through
// cur, the rule S/T use when the preceding command was also a C/S or Q/T.
func reflectControl(cur, prevCtrl point, prevCmd byte) point {
	if prevCmd != 'C' && prevCmd != 'S' && prevCmd != 'Q' && prevCmd != 'T' {
		return cur
	}
	return point{2*cur.x - prevCtrl.x, 2*cur.y - prevCtrl.y}
}

func includeCubicBBox(p0, p1, p2, p3 point, include func(point)) {
	include(p0)
	include(p3)
	for _, t := range cubicExtrema(p0.x, p1.x, p2.x, p3.x) {
		include(point{x: cubicAt(p0.x, p1.x, p2.x, p3.x, t), y: cubicAt(p0.y, p1.y, p2.y, p3.y, t)})
	}
	for _, t := range cubicExtrema(p0.y, p1.y, p2.y, p3.y) {
		include(point{x: cubicAt(p0.x, p1.x, p2.x, p3.x, t), y: cubicAt(p0.y, p1.y, p2.y, p3.y, t)})
	}
}

func includeQuadraticBBox(p0, p1, p2 point, include func(point)) {
	include(p0)
	include(p2)
	for _, t := range quadraticExtrema(p0.x, p1.x, p2.x) {
		include(point{x: quadraticAt(p0.x, p1.x, p2.x, t), y: quadraticAt(p0.y, p1.y, p2.y, t)})
	}
	for _, t := range quadraticExtrema(p0.y, p1.y, p2.y) {
		include(point{x: quadraticAt(p0.x, p1.x, p2.x, t), y: quadraticAt(p0.y, p1.y, p2.y, t)})
	}
}

// cubicExtrema returns the in-(0,1) roots of the derivative of a cubic
// Bezier's single-axis component, found via the quadratic formula.
func cubicExtrema(p0, p1, p2, p3 float64) []float64 {
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0

	var roots []float64
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) > 1e-12 {
			t := -c / b
			if t > 0 && t < 1 {
				roots = append(roots, t)
			}
		}
		return roots
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return roots
	}
	sq := math.Sqrt(disc)
	for _, t := range []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)} {
		if t > 0 && t < 1 {
			roots = append(roots, t)
		}
	}
	return roots
}

func cubicAt(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

func quadraticExtrema(p0, p1, p2 float64) []float64 {
	denom := p0 - 2*p1 + p2
	if math.Abs(denom) < 1e-12 {
		return nil
	}
	t := (p0 - p1) / denom
	if t > 0 && t < 1 {
		return []float64{t}
	}
	return nil
}

func quadraticAt(p0, p1, p2, t float64) float64 {
	u := 1 - t
	return u*u*p0 + 2*u*t*p1 + t*t*p2
}

// PathSegment is one command group of an SVG path data attribute: the
// command byte (M, l, C, ...) and its numeric arguments.
type PathSegment struct {
	Cmd  byte
	Args []float64
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// PathSegments splits an SVG path data string into command+argument groups.
func PathSegments(d string) []PathSegment {
	var segs []PathSegment
	i := 0
	n := len(d)
	isCmd := func(b byte) bool {
		switch toUpper(b) {
		case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'Z', 'A':
			return true
		}
		return false
	}

	for i < n {
		for i < n && isSpaceOrComma(d[i]) {
			i++
		}
		if i >= n {
			break
		}
		if !isCmd(d[i]) {
			i++
			continue
		}
		cmd := d[i]
		i++
		var args []float64
		for i < n {
			for i < n && isSpaceOrComma(d[i]) {
				i++
			}
			if i >= n || isCmd(d[i]) {
				break
			}
			start := i
			if d[i] == '+' || d[i] == '-' {
				i++
			}
			for i < n && (isDigit(d[i]) || d[i] == '.') {
				i++
			}
			if i < n && (d[i] == 'e' || d[i] == 'E') {
				i++
				if i < n && (d[i] == '+' || d[i] == '-') {
					i++
				}
				for i < n && isDigit(d[i]) {
					i++
				}
			}
			if i == start {
				i++
				continue
			}
			v, err := strconv.ParseFloat(d[start:i], 64)
			if err != nil {
				continue
			}
			args = append(args, v)
		}
		segs = append(segs, PathSegment{Cmd: cmd, Args: args})
	}
	return segs
}

func isSpaceOrComma(b byte) bool {
	return b == ' ' || b == ',' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
