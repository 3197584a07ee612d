package svgtree

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Matrix is a 2x3 affine transform:
//
//	[ A C E ]
//	[ B D F ]
//	[ 0 0 1 ]
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the no-op transform.
var Identity = Matrix{A: 1, D: 1}

// Mul composes m and other so that applying the result equals applying
// other first, then m, the same order a parent/child transform chain
// accumulates in SVG (child matrices are post-multiplied onto the parent's).
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

// Apply transforms a point through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ApplyRect transforms every corner of r through m and returns the
// resulting axis-aligned bounding box (m may rotate or skew, so the
// transformed rectangle is not itself axis-aligned in general).
func (m Matrix) ApplyRect(r Rect) Rect {
	corners := [4][2]float64{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X, r.Y + r.H},
		{r.X + r.W, r.Y + r.H},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := m.Apply(c[0], c[1])
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

var transformFuncRe = regexp.MustCompile(`(matrix|translate|scale|rotate)\s*\(([^)]*)\)`)

// ParseTransform parses an SVG transform attribute value (a space- or
// comma-separated list of matrix/translate/scale/rotate function calls) into
// a single composed Matrix, applied left to right.
func ParseTransform(s string) Matrix {
	m := Identity
	for _, match := range transformFuncRe.FindAllStringSubmatch(s, -1) {
		fn := match[1]
		args := parseFloatList(match[2])
		m = m.Mul(transformFunc(fn, args))
	}
	return m
}

func transformFunc(fn string, args []float64) Matrix {
	switch fn {
	case "matrix":
		if len(args) != 6 {
			return Identity
		}
		return Matrix{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]}
	case "translate":
		tx, ty := arg(args, 0), arg(args, 1)
		return Matrix{A: 1, D: 1, E: tx, F: ty}
	case "scale":
		sx := arg(args, 0)
		sy := sx
		if len(args) > 1 {
			sy = args[1]
		}
		return Matrix{A: sx, D: sy}
	case "rotate":
		if len(args) == 0 {
			return Identity
		}
		theta := args[0] * math.Pi / 180
		cos, sin := math.Cos(theta), math.Sin(theta)
		rot := Matrix{A: cos, B: sin, C: -sin, D: cos}
		if len(args) == 3 {
			cx, cy := args[1], args[2]
			t1 := Matrix{A: 1, D: 1, E: cx, F: cy}
			t2 := Matrix{A: 1, D: 1, E: -cx, F: -cy}
			return t1.Mul(rot).Mul(t2)
		}
		return rot
	default:
		return Identity
	}
}

func arg(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}
	return 0
}

func parseFloatList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
