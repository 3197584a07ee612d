package texlens

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func svgDoc(paths ...string) []byte {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg">`)
	for _, d := range paths {
		b.WriteString(`<path d="` + d + `"/>`)
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

func mustDecodeSVG(t *testing.T, svg []byte) *SVGDoc {
	t.Helper()
	doc, err := DecodeSVG(svg)
	if err != nil {
		t.Fatalf("DecodeSVG() error = %v", err)
	}
	return doc
}

func TestRefine_TightensToPrimitiveBBox(t *testing.T) {
	t.Parallel()

	// A path occupying [2,2]-[8,8], with a located region generously
	// covering [0,0]-[20,20]; refining should shrink to (roughly) the path.
	doc := mustDecodeSVG(t, svgDoc("M2 2 L8 2 L8 8 L2 8 Z"))
	located := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: 0, Y: 0, W: 20, H: 20},
	}

	refined := doc.Refine(located, 1)

	r := refined[0]
	if r.W >= 20 || r.H >= 20 {
		t.Errorf("refined region = %+v, want tighter than the 20x20 located region", r)
	}
}

func TestRefine_NoIntersectingPrimitiveFallsBackToLocated(t *testing.T) {
	t.Parallel()

	// Path lives far away from the located region; nothing should intersect
	// even after inflation, so Refine must fall back unchanged.
	doc := mustDecodeSVG(t, svgDoc("M500 500 L600 500 L600 600 L500 600 Z"))
	located := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: 0, Y: 0, W: 10, H: 10},
	}

	refined := doc.Refine(located, 0.5)

	r := refined[0]
	if r.X != 0 || r.Y != 0 || r.W != 10 || r.H != 10 {
		t.Errorf("refined region = %+v, want unchanged fallback to located region", r)
	}
}

func TestRefine_Idempotent(t *testing.T) {
	t.Parallel()

	doc := mustDecodeSVG(t, svgDoc("M2 2 L8 2 L8 8 L2 8 Z"))
	located := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: 0, Y: 0, W: 20, H: 20},
	}

	once := doc.Refine(located, 0.1)

	// Feed the refined region back in as if it were the located one; the
	// same primitive set intersects, so the result must not change.
	relocated := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: once[0].X, Y: once[0].Y, W: once[0].W, H: once[0].H},
	}
	twice := doc.Refine(relocated, 0.1)

	if once[0] != twice[0] {
		t.Errorf("refinement not idempotent: first %+v, second %+v", once[0], twice[0])
	}
}

func TestDecodeSVG_MalformedIsRefinerError(t *testing.T) {
	t.Parallel()

	_, err := DecodeSVG([]byte("not svg at all"))
	if !errors.Is(err, ErrRefiner) {
		t.Fatalf("DecodeSVG() error = %v, want ErrRefiner for malformed svg", err)
	}
}

func TestRefine_MultipleRegionsAreIndependent(t *testing.T) {
	t.Parallel()

	doc := mustDecodeSVG(t, svgDoc("M0 0 L5 0 L5 5 L0 5 Z", "M100 100 L105 100 L105 105 L100 105 Z"))
	located := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: 0, Y: 0, W: 5, H: 5},
		1: {FragmentID: 1, Page: 1, X: 100, Y: 100, W: 5, H: 5},
	}

	refined := doc.Refine(located, 1)
	if len(refined) != 2 {
		t.Fatalf("len(refined) = %d, want 2", len(refined))
	}
	if refined[0].Page != 1 || refined[1].Page != 1 {
		t.Errorf("refined regions lost Page: %+v", refined)
	}
}

func TestProject_ScalesAndOffsetsIntoViewBoxSpace(t *testing.T) {
	t.Parallel()

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="-72 -10 500 500"><path d="M0 0 L1 1"/></svg>`)
	doc := mustDecodeSVG(t, svg)

	located := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: 72.27, Y: 72.27, W: 72.27, H: 72.27, BaselineY: 144.54},
	}

	projected := doc.Project(located)
	r := projected[0]

	const tol = 1e-9
	if math.Abs(r.X-(72-72)) > tol {
		t.Errorf("X = %v, want 0 (72.27 TeX pt scaled to 72 CSS pt, shifted by viewBox left -72)", r.X)
	}
	if math.Abs(r.Y-(72-10)) > tol {
		t.Errorf("Y = %v, want 62 (scaled, shifted by viewBox top -10)", r.Y)
	}
	if math.Abs(r.W-72) > tol || math.Abs(r.H-72) > tol {
		t.Errorf("W,H = %v,%v, want 72,72 (pure scaling, no offset)", r.W, r.H)
	}
	if math.Abs(r.BaselineY-(144-10)) > tol {
		t.Errorf("BaselineY = %v, want 134", r.BaselineY)
	}
}

func TestProject_NoViewBoxScalesOnly(t *testing.T) {
	t.Parallel()

	doc := mustDecodeSVG(t, svgDoc("M0 0 L1 1"))

	located := map[FragmentID]LocatedRegion{
		0: {FragmentID: 0, Page: 1, X: 72.27, Y: 0, W: 72.27, H: 72.27},
	}

	projected := doc.Project(located)
	if math.Abs(projected[0].X-72) > 1e-9 {
		t.Errorf("X = %v, want 72 (scaled only, no viewBox offset)", projected[0].X)
	}
}
