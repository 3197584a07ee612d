package texlens

import (
	"crypto/sha256"
	"fmt"

	"github.com/texlens/texlens/internal/pandocast"
)

// FragmentKind classifies a LaTeX fragment by how it is wrapped in the
// assembled TeX source and whether it produces a rewritten <img>.
type FragmentKind int

const (
	// InlineMath is ordinary inline math, wrapped in \( \).
	InlineMath FragmentKind = iota
	// DisplayMath is display math, wrapped in \[ \].
	DisplayMath
	// RawTex is a raw TeX block, emitted verbatim.
	RawTex
	// Hidden fragments are emitted verbatim (so their side effects, such as
	// macro definitions, take hold) but never rewritten into an <img>.
	Hidden
)

func (k FragmentKind) String() string {
	switch k {
	case InlineMath:
		return "InlineMath"
	case DisplayMath:
		return "DisplayMath"
	case RawTex:
		return "RawTex"
	case Hidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// FragmentID identifies a Fragment by its order of first discovery.
type FragmentID int

// Fragment is one LaTeX snippet collected from the document tree.
type Fragment struct {
	ID   FragmentID
	Kind FragmentKind
	Body string
	// Origin locates the node this fragment replaces. Hidden fragments
	// keep their Origin too, so the rewriter can blank the marker node.
	Origin pandocast.Path
	// HasOrigin is false for Hidden fragments, which are never rewritten
	// into an <img>.
	HasOrigin bool
	// DedupKey groups fragments with identical (Kind, Body); all but the
	// first sharing a key are assembled as a reference to the first.
	DedupKey string
	// CanonicalID is the fragment ID of the first fragment sharing this
	// DedupKey (equal to ID itself when this fragment is the first).
	CanonicalID FragmentID
}

// NewDedupKey builds the key two fragments with identical kind and body
// must share.
func NewDedupKey(kind FragmentKind, body string) string {
	sum := sha256.Sum256([]byte(body))
	return fmt.Sprintf("%d:%x", kind, sum)
}

// LineCol is a 1-indexed line and column, the coordinate system SyncTeX's
// display_query expects.
type LineCol struct {
	Line, Column int
}

// AssembledSource is the single synthesised TeX file: preamble, each unique
// fragment body in discovery order, and postamble. Offsets and LineCol hold
// an entry for every fragment id; a duplicate's entry is a copy of its
// CanonicalID's, since its body is not re-emitted.
type AssembledSource struct {
	Bytes   []byte
	Offsets map[FragmentID]int
	LineCol map[FragmentID]LineCol
}

// LocatedRegion is the page rectangle SyncTeX reports for a fragment, in
// TeX points, origin at the top-left of the page.
type LocatedRegion struct {
	FragmentID FragmentID
	Page       int
	X, Y, W, H float64
	// BaselineY is the page y-coordinate of the fragment's typeset
	// baseline, used by the Rewriter to compute an inline baseline shift.
	BaselineY float64
}

// RefinedRegion is a LocatedRegion tightened to the vector ink that
// actually intersects it.
type RefinedRegion struct {
	FragmentID FragmentID
	Page       int
	X, Y, W, H float64
}

// PackedAsset is the single compressed SVG produced once per document.
type PackedAsset struct {
	CompressedBytes []byte
	OriginalLength  int
	// EncodedBase64 is CompressedBytes, base64-encoded, ready to embed as
	// an ASCII string literal inside the loader script.
	EncodedBase64 string
	// SVGViewPrefix is the sentinel URL every <img src> begins with, before
	// the "#svgView(viewBox(...))" fragment identifier.
	SVGViewPrefix string
}

// RewriteRecord is what the Rewriter needs to splice one fragment's <img>
// tag back into the tree.
type RewriteRecord struct {
	FragmentID FragmentID
	Origin     pandocast.Path
	ViewBox    [4]float64 // x, y, w, h
	// BaselineShiftPt is non-zero only for InlineMath fragments with
	// baseline_align enabled.
	BaselineShiftPt float64
	Inline          bool
}
