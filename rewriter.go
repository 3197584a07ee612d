package texlens

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/texlens/texlens/internal/pandocast"
)

var imgTemplate = template.Must(template.New("texlens-img").Parse(
	`<img class="texlens-svg {{.SvgClass}}" ` +
		`src="{{.Sentinel}}#svgView(viewBox({{printf "%.2f" .X}},{{printf "%.2f" .Y}},{{printf "%.2f" .W}},{{printf "%.2f" .H}}))" ` +
		`style="width:{{printf "%.2f" .W}}pt;height:{{printf "%.2f" .H}}pt;` +
		`{{if .Inline}}vertical-align:baseline;position:relative;top:{{printf "%.2f" .Shift}}pt;{{else}}display:block;{{end}}">`,
))

type imgData struct {
	SvgClass   string
	Sentinel   string
	X, Y, W, H float64
	Inline     bool
	Shift      float64
}

// Rewrite computes, for every rewritable fragment, a RewriteRecord from
// the fragment's RefinedRegion (and, for inline math, its LocatedRegion
// baseline), renders the <img> tag, and splices it at the fragment's
// origin. Hidden fragments are spliced with an empty raw-HTML node instead,
// so their marker bodies never reach the output. It finishes by appending
// one trailing raw-HTML block carrying the packed asset's loader scripts.
// Callers only reach this stage once Filter.Render has already confirmed at
// least one rewritable fragment exists, so the loader block is never
// appended to a document with nothing to show.
func Rewrite(tree *pandocast.Pandoc, fragments []Fragment, located map[FragmentID]LocatedRegion, refined map[FragmentID]RefinedRegion, loaderHTML string, cfg Config) error {
	for _, f := range fragments {
		if !f.HasOrigin {
			clearHiddenOrigin(f)
			continue
		}

		region, ok := refined[f.ID]
		if !ok {
			return fmt.Errorf("%w: fragment %d has no refined region to rewrite", ErrRefiner, f.ID)
		}

		rec := buildRewriteRecord(f, region, located[f.ID], cfg)

		html, err := renderImg(rec, cfg.SvgClass, svgSentinel)
		if err != nil {
			return fmt.Errorf("%w: rendering img for fragment %d: %w", ErrIO, f.ID, err)
		}

		f.Origin.Set(pandocast.RawNode(spliceTagFor(f.Origin), "html", html))
	}

	tree.Blocks = append(tree.Blocks, pandocast.RawNode("RawBlock", "html", loaderHTML))
	return nil
}

// spliceTagFor picks the pandoc tag a fragment's replacement node must
// carry: a RawBlock origin (a standalone {=tex} block) is spliced back as a
// RawBlock, everything else (Math nodes and RawInline) as a RawInline.
func spliceTagFor(origin pandocast.Path) string {
	if tag, ok := pandocast.Tag(origin.Get()); ok && tag == "RawBlock" {
		return "RawBlock"
	}
	return "RawInline"
}

// clearHiddenOrigin blanks a hidden fragment's origin node so its marker
// body contributes nothing to the output document.
func clearHiddenOrigin(f Fragment) {
	if !f.Origin.Valid() {
		return
	}
	f.Origin.Set(pandocast.RawNode(spliceTagFor(f.Origin), "html", ""))
}

func buildRewriteRecord(f Fragment, region RefinedRegion, loc LocatedRegion, cfg Config) RewriteRecord {
	rec := RewriteRecord{
		FragmentID: f.ID,
		Origin:     f.Origin,
		ViewBox:    [4]float64{region.X, region.Y, region.W, region.H},
		Inline:     f.Kind == InlineMath,
	}
	if rec.Inline && cfg.BaselineAlign {
		rec.BaselineShiftPt = (region.Y + region.H) - loc.BaselineY
	}
	return rec
}

func renderImg(rec RewriteRecord, svgClass, sentinel string) (string, error) {
	var buf bytes.Buffer
	data := imgData{
		SvgClass: svgClass,
		Sentinel: sentinel,
		X:        rec.ViewBox[0],
		Y:        rec.ViewBox[1],
		W:        rec.ViewBox[2],
		H:        rec.ViewBox[3],
		Inline:   rec.Inline,
		Shift:    rec.BaselineShiftPt,
	}
	if err := imgTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
