package texlens

import (
	"fmt"

	"github.com/texlens/texlens/internal/hints"
	"github.com/texlens/texlens/internal/synctex"
)

// Locate converts, for every non-hidden, canonical fragment, the
// assembler's recorded LineCol into a synctex.Query and keeps the first
// result with a positive-area box on a defined page. Duplicate fragments
// are resolved to their canonical id's LocatedRegion in a second pass,
// never re-queried. Hidden fragments are skipped.
func Locate(scanner synctex.Scanner, fragments []Fragment, src AssembledSource) (map[FragmentID]LocatedRegion, error) {
	regions := make(map[FragmentID]LocatedRegion, len(fragments))

	for _, f := range fragments {
		if f.Kind == Hidden || f.CanonicalID != f.ID {
			continue
		}

		lc, ok := src.LineCol[f.ID]
		if !ok {
			return nil, fmt.Errorf("%w: fragment %d has no recorded position in the assembled source", ErrLocator, f.ID)
		}

		boxes, err := scanner.Query(lc.Line)
		if err != nil {
			return nil, fmt.Errorf("%w: querying synctex for fragment %d (line %d, column %d): %w%s",
				ErrLocator, f.ID, lc.Line, lc.Column, err, hints.ForSynctexUnavailable())
		}

		region, ok := firstUsableBox(f.ID, boxes)
		if !ok {
			return nil, fmt.Errorf("%w: no located region for fragment %d (line %d, column %d), body %q",
				ErrLocator, f.ID, lc.Line, lc.Column, truncateBody(f.Body))
		}

		regions[f.ID] = region
	}

	for _, f := range fragments {
		if f.Kind == Hidden || f.CanonicalID == f.ID {
			continue
		}
		canonical, ok := regions[f.CanonicalID]
		if !ok {
			return nil, fmt.Errorf("%w: fragment %d has no canonical located region (canonical id %d)", ErrLocator, f.ID, f.CanonicalID)
		}
		dup := canonical
		dup.FragmentID = f.ID
		regions[f.ID] = dup
	}

	return regions, nil
}

// firstUsableBox picks the first synctex.Box with a defined page and
// positive area, and converts it from SyncTeX's (h, v-baseline, height,
// width, depth) coordinate system to the top-left-origin (x, y, w, h)
// rectangle LocatedRegion uses.
func firstUsableBox(id FragmentID, boxes []synctex.Box) (LocatedRegion, bool) {
	for _, b := range boxes {
		if b.Page <= 0 || b.Width <= 0 || (b.Height+b.Depth) <= 0 {
			continue
		}
		return LocatedRegion{
			FragmentID: id,
			Page:       b.Page,
			X:          b.H,
			Y:          b.V - b.Height,
			W:          b.Width,
			H:          b.Height + b.Depth,
			BaselineY:  b.V,
		}, true
	}
	return LocatedRegion{}, false
}

func truncateBody(body string) string {
	const maxLen = 80
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
