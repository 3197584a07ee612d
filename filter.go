package texlens

import (
	"context"
	"fmt"

	"github.com/texlens/texlens/internal/dvisvgm"
	"github.com/texlens/texlens/internal/pandocast"
	"github.com/texlens/texlens/internal/synctex"
	"github.com/texlens/texlens/internal/texrun"
)

// Filter runs the full fragment-to-region pipeline against a pandoc
// document tree. The zero value is not usable; build one with
// NewFilter, or construct a Filter literal directly in tests to inject
// fake runners/scanners.
type Filter struct {
	Config      Config
	TexRunner   texrun.Runner
	SvgRunner   dvisvgm.Runner
	OpenScanner func(pdfPath, buildDir string) (synctex.Scanner, error)
}

// NewFilter builds a Filter wired to real subprocess runners and the real
// SyncTeX scanner.
func NewFilter(cfg Config) *Filter {
	return &Filter{
		Config:      cfg,
		TexRunner:   texrun.ExecRunner{},
		SvgRunner:   dvisvgm.ExecRunner{},
		OpenScanner: synctex.Open,
	}
}

// Render runs extractor → assembler → driver → locator → generator →
// refiner → packer → rewriter in sequence against a private clone of
// *tree, swapped into *tree only on complete success. Any error returned
// leaves *tree exactly as the caller passed it in, atomic success or
// atomic failure: the clone, not the original, is what every stage
// after Extract mutates.
func (f *Filter) Render(ctx context.Context, tree *pandocast.Pandoc) error {
	working, err := pandocast.Clone(tree)
	if err != nil {
		return fmt.Errorf("%w: cloning document tree: %w", ErrIO, err)
	}

	fragments := Extract(working)
	if countRewritable(fragments) == 0 {
		// Nothing to typeset, so the TeX pipeline is skipped and no loader
		// block is appended. Any hidden fragments still get their marker
		// nodes blanked out of the output.
		if len(fragments) > 0 {
			for _, frag := range fragments {
				clearHiddenOrigin(frag)
			}
			*tree = *working
		}
		f.Config.Logger.Info().Int("fragments", len(fragments)).Msg("no renderable fragments, skipping tex pipeline")
		return nil
	}

	fragments, src, err := Assemble(fragments, f.Config.Preamble, f.Config.Postamble)
	if err != nil {
		return err
	}
	f.Config.Logger.Info().Int("fragments", len(fragments)).Int("bytes", len(src.Bytes)).Msg("assembled tex source")

	driverResult, cleanup, err := RunDriver(ctx, f.Config, f.TexRunner, src)
	if err != nil {
		return err
	}
	defer cleanup()

	scanner, err := f.OpenScanner(driverResult.PDFPath, driverResult.WorkDir)
	if err != nil {
		return fmt.Errorf("%w: opening synctex index: %w", ErrLocator, err)
	}
	defer scanner.Close()

	located, err := Locate(scanner, fragments, src)
	if err != nil {
		return err
	}
	f.Config.Logger.Info().Int("regions", len(located)).Msg("located fragment regions")

	svg, err := GenerateSVG(ctx, f.Config, f.SvgRunner, driverResult.WorkDir, driverResult.PDFPath)
	if err != nil {
		return err
	}

	svgDoc, err := DecodeSVG(svg)
	if err != nil {
		return err
	}
	located = svgDoc.Project(located)
	refined := svgDoc.Refine(located, f.Config.RefinerEpsilonPt)
	f.Config.Logger.Info().Int("refined", len(refined)).Msg("refined svg regions")

	_, loaderHTML, err := Pack(f.Config, svg)
	if err != nil {
		return err
	}

	if err := Rewrite(working, fragments, located, refined, loaderHTML, f.Config); err != nil {
		return err
	}

	*tree = *working
	return nil
}

func countRewritable(fragments []Fragment) int {
	n := 0
	for _, f := range fragments {
		if f.HasOrigin {
			n++
		}
	}
	return n
}
