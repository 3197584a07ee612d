package texlens

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/texlens/texlens/internal/dvisvgm"
	"github.com/texlens/texlens/internal/hints"
)

// svgOutputPattern is dvisvgm's output-file pattern: %p expands to the
// 1-based page number, so a single-page document produces exactly one
// doc-1.svg and a multi-page one produces doc-1.svg, doc-2.svg, ...,
// letting GenerateSVG detect a page count by globbing rather than parsing
// dvisvgm's stderr.
const svgOutputPattern = "doc-%p.svg"

// GenerateSVG invokes dvisvgm against pdfPath with options that produce
// paths only (no font dependencies), asserts that no more than
// cfg.MaxPages page groups were produced, and returns that page's SVG
// bytes.
func GenerateSVG(ctx context.Context, cfg Config, runner dvisvgm.Runner, workDir, pdfPath string) ([]byte, error) {
	args := make([]string, 0, len(cfg.DvisvgmArgs)+5)
	args = append(args, cfg.DvisvgmArgs...)
	args = append(args,
		"--pdf",
		"--page=1-",
		"--no-fonts",
		"--exact-bbox",
		"--output="+filepath.Join(workDir, svgOutputPattern),
		pdfPath,
	)

	cfg.Logger.Debug().Str("dvisvgm", cfg.DvisvgmPath).Strs("args", args).Msg("running dvisvgm")

	runCtx := ctx
	if cfg.DvisvgmTimeoutSec > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.DvisvgmTimeoutSec*float64(time.Second)))
		defer cancel()
	}

	_, stderr, err := runner.Run(runCtx, workDir, cfg.DvisvgmPath, args...)
	if err != nil {
		hint := hints.ForDvisvgm()
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			hint = hints.ForTimeout("dvisvgm_timeout_sec")
		}
		return nil, fmt.Errorf("%w: %s exited: %w\n%s%s", ErrGenerator, cfg.DvisvgmPath, err, stderr, hint)
	}

	matches, err := filepath.Glob(filepath.Join(workDir, "doc-*.svg"))
	if err != nil {
		return nil, fmt.Errorf("%w: globbing generated svg files: %w", ErrGenerator, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s produced no svg output\n%s", ErrGenerator, cfg.DvisvgmPath, stderr)
	}
	if len(matches) > cfg.MaxPages {
		return nil, fmt.Errorf("%w: %w: %d page(s) produced, max_pages is %d", ErrGenerator, ErrMultiPage, len(matches), cfg.MaxPages)
	}

	sort.Strings(matches)
	data, err := os.ReadFile(matches[0]) // #nosec G304 -- path comes from our own workDir glob
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrGenerator, filepath.Base(matches[0]), err)
	}

	cfg.Logger.Info().Int("bytes", len(data)).Int("pages", len(matches)).Msg("svg generated")
	return data, nil
}
