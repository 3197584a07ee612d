package texlens

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/texlens/texlens/internal/fileutil"
	"github.com/texlens/texlens/internal/hints"
	"github.com/texlens/texlens/internal/texrun"
)

const (
	texSourceFile  = "doc.tex"
	texPDFFile     = "doc.pdf"
	texSynctexFile = "doc.synctex"
	texLogFile     = "doc.log"
	logTailLines   = 20
)

// DriverResult is what a successful TeX Driver run yields: the scratch
// workspace directory and the paths to the produced PDF and SyncTeX index
// inside it.
type DriverResult struct {
	WorkDir     string
	PDFPath     string
	SynctexPath string
}

// RunDriver writes src to doc.tex in a fresh
// scratch workspace, invokes the configured TeX engine with SyncTeX
// enabled, and on success returns the produced PDF and SyncTeX paths.
// Workspace cleanup runs on every exit path, including a non-nil error,
// except the success path, where the caller owns the returned cleanup func
// so the SVG Generator can keep writing into the same workspace.
func RunDriver(ctx context.Context, cfg Config, runner texrun.Runner, src AssembledSource) (DriverResult, func(), error) {
	dir, rm, err := fileutil.MakeScratchDir(cfg.WorkDir)
	if err != nil {
		return DriverResult{}, func() {}, fmt.Errorf("%w: creating scratch workspace: %w%s", ErrIO, err, hints.ForScratchDirectory())
	}
	cleanup := rm
	if cfg.KeepWorkDir {
		cleanup = func() {
			cfg.Logger.Debug().Str("work_dir", dir).Msg("keep_work_dir set, skipping workspace cleanup")
		}
	}

	texPath := filepath.Join(dir, texSourceFile)
	if err := os.WriteFile(texPath, src.Bytes, 0o600); err != nil {
		cleanup()
		return DriverResult{}, func() {}, fmt.Errorf("%w: writing %s: %w", ErrIO, texSourceFile, err)
	}

	args := make([]string, 0, len(cfg.TexArgs)+3)
	args = append(args, cfg.TexArgs...)
	args = append(args,
		"--synctex=-1",
		"--interaction=nonstopmode",
		"--output-directory="+dir,
		texPath,
	)

	cfg.Logger.Debug().Str("engine", cfg.TexEngine).Strs("args", args).Msg("running tex engine")

	runCtx := ctx
	if cfg.TexTimeoutSec > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TexTimeoutSec*float64(time.Second)))
		defer cancel()
	}

	_, _, runErr := runner.Run(runCtx, dir, cfg.TexEngine, args...)
	if runErr != nil {
		tail := readLogTail(dir)
		cleanup()
		hint := hints.ForDriver(cfg.TexEngine)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			hint = hints.ForTimeout("tex_timeout_sec")
		}
		return DriverResult{}, func() {}, fmt.Errorf("%w: %s exited: %w\n%s%s", ErrDriver, cfg.TexEngine, runErr, tail, hint)
	}

	pdfPath := filepath.Join(dir, texPDFFile)
	if _, err := os.Stat(pdfPath); err != nil {
		tail := readLogTail(dir)
		cleanup()
		return DriverResult{}, func() {}, fmt.Errorf("%w: %s reported success but %s is missing: %w\n%s", ErrDriver, cfg.TexEngine, texPDFFile, err, tail)
	}

	cfg.Logger.Info().Str("engine", cfg.TexEngine).Str("work_dir", dir).Msg("tex driver succeeded")

	return DriverResult{
		WorkDir:     dir,
		PDFPath:     pdfPath,
		SynctexPath: filepath.Join(dir, texSynctexFile),
	}, cleanup, nil
}

// readLogTail returns the last logTailLines lines of doc.log, the
// diagnostic a DriverError forwards to the caller. A missing or
// unreadable log yields an empty string rather than an error: the original
// failure (the non-zero tex exit) is what matters to the caller.
func readLogTail(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, texLogFile)) // #nosec G304 -- dir is our own scratch workspace
	if err != nil {
		return ""
	}
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) > logTailLines {
		lines = lines[len(lines)-logTailLines:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
