// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/texlens/texlens/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForDriver returns hints for TeX engine invocation failures.
// Adds a TeX Live install hint inside a Docker container and always
// suggests the PATH/config adjustment.
func ForDriver(engine string) string {
	var h []string

	if IsInContainer() {
		h = append(h, "in containers install a TeX Live scheme that includes "+engine)
	}
	h = append(h, "set tex_engine in jlconfig.toml or ensure "+engine+" is on PATH")

	return formatHints(h)
}

// ForDvisvgm returns hints for dvisvgm invocation failures.
func ForDvisvgm() string {
	return format("set dvisvgm_path in jlconfig.toml or ensure dvisvgm is on PATH")
}

// ForTimeout returns a hint about raising the named wall-clock budget key
// for slow renders.
func ForTimeout(key string) string {
	return format("for large documents with many fragments, raise " + key + " in jlconfig.toml")
}

// ForConfigNotFound returns the hint for an explicit --config path that does
// not exist.
func ForConfigNotFound() string {
	return format("pass --config an existing file, or create jlconfig.toml alongside the executable or in the working directory")
}

// ForScratchDirectory returns hints for scratch workspace creation errors.
func ForScratchDirectory() string {
	return format("check TMPDIR exists and is writable")
}

// ForSynctexUnavailable returns hints for builds where cgo was disabled,
// leaving the SyncTeX scanner unavailable.
func ForSynctexUnavailable() string {
	return format("rebuild with CGO_ENABLED=1 and libsynctex available via pkg-config")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
