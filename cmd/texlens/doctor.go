package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/texlens/texlens"
	"github.com/texlens/texlens/internal/hints"
	"github.com/texlens/texlens/internal/synctex"
	"github.com/texlens/texlens/internal/yamlutil"
)

// doctorResult holds the diagnostic report `texlens doctor` produces:
// whether the configured tex_engine and dvisvgm_path resolve, and whether
// this binary was built with synctex bindings.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	TexTool  toolInfo    `json:"tex_engine"`
	SvgTool  toolInfo    `json:"dvisvgm"`
	Synctex  synctexInfo `json:"synctex"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

type toolInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

type synctexInfo struct {
	CgoEnabled bool `json:"cgo_enabled"`
}

// runDoctor performs every diagnostic check against cfg and returns a
// filled-in report.
func runDoctor(cfg texlens.Config) *doctorResult {
	result := &doctorResult{
		Status:  "ready",
		TexTool: toolInfo{Name: cfg.TexEngine},
		SvgTool: toolInfo{Name: cfg.DvisvgmPath},
	}

	checkTool(&result.TexTool, result)
	checkTool(&result.SvgTool, result)
	checkSynctex(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = "errors"
	case len(result.Warnings) > 0:
		result.Status = "warnings"
	}
	return result
}

// checkTool resolves a configured command name to an absolute path,
// either directly (if already absolute) or via PATH lookup.
func checkTool(t *toolInfo, result *doctorResult) {
	if filepath.IsAbs(t.Name) {
		if _, err := exec.LookPath(t.Name); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: not found or not executable", t.Name))
			return
		}
		t.Found, t.Path = true, t.Name
		return
	}

	path, err := exec.LookPath(t.Name)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: not found on PATH", t.Name))
		return
	}
	t.Found, t.Path = true, path
}

// checkSynctex reports whether this binary was built with cgo bindings to
// libsynctex. A cgo-disabled build can still run every other stage but
// will fail every filter invocation at the Locator with ErrLocator, so
// this is reported as an error rather than a warning.
func checkSynctex(result *doctorResult) {
	result.Synctex.CgoEnabled = synctex.Available
	if !synctex.Available {
		result.Errors = append(result.Errors,
			"built without cgo: synctex bindings unavailable, every filter invocation will fail at the locator stage")
	}
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "texlens doctor")
	fmt.Fprintln(w)

	printToolInfo(w, r.TexTool)
	printToolInfo(w, r.SvgTool)

	fmt.Fprintln(w, "SyncTeX")
	if r.Synctex.CgoEnabled {
		fmt.Fprintln(w, "  [OK] built with cgo bindings to libsynctex")
	} else {
		fmt.Fprintln(w, "  [ERROR] built without cgo: synctex bindings unavailable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", e)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: ready")
	case "warnings":
		fmt.Fprintln(w, "Status: ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: not ready (see errors above)")
	}
}

func printToolInfo(w io.Writer, t toolInfo) {
	fmt.Fprintln(w, t.Name)
	if t.Found {
		fmt.Fprintf(w, "  [OK] found at %s\n", t.Path)
	} else {
		fmt.Fprintln(w, "  [ERROR] not found")
	}
	fmt.Fprintln(w)
}

// runDoctorCmd runs the doctor diagnostic and writes its report to stdout,
// returning the process exit code.
func runDoctorCmd(stdout, stderr io.Writer, flags *doctorFlags) int {
	cfg, err := texlens.Load(configOptions(flags.common)...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}
	if path := flags.common.configPath; path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Fprintf(stderr, "%s: config file %s: %v%s\n", texlens.ErrConfig, path, statErr, hints.ForConfigNotFound())
			return ExitConfig
		}
		if err := texlens.OverlayFile(&cfg, path); err != nil {
			fmt.Fprintln(stderr, err)
			return exitCodeFor(err)
		}
	}

	result := runDoctor(cfg)

	format := flags.format
	if flags.json {
		format = "json"
	}

	switch format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	case "yaml":
		out, err := yamlutil.Marshal(result)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitIO
		}
		_, _ = stdout.Write(out)
	default:
		printDoctorResult(stdout, result)
	}

	if result.Status == "errors" {
		return ExitConfig
	}
	return ExitSuccess
}
