package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// runFlags holds the flags for texlens's default (filter) mode.
type runFlags struct {
	configPath string
	verbose    bool
	quiet      bool
	dumpTex    bool
}

// addCommonFlags adds the flags shared by both the filter and doctor
// subcommands.
func addCommonFlags(fs *flag.FlagSet, f *runFlags) {
	fs.StringVarP(&f.configPath, "config", "c", "", "path to jlconfig.toml (overrides the default search path)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log debug-level events to stderr")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors to stderr")
}

// parseRunFlags parses the filter mode's flags and returns any positional
// arguments left over (texlens's filter mode takes none; a non-empty
// remainder is a usage error).
func parseRunFlags(args []string) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("texlens", flag.ContinueOnError)
	f := &runFlags{}

	addCommonFlags(fs, f)
	fs.BoolVar(&f.dumpTex, "dump-tex", false, "print the assembled TeX source (syntax highlighted) to stderr before rendering")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// doctorFlags holds the flags for the `texlens doctor` subcommand.
type doctorFlags struct {
	common runFlags
	json   bool
	format string
}

func parseDoctorFlags(args []string) (*doctorFlags, []string, error) {
	fs := flag.NewFlagSet("texlens doctor", flag.ContinueOnError)
	f := &doctorFlags{}

	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "print the diagnostic report as JSON (shorthand for --format=json)")
	fs.StringVar(&f.format, "format", "text", "report format: text, json, or yaml")

	fs.Usage = func() { printDoctorUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func printUsage(w *os.File) {
	_, _ = w.WriteString(`texlens renders LaTeX fragments in a pandoc AST to SVG

Usage:
  texlens [flags] < input.json > output.json
  texlens doctor [flags]

Flags:
  -c, --config string   path to jlconfig.toml
  -v, --verbose         log debug-level events to stderr
  -q, --quiet           only log errors to stderr
      --dump-tex        print the assembled TeX source to stderr
`)
}

func printDoctorUsage(w *os.File) {
	_, _ = w.WriteString(`texlens doctor verifies the tex_engine/dvisvgm_path toolchain and synctex bindings

Usage:
  texlens doctor [flags]

Flags:
  -c, --config string   path to jlconfig.toml
  -v, --verbose         log debug-level events to stderr
      --json            print the diagnostic report as JSON (shorthand for --format=json)
      --format string   report format: text, json, or yaml (default "text")
`)
}
