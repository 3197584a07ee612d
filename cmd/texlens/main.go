package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/texlens/texlens"
	"github.com/texlens/texlens/internal/hints"
	"github.com/texlens/texlens/internal/pandocast"

	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run implements the whole CLI: dispatch to `doctor` when asked, otherwise
// read a pandoc tree from stdin, run Filter.Render, and write the tree back
// to stdout, rewritten on success and unchanged on failure.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "doctor" {
		flags, _, err := parseDoctorFlags(args[1:])
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitConfig
		}
		return runDoctorCmd(stdout, stderr, flags)
	}

	flags, extra, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitConfig
	}
	if len(extra) > 0 {
		fmt.Fprintf(stderr, "texlens: unexpected arguments: %v\n", extra)
		return ExitConfig
	}

	_, _ = maxprocs.Set(maxprocs.Logger(quietMaxprocsLogger(flags.verbose, stderr)))

	cfg, err := texlens.Load(configOptions(*flags)...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}

	if flags.configPath != "" {
		// The two default search locations tolerate a missing file, but an
		// explicitly requested one must exist.
		if _, statErr := os.Stat(flags.configPath); statErr != nil {
			fmt.Fprintf(stderr, "%s: config file %s: %v%s\n", texlens.ErrConfig, flags.configPath, statErr, hints.ForConfigNotFound())
			return ExitConfig
		}
		if err := texlens.OverlayFile(&cfg, flags.configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return exitCodeFor(err)
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "texlens: %s: reading stdin: %v\n", texlens.ErrIO, err)
		return ExitIO
	}

	tree, err := pandocast.Decode(data)
	if err != nil {
		fmt.Fprintf(stderr, "texlens: %s: decoding pandoc tree: %v\n", texlens.ErrIO, err)
		return ExitIO
	}

	if flags.dumpTex {
		dumpAssembledSource(tree, cfg, stderr)
	}

	filter := texlens.NewFilter(cfg)
	if err := filter.Render(context.Background(), tree); err != nil {
		cfg.Logger.Error().Err(err).Msg("render failed")
		if writeErr := writeTree(tree, stdout); writeErr != nil {
			fmt.Fprintln(stderr, writeErr)
		}
		return exitCodeFor(err)
	}

	if err := writeTree(tree, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	return ExitSuccess
}

func writeTree(tree *pandocast.Pandoc, w io.Writer) error {
	out, err := tree.Encode()
	if err != nil {
		return fmt.Errorf("%w: encoding pandoc tree: %w", texlens.ErrIO, err)
	}
	_, err = w.Write(out)
	return err
}

// configOptions translates the CLI's verbose/quiet flags into texlens.Load
// options; --config is applied separately via OverlayFile since Load's
// Option hook cannot return an error.
func configOptions(f runFlags) []texlens.Option {
	switch {
	case f.verbose:
		return []texlens.Option{texlens.WithVerbose()}
	case f.quiet:
		return []texlens.Option{texlens.WithQuiet()}
	default:
		return nil
	}
}

// dumpAssembledSource re-runs extraction and assembly against a private
// clone of tree purely to print the resulting TeX source; it never mutates
// the tree the real Filter.Render below operates on.
func dumpAssembledSource(tree *pandocast.Pandoc, cfg texlens.Config, stderr io.Writer) {
	clone, err := pandocast.Clone(tree)
	if err != nil {
		fmt.Fprintf(stderr, "texlens: --dump-tex: cloning tree: %v\n", err)
		return
	}

	fragments := texlens.Extract(clone)
	_, src, err := texlens.Assemble(fragments, cfg.Preamble, cfg.Postamble)
	if err != nil {
		fmt.Fprintf(stderr, "texlens: --dump-tex: assembling source: %v\n", err)
		return
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, string(src.Bytes), "latex", "terminal256", "monokai"); err != nil {
		fmt.Fprint(stderr, string(src.Bytes))
		return
	}
	_, _ = stderr.Write(buf.Bytes())
}

// quietMaxprocsLogger gates maxprocs's own log output the same way every
// other component in this CLI is gated: debug noise only under --verbose.
func quietMaxprocsLogger(verbose bool, stderr io.Writer) func(string, ...interface{}) {
	if !verbose {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		fmt.Fprintf(stderr, format+"\n", args...)
	}
}
