package main

import (
	"errors"

	"github.com/texlens/texlens"
)

// Exit codes for the texlens CLI.
const (
	ExitSuccess   = 0
	ExitConfig    = 2
	ExitDriver    = 3
	ExitGenerator = 4
	ExitLocator   = 5
	ExitIO        = 6
)

// exitCodeFor maps a Filter.Render error to one of the six exit codes
// above via errors.Is. Config/Driver/Generator/Locator/IO errors map
// directly; AssemblyError and RefinerError have no dedicated code, so they
// fold into the stage they are closest to: assembly precedes the driver
// and never involves a subprocess or external resource, so it is treated
// as IOError (6); refinement runs against dvisvgm's own output, so it is
// treated as GeneratorError (4).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, texlens.ErrConfig):
		return ExitConfig
	case errors.Is(err, texlens.ErrDriver):
		return ExitDriver
	case errors.Is(err, texlens.ErrGenerator), errors.Is(err, texlens.ErrMultiPage), errors.Is(err, texlens.ErrRefiner):
		return ExitGenerator
	case errors.Is(err, texlens.ErrLocator):
		return ExitLocator
	case errors.Is(err, texlens.ErrAssembly), errors.Is(err, texlens.ErrIO):
		return ExitIO
	default:
		return ExitIO
	}
}
