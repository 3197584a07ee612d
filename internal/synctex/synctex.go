// Package synctex is the sole foreign-function boundary in texlens: a
// narrow adapter over libsynctex with two operations, open and query. No
// other package reaches across this boundary directly. It is built two
// ways: scanner_cgo.go binds the real library through cgo; scanner_stub.go
// is compiled into cgo-disabled builds and fails every call with
// ErrUnavailable instead of producing a link error.
package synctex

import "errors"

// ErrUnavailable is returned by Open when texlens was built with
// CGO_ENABLED=0, so a cgo-disabled binary fails at run time (Filter.Render
// reports it as a LocatorError) rather than with a link-time failure.
var ErrUnavailable = errors.New("synctex: scanner unavailable in this build (cgo disabled)")

// Box is a single SyncTeX result node, in TeX points (1/72.27in), not the
// scaled points (1/65536pt) the C library reports them in.
type Box struct {
	H, V, Height, Width, Depth float64
	Page                       int
}

// Scanner queries a compiled SyncTeX index for the page-space boxes that
// correspond to a given line of the synthesised TeX source.
type Scanner interface {
	// Query returns every result box SyncTeX associates with line.
	Query(line int) ([]Box, error)
	// Close releases the native scanner handle. Safe to call multiple times.
	Close()
}

// scaledPointToPt converts a 1/65536pt scaled point, the unit the C API
// reports coordinates in, to a plain TeX point.
func scaledPointToPt(sp int32) float64 {
	return float64(sp) / 65536.0
}
