//go:build cgo

package synctex

/*
#cgo pkg-config: synctex
#include <stdlib.h>
#include <synctex_parser.h>

static inline synctex_scanner_p texlens_scanner_new(const char *output, const char *build_dir) {
	return synctex_scanner_new_with_output_file(output, build_dir, 1);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Available reports whether this binary was built with the real cgo
// bindings to libsynctex, as opposed to the always-failing stub. `texlens
// doctor` surfaces this directly rather than inferring it from Open's
// error, since Open wraps ErrUnavailable both when cgo is disabled and
// when cgo is enabled but the scanner can't find a matching index.
const Available = true

type nativeScanner struct {
	handle C.synctex_scanner_p
}

// Open compiles a SyncTeX scanner over outputPath (the produced .pdf) using
// buildDir as the directory the synchronisation index was written to.
func Open(outputPath, buildDir string) (Scanner, error) {
	cOutput := C.CString(outputPath)
	defer C.free(unsafe.Pointer(cOutput))
	cBuildDir := C.CString(buildDir)
	defer C.free(unsafe.Pointer(cBuildDir))

	handle := C.texlens_scanner_new(cOutput, cBuildDir)
	if handle == nil {
		return nil, fmt.Errorf("synctex: opening scanner for %s: %w", outputPath, ErrUnavailable)
	}

	return &nativeScanner{handle: handle}, nil
}

// Query implements Scanner.
func (s *nativeScanner) Query(line int) ([]Box, error) {
	if s.handle == nil {
		return nil, ErrUnavailable
	}

	name := C.synctex_scanner_get_name(s.handle, 1)
	result := C.synctex_display_query(s.handle, name, C.int(line), 0, -1)
	if result <= 0 {
		return nil, nil
	}

	var boxes []Box
	for node := C.synctex_scanner_next_result(s.handle); node != nil; node = C.synctex_scanner_next_result(s.handle) {
		boxes = append(boxes, Box{
			H:      scaledPointToPt(int32(C.synctex_node_box_h(node))),
			V:      scaledPointToPt(int32(C.synctex_node_box_v(node))),
			Height: scaledPointToPt(int32(C.synctex_node_box_height(node))),
			Width:  scaledPointToPt(int32(C.synctex_node_box_width(node))),
			Depth:  scaledPointToPt(int32(C.synctex_node_box_depth(node))),
			Page:   int(C.synctex_node_page(node)),
		})
	}

	return boxes, nil
}

// Close implements Scanner.
func (s *nativeScanner) Close() {
	if s.handle != nil {
		C.synctex_scanner_free(s.handle)
		s.handle = nil
	}
}
