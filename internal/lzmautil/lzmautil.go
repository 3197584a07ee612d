// Package lzmautil wraps LZMA compression to isolate the external
// dependency, the same way internal/yamlutil isolates goccy/go-yaml: the
// rest of texlens never imports ulikunitz/xz directly.
package lzmautil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

var (
	ErrNilData = errors.New("lzmautil: nil or empty data")
)

// Compress LZMA-compresses data at the library's default preset.
func Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNilData
	}

	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("lzmautil: creating writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("lzmautil: compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzmautil: closing writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress. Used by tests to verify round-tripping; the
// client-side loader script performs the real decompression in the browser.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNilData
	}

	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("lzmautil: creating reader: %w", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lzmautil: decompressing: %w", err)
	}

	return out, nil
}
