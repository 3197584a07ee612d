package lzmautil_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/texlens/texlens/internal/lzmautil"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	t.Parallel()

	original := []byte(strings.Repeat("<svg><path d=\"M0 0 L10 10\"/></svg>", 50))

	compressed, err := lzmautil.Compress(original)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	decompressed, err := lzmautil.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(decompressed), len(original))
	}
}

func TestCompress_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := lzmautil.Compress(nil)
	if !errors.Is(err, lzmautil.ErrNilData) {
		t.Errorf("Compress(nil) error = %v, want ErrNilData", err)
	}
}

func TestDecompress_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := lzmautil.Decompress(nil)
	if !errors.Is(err, lzmautil.ErrNilData) {
		t.Errorf("Decompress(nil) error = %v, want ErrNilData", err)
	}
}

func TestCompress_ReducesSizeForRepetitiveInput(t *testing.T) {
	t.Parallel()

	original := []byte(strings.Repeat("a", 10000))

	compressed, err := lzmautil.Compress(original)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	if len(compressed) >= len(original) {
		t.Errorf("compressed size %d not smaller than original %d", len(compressed), len(original))
	}
}
