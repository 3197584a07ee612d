package texlens

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeDvisvgmRunner struct {
	err      error
	pageData map[string]string // basename -> contents to write before returning
}

func (f *fakeDvisvgmRunner) Run(_ context.Context, dir, _ string, _ ...string) ([]byte, []byte, error) {
	for name, contents := range f.pageData {
		_ = os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600)
	}
	return nil, []byte("dvisvgm stderr"), f.err
}

func TestGenerateSVG_SinglePageReturnsBytes(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	dir := t.TempDir()
	runner := &fakeDvisvgmRunner{pageData: map[string]string{"doc-1.svg": "<svg>ok</svg>"}}

	data, err := GenerateSVG(context.Background(), cfg, runner, dir, filepath.Join(dir, "doc.pdf"))
	if err != nil {
		t.Fatalf("GenerateSVG() error = %v", err)
	}
	if string(data) != "<svg>ok</svg>" {
		t.Errorf("data = %q, want <svg>ok</svg>", data)
	}
}

type stalledDvisvgmRunner struct{}

func (stalledDvisvgmRunner) Run(ctx context.Context, _, _ string, _ ...string) ([]byte, []byte, error) {
	<-ctx.Done()
	return nil, nil, ctx.Err()
}

func TestGenerateSVG_TimeoutBudgetExceeded(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.DvisvgmTimeoutSec = 0.01
	dir := t.TempDir()

	_, err := GenerateSVG(context.Background(), cfg, stalledDvisvgmRunner{}, dir, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, ErrGenerator) {
		t.Fatalf("GenerateSVG() error = %v, want ErrGenerator", err)
	}
	if !strings.Contains(err.Error(), "dvisvgm_timeout_sec") {
		t.Errorf("error = %q, want a dvisvgm_timeout_sec hint", err)
	}
}

func TestGenerateSVG_NoOutputIsGeneratorError(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	dir := t.TempDir()
	runner := &fakeDvisvgmRunner{}

	_, err := GenerateSVG(context.Background(), cfg, runner, dir, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, ErrGenerator) {
		t.Fatalf("GenerateSVG() error = %v, want ErrGenerator", err)
	}
}

func TestGenerateSVG_NonZeroExitIsGeneratorError(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	dir := t.TempDir()
	runner := &fakeDvisvgmRunner{err: errors.New("exit status 1")}

	_, err := GenerateSVG(context.Background(), cfg, runner, dir, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, ErrGenerator) {
		t.Fatalf("GenerateSVG() error = %v, want ErrGenerator", err)
	}
}

func TestGenerateSVG_TooManyPagesIsMultiPageError(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.MaxPages = 1
	dir := t.TempDir()
	runner := &fakeDvisvgmRunner{pageData: map[string]string{
		"doc-1.svg": "<svg>1</svg>",
		"doc-2.svg": "<svg>2</svg>",
	}}

	_, err := GenerateSVG(context.Background(), cfg, runner, dir, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, ErrMultiPage) {
		t.Fatalf("GenerateSVG() error = %v, want ErrMultiPage", err)
	}
}

func TestGenerateSVG_ReturnsFirstPageInSortedOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.MaxPages = 3
	dir := t.TempDir()
	runner := &fakeDvisvgmRunner{pageData: map[string]string{
		"doc-2.svg": "<svg>2</svg>",
		"doc-1.svg": "<svg>1</svg>",
	}}

	data, err := GenerateSVG(context.Background(), cfg, runner, dir, filepath.Join(dir, "doc.pdf"))
	if err != nil {
		t.Fatalf("GenerateSVG() error = %v", err)
	}
	if string(data) != "<svg>1</svg>" {
		t.Errorf("data = %q, want first page doc-1.svg", data)
	}
}
