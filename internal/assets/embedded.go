package assets

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed defaults/preamble.tex
var preambleFS embed.FS

//go:embed defaults/postamble.tex
var postambleFS embed.FS

//go:embed defaults/loader.html.tmpl
var loaderFS embed.FS

// LoaderData supplies the values interpolated into the embedded loader
// template: the LZMA decompressor script tag and the base64-encoded,
// LZMA-compressed SVG blob.
type LoaderData struct {
	LzmaScriptTag template.HTML
	EncodedBlob   string
}

// DefaultPreamble returns the built-in LaTeX preamble used when a config
// does not supply one.
func DefaultPreamble() (string, error) {
	b, err := preambleFS.ReadFile("defaults/preamble.tex")
	if err != nil {
		return "", fmt.Errorf("%w: preamble: %w", ErrAssetRead, err)
	}
	return string(b), nil
}

// DefaultPostamble returns the built-in LaTeX postamble used when a config
// does not supply one.
func DefaultPostamble() (string, error) {
	b, err := postambleFS.ReadFile("defaults/postamble.tex")
	if err != nil {
		return "", fmt.Errorf("%w: postamble: %w", ErrAssetRead, err)
	}
	return string(b), nil
}

// RenderLoader executes the embedded loader template against data and
// returns the HTML fragment the Asset Packer appends to the document.
func RenderLoader(data LoaderData) (string, error) {
	raw, err := loaderFS.ReadFile("defaults/loader.html.tmpl")
	if err != nil {
		return "", fmt.Errorf("%w: loader: %w", ErrAssetRead, err)
	}

	tmpl, err := template.New("loader").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplateParse, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: executing loader template: %w", ErrTemplateParse, err)
	}

	return buf.String(), nil
}
