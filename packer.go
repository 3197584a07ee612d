package texlens

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/texlens/texlens/internal/assets"
	"github.com/texlens/texlens/internal/lzmautil"
	"github.com/texlens/texlens/internal/svgopt"
)

// svgSentinel is the placeholder URL scheme every rewritten <img src>
// begins with; the loader script strips everything from "#" onward off the
// current src and reappends it to the decompressed blob URL.
const svgSentinel = "texlens-asset:doc.svg"

// Pack serialises the final SVG: duplicate glyph paths are collapsed into a
// shared <defs> section first (dvisvgm's --no-fonts output repeats a full
// outline for every occurrence of a glyph), then the result is
// LZMA-compressed at the library's default preset and base64-encoded. It
// also renders the loader script that, on DOMContentLoaded, decodes and
// decompresses the payload into a blob URL and substitutes it into every
// <img> carrying the "texlens-svg" class; rewriter.go attaches that class
// to every emitted <img> unconditionally, so the loader's selector never
// depends on the user-configurable svg_class.
func Pack(cfg Config, svg []byte) (PackedAsset, string, error) {
	optimized, deduped, err := svgopt.Optimize(svg, svgopt.DefaultEpsilon)
	if err != nil {
		return PackedAsset{}, "", fmt.Errorf("%w: deduplicating svg paths: %w", ErrIO, err)
	}
	if deduped > 0 {
		cfg.Logger.Debug().
			Int("duplicate_paths", deduped).
			Int("bytes_before", len(svg)).
			Int("bytes_after", len(optimized)).
			Msg("collapsed duplicate svg paths into defs")
	}

	compressed, err := lzmautil.Compress(optimized)
	if err != nil {
		return PackedAsset{}, "", fmt.Errorf("%w: compressing svg: %w", ErrIO, err)
	}

	encoded := base64.StdEncoding.EncodeToString(compressed)

	loaderHTML, err := assets.RenderLoader(assets.LoaderData{
		LzmaScriptTag: scriptTag(cfg.LzmaLoaderURL),
		EncodedBlob:   encoded,
	})
	if err != nil {
		return PackedAsset{}, "", fmt.Errorf("%w: rendering loader script: %w", ErrIO, err)
	}

	asset := PackedAsset{
		CompressedBytes: compressed,
		OriginalLength:  len(optimized),
		EncodedBase64:   encoded,
		SVGViewPrefix:   svgSentinel,
	}

	cfg.Logger.Info().
		Int("original_bytes", len(optimized)).
		Int("compressed_bytes", len(compressed)).
		Msg("svg asset packed")

	return asset, loaderHTML, nil
}

// scriptTag turns the configured lzma_loader_url into the <script> tag the
// loader template embeds. The default config value is already a full tag
// (internal/assets.DefaultLzmaScriptTag); a jlconfig.toml override is
// expected to be a bare URL and gets wrapped.
func scriptTag(value string) template.HTML {
	if value == "" {
		return template.HTML(assets.DefaultLzmaScriptTag)
	}
	if strings.Contains(value, "<script") {
		return template.HTML(value) // #nosec G203 -- jlconfig.toml is operator-authored, not page-rendered input
	}
	return template.HTML(fmt.Sprintf(`<script src=%q></script>`, value))
}
