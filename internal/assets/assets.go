package assets

import "html/template"

// DefaultLzmaScriptTag is the CDN script tag used to pull in the LZMA
// decompressor when jlconfig.toml does not set lzma_loader_url.
const DefaultLzmaScriptTag = `<script src="https://cdn.jsdelivr.net/npm/lzma@2.3.2/src/lzma_worker-min.js"></script>`

// DefaultLoaderData builds LoaderData using DefaultLzmaScriptTag, for callers
// that have not overridden the CDN script in config.
func DefaultLoaderData(encodedBlob string) LoaderData {
	return LoaderData{
		LzmaScriptTag: template.HTML(DefaultLzmaScriptTag),
		EncodedBlob:   encodedBlob,
	}
}
