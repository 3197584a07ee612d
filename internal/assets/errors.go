package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrAssetRead indicates an I/O error occurred while reading an embedded asset.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrTemplateParse indicates the loader template failed to parse.
	ErrTemplateParse = errors.New("failed to parse loader template")
)
