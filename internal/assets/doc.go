// Package assets provides the built-in LaTeX preamble/postamble and the
// HTML loader script template embedded at compile time.
//
// A config file may override the preamble, postamble, and the LZMA CDN
// script tag inline (see internal/tomlutil and the root config.go); this
// package only supplies the shipped defaults and the loader template that
// stitches a compressed SVG blob back into the document at load time.
package assets
