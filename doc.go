// Package texlens is a pandoc filter that renders LaTeX fragments embedded
// in a document tree (inline math, display math, and raw TeX blocks) as
// SVG images, by driving a real TeX engine and SyncTeX rather than
// reimplementing TeX layout. It receives a pandoc JSON document tree,
// replaces each fragment's origin node with a raw-HTML <img>, and appends a
// single compressed SVG asset plus a client-side decompression loader.
//
// The pipeline is a straight line, leaves first: Extractor walks the tree
// and collects Fragments; Assembler deduplicates and assembles one TeX
// source; Driver compiles it with SyncTeX enabled; Locator maps each
// fragment's byte offset to a page rectangle; the SVG Generator converts
// the PDF to a single SVG and the Refiner tightens each rectangle to the
// vector ink it actually contains; Packer collapses duplicate glyph paths
// into a shared defs section, then compresses and encodes the SVG;
// Rewriter splices <img> tags and the loader script back into the tree.
// Filter.Render runs all eight stages and only swaps the working tree into
// the caller's pointer on complete success; every error aborts the whole
// invocation and the caller's tree is left untouched.
package texlens
