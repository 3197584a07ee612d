package texlens

import (
	"bytes"
	"fmt"
)

// Assemble deduplicates fragment bodies, wraps each by kind, sandwiches
// them between preamble and postamble, and records a per-fragment byte
// offset and line/column into the generated file, built in the same pass
// that writes the buffer, so the file is never scanned twice. It returns
// fragments with CanonicalID set for every duplicate.
func Assemble(fragments []Fragment, preamble, postamble string) ([]Fragment, AssembledSource, error) {
	out := make([]Fragment, len(fragments))
	copy(out, fragments)

	w := &sourceWriter{}
	w.writeString(trimTrailingSpace(preamble))
	w.writeString("\n")

	src := AssembledSource{
		Offsets: make(map[FragmentID]int, len(fragments)),
		LineCol: make(map[FragmentID]LineCol, len(fragments)),
	}

	firstSeen := make(map[string]FragmentID, len(fragments))

	for idx := range out {
		f := &out[idx]
		if canonical, dup := firstSeen[f.DedupKey]; dup {
			f.CanonicalID = canonical
			src.Offsets[f.ID] = src.Offsets[canonical]
			src.LineCol[f.ID] = src.LineCol[canonical]
			continue
		}

		firstSeen[f.DedupKey] = f.ID
		f.CanonicalID = f.ID

		fmt.Fprintf(w, "%% texlens-fragment-%d\n", int(f.ID))

		open, close := wrapDelimiters(f.Kind)
		w.writeString(open)

		src.Offsets[f.ID] = w.offset()
		src.LineCol[f.ID] = w.snapshot()

		w.writeString(f.Body)
		w.writeString(close)
		w.writeString("\n")
	}

	w.writeString(trimTrailingSpace(postamble))
	w.writeString("\n")

	src.Bytes = w.buf.Bytes()
	return out, src, nil
}

func wrapDelimiters(kind FragmentKind) (open, close string) {
	switch kind {
	case InlineMath:
		return `\(`, `\)`
	case DisplayMath:
		return `\[`, `\]`
	default: // RawTex, Hidden
		return "", ""
	}
}

func trimTrailingSpace(s string) string {
	i := len(s)
	for i > 0 {
		switch s[i-1] {
		case ' ', '\t', '\n', '\r':
			i--
			continue
		}
		break
	}
	return s[:i]
}

// sourceWriter accumulates the assembled TeX source while tracking the
// current 1-indexed line and column, so callers can snapshot a LineCol at
// the exact byte position they are about to write.
type sourceWriter struct {
	buf  bytes.Buffer
	line int
	col  int
}

func (w *sourceWriter) writeString(s string) {
	if w.line == 0 {
		w.line, w.col = 1, 1
	}
	for i := 0; i < len(s); i++ {
		w.buf.WriteByte(s[i])
		if s[i] == '\n' {
			w.line++
			w.col = 1
		} else {
			w.col++
		}
	}
}

// Write implements io.Writer so fmt.Fprintf can target a sourceWriter
// while still tracking line/column.
func (w *sourceWriter) Write(p []byte) (int, error) {
	w.writeString(string(p))
	return len(p), nil
}

func (w *sourceWriter) offset() int { return w.buf.Len() }

func (w *sourceWriter) snapshot() LineCol {
	if w.line == 0 {
		return LineCol{Line: 1, Column: 1}
	}
	return LineCol{Line: w.line, Column: w.col}
}
