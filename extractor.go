package texlens

import (
	"strings"

	"github.com/texlens/texlens/internal/pandocast"
)

// Extractor walks a pandoc document tree in reading order and collects
// Fragments, without mutating the tree.
type Extractor struct {
	fragments []Fragment
}

// Extract walks tree and returns every Fragment found, in order of first
// discovery (in-order DFS).
func Extract(tree *pandocast.Pandoc) []Fragment {
	e := &Extractor{}
	e.walkBlockList(tree.Blocks)
	return e.fragments
}

func (e *Extractor) addFragment(kind FragmentKind, body string, origin pandocast.Path, hasOrigin bool) {
	id := FragmentID(len(e.fragments))
	e.fragments = append(e.fragments, Fragment{
		ID:          id,
		Kind:        kind,
		Body:        body,
		Origin:      origin,
		HasOrigin:   hasOrigin,
		DedupKey:    NewDedupKey(kind, body),
		CanonicalID: id,
	})
}

func (e *Extractor) walkBlockList(blocks []any) {
	for i := range blocks {
		e.walkBlock(blocks, i)
	}
}

func (e *Extractor) walkBlock(slice []any, i int) {
	node := slice[i]
	tag, ok := pandocast.Tag(node)
	if !ok {
		return
	}
	content, _ := pandocast.Content(node)

	switch tag {
	case "Para", "Plain":
		if inlines, ok := pandocast.AsNodeList(content); ok {
			e.walkInlineList(inlines)
		}
	case "LineBlock":
		if lines, ok := pandocast.AsNodeList(content); ok {
			for _, line := range lines {
				if inlines, ok := pandocast.AsNodeList(line); ok {
					e.walkInlineList(inlines)
				}
			}
		}
	case "Header":
		if parts, ok := pandocast.AsNodeList(content); ok && len(parts) == 3 {
			if inlines, ok := pandocast.AsNodeList(parts[2]); ok {
				e.walkInlineList(inlines)
			}
		}
	case "BlockQuote":
		if inner, ok := pandocast.AsNodeList(content); ok {
			e.walkBlockList(inner)
		}
	case "OrderedList":
		if parts, ok := pandocast.AsNodeList(content); ok && len(parts) == 2 {
			if groups, ok := pandocast.AsNodeList(parts[1]); ok {
				for _, group := range groups {
					if inner, ok := pandocast.AsNodeList(group); ok {
						e.walkBlockList(inner)
					}
				}
			}
		}
	case "BulletList":
		if groups, ok := pandocast.AsNodeList(content); ok {
			for _, group := range groups {
				if inner, ok := pandocast.AsNodeList(group); ok {
					e.walkBlockList(inner)
				}
			}
		}
	case "Div":
		if parts, ok := pandocast.AsNodeList(content); ok && len(parts) == 2 {
			if inner, ok := pandocast.AsNodeList(parts[1]); ok {
				e.walkBlockList(inner)
			}
		}
	case "RawBlock":
		parts, ok := pandocast.AsNodeList(content)
		if !ok || len(parts) != 2 {
			return
		}
		format, _ := pandocast.AsString(parts[0])
		text, _ := pandocast.AsString(parts[1])
		if format != "tex" {
			return
		}
		kind, body := classifyRawCode(text)
		e.addFragment(kind, body, pandocast.NewPath(slice, i), kind != Hidden)
	}
}

func (e *Extractor) walkInlineList(inlines []any) {
	for i := range inlines {
		e.walkInline(inlines, i)
	}
}

func (e *Extractor) walkInline(slice []any, i int) {
	node := slice[i]
	tag, ok := pandocast.Tag(node)
	if !ok {
		return
	}
	content, _ := pandocast.Content(node)

	switch tag {
	case "Emph", "Underline", "Strong", "Strikeout":
		if inlines, ok := pandocast.AsNodeList(content); ok {
			e.walkInlineList(inlines)
		}
	case "Link", "Image":
		if parts, ok := pandocast.AsNodeList(content); ok && len(parts) >= 2 {
			if inlines, ok := pandocast.AsNodeList(parts[1]); ok {
				e.walkInlineList(inlines)
			}
		}
	case "Math":
		parts, ok := pandocast.AsNodeList(content)
		if !ok || len(parts) != 2 {
			return
		}
		mathTag, _ := pandocast.Tag(parts[0])
		body, _ := pandocast.AsString(parts[1])

		var kind FragmentKind
		switch mathTag {
		case "InlineMath":
			kind = InlineMath
		case "DisplayMath":
			kind, body = classifyDisplayMath(body)
		default:
			return
		}
		e.addFragment(kind, body, pandocast.NewPath(slice, i), kind != Hidden)
	case "RawInline":
		parts, ok := pandocast.AsNodeList(content)
		if !ok || len(parts) != 2 {
			return
		}
		format, _ := pandocast.AsString(parts[0])
		if format != "tex" {
			return
		}
		text, _ := pandocast.AsString(parts[1])
		kind, body := classifyRawCode(text)
		e.addFragment(kind, body, pandocast.NewPath(slice, i), kind != Hidden)
	}
}

const (
	markerRaw      = "%raw"
	markerDontshow = "%dontshow"
)

// classifyDisplayMath reclassifies a display-math fragment when a %raw or
// %dontshow marker appears on its first non-whitespace line, stripping that
// marker line from the body that gets assembled.
func classifyDisplayMath(body string) (FragmentKind, string) {
	trimmed := strings.TrimLeft(body, " \t\r\n")
	if strings.HasPrefix(trimmed, markerRaw) {
		return RawTex, stripMarkerLine(trimmed)
	}
	if strings.HasPrefix(trimmed, markerDontshow) {
		return Hidden, stripMarkerLine(trimmed)
	}
	return DisplayMath, body
}

// classifyRawCode reclassifies a raw-code fragment as Hidden when it opens
// with a %dontshow marker, stripping that marker line.
func classifyRawCode(body string) (FragmentKind, string) {
	trimmed := strings.TrimLeft(body, " \t\r\n")
	if strings.HasPrefix(trimmed, markerDontshow) {
		return Hidden, stripMarkerLine(trimmed)
	}
	return RawTex, body
}

// stripMarkerLine removes the marker's own line, leaving the rest of the
// body (the macro definitions or raw TeX that follows it) untouched.
func stripMarkerLine(body string) string {
	idx := strings.IndexByte(body, '\n')
	if idx < 0 {
		return ""
	}
	return body[idx+1:]
}
