package pandocast_test

import (
	"testing"

	"github.com/texlens/texlens/internal/pandocast"
)

const sampleDoc = `{
  "pandoc-api-version": [1, 23],
  "meta": {},
  "blocks": [
    {"t": "Para", "c": [
      {"t": "Str", "c": "x"},
      {"t": "Math", "c": [{"t": "InlineMath"}, "x^2"]}
    ]}
  ]
}`

func TestDecodeEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := pandocast.Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("Blocks len = %d, want 1", len(doc.Blocks))
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	redecoded, err := pandocast.Decode(out)
	if err != nil {
		t.Fatalf("re-decode error = %v", err)
	}
	if len(redecoded.Blocks) != len(doc.Blocks) {
		t.Errorf("round trip block count = %d, want %d", len(redecoded.Blocks), len(doc.Blocks))
	}
}

func TestTagAndContent(t *testing.T) {
	t.Parallel()

	doc, err := pandocast.Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	tag, ok := pandocast.Tag(doc.Blocks[0])
	if !ok || tag != "Para" {
		t.Fatalf("Tag(blocks[0]) = %q, %v, want Para, true", tag, ok)
	}

	content, ok := pandocast.Content(doc.Blocks[0])
	if !ok {
		t.Fatal("Content(blocks[0]) ok = false")
	}

	inlines, ok := pandocast.AsNodeList(content)
	if !ok || len(inlines) != 2 {
		t.Fatalf("AsNodeList(content) = %v, %v, want 2 elements", inlines, ok)
	}

	mathTag, ok := pandocast.Tag(inlines[1])
	if !ok || mathTag != "Math" {
		t.Fatalf("Tag(inlines[1]) = %q, %v, want Math, true", mathTag, ok)
	}
}

func TestPathSetMutatesBackingSlice(t *testing.T) {
	t.Parallel()

	doc, err := pandocast.Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	content, _ := pandocast.Content(doc.Blocks[0])
	inlines, _ := pandocast.AsNodeList(content)

	path := pandocast.NewPath(inlines, 1)
	path.Set(pandocast.RawNode("RawInline", "html", "<img>"))

	tag, ok := pandocast.Tag(inlines[1])
	if !ok || tag != "RawInline" {
		t.Errorf("after Set, Tag(inlines[1]) = %q, %v, want RawInline, true", tag, ok)
	}

	// The mutation must be visible through the original content slice too,
	// since both share the same backing array.
	reread, _ := pandocast.AsNodeList(content)
	if tag, _ := pandocast.Tag(reread[1]); tag != "RawInline" {
		t.Errorf("mutation not visible through original slice, got tag %q", tag)
	}
}

func TestRawNode(t *testing.T) {
	t.Parallel()

	node := pandocast.RawNode("RawBlock", "html", "<p>hi</p>")

	tag, ok := pandocast.Tag(node)
	if !ok || tag != "RawBlock" {
		t.Fatalf("Tag(node) = %q, %v, want RawBlock, true", tag, ok)
	}

	content, _ := pandocast.Content(node)
	pair, ok := content.([]any)
	if !ok || len(pair) != 2 {
		t.Fatalf("content = %v, want a 2-element pair", content)
	}
	if format, _ := pandocast.AsString(pair[0]); format != "html" {
		t.Errorf("format = %q, want html", format)
	}
	if text, _ := pandocast.AsString(pair[1]); text != "<p>hi</p>" {
		t.Errorf("text = %q, want <p>hi</p>", text)
	}
}

func TestDecode_DefaultsEmptyBlocks(t *testing.T) {
	t.Parallel()

	doc, err := pandocast.Decode([]byte(`{"pandoc-api-version":[1,23],"meta":{}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Blocks == nil {
		t.Error("Blocks should default to an empty slice, got nil")
	}
}
