package texlens

import (
	"testing"

	"github.com/texlens/texlens/internal/pandocast"
)

func mathNode(mathType, body string) map[string]any {
	return map[string]any{
		"t": "Math",
		"c": []any{
			map[string]any{"t": mathType},
			body,
		},
	}
}

func rawInlineNode(format, text string) map[string]any {
	return map[string]any{"t": "RawInline", "c": []any{format, text}}
}

func rawBlockNode(format, text string) map[string]any {
	return map[string]any{"t": "RawBlock", "c": []any{format, text}}
}

func paraNode(inlines ...any) map[string]any {
	return map[string]any{"t": "Para", "c": []any(inlines)}
}

func TestExtract_InlineMath(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{paraNode(mathNode("InlineMath", "x^2"))},
	}

	frags := Extract(tree)
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}
	if frags[0].Kind != InlineMath {
		t.Errorf("Kind = %v, want InlineMath", frags[0].Kind)
	}
	if frags[0].Body != "x^2" {
		t.Errorf("Body = %q, want x^2", frags[0].Body)
	}
	if !frags[0].HasOrigin {
		t.Error("HasOrigin = false, want true")
	}
}

func TestExtract_DisplayMath(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{paraNode(mathNode("DisplayMath", "a+b"))},
	}

	frags := Extract(tree)
	if len(frags) != 1 || frags[0].Kind != DisplayMath {
		t.Fatalf("frags = %+v, want one DisplayMath fragment", frags)
	}
}

func TestExtract_DisplayMathRawMarker(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{paraNode(mathNode("DisplayMath", "%raw\n\\vspace{1em}"))},
	}

	frags := Extract(tree)
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}
	if frags[0].Kind != RawTex {
		t.Errorf("Kind = %v, want RawTex", frags[0].Kind)
	}
	if frags[0].Body != "\\vspace{1em}" {
		t.Errorf("Body = %q, want marker stripped", frags[0].Body)
	}
}

func TestExtract_DisplayMathDontshowMarker(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{paraNode(mathNode("DisplayMath", "%dontshow\n\\newcommand{\\R}{\\mathbb{R}}"))},
	}

	frags := Extract(tree)
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}
	if frags[0].Kind != Hidden {
		t.Errorf("Kind = %v, want Hidden", frags[0].Kind)
	}
	if frags[0].HasOrigin {
		t.Error("HasOrigin = true for a Hidden fragment; Hidden fragments keep their node position but are never rewritten into an <img>")
	}
}

func TestExtract_RawBlockTex(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{rawBlockNode("tex", "\\begin{tikzpicture}\\end{tikzpicture}")},
	}

	frags := Extract(tree)
	if len(frags) != 1 || frags[0].Kind != RawTex {
		t.Fatalf("frags = %+v, want one RawTex fragment", frags)
	}
}

func TestExtract_RawBlockNonTexIgnored(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{rawBlockNode("html", "<div></div>")},
	}

	frags := Extract(tree)
	if len(frags) != 0 {
		t.Fatalf("len(frags) = %d, want 0 for a non-tex raw block", len(frags))
	}
}

func TestExtract_RawBlockDontshow(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{rawBlockNode("tex", "%dontshow\n\\usepackage{tikz}")},
	}

	frags := Extract(tree)
	if len(frags) != 1 || frags[0].Kind != Hidden {
		t.Fatalf("frags = %+v, want one Hidden fragment", frags)
	}
	if frags[0].Body != "\\usepackage{tikz}" {
		t.Errorf("Body = %q, want marker stripped", frags[0].Body)
	}
}

func TestExtract_RawInlineTex(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{paraNode(rawInlineNode("tex", "\\textbf{x}"))},
	}

	frags := Extract(tree)
	if len(frags) != 1 || frags[0].Kind != RawTex {
		t.Fatalf("frags = %+v, want one RawTex fragment", frags)
	}
}

func TestExtract_OrderPreservation(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{
			paraNode(mathNode("InlineMath", "first")),
			paraNode(mathNode("InlineMath", "second")),
		},
	}

	frags := Extract(tree)
	if len(frags) != 2 {
		t.Fatalf("len(frags) = %d, want 2", len(frags))
	}
	if frags[0].Body != "first" || frags[1].Body != "second" {
		t.Errorf("order = [%q, %q], want [first, second]", frags[0].Body, frags[1].Body)
	}
	if frags[0].ID != 0 || frags[1].ID != 1 {
		t.Errorf("ids = [%d, %d], want [0, 1]", frags[0].ID, frags[1].ID)
	}
}

func TestExtract_NestedEmphStrongFindsMath(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{
			paraNode(map[string]any{
				"t": "Strong",
				"c": []any{
					map[string]any{
						"t": "Emph",
						"c": []any{mathNode("InlineMath", "y^2")},
					},
				},
			}),
		},
	}

	frags := Extract(tree)
	if len(frags) != 1 || frags[0].Body != "y^2" {
		t.Fatalf("frags = %+v, want one fragment with body y^2", frags)
	}
}

func TestExtract_DivRecursesIntoChildBlocks(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{
			map[string]any{
				"t": "Div",
				"c": []any{
					[]any{"", []any{}, []any{}},
					[]any{paraNode(mathNode("InlineMath", "z"))},
				},
			},
		},
	}

	frags := Extract(tree)
	if len(frags) != 1 || frags[0].Body != "z" {
		t.Fatalf("frags = %+v, want one fragment with body z", frags)
	}
}

func TestExtract_OriginPathSetMutatesTree(t *testing.T) {
	t.Parallel()

	blocks := []any{paraNode(mathNode("InlineMath", "x"))}
	tree := &pandocast.Pandoc{Blocks: blocks}

	frags := Extract(tree)
	if len(frags) != 1 {
		t.Fatalf("len(frags) = %d, want 1", len(frags))
	}

	frags[0].Origin.Set(pandocast.RawNode("RawInline", "html", "<img>"))

	para := tree.Blocks[0].(map[string]any)
	inlines := para["c"].([]any)
	newTag, _ := pandocast.Tag(inlines[0])
	if newTag != "RawInline" {
		t.Errorf("after Origin.Set, inline tag = %q, want RawInline", newTag)
	}
}

func TestExtract_NoFragments(t *testing.T) {
	t.Parallel()

	tree := &pandocast.Pandoc{
		Blocks: []any{paraNode(map[string]any{"t": "Str", "c": "hello"})},
	}

	frags := Extract(tree)
	if len(frags) != 0 {
		t.Errorf("len(frags) = %d, want 0", len(frags))
	}
}
