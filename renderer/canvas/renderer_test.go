package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/litelayout/scene"
)

var bodyFont = scene.FontResource{Name: "Body", Family: "Body", Fallback: "system:sans-serif"}

// fontRenderer 返回一个能加载字体的渲染器；环境中没有任何可用字体时跳过测试。
func fontRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer(".")
	if _, err := r.fontFace(bodyFont, 16, scene.Color{}); err != nil {
		t.Skipf("no usable font: %v", err)
	}
	return r
}

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	r := fontRenderer(t)
	lines, err := r.LayoutLines("hello world again", 40, bodyFont, 16, 16*1.2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
}

func TestLayoutLinesHonorsNewlines(t *testing.T) {
	r := fontRenderer(t)
	lines, err := r.LayoutLines("foo\n\nbar", 400, bodyFont, 16, 16*1.2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// TestLineHeightsInvariant 验证：
// 1) 首行 GapBefore == 0；
// 2) 其余行 GapBefore ≈ max(lineHeight - textHeight, 0)；
// 3) 各行的 Height 与 textHeight 一致（渲染器会用字体度量回填）。
func TestLineHeightsInvariant(t *testing.T) {
	r := fontRenderer(t)
	lineHeight := 16 * 1.6

	content := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines, err := r.LayoutLines(content, 150, bodyFont, 16, lineHeight, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines for invariant test, got %d", len(lines))
	}

	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %g", textHeight)
	}
	wantLeading := math.Max(lineHeight-textHeight, 0)

	if lines[0].GapBefore != 0 {
		t.Fatalf("first line GapBefore must be 0, got %g", lines[0].GapBefore)
	}
	const eps = 1e-6
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(lines[i].GapBefore - wantLeading); diff > eps {
			t.Fatalf("line %d GapBefore mismatch: got=%g want=%g diff=%g", i, lines[i].GapBefore, wantLeading, diff)
		}
		if diff := math.Abs(lines[i].Height - textHeight); diff > eps {
			t.Fatalf("line %d Height mismatch: got=%g want=%g diff=%g", i, lines[i].Height, textHeight, diff)
		}
	}
}

// TestAnywhereWrapWidthLimit 验证 anywhere 模式下每行宽度不超过限制（px）。
func TestAnywhereWrapWidthLimit(t *testing.T) {
	r := fontRenderer(t)
	limit := 100.0
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lines, err := r.LayoutLines(content, limit, bodyFont, 16, 16*1.2, "anywhere")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected the long word to be split, got %d lines", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

// monospace 每个字符 1px，便于精确断言折行结果。
func monospace(s string) float64 { return float64(len([]rune(s))) }

func contents(lines []scene.TextLine) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.Content
	}
	return out
}

func TestGreedyWrapModes(t *testing.T) {
	cases := []struct {
		name    string
		content string
		width   float64
		wrap    string
		want    []string
	}{
		{"normal breaks at spaces", "aa bb cc", 5, "normal", []string{"aa bb", "cc"}},
		{"zero width puts each word on its own line", "aa bbbb c", 0, "normal", []string{"aa", "bbbb", "c"}},
		{"normal never splits words", "abcdefg", 3, "normal", []string{"abcdefg"}},
		{"anywhere splits long words", "abcdefg", 3, "anywhere", []string{"abc", "def", "g"}},
		{"nowrap keeps explicit lines", "a b c\nd", 1, "nowrap", []string{"a b c", "d"}},
		{"negative width is unbounded", "aa bb cc", -1, "normal", []string{"aa bb cc"}},
		{"blank lines survive", "foo\n\nbar", 10, "normal", []string{"foo", "", "bar"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := contents(greedyWrapTokens(tc.content, tc.width, monospace, tc.wrap))
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGreedyWrapTrimsTrailingSpace(t *testing.T) {
	lines := greedyWrapTokens("aa   bb", 4, monospace, "normal")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", contents(lines))
	}
	if lines[0].Content != "aa" || lines[0].Width != 2 {
		t.Fatalf("first line should drop trailing spaces: %+v", lines[0])
	}
}

func sampleResult() *scene.Result {
	blue := scene.Color{R: 15, G: 98, B: 254}
	return &scene.Result{
		Screen: scene.Screen{Width: 100, Height: 60, Content: 60},
		Frames: []scene.Frame{
			{Kind: scene.KindColumn, Width: 100, Height: 60, Background: &scene.Color{R: 240, G: 240, B: 240}},
			{Kind: scene.KindIcon, Depth: 1, X: 4, Y: 4, Width: 24, Height: 24, Color: &blue},
			{Kind: scene.KindBox, Depth: 1, X: 4, Y: 32, Width: 92, Height: 10},
		},
		Meta: scene.DocumentMeta{Title: "demo", Creator: "litelayout"},
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := NewRendererWithOptions(Options{Outline: true}).Render(sampleResult())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestRenderSVG(t *testing.T) {
	data, err := NewRendererWithOptions(Options{Format: FormatSVG}).Render(sampleResult())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Fatalf("expected svg output")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil result should fail")
	}
	if _, err := r.Render(&scene.Result{}); err == nil {
		t.Fatalf("zero-width screen should fail")
	}
	bad := NewRendererWithOptions(Options{Format: "png"})
	if _, err := bad.Render(sampleResult()); err == nil {
		t.Fatalf("unknown format should fail")
	}
}

func TestParseFontStyle(t *testing.T) {
	if got := parseFontStyle("SemiBold Italic"); got != canvas.FontSemiBold|canvas.FontItalic {
		t.Fatalf("unexpected style %v", got)
	}
	if got := parseFontStyle(""); got != canvas.FontRegular {
		t.Fatalf("empty style should be regular, got %v", got)
	}
}
