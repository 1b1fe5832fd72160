package canvasrenderer

import "testing"

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := fontRenderer(t)
	fontSize := 16.0
	lineHeight := fontSize * 1.2

	first := "SAMPLE-A"
	// 用不限宽先测量第一行宽度（px）
	measured, err := r.LayoutLines(first, -1, bodyFont, fontSize, lineHeight, "")
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	if len(measured) != 1 {
		t.Fatalf("unexpected measured lines: %d", len(measured))
	}
	limit := measured[0].Width
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	content := first + "\n" + "SAMPLE-B"
	lines, err := r.LayoutLines(content, limit, bodyFont, fontSize, lineHeight, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first {
		t.Fatalf("first line mismatch: got=%q want=%q", lines[0].Content, first)
	}
	if lines[1].Content != "SAMPLE-B" {
		t.Fatalf("second line mismatch: got=%q want=%q", lines[1].Content, "SAMPLE-B")
	}
}

// 与等宽测试相同的场景，用固定字宽确认边界不会多折一行。
func TestEqualWidthStaysOnOneLine(t *testing.T) {
	lines := greedyWrapTokens("abc de", 6, monospace, "normal")
	if len(lines) != 1 || lines[0].Width != 6 {
		t.Fatalf("expected a single 6px line, got %+v", lines)
	}
}
