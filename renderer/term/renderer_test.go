package termrenderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/litelayout/scene"
)

func plain() *Renderer {
	return NewRenderer(Options{CellWidth: 8, CellHeight: 16, NoColor: true, NoBorder: true})
}

func render(t *testing.T, r *Renderer, res *scene.Result) []string {
	t.Helper()
	out, err := r.Render(res)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
}

func TestRenderGrid(t *testing.T) {
	res := &scene.Result{
		Screen: scene.Screen{Width: 32, Height: 32},
		Frames: []scene.Frame{
			{Kind: scene.KindColumn, Width: 32, Height: 32},
			{Kind: scene.KindIcon, Depth: 1, Width: 16, Height: 16},
			{Kind: scene.KindBox, Depth: 1, X: 16, Width: 16, Height: 16},
			{Kind: scene.KindText, Depth: 1, X: 16, Y: 16, Width: 16, Height: 16, Text: &scene.TextBox{
				Lines: []scene.TextLine{{Content: "abc", Width: 24, Height: 16}},
			}},
		},
	}
	assert.Equal(t, []string{"■■░░", "  ab"}, render(t, plain(), res))
}

func TestRenderWideRunes(t *testing.T) {
	res := &scene.Result{
		Screen: scene.Screen{Width: 32, Height: 16},
		Frames: []scene.Frame{
			{Kind: scene.KindText, Width: 32, Height: 16, Text: &scene.TextBox{
				Lines: []scene.TextLine{{Content: "中文字", Height: 16}},
			}},
		},
	}
	// 第三个字放不下，被截断
	assert.Equal(t, []string{"中文"}, render(t, plain(), res))
}

func TestRenderScrollUsesContentHeight(t *testing.T) {
	res := &scene.Result{
		Screen: scene.Screen{Width: 8, Height: 16, Scroll: true, Content: 48},
		Frames: []scene.Frame{
			{Kind: scene.KindColumn, Width: 8, Height: 48},
			{Kind: scene.KindIcon, Depth: 1, Y: 32, Width: 8, Height: 8},
		},
	}
	assert.Equal(t, []string{" ", " ", "■"}, render(t, plain(), res))
}

func TestRenderBorder(t *testing.T) {
	res := &scene.Result{Screen: scene.Screen{Width: 16, Height: 16}}
	out, err := NewRenderer(Options{NoColor: true}).Render(res)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "╭──╮", lines[0])
	assert.Equal(t, "╰──╯", lines[2])
}

func TestRenderErrors(t *testing.T) {
	_, err := plain().Render(nil)
	assert.Error(t, err)
	_, err = plain().Render(&scene.Result{})
	assert.Error(t, err)
}
