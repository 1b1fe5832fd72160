package termrenderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/litelayout/renderer"
	"github.com/ByLCY/litelayout/scene"
)

const (
	glyphIcon  = '■'
	glyphBox   = '░'
	glyphBlank = ' '
)

var (
	defaultIconColor = scene.Color{R: 120, G: 120, B: 120}
	frameStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// Options 控制字符网格的精度与着色。
type Options struct {
	CellWidth  int // 每格像素宽度，默认 8
	CellHeight int // 每格像素高度，默认 16
	NoColor    bool
	NoBorder   bool // 不绘制屏幕外框
}

// Renderer 把帧列表画在字符网格上，用于终端里快速检查布局。
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a terminal renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	return &Renderer{opts: opts}
}

type cell struct {
	ch   rune
	fg   *scene.Color
	bg   *scene.Color
	cont bool // 宽字符占用的第二格
}

type grid struct {
	cols, rows int
	cells      [][]cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for i := range g.cells {
		g.cells[i] = make([]cell, cols)
		for j := range g.cells[i] {
			g.cells[i][j].ch = glyphBlank
		}
	}
	return g
}

func (g *grid) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return nil
	}
	return &g.cells[row][col]
}

// Render 返回带 ANSI 样式的多行文本。
func (r *Renderer) Render(result *scene.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Screen.Width <= 0 {
		return nil, fmt.Errorf("屏幕宽度无效: %d", result.Screen.Width)
	}
	height := result.Screen.Height
	if result.Screen.Scroll {
		height = max(height, result.Screen.Content)
	}
	g := newGrid(ceilDiv(result.Screen.Width, r.opts.CellWidth), ceilDiv(max(height, 1), r.opts.CellHeight))
	for _, f := range result.Frames {
		r.drawFrame(g, f)
	}
	out := r.paint(g)
	if !r.opts.NoBorder {
		out = frameStyle.Render(out)
	}
	return []byte(out + "\n"), nil
}

func (r *Renderer) drawFrame(g *grid, f scene.Frame) {
	c0, r0 := f.X/r.opts.CellWidth, f.Y/r.opts.CellHeight
	c1, r1 := ceilDiv(f.X+f.Width, r.opts.CellWidth), ceilDiv(f.Y+f.Height, r.opts.CellHeight)

	if f.Background != nil {
		bg := *f.Background
		r.fill(g, c0, r0, c1, r1, func(c *cell) { c.bg = &bg })
	}
	switch f.Kind {
	case scene.KindIcon:
		col := defaultIconColor
		if f.Color != nil {
			col = *f.Color
		}
		r.fill(g, c0, r0, c1, r1, func(c *cell) { c.ch, c.fg, c.cont = glyphIcon, &col, false })
	case scene.KindBox:
		if f.Background == nil {
			r.fill(g, c0, r0, c1, r1, func(c *cell) { c.ch, c.cont = glyphBox, false })
		}
	}
	if f.Text != nil {
		r.drawText(g, f, c1)
	}
}

func (r *Renderer) fill(g *grid, c0, r0, c1, r1 int, apply func(*cell)) {
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			if c := g.at(col, row); c != nil {
				apply(c)
			}
		}
	}
}

// drawText 每行文本写到其顶边所在的格子行，超出帧右边的部分截断。
func (r *Renderer) drawText(g *grid, f scene.Frame, limit int) {
	fg := f.Text.Color
	y := float64(f.Y + f.Padding)
	for _, line := range f.Text.Lines {
		y += line.GapBefore
		row := int(y) / r.opts.CellHeight
		col := (f.X + f.Padding) / r.opts.CellWidth
		for _, ch := range line.Content {
			w := runewidth.RuneWidth(ch)
			if w == 0 {
				continue
			}
			if col+w > limit {
				break
			}
			if c := g.at(col, row); c != nil {
				c.ch, c.fg, c.cont = ch, &fg, false
			}
			if w == 2 {
				if c := g.at(col+1, row); c != nil {
					c.cont = true
				}
			}
			col += w
		}
		y += line.Height
	}
}

// paint 将相同样式的连续格子合并后交给 lipgloss 渲染。
func (r *Renderer) paint(g *grid) string {
	var sb strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle *cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(r.style(runStyle).Render(run.String()))
			run.Reset()
		}
		for j := range row {
			c := &row[j]
			if c.cont {
				continue
			}
			if runStyle == nil || !sameStyle(runStyle, c) {
				flush()
				runStyle = c
			}
			run.WriteRune(c.ch)
		}
		flush()
	}
	return sb.String()
}

func (r *Renderer) style(c *cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if r.opts.NoColor || c == nil {
		return s
	}
	if c.fg != nil {
		s = s.Foreground(hex(*c.fg))
	}
	if c.bg != nil {
		s = s.Background(hex(*c.bg))
	}
	return s
}

func sameStyle(a, b *cell) bool {
	return colorEqual(a.fg, b.fg) && colorEqual(a.bg, b.bg)
}

func colorEqual(a, b *scene.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func hex(c scene.Color) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
