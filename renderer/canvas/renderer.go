package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/litelayout/renderer"
	"github.com/ByLCY/litelayout/scene"
)

const (
	// 画布以毫米为单位，布局以 96dpi 的像素为单位。
	mmPerPx = 25.4 / 96
	ptPerPx = 0.75

	outlineWidth = 0.5 // px
)

// Output formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
)

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	format  string
	outline bool

	// injected resources
	fontBlobs   map[string][]byte // by unique name
	fontPaths   []string
	systemFonts []string

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ scene.Typesetter  = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  string              // pdf (default) or svg
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	// FontPaths are font files tried in order when a resource cannot be loaded.
	FontPaths []string
	// SystemFonts are system families tried after FontPaths; nil means a default list.
	SystemFonts []string
	// Outline strokes every frame, useful to visualise containers.
	Outline bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		format:       strings.ToLower(opts.Format),
		outline:      opts.Outline,
		fontBlobs:    map[string][]byte{},
		fontPaths:    opts.FontPaths,
		systemFonts:  opts.SystemFonts,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.format == "" {
		r.format = FormatPDF
	}
	if r.systemFonts == nil {
		r.systemFonts = defaultSystemFonts
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 使用时再报错
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render renders the result into a PDF or SVG byte slice.
func (r *Renderer) Render(result *scene.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Screen.Width <= 0 {
		return nil, fmt.Errorf("屏幕宽度无效: %d", result.Screen.Width)
	}
	heightPx := result.Screen.Height
	if result.Screen.Scroll || heightPx <= 0 {
		heightPx = max(heightPx, result.Screen.Content)
	}
	width := pxToMm(float64(result.Screen.Width))
	height := pxToMm(float64(max(heightPx, 1)))

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	for _, frame := range result.Frames {
		if err := r.drawFrame(ctx, frame, result.Resources); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	switch r.format {
	case FormatPDF:
		writer := pdf.New(&buf, width, height, nil)
		r.applyMeta(writer, result.Meta)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatSVG:
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式: %s", r.format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta scene.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawFrame 依次绘制背景、图标与文本，最后按需描边。
func (r *Renderer) drawFrame(ctx *canvas.Context, f scene.Frame, resources scene.ResourceSet) error {
	x, y := pxToMm(float64(f.X)), pxToMm(float64(f.Y))
	w, h := pxToMm(float64(f.Width)), pxToMm(float64(f.Height))

	if f.Background != nil {
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetFillColor(colorFromScene(*f.Background))
		ctx.DrawPath(x, y, canvas.Rectangle(w, h))
	}
	if f.Kind == scene.KindIcon {
		fill := scene.Color{R: 120, G: 120, B: 120}
		if f.Color != nil {
			fill = *f.Color
		}
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.SetFillColor(colorFromScene(fill))
		radius := math.Min(w, h) / 4
		ctx.DrawPath(x, y, canvas.RoundedRectangle(w, h, radius))
	}
	if f.Text != nil {
		pad := float64(f.Padding)
		fontRes := resolveFontResource(f.Text.Font, resources.Fonts)
		if err := r.drawTextBox(ctx, float64(f.X)+pad, float64(f.Y)+pad, *f.Text, fontRes); err != nil {
			return err
		}
	}
	if r.outline {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(canvas.Hex("#c8c8c8"))
		ctx.SetStrokeWidth(pxToMm(outlineWidth))
		ctx.DrawPath(x, y, canvas.Rectangle(w, h))
	}
	return nil
}

// drawTextBox 从 (left, top) 开始逐行绘制，单位为像素。
func (r *Renderer) drawTextBox(ctx *canvas.Context, left, top float64, tb scene.TextBox, fontRes scene.FontResource) error {
	face, err := r.fontFace(fontRes, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	lines := tb.Lines
	if len(lines) == 0 {
		lines = []scene.TextLine{{Content: tb.Content, Height: tb.LineHeight}}
	}
	ascent := face.Metrics().Ascent // mm
	cursorY := top
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.FontSize
		}
		textLine := canvas.NewTextLine(face, line.Content, canvas.Left)
		ctx.DrawText(pxToMm(left), pxToMm(cursorY)+ascent, textLine)
		cursorY += lineHeight
	}
	return nil
}

func colorFromScene(c scene.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// pxToMm 将像素转换为毫米。
func pxToMm(px float64) float64 { return px * mmPerPx }

// mmToPx 将毫米转换为像素。
func mmToPx(mm float64) float64 { return mm / mmPerPx }

// pxToPt 将像素转换为点(pt)。
func pxToPt(px float64) float64 { return px * ptPerPx }
