package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/litelayout/layout"
)

// Node kinds.
const (
	KindColumn = "column"
	KindRow    = "row"
	KindBox    = "box"
	KindIcon   = "icon"
	KindText   = "text"
)

// Modifiers 描述节点自身的尺寸修饰与交给父容器的父数据。
type Modifiers struct {
	// ParentData 按书写顺序排列，第一个生效。
	ParentData []layout.ParentDataModifier
	Width      *layout.Dp
	Height     *layout.Dp
	FillWidth  bool
	FillHeight bool
	Padding    layout.Dp
	Background *Color
}

// TextSpec 是文本叶子节点的内容与样式，字号与行高以 sp 计。
type TextSpec struct {
	Content    string
	Font       FontResource
	Size       layout.Sp
	LineHeight float64 // 相对字号的倍数
	Color      Color
	Wrap       string
}

// Node 是宿主布局树中的一个节点。容器节点持有 MeasurePolicy，
// 叶子节点为固定尺寸的 box/icon 或经 Typesetter 排版的文本。
// Node 实现 layout.Measurable 与 layout.Placeable。
type Node struct {
	Kind      string
	Policy    layout.MeasurePolicy
	Children  []*Node
	Modifiers Modifiers
	Text      *TextSpec
	Color     *Color

	host *host

	// 最近一次测量与放置的结果
	cs     layout.Constraints
	width  int
	height int
	x, y   int
	placed bool
	result layout.MeasureResult
	box    *TextBox
}

type host struct {
	scope layout.MeasureScope
	ts    Typesetter
	errs  []error
}

func (h *host) fail(n *Node, err error) {
	wrapped := fmt.Errorf("%s: %w", n.Kind, err)
	for _, e := range h.errs {
		if e.Error() == wrapped.Error() {
			return
		}
	}
	h.errs = append(h.errs, wrapped)
}

// Viewport 是根节点的测量环境。Scroll 为真时高度不受限。
type Viewport struct {
	Width   int
	Height  int
	Density layout.Density
	Scroll  bool
}

// Constraints 返回根节点使用的约束：宽度固定为屏幕宽度，
// 高度固定为屏幕高度或在滚动时不受限。
func (v Viewport) Constraints() layout.Constraints {
	if v.Scroll {
		return layout.Constraints{MinWidth: v.Width, MaxWidth: v.Width, MaxHeight: layout.Infinity}
	}
	return layout.Fixed(v.Width, v.Height)
}

// Layout 测量并放置 root，随后将整棵树展开为绝对坐标的帧列表。
// 叶子测量失败不会中断布局，所有错误会在最后合并返回。
func Layout(root *Node, vp Viewport, ts Typesetter, debug DebugOptions) ([]Frame, error) {
	if root == nil {
		return nil, errors.New("布局树为空")
	}
	h := &host{scope: layout.MeasureScope{Density: vp.Density}, ts: ts}
	root.bind(h)
	root.Measure(vp.Constraints())
	root.PlaceAt(0, 0)

	var frames []Frame
	root.flatten(0, 0, 0, debug, &frames)
	return frames, errors.Join(h.errs...)
}

// IntrinsicSizes 汇总根节点的四个固有尺寸查询。
type IntrinsicSizes struct {
	MinWidth  int `json:"minWidth"`
	MaxWidth  int `json:"maxWidth"`
	MinHeight int `json:"minHeight"`
	MaxHeight int `json:"maxHeight"`
}

// Intrinsics 在不做测量的情况下查询 root 的固有尺寸。
// 宽度查询不限高度，高度查询使用屏幕宽度。
func Intrinsics(root *Node, vp Viewport, ts Typesetter) (IntrinsicSizes, error) {
	if root == nil {
		return IntrinsicSizes{}, errors.New("布局树为空")
	}
	h := &host{scope: layout.MeasureScope{Density: vp.Density}, ts: ts}
	root.bind(h)
	sizes := IntrinsicSizes{
		MinWidth:  root.MinIntrinsicWidth(layout.Infinity),
		MaxWidth:  root.MaxIntrinsicWidth(layout.Infinity),
		MinHeight: root.MinIntrinsicHeight(vp.Width),
		MaxHeight: root.MaxIntrinsicHeight(vp.Width),
	}
	return sizes, errors.Join(h.errs...)
}

func (n *Node) bind(h *host) {
	n.host = h
	n.placed = false
	n.box = nil
	for _, c := range n.Children {
		c.bind(h)
	}
}

func (n *Node) density() layout.Density {
	if n.host == nil {
		return layout.Density{}
	}
	return n.host.scope.Density
}

// Size 返回最近一次测量得到的尺寸。
func (n *Node) Size() (int, int) { return n.width, n.height }

// scope 在节点未绑定时退化为零密度。
func (n *Node) scope() layout.MeasureScope { return layout.MeasureScope{Density: n.density()} }

// ParentData implements layout.IntrinsicMeasurable.
func (n *Node) ParentData() any { return layout.FoldParentData(n.Modifiers.ParentData) }

func (n *Node) padding() int {
	return n.density().RoundToPx(n.Modifiers.Padding)
}

func (n *Node) fixedWidth() (int, bool) {
	if n.Modifiers.Width == nil {
		return 0, false
	}
	return n.density().RoundToPx(*n.Modifiers.Width), true
}

func (n *Node) fixedHeight() (int, bool) {
	if n.Modifiers.Height == nil {
		return 0, false
	}
	return n.density().RoundToPx(*n.Modifiers.Height), true
}

// constrain applies the sizing modifiers to the incoming constraints.
func (n *Node) constrain(cs layout.Constraints) layout.Constraints {
	if w, ok := n.fixedWidth(); ok {
		w = cs.ConstrainWidth(w)
		cs.MinWidth, cs.MaxWidth = w, w
	} else if n.Modifiers.FillWidth && cs.HasBoundedWidth() {
		cs.MinWidth = cs.MaxWidth
	}
	if h, ok := n.fixedHeight(); ok {
		h = cs.ConstrainHeight(h)
		cs.MinHeight, cs.MaxHeight = h, h
	} else if n.Modifiers.FillHeight && cs.HasBoundedHeight() {
		cs.MinHeight = cs.MaxHeight
	}
	return cs
}

// Measure implements layout.Measurable.
func (n *Node) Measure(cs layout.Constraints) layout.Placeable {
	n.cs = cs
	outer := n.constrain(cs)
	pad := n.padding()
	inner := outer.Deflate(pad)

	var w, h int
	switch {
	case n.Policy != nil:
		n.result = n.Policy.Measure(n.scope(), n.measurables(), inner)
		w, h = n.result.Width, n.result.Height
	case n.Text != nil:
		w, h = n.measureText(inner)
	default:
		w, h = inner.MinWidth, inner.MinHeight
	}
	// policies may report sizes outside the constraints (Row height); the host clamps.
	w = inner.ConstrainWidth(w)
	h = inner.ConstrainHeight(h)
	n.width = outer.ConstrainWidth(w + 2*pad)
	n.height = outer.ConstrainHeight(h + 2*pad)
	return n
}

func (n *Node) measurables() []layout.Measurable {
	out := make([]layout.Measurable, len(n.Children))
	for i, c := range n.Children {
		out[i] = c
	}
	return out
}

func (n *Node) intrinsics() []layout.IntrinsicMeasurable {
	return layout.Intrinsics(n.Children)
}

// Width implements layout.Placeable.
func (n *Node) Width() int { return n.width }

// Height implements layout.Placeable.
func (n *Node) Height() int { return n.height }

// PlaceAt implements layout.Placeable.
func (n *Node) PlaceAt(x, y int) {
	n.x, n.y = x, y
	n.placed = true
	n.result.Place()
}

func inset(v, pad int) int {
	if v == layout.Infinity {
		return v
	}
	return max(v-2*pad, 0)
}

// MinIntrinsicWidth implements layout.IntrinsicMeasurable.
func (n *Node) MinIntrinsicWidth(height int) int {
	if w, ok := n.fixedWidth(); ok {
		return w
	}
	pad := n.padding()
	if h, ok := n.fixedHeight(); ok {
		height = h
	}
	switch {
	case n.Policy != nil:
		return n.Policy.MinIntrinsicWidth(n.scope(), n.intrinsics(), inset(height, pad)) + 2*pad
	case n.Text != nil:
		return n.textWidth(0, "normal") + 2*pad
	default:
		return 2 * pad
	}
}

// MaxIntrinsicWidth implements layout.IntrinsicMeasurable.
func (n *Node) MaxIntrinsicWidth(height int) int {
	if w, ok := n.fixedWidth(); ok {
		return w
	}
	pad := n.padding()
	if h, ok := n.fixedHeight(); ok {
		height = h
	}
	switch {
	case n.Policy != nil:
		return n.Policy.MaxIntrinsicWidth(n.scope(), n.intrinsics(), inset(height, pad)) + 2*pad
	case n.Text != nil:
		return n.textWidth(math.MaxFloat64, "nowrap") + 2*pad
	default:
		return 2 * pad
	}
}

// MinIntrinsicHeight implements layout.IntrinsicMeasurable.
func (n *Node) MinIntrinsicHeight(width int) int {
	return n.intrinsicHeight(width, true)
}

// MaxIntrinsicHeight implements layout.IntrinsicMeasurable.
func (n *Node) MaxIntrinsicHeight(width int) int {
	return n.intrinsicHeight(width, false)
}

func (n *Node) intrinsicHeight(width int, minimum bool) int {
	if h, ok := n.fixedHeight(); ok {
		return h
	}
	pad := n.padding()
	if w, ok := n.fixedWidth(); ok {
		width = w
	}
	width = inset(width, pad)
	switch {
	case n.Policy != nil:
		if minimum {
			return n.Policy.MinIntrinsicHeight(n.scope(), n.intrinsics(), width) + 2*pad
		}
		return n.Policy.MaxIntrinsicHeight(n.scope(), n.intrinsics(), width) + 2*pad
	case n.Text != nil:
		box, err := n.typeset(widthBudget(width))
		if err != nil {
			n.report(err)
			return 2 * pad
		}
		return int(math.Ceil(box.Height)) + 2*pad
	default:
		return 2 * pad
	}
}

func widthBudget(w int) float64 {
	if w == layout.Infinity {
		return math.MaxFloat64
	}
	return float64(w)
}

func (n *Node) measureText(cs layout.Constraints) (int, int) {
	box, err := n.typeset(widthBudget(cs.MaxWidth))
	if err != nil {
		n.report(err)
		return 0, 0
	}
	n.box = &box
	return int(math.Ceil(widest(box.Lines))), int(math.Ceil(box.Height))
}

func (n *Node) textWidth(width float64, wrap string) int {
	spec := *n.Text
	spec.Wrap = wrap
	box, err := typesetText(spec, width, n.density(), n.typesetter())
	if err != nil {
		n.report(err)
		return 0
	}
	return int(math.Ceil(widest(box.Lines)))
}

func (n *Node) report(err error) {
	if n.host != nil {
		n.host.fail(n, err)
	}
}

func (n *Node) typeset(width float64) (TextBox, error) {
	return typesetText(*n.Text, width, n.density(), n.typesetter())
}

func (n *Node) typesetter() Typesetter {
	if n.host == nil {
		return nil
	}
	return n.host.ts
}

// typesetText 将文本按宽度排版成行，总高度 = Σ(GapBefore + Height)。
func typesetText(spec TextSpec, width float64, d layout.Density, ts Typesetter) (TextBox, error) {
	if ts == nil {
		return TextBox{}, errors.New("缺少排版后端 Typesetter")
	}
	size := spec.Size
	if size <= 0 {
		size = defaultFontSize
	}
	fontSize := float64(d.SpToPx(size))
	factor := spec.LineHeight
	if factor <= 0 {
		factor = defaultLineHeight
	}
	lineHeight := fontSize * factor
	wrap := spec.Wrap
	if wrap == "" {
		wrap = "normal"
	}
	lines, err := ts.LayoutLines(spec.Content, width, spec.Font, fontSize, lineHeight, wrap)
	if err != nil {
		return TextBox{}, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Height: fontSize}}
	}
	leading := math.Max(lineHeight-fontSize, 0)
	total := 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = leading
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	return TextBox{
		Content:    spec.Content,
		Font:       spec.Font.Name,
		FontSize:   fontSize,
		LineHeight: lineHeight,
		Color:      spec.Color,
		Wrap:       wrap,
		Lines:      lines,
		Height:     total,
	}, nil
}

func widest(lines []TextLine) float64 {
	w := 0.0
	for _, l := range lines {
		w = math.Max(w, l.Width)
	}
	return w
}

// flatten 以前序遍历输出帧，父节点先于子节点。
func (n *Node) flatten(originX, originY, depth int, debug DebugOptions, out *[]Frame) {
	if !n.placed {
		return
	}
	f := Frame{
		Kind:       n.Kind,
		Depth:      depth,
		X:          originX + n.x,
		Y:          originY + n.y,
		Width:      n.width,
		Height:     n.height,
		Padding:    n.padding(),
		Background: n.Modifiers.Background,
		Color:      n.Color,
		Text:       n.box,
	}
	if debug.Constraints {
		f.Debug = &Debug{Constraints: n.cs}
		if pd := n.ParentData(); pd != nil {
			f.Debug.ParentData = fmt.Sprintf("%+v", pd)
		}
		if n.Policy != nil {
			f.Debug.Policy = fmt.Sprintf("%+v", n.Policy)
		}
	}
	*out = append(*out, f)
	for _, c := range n.Children {
		c.flatten(f.X+f.Padding, f.Y+f.Padding, depth+1, debug, out)
	}
}
