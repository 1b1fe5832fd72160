package scene

import "github.com/ByLCY/litelayout/layout"

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均为像素，原点在屏幕左上角。

// Result 保存布局后的屏幕、帧列表与资源信息。
type Result struct {
	Screen    Screen       `json:"screen"`
	Frames    []Frame      `json:"frames"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// Screen 描述视口：像素宽高、密度，以及高度是否可滚动（不受限）。
type Screen struct {
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Density layout.Density `json:"density"`
	Scroll  bool           `json:"scroll,omitempty"`
	// Content 为根节点实际占用的高度，滚动屏幕下可能超过 Height。
	Content int `json:"content"`
}

// ResourceSet 记录解析出的字体、颜色与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// FontResource 描述字体资源，src 可以是文件路径或 system:<family> 形式。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"` // 渲染器使用的 Family 名称
	Fallback string `json:"fallback"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Frame 是一个节点在屏幕上的最终位置。
type Frame struct {
	Kind   string `json:"kind"`
	Depth  int    `json:"depth"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Padding 为内容区域相对帧边缘的内缩量。
	Padding    int      `json:"padding,omitempty"`
	Background *Color   `json:"background,omitempty"`
	Color      *Color   `json:"color,omitempty"`
	Text       *TextBox `json:"text,omitempty"`
	Debug      *Debug   `json:"debug,omitempty"`
}

// TextBox 表示一个已经排好行的文本块，坐标相对所在帧的内容区域。
type TextBox struct {
	Content    string     `json:"content"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Wrap       string     `json:"wrap,omitempty"` // normal(默认)/nowrap/anywhere
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// Debug holds optional per-frame details emitted only when enabled by BuildOptions.
type Debug struct {
	Constraints layout.Constraints `json:"constraints"`
	ParentData  string             `json:"parentData,omitempty"`
	Policy      string             `json:"policy,omitempty"`
}

// Style 用于描述可继承的属性集合。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// DocumentMeta 保存文档元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
