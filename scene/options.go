package scene

import "github.com/ByLCY/litelayout/layout"

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	// Density 非零时覆盖 screen 段落声明的密度与字体缩放。
	Density layout.Density
	Debug   DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Constraints bool // 在帧 JSON 中输出 debug 字段（约束、父数据、策略）
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 所有长度均为像素。wrap 取值 normal（仅在空白处断行）、nowrap、anywhere。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}
