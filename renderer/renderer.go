package renderer

import "github.com/ByLCY/litelayout/scene"

// Renderer 将布局结果输出为最终文件，例如 PDF、SVG 或终端预览。
// Render 返回生成的数据以及可能的错误。
type Renderer interface {
	Render(result *scene.Result) ([]byte, error)
}
