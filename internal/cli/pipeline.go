package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/litelayout/config"
	"github.com/ByLCY/litelayout/dsl"
	"github.com/ByLCY/litelayout/layout"
	canvasrenderer "github.com/ByLCY/litelayout/renderer/canvas"
	"github.com/ByLCY/litelayout/scene"
)

// sceneFlags 是所有命令共用的输入参数。
type sceneFlags struct {
	data      string  // JSON 文件路径或内联 JSON
	density   float64 // 覆盖 screen 密度
	fontScale float64 // 覆盖 screen 字体缩放
	debug     bool    // 在帧中输出约束等调试信息
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", "JSON data bound to the document (file path or inline JSON)")
	cmd.Flags().Float64Var(&f.density, "density", 0, "override the screen density (px per dp)")
	cmd.Flags().Float64Var(&f.fontScale, "font-scale", 0, "override the screen font scale")
}

// densityOverride 合并配置与命令行，命令行优先。
func (f *sceneFlags) densityOverride(cfg *config.Config) layout.Density {
	d := cfg.LayoutDensity()
	if f.density > 0 {
		d.Density = float32(f.density)
	}
	if f.fontScale > 0 {
		d.FontScale = float32(f.fontScale)
	}
	return d
}

func (f *sceneFlags) buildOptions(cfg *config.Config, ts scene.Typesetter) scene.BuildOptions {
	return scene.BuildOptions{
		Typesetter: ts,
		Density:    f.densityOverride(cfg),
		Debug:      scene.DebugOptions{Constraints: f.debug},
	}
}

// loadInputs 读取 DSL 文档与绑定数据。
func (f *sceneFlags) loadInputs(ctx context.Context, input string) (*dsl.Document, any, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)
	doc, err := dsl.ParseFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	p.done("解析完成 " + input)

	data, err := loadData(f.data)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// buildScene 串联解析与布局。
func (f *sceneFlags) buildScene(ctx context.Context, input string, ts scene.Typesetter) (*scene.Result, error) {
	doc, data, err := f.loadInputs(ctx, input)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	p := newProgress(logger)
	result, err := scene.Build(doc, data, f.buildOptions(configFromContext(ctx), ts))
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	p.done(fmt.Sprintf("布局完成: %d 帧, 屏幕 %dx%d", len(result.Frames), result.Screen.Width, result.Screen.Height))
	return result, nil
}

// loadData 解析 --data：以 { 或 [ 开头视为内联 JSON，否则按文件路径读取。
func loadData(arg string) (any, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}
	raw := []byte(arg)
	if !strings.HasPrefix(arg, "{") && !strings.HasPrefix(arg, "[") {
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件 %s 失败: %w", arg, err)
		}
		raw = b
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

// newCanvasRenderer 依据配置创建 canvas 渲染器，字体相对路径以输入文件所在目录为准。
func newCanvasRenderer(cfg *config.Config, input, format string, outline bool) *canvasrenderer.Renderer {
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:     filepath.Dir(input),
		Format:      format,
		Outline:     outline,
		FontPaths:   cfg.Fonts,
		SystemFonts: cfg.SystemFonts,
	})
}

// writeOutput 将 data 写入 path；path 为 "-" 时写到 stdout。
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}
