package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/litelayout/layout"
)

// FileName 是默认查找的配置文件名（当前工作目录）。
const FileName = "litelayout.toml"

// Config 保存命令行工具的默认参数，命令行标志优先于配置文件。
type Config struct {
	// Density 非零时覆盖 screen 段落声明的密度。
	Density float64 `toml:"density"`
	// FontScale 非零时覆盖 screen 段落声明的字体缩放。
	FontScale float64 `toml:"font_scale"`
	// Format 为 render 的默认输出格式：pdf 或 svg。
	Format string `toml:"format"`
	// Fonts 是字体加载失败时依次尝试的字体文件。
	Fonts []string `toml:"fonts"`
	// SystemFonts 是在 Fonts 之后尝试的系统字体族名。
	SystemFonts []string `toml:"system_fonts"`
	Preview     Preview  `toml:"preview"`
}

// Preview 控制终端预览的网格大小。
type Preview struct {
	CellWidth  int  `toml:"cell_width"`  // 每个字符格代表的像素宽度
	CellHeight int  `toml:"cell_height"` // 每个字符格代表的像素高度
	NoColor    bool `toml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format: "pdf",
		Preview: Preview{
			CellWidth:  8,
			CellHeight: 16,
		},
	}
}

// Load 读取 path 指定的配置；path 为空时尝试当前目录下的 litelayout.toml，
// 文件不存在则返回默认配置。显式指定的文件不存在时报错。
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("配置 %s 含有未知字段: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c *Config) Validate() error {
	if c.Density < 0 {
		return fmt.Errorf("density 不能为负数: %g", c.Density)
	}
	if c.FontScale < 0 {
		return fmt.Errorf("font_scale 不能为负数: %g", c.FontScale)
	}
	switch strings.ToLower(c.Format) {
	case "", "pdf", "svg":
	default:
		return fmt.Errorf("不支持的输出格式: %s", c.Format)
	}
	if c.Preview.CellWidth <= 0 || c.Preview.CellHeight <= 0 {
		return fmt.Errorf("预览格子尺寸必须为正数: %dx%d", c.Preview.CellWidth, c.Preview.CellHeight)
	}
	return nil
}

// LayoutDensity 返回覆盖用的密度，未设置的字段为零，表示沿用 screen 参数。
func (c *Config) LayoutDensity() layout.Density {
	return layout.Density{Density: float32(c.Density), FontScale: float32(c.FontScale)}
}
