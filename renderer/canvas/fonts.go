package canvasrenderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/litelayout/scene"
)

// defaultSystemFonts 是未配置字体时依次尝试的系统字体族。
var defaultSystemFonts = []string{"sans-serif", "DejaVu Sans", "Liberation Sans", "Arial", "Helvetica"}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

func (r *Renderer) fontFace(font scene.FontResource, sizePx float64, col scene.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(pxToPt(sizePx), colorFromScene(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 依次尝试 src、资源自身的 fallback 与渲染器的全局回退字体。
func (r *Renderer) ensureFontFamily(font scene.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Body"
	}

	var errs []error
	for _, src := range []string{font.Src, font.Fallback} {
		if src == "" {
			continue
		}
		family := canvas.NewFontFamily(familyName)
		if err := r.loadFontIntoFamily(family, src, style); err != nil {
			errs = append(errs, err)
			continue
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
		return family, style, nil
	}

	fallback, fbErr := r.fallback()
	if fbErr != nil {
		errs = append(errs, fbErr)
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Name, errors.Join(errs...))
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
	return fallback, canvas.FontRegular, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, src string, style canvas.FontStyle) error {
	if name, ok := strings.CutPrefix(src, "system:"); ok {
		if err := family.LoadSystemFont(name, style); err != nil {
			return fmt.Errorf("找不到系统字体 %s: %w", name, err)
		}
		return nil
	}
	data, err := r.loadFontBytes(src)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 system:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// fallback 先尝试配置的字体文件，再尝试系统字体族。调用方需持有 fontMu。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	family := canvas.NewFontFamily("litelayout-fallback")
	for _, path := range r.fontPaths {
		if err := family.LoadFontFile(path, canvas.FontRegular); err == nil {
			r.fallbackFamily = family
			return family, nil
		}
	}
	for _, name := range r.systemFonts {
		if err := family.LoadSystemFont(name, canvas.FontRegular); err == nil {
			r.fallbackFamily = family
			return family, nil
		}
	}
	return nil, errors.New("没有可用的回退字体，请通过配置 fonts 指定字体文件")
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font scene.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Name, font.Src, font.Style, font.Fallback)
}

func resolveFontResource(name string, fonts map[string]scene.FontResource) scene.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts["Body"]; ok {
		return font
	}
	return scene.FontResource{Name: name}
}
