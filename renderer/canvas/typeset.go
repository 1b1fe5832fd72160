package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/litelayout/scene"
)

// LayoutLines 实现 scene.Typesetter 接口，使用贪心换行算法。
// 约定：width/fontSize/lineHeight 入参与返回的行宽高均为像素。字体系统使用 pt/mm，在边界换算。
func (r *Renderer) LayoutLines(content string, width float64, font scene.FontResource, fontSize, lineHeight float64, wrap string) ([]scene.TextLine, error) {
	face, err := r.fontFace(font, fontSize, scene.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}
	measure := func(s string) float64 { return mmToPx(face.TextWidth(s)) }

	if wrap == "" {
		wrap = "normal"
	}
	lines := greedyWrapTokens(content, width, measure, wrap)
	textHeight := mmToPx(face.Metrics().LineHeight)
	if textHeight <= 0 {
		textHeight = fontSize
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []scene.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// greedyWrapTokens 按宽度 width 贪心折行，measure 返回字符串的像素宽度。
// width < 0 表示不限宽；width == 0 时 normal 模式下每个词独占一行。
func greedyWrapTokens(content string, width float64, measure func(string) float64, wrap string) []scene.TextLine {
	limit := width
	if limit < 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分，不基于宽度折行
	if wrap == "nowrap" {
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]scene.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, scene.TextLine{Content: p, Width: measure(p)})
		}
		return lines
	}

	tokens := tokenizeContent(content)
	var lines []scene.TextLine
	var builder strings.Builder
	currentWidth := 0.0
	// wrapped 表示当前行由宽度折行产生，此时丢弃行首空白
	wrapped := false

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, scene.TextLine{Content: "", Width: 0})
			}
			return
		}
		lineStr := builder.String()
		if trimmed := strings.TrimRightFunc(lineStr, unicode.IsSpace); trimmed != lineStr && trimmed != "" {
			lineStr = trimmed
			currentWidth = measure(trimmed)
		}
		lines = append(lines, scene.TextLine{Content: lineStr, Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}
	breakLine := func() {
		emit(false)
		wrapped = true
	}
	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += measure(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			wrapped = false
			continue
		}
		space := isSpaceToken(token)
		if space && wrapped && builder.Len() == 0 {
			continue
		}
		tokenWidth := measure(token)
		if !space && currentWidth > 0 && currentWidth+tokenWidth > limit {
			breakLine()
		}
		// normal：只在空白处断行，过长的词整体溢出
		if tokenWidth <= limit || space || wrap == "normal" {
			appendToken(token)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			if currentWidth > 0 && currentWidth+measure(chunk) > limit {
				breakLine()
			}
			appendToken(chunk)
		}
	}
	emit(true)
	return lines
}

func isSpaceToken(token string) bool {
	for _, r := range token {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return token != ""
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 在词内按宽度切分，每段至少保留一个字符。
func splitTokenByWidth(token string, limit float64, measure func(string) float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && measure(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = []rune{r}
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
