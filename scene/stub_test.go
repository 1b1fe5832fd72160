package scene

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽度为字号的一半，行高等于字号。
type stubTypesetter struct{}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error) {
	if content == "boom" {
		return nil, errors.New("排版失败")
	}
	cw := fontSize / 2
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) * cw }

	var lines []TextLine
	for _, para := range strings.Split(content, "\n") {
		if wrap == "nowrap" {
			lines = append(lines, TextLine{Content: para, Width: measure(para), Height: fontSize})
			continue
		}
		cur := ""
		for _, word := range strings.Fields(para) {
			next := word
			if cur != "" {
				next = cur + " " + word
			}
			if cur != "" && measure(next) > width {
				lines = append(lines, TextLine{Content: cur, Width: measure(cur), Height: fontSize})
				next = word
			}
			cur = next
		}
		lines = append(lines, TextLine{Content: cur, Width: measure(cur), Height: fontSize})
	}
	return lines, nil
}
