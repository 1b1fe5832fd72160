package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Scope 是插值时可见的名字集合：根数据 data 以及 repeat 引入的循环变量。
// 循环变量优先于同名的数据字段。
type Scope struct {
	parent *Scope
	data   any
	vars   map[string]any
}

// NewScope 以 data 作为根数据创建作用域。
func NewScope(data any) *Scope {
	return &Scope{data: data}
}

// With 返回一个子作用域，在其中 name 绑定到 value。
func (s *Scope) With(name string, value any) *Scope {
	return &Scope{parent: s, vars: map[string]any{name: value}}
}

// Lookup 按路径查找值，例如 item.title、data.items[0].name 或 index。
func (s *Scope) Lookup(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	head, _ := parseSegment(strings.SplitN(path, ".", 2)[0])
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[head]; ok {
			return resolvePath(map[string]any{head: v}, path)
		}
		if cur.parent == nil {
			if v, ok := resolvePath(cur.data, path); ok {
				return v, true
			}
			if head == "data" {
				return resolvePath(map[string]any{"data": cur.data}, path)
			}
		}
	}
	return nil, false
}

// Interpolate 将文本中的 ${path.to.value} 替换为作用域中的值。
// 若路径不存在，则保留原占位符。
func (s *Scope) Interpolate(text string) string {
	if s == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if val, ok := s.Lookup(groups[1]); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return NewScope(data).Interpolate(text)
}

// Items 将 repeat 的来源解析为元素列表：整数 n 产生 0..n-1，
// 路径则需指向数组。
func (s *Scope) Items(source string) ([]any, error) {
	source = strings.TrimSpace(source)
	if n, err := strconv.Atoi(source); err == nil {
		if n < 0 {
			return nil, fmt.Errorf("repeat 次数不能为负: %d", n)
		}
		out := make([]any, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	val, ok := s.Lookup(source)
	if !ok {
		return nil, fmt.Errorf("repeat 数据路径 %s 不存在", source)
	}
	switch v := val.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	case int:
		return s.Items(strconv.Itoa(v))
	case int64:
		return s.Items(strconv.FormatInt(v, 10))
	case float64:
		return s.Items(strconv.Itoa(int(v)))
	default:
		return nil, fmt.Errorf("repeat 数据路径 %s 不是数组 (%T)", source, val)
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := strings.TrimSpace(segment)
	indexes := []string{}
	if i := strings.Index(name, "["); i != -1 {
		rest := name[i:]
		name = name[:i]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
