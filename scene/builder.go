package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/litelayout/binding"
	"github.com/ByLCY/litelayout/dsl"
	"github.com/ByLCY/litelayout/layout"
)

const (
	defaultFontSize   layout.Sp = 14
	defaultLineHeight           = 1.4
	defaultIconSize   layout.Dp = 24
)

// flagAttrs 是不带值的属性。
var flagAttrs = map[string]bool{
	"fill-width":  true,
	"fill-height": true,
	"fill":        true,
}

// knownAttrs 用于区分命令的第一个参数是样式名还是属性名。
var knownAttrs = map[string]bool{
	"spacing": true, "align": true, "valign": true, "halign": true,
	"self-align": true, "self-halign": true,
	"width": true, "height": true, "size": true, "padding": true,
	"background": true, "color": true, "font": true, "line-height": true, "wrap": true,
}

// Build 根据 DSL AST 构建节点树并完成布局。
// 叶子测量失败时仍返回已完成的结果，错误一并返回。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("scene: 缺少排版后端 Typesetter")
	}
	tree, err := BuildTree(doc, data, opts)
	if err != nil {
		return nil, err
	}
	frames, layoutErr := Layout(tree.Root, tree.Viewport, opts.Typesetter, opts.Debug)
	_, content := tree.Root.Size()
	return &Result{
		Screen: Screen{
			Width:   tree.Viewport.Width,
			Height:  tree.Viewport.Height,
			Density: tree.Viewport.Density,
			Scroll:  tree.Viewport.Scroll,
			Content: content,
		},
		Frames:    frames,
		Resources: tree.Resources,
		Meta:      tree.Meta,
	}, layoutErr
}

// Tree 是构建完成但尚未布局的节点树。
type Tree struct {
	Root      *Node
	Viewport  Viewport
	Resources ResourceSet
	Meta      DocumentMeta
}

// BuildTree 解析资源、元信息与 screen 段落，生成节点树。
func BuildTree(doc *dsl.Document, data any, opts BuildOptions) (*Tree, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	screen := firstScreen(doc)
	if screen == nil {
		return nil, fmt.Errorf("文档中缺少 screen 段落")
	}
	vp, err := resolveViewport(screen.Params, opts.Density)
	if err != nil {
		return nil, err
	}
	if screen.Block == nil {
		return nil, fmt.Errorf("screen 段落缺少内容")
	}

	b := &builder{res: res, density: vp.Density}
	nodes, err := b.buildBlock(screen.Block, "", binding.NewScope(data))
	if err != nil {
		return nil, err
	}
	var root *Node
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("screen 段落没有可布局的节点")
	case 1:
		root = nodes[0]
	default:
		root = &Node{Kind: KindColumn, Policy: layout.NewColumn(0, layout.Start), Children: nodes}
	}
	return &Tree{Root: root, Viewport: vp, Resources: res, Meta: collectMeta(doc)}, nil
}

type builder struct {
	res     ResourceSet
	density layout.Density
}

// buildBlock 依次处理 block 内的命令。parent 为外层容器的种类，决定子节点
// self-align 的含义。
func (b *builder) buildBlock(block *dsl.Block, parent string, scope *binding.Scope) ([]*Node, error) {
	var out []*Node
	for _, cmd := range block.Commands() {
		if cmd.Name == "repeat" {
			nodes, err := b.buildRepeat(cmd, parent, scope)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
			continue
		}
		node, err := b.buildNode(cmd, parent, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// buildRepeat 展开 repeat <n|path> [as name] { ... }。
// 每次迭代中 index 绑定为序号，name（默认 item）绑定为元素。
func (b *builder) buildRepeat(cmd *dsl.Command, parent string, scope *binding.Scope) ([]*Node, error) {
	if cmd.Block == nil {
		return nil, fmt.Errorf("%s: repeat 语句缺少子内容", cmd.Pos)
	}
	source, name := repeatSource(cmd.Args)
	if source == "" {
		return nil, fmt.Errorf("%s: repeat 语句缺少次数或数据路径", cmd.Pos)
	}
	items, err := scope.Items(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	var out []*Node
	for i, item := range items {
		inner := scope.With(name, item).With("index", i)
		nodes, err := b.buildBlock(cmd.Block, parent, inner)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func repeatSource(args []*dsl.Lexeme) (string, string) {
	name := "item"
	var sb strings.Builder
	for i := 0; i < len(args); i++ {
		if args[i].Value == "as" && args[i].Type == "Ident" && i+1 < len(args) {
			name = args[i+1].Value
			break
		}
		sb.WriteString(args[i].Value)
	}
	return sb.String(), name
}

func (b *builder) buildNode(cmd *dsl.Command, parent string, scope *binding.Scope) (*Node, error) {
	styleName, attrs := parseArgs(cmd.Args, true)
	if styleName != "" {
		if _, ok := b.res.Styles[styleName]; !ok {
			if _, isFont := b.res.Fonts[styleName]; !isFont {
				return nil, fmt.Errorf("%s: %s 引用了未定义的样式 %s", cmd.Pos, cmd.Name, styleName)
			}
		}
	}
	attrs = mergeStyleAttributes(styleName, attrs, b.res.Styles)
	for k, v := range attrs {
		attrs[k] = scope.Interpolate(v)
	}

	node := &Node{Kind: cmd.Name}
	mods, err := b.modifiers(cmd.Name, attrs, parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	node.Modifiers = mods

	switch cmd.Name {
	case KindColumn:
		align, err := parseHorizontalAttr(attrs["align"], layout.Start)
		if err != nil {
			return nil, fmt.Errorf("%s: column: %w", cmd.Pos, err)
		}
		node.Policy = layout.NewColumn(b.dp(attrs["spacing"]), align)
	case KindRow:
		valign, err := parseVerticalAttr(attrs["valign"], layout.Top)
		if err != nil {
			return nil, fmt.Errorf("%s: row: %w", cmd.Pos, err)
		}
		halign, err := parseHorizontalAttr(attrs["halign"], layout.Start)
		if err != nil {
			return nil, fmt.Errorf("%s: row: %w", cmd.Pos, err)
		}
		node.Policy = layout.NewRow(b.dp(attrs["spacing"]), valign, halign)
	case KindBox:
		if c, ok := b.color(attrs["color"]); ok && mods.Background == nil {
			node.Modifiers.Background = &c
		}
	case KindIcon:
		if mods.Width == nil {
			size := defaultIconSize
			node.Modifiers.Width = &size
		}
		if mods.Height == nil {
			size := *node.Modifiers.Width
			node.Modifiers.Height = &size
		}
		c := resolveColor(attrs["color"], b.res)
		node.Color = &c
	case KindText:
		content := cmd.Block.Text()
		if content == "" {
			return nil, fmt.Errorf("%s: text 语句缺少文本内容", cmd.Pos)
		}
		spec, err := b.textSpec(styleName, attrs, scope.Interpolate(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		node.Text = spec
		return node, nil
	default:
		return nil, fmt.Errorf("%s: 未知命令 %s", cmd.Pos, cmd.Name)
	}

	if cmd.Block != nil {
		if node.Policy == nil && len(cmd.Block.Commands()) > 0 {
			return nil, fmt.Errorf("%s: %s 不能包含子节点", cmd.Pos, cmd.Name)
		}
		children, err := b.buildBlock(cmd.Block, cmd.Name, scope)
		if err != nil {
			return nil, err
		}
		node.Children = children
	}
	return node, nil
}

// modifiers 解析尺寸修饰与子节点对齐标签。
// text 的 size 是字号，不参与尺寸修饰。
func (b *builder) modifiers(kind string, attrs map[string]string, parent string) (Modifiers, error) {
	var mods Modifiers
	if v := attrs["size"]; v != "" && kind != KindText {
		d := b.dp(v)
		mods.Width, mods.Height = &d, &d
	}
	if v := attrs["width"]; v != "" {
		d := b.dp(v)
		mods.Width = &d
	}
	if v := attrs["height"]; v != "" {
		d := b.dp(v)
		mods.Height = &d
	}
	_, fill := attrs["fill"]
	_, fw := attrs["fill-width"]
	_, fh := attrs["fill-height"]
	mods.FillWidth = fill || fw
	mods.FillHeight = fill || fh
	mods.Padding = b.dp(attrs["padding"])
	if c, ok := b.color(attrs["background"]); ok {
		mods.Background = &c
	}

	tag, err := childTag(attrs, parent)
	if err != nil {
		return mods, err
	}
	if tag != nil {
		mods.ParentData = append(mods.ParentData, tag)
	}
	return mods, nil
}

// childTag 根据父容器种类把 self-align/self-halign 翻译为父数据。
// 未声明的轴取 Top/Start。
func childTag(attrs map[string]string, parent string) (layout.ParentDataModifier, error) {
	self, selfH := attrs["self-align"], attrs["self-halign"]
	if self == "" && selfH == "" {
		return nil, nil
	}
	switch parent {
	case KindColumn:
		v := self
		if v == "" {
			v = selfH
		}
		h, err := layout.ParseHorizontal(v)
		if err != nil {
			return nil, err
		}
		return layout.ColumnScope{}.Align(h), nil
	case KindRow:
		v, err := parseVerticalAttr(self, layout.Top)
		if err != nil {
			return nil, err
		}
		h, err := parseHorizontalAttr(selfH, layout.Start)
		if err != nil {
			return nil, err
		}
		return layout.RowScope{}.Align(v, h), nil
	default:
		// 根节点没有父容器，标签无人读取。
		return nil, nil
	}
}

func parseHorizontalAttr(v string, fallback layout.HorizontalAlignment) (layout.HorizontalAlignment, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	return layout.ParseHorizontal(v)
}

func parseVerticalAttr(v string, fallback layout.VerticalAlignment) (layout.VerticalAlignment, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	return layout.ParseVertical(v)
}

func (b *builder) dp(v string) layout.Dp {
	return layout.ParseLength(v).Dp(b.density)
}

func (b *builder) color(v string) (Color, bool) {
	if v == "" {
		return Color{}, false
	}
	if c, ok := b.res.Colors[v]; ok {
		return c, true
	}
	if c, err := parseColor(v); err == nil && strings.HasPrefix(v, "#") {
		return c, true
	}
	return Color{}, false
}

func (b *builder) textSpec(style string, attrs map[string]string, content string) (*TextSpec, error) {
	fontName := attrs["font"]
	if fontName == "" {
		if _, ok := b.res.Fonts[style]; ok {
			fontName = style
		}
	}
	if fontName == "" {
		fontName = "Body"
	}
	font, err := resolveFontResource(fontName, b.res)
	if err != nil {
		return nil, err
	}

	size := defaultFontSize
	if v := attrs["size"]; v != "" {
		size = toSp(layout.ParseLength(v), b.density)
	}
	lineHeight := defaultLineHeight
	if v := strings.TrimSpace(attrs["line-height"]); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("line-height %s 无法解析", v)
		}
		lineHeight = f
	}
	return &TextSpec{
		Content:    content,
		Font:       font,
		Size:       size,
		LineHeight: lineHeight,
		Color:      resolveColor(attrs["color"], b.res),
		Wrap:       normalizeWrap(attrs["wrap"]),
	}, nil
}

// toSp 将长度换算为 sp；无单位按 sp 处理。
func toSp(l layout.Length, d layout.Density) layout.Sp {
	switch l.Unit {
	case layout.UnitNone, layout.UnitSp:
		return layout.Sp(l.Value)
	default:
		scale := d.SpToPx(1)
		if scale == 0 {
			return layout.Sp(l.Value)
		}
		return layout.Sp(l.ToPx(d) / scale)
	}
}

func normalizeWrap(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "nowrap", "no-wrap":
		return "nowrap"
	case "anywhere", "break-all":
		return "anywhere"
	default:
		return "normal"
	}
}

// resolveViewport 解析 screen <w> <h> [density d] [font-scale s] [scroll]。
// override 的非零字段覆盖文件中的值。
func resolveViewport(params []*dsl.Lexeme, override layout.Density) (Viewport, error) {
	var vp Viewport
	var dims []layout.Length
	for i := 0; i < len(params); i++ {
		tok := params[i]
		switch tok.Value {
		case "density", "font-scale":
			if i+1 >= len(params) {
				return vp, fmt.Errorf("screen 参数 %s 缺少取值", tok.Value)
			}
			f, err := strconv.ParseFloat(params[i+1].Value, 32)
			if err != nil || f <= 0 {
				return vp, fmt.Errorf("screen 参数 %s 的取值 %s 无效", tok.Value, params[i+1].Value)
			}
			if tok.Value == "density" {
				vp.Density.Density = float32(f)
			} else {
				vp.Density.FontScale = float32(f)
			}
			i++
		case "scroll":
			vp.Scroll = true
		default:
			if tok.Type != "Number" {
				return vp, fmt.Errorf("screen 参数 %s 无法识别", tok.Value)
			}
			dims = append(dims, layout.ParseLength(tok.Value))
		}
	}
	if override.Density > 0 {
		vp.Density.Density = override.Density
	}
	if override.FontScale > 0 {
		vp.Density.FontScale = override.FontScale
	}
	if len(dims) != 2 {
		return vp, fmt.Errorf("screen 需要宽和高两个尺寸，实际 %d 个", len(dims))
	}
	vp.Width = int(dims[0].ToPx(vp.Density) + 0.5)
	vp.Height = int(dims[1].ToPx(vp.Density) + 0.5)
	if vp.Width <= 0 || vp.Height <= 0 {
		return vp, errors.New("screen 尺寸必须为正数")
	}
	return vp, nil
}

func firstScreen(doc *dsl.Document) *dsl.ScreenSection {
	for _, section := range doc.Sections {
		if section.Screen != nil {
			return section.Screen
		}
	}
	return nil
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, cmd := range section.Resources.Block.Commands() {
			switch cmd.Name {
			case "font":
				font := parseFontResource(cmd)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(cmd)
				if name == "" || value == "" {
					continue
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("%s: color %s: %w", cmd.Pos, name, err)
				}
				res.Colors[name] = c
			case "style":
				style := parseStyleResource(cmd)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			default:
				return res, fmt.Errorf("%s: 未知资源类型 %s", cmd.Pos, cmd.Name)
			}
		}
	}

	if _, ok := res.Fonts["Body"]; !ok {
		res.Fonts["Body"] = FontResource{
			Name:     "Body",
			Family:   "Body",
			Fallback: "system:sans-serif",
		}
	}

	resolvedStyles, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolvedStyles
	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "litelayout",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords", "tags":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil || stmt.Assignment.Value.String == nil {
			continue
		}
		val := string(*stmt.Assignment.Value.String)
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = val
		case "fallback":
			font.Fallback = val
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	if cmd.Block == nil {
		return style
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := valueToString(stmt.Assignment.Value)
		if val == "" {
			continue
		}
		style.Props[stmt.Assignment.Key] = val
	}
	return style
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

// parseArgs 将参数列表解析为属性表。allowStyle 时，第一个不是已知属性名的
// 标识符被视为样式名。
func parseArgs(args []*dsl.Lexeme, allowStyle bool) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if allowStyle && args[0].Type == "Ident" && !knownAttrs[args[0].Value] && !flagAttrs[args[0].Value] {
		style = args[0].Value
		cursor = 1
	}

	for cursor < len(args) {
		key := args[cursor].Value
		if flagAttrs[key] {
			result[key] = "true"
			cursor++
			continue
		}
		if cursor+1 >= len(args) {
			break
		}
		result[key] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if style != "" {
		if s, ok := styles[style]; ok {
			for k, v := range s.Props {
				out[k] = v
			}
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if font, ok := res.Fonts["Body"]; ok {
		return font, nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

func resolveColor(value string, res ResourceSet) Color {
	if value == "" {
		return Color{R: 30, G: 30, B: 30}
	}
	if c, ok := res.Colors[value]; ok {
		return c
	}
	if strings.HasPrefix(value, "#") {
		if c, err := parseColor(value); err == nil {
			return c
		}
	}
	return Color{R: 30, G: 30, B: 30}
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	for _, r := range value {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
	}
	switch len(value) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(string(value[0]), 2)),
			G: mustHex(strings.Repeat(string(value[1]), 2)),
			B: mustHex(strings.Repeat(string(value[2]), 2)),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		return val.Expr.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
