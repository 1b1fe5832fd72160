package layout

// Row stacks children left to right with a fixed gap.
//
// Width is handed out greedily in child order: each child may use whatever
// the children before it left over, minus the gaps still owed to the
// children after it. A child that consumes less than its allowance leaves
// the rest to the next one; nothing is redistributed afterwards.
type Row struct {
	// Spacing is the gap between consecutive children.
	Spacing Dp
	// VerticalAlignment is used for children that do not declare their own.
	VerticalAlignment VerticalAlignment
	// HorizontalAlignment shifts the row within the incoming maximum width.
	HorizontalAlignment HorizontalAlignment
}

var _ MeasurePolicy = Row{}

// NewRow returns a Row policy.
func NewRow(spacing Dp, vertical VerticalAlignment, horizontal HorizontalAlignment) Row {
	return Row{Spacing: spacing, VerticalAlignment: vertical, HorizontalAlignment: horizontal}
}

func (r Row) Measure(scope MeasureScope, measurables []Measurable, cs Constraints) MeasureResult {
	space := int(scope.Density.ToPx(r.Spacing))
	alignments := make([]*RowChildData, len(measurables))

	available := cs.MaxWidth
	used := 0
	placeables := make([]Placeable, len(measurables))
	for i, m := range measurables {
		alignments[i] = rowChildData(m)
		remaining := available - used - (len(measurables)-1-i)*space

		childCs := cs
		childCs.MinWidth = 0
		childCs.MaxWidth = coerceIn(remaining, 0, cs.MaxWidth)
		p := m.Measure(childCs)
		used += p.Width() + space
		placeables[i] = p
	}

	total := used - space
	height := 0
	for _, p := range placeables {
		height = max(height, p.Height())
	}
	width := cs.ConstrainWidth(total)

	return Result(width, height, func() {
		x := 0
		for i, p := range placeables {
			var vo *VerticalAlignment
			var ho *HorizontalAlignment
			if d := alignments[i]; d != nil {
				vo, ho = &d.Vertical, &d.Horizontal
			}
			y := ResolveVertical(vo, r.VerticalAlignment).offset(height, p.Height())
			// The shift is taken against the incoming maximum, not the
			// row's own width, and is keyed off each child's own tag.
			shift := ResolveHorizontal(ho, r.HorizontalAlignment).offset(cs.MaxWidth, total)
			p.PlaceAt(x+shift, y)
			x += p.Width() + space
		}
	})
}

func (r Row) MinIntrinsicWidth(scope MeasureScope, ms []IntrinsicMeasurable, height int) int {
	return sumOf(ms, func(m IntrinsicMeasurable) int { return m.MinIntrinsicWidth(height) }) +
		gaps(len(ms), scope.Density.RoundToPx(r.Spacing))
}

func (r Row) MaxIntrinsicWidth(scope MeasureScope, ms []IntrinsicMeasurable, height int) int {
	return sumOf(ms, func(m IntrinsicMeasurable) int { return m.MaxIntrinsicWidth(height) }) +
		gaps(len(ms), scope.Density.RoundToPx(r.Spacing))
}

func (r Row) MinIntrinsicHeight(_ MeasureScope, ms []IntrinsicMeasurable, width int) int {
	return maxOf(ms, func(m IntrinsicMeasurable) int { return m.MinIntrinsicHeight(width) })
}

func (r Row) MaxIntrinsicHeight(_ MeasureScope, ms []IntrinsicMeasurable, width int) int {
	return maxOf(ms, func(m IntrinsicMeasurable) int { return m.MaxIntrinsicHeight(width) })
}
