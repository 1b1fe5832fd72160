package layout

// Column stacks children top to bottom with a fixed gap.
//
// Column is a comparable value: two Columns with the same configuration
// are interchangeable, so hosts may keep one across layouts and replace it
// only when Spacing or Alignment change.
type Column struct {
	// Spacing is the gap between consecutive children.
	Spacing Dp
	// Alignment is used for children that do not declare their own.
	Alignment HorizontalAlignment
}

var _ MeasurePolicy = Column{}

// NewColumn returns a Column policy.
func NewColumn(spacing Dp, alignment HorizontalAlignment) Column {
	return Column{Spacing: spacing, Alignment: alignment}
}

func (c Column) Measure(scope MeasureScope, measurables []Measurable, cs Constraints) MeasureResult {
	alignments := make([]*ColumnChildData, len(measurables))
	space := int(scope.Density.ToPx(c.Spacing))

	childCs := Constraints{
		MaxWidth:  Infinity,
		MaxHeight: Infinity,
	}
	if cs.HasBoundedWidth() {
		childCs.MaxWidth = cs.MaxWidth
	}
	if cs.HasBoundedHeight() {
		childCs.MaxHeight = cs.MaxHeight
	}

	placeables := make([]Placeable, len(measurables))
	for i, m := range measurables {
		alignments[i] = columnChildData(m)
		placeables[i] = m.Measure(childCs)
	}

	widest := 0
	total := gaps(len(placeables), space)
	for _, p := range placeables {
		widest = max(widest, p.Width())
		total += p.Height()
	}
	width := cs.ConstrainWidth(widest)
	height := cs.ConstrainHeight(total)

	return Result(width, height, func() {
		y := 0
		for i, p := range placeables {
			var override *HorizontalAlignment
			if alignments[i] != nil {
				override = &alignments[i].Alignment
			}
			x := ResolveHorizontal(override, c.Alignment).offset(width, p.Width())
			p.PlaceAt(x, y)
			y += p.Height() + space
		}
	})
}

func (c Column) MinIntrinsicWidth(_ MeasureScope, ms []IntrinsicMeasurable, height int) int {
	return maxOf(ms, func(m IntrinsicMeasurable) int { return m.MinIntrinsicWidth(height) })
}

func (c Column) MaxIntrinsicWidth(_ MeasureScope, ms []IntrinsicMeasurable, height int) int {
	return maxOf(ms, func(m IntrinsicMeasurable) int { return m.MaxIntrinsicWidth(height) })
}

func (c Column) MinIntrinsicHeight(scope MeasureScope, ms []IntrinsicMeasurable, width int) int {
	return sumOf(ms, func(m IntrinsicMeasurable) int { return m.MinIntrinsicHeight(width) }) +
		gaps(len(ms), scope.Density.RoundToPx(c.Spacing))
}

func (c Column) MaxIntrinsicHeight(scope MeasureScope, ms []IntrinsicMeasurable, width int) int {
	return sumOf(ms, func(m IntrinsicMeasurable) int { return m.MaxIntrinsicHeight(width) }) +
		gaps(len(ms), scope.Density.RoundToPx(c.Spacing))
}
