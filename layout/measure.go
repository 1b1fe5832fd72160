package layout

// IntrinsicMeasurable is a child that can answer what-if size queries
// without being laid out.
type IntrinsicMeasurable interface {
	// ParentData returns the data the child attached for its parent,
	// or nil when it attached none.
	ParentData() any

	MinIntrinsicWidth(height int) int
	MaxIntrinsicWidth(height int) int
	MinIntrinsicHeight(width int) int
	MaxIntrinsicHeight(width int) int
}

// Measurable is a child that can be measured once per layout pass.
type Measurable interface {
	IntrinsicMeasurable

	// Measure sizes the child within cs. It is called at most once per pass.
	Measure(cs Constraints) Placeable
}

// Placeable is a measured child waiting to be positioned.
type Placeable interface {
	Width() int
	Height() int
	// PlaceAt positions the child relative to its parent's top-left corner.
	PlaceAt(x, y int)
}

// MeasureScope carries the environment a policy measures in.
type MeasureScope struct {
	Density Density
}

// MeasureResult is a container's own size plus the deferred placement of its children.
type MeasureResult struct {
	Width  int
	Height int

	place func()
}

// Result returns a MeasureResult of the given size whose Place runs place.
func Result(width, height int, place func()) MeasureResult {
	return MeasureResult{Width: width, Height: height, place: place}
}

// Place positions the children. The host calls it once, after measuring.
func (r MeasureResult) Place() {
	if r.place != nil {
		r.place()
	}
}

// MeasurePolicy sizes a container from its children and positions them.
// Implementations must be free of side effects so one value can serve any
// number of measure calls, including concurrent ones on independent trees.
type MeasurePolicy interface {
	Measure(scope MeasureScope, measurables []Measurable, cs Constraints) MeasureResult

	MinIntrinsicWidth(scope MeasureScope, measurables []IntrinsicMeasurable, height int) int
	MaxIntrinsicWidth(scope MeasureScope, measurables []IntrinsicMeasurable, height int) int
	MinIntrinsicHeight(scope MeasureScope, measurables []IntrinsicMeasurable, width int) int
	MaxIntrinsicHeight(scope MeasureScope, measurables []IntrinsicMeasurable, width int) int
}

// Intrinsics adapts a list of measurables for the intrinsic queries.
func Intrinsics[M IntrinsicMeasurable](ms []M) []IntrinsicMeasurable {
	out := make([]IntrinsicMeasurable, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

func maxOf(ms []IntrinsicMeasurable, f func(IntrinsicMeasurable) int) int {
	best := 0
	for i, m := range ms {
		if v := f(m); i == 0 || v > best {
			best = v
		}
	}
	return best
}

func sumOf(ms []IntrinsicMeasurable, f func(IntrinsicMeasurable) int) int {
	total := 0
	for _, m := range ms {
		total += f(m)
	}
	return total
}

// gaps is the total spacing between n children.
func gaps(n, spacing int) int {
	return max(n-1, 0) * spacing
}
