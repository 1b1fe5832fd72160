package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ByLCY/litelayout/layout"
)

func TestRowEndAlignmentShiftsWholeRow(t *testing.T) {
	a, b := child(40, 10), child(60, 20)
	row := layout.NewRow(8, layout.Top, layout.End)

	res := row.Measure(scope1x, measurables(a, b), layout.Loose(200, 100))
	assert.Equal(t, 108, res.Width)
	assert.Equal(t, 20, res.Height)

	res.Place()
	assert.Equal(t, 92, a.x)
	assert.Equal(t, 140, b.x)
}

func TestRowCenterAlignment(t *testing.T) {
	a, b := child(40, 10), child(60, 20)
	res := layout.NewRow(8, layout.Top, layout.CenterHorizontally).Measure(scope1x, measurables(a, b), layout.Loose(200, 100))
	res.Place()
	assert.Equal(t, 46, a.x)
	assert.Equal(t, 46+48, b.x)
}

func TestRowEmpty(t *testing.T) {
	row := layout.NewRow(8, layout.Bottom, layout.End)

	res := row.Measure(scope1x, nil, layout.Loose(100, 100))
	assert.Equal(t, 0, res.Width)
	assert.Equal(t, 0, res.Height)
	res.Place()

	res = row.Measure(scope1x, nil, layout.Constraints{MinWidth: 30, MaxWidth: 100, MaxHeight: 100})
	assert.Equal(t, 30, res.Width, "trailing spacer removal must not go below the minimum")
}

func TestRowGreedyBudget(t *testing.T) {
	a, b, c := child(50, 5), child(500, 5), child(500, 5)
	row := layout.NewRow(10, layout.Top, layout.Start)

	res := row.Measure(scope1x, measurables(a, b, c), layout.Loose(200, 100))

	// a may use everything except the two gaps still owed.
	assert.Equal(t, 180, a.lastCs.MaxWidth)
	// b sees what a actually took, not what a was allowed.
	assert.Equal(t, 200-60-10, b.lastCs.MaxWidth)
	assert.Equal(t, 130, b.outWidth)
	// c is left with nothing.
	assert.Equal(t, 0, c.lastCs.MaxWidth)
	assert.Equal(t, 0, c.outWidth)

	assert.Equal(t, 200, res.Width)
	sum := a.outWidth + b.outWidth + c.outWidth + 2*10
	assert.LessOrEqual(t, sum, 200)
}

func TestRowChildConstraintsKeepHeight(t *testing.T) {
	a := child(10, 10)
	cs := layout.Constraints{MinWidth: 40, MaxWidth: 100, MinHeight: 15, MaxHeight: 60}
	layout.NewRow(0, layout.Top, layout.Start).Measure(scope1x, measurables(a), cs)
	assert.Equal(t, layout.Constraints{MinWidth: 0, MaxWidth: 100, MinHeight: 15, MaxHeight: 60}, a.lastCs)
	assert.Equal(t, 15, a.outHeight)
}

func TestRowUnboundedWidth(t *testing.T) {
	a, b := child(40, 10), child(60, 20)
	row := layout.NewRow(8, layout.Top, layout.Start)

	res := row.Measure(scope1x, measurables(a, b), layout.Unbounded())
	assert.Equal(t, layout.Infinity-8, a.lastCs.MaxWidth)
	assert.Equal(t, layout.Infinity-48, b.lastCs.MaxWidth)
	assert.Equal(t, 108, res.Width)

	res.Place()
	assert.Equal(t, 0, a.x)
	assert.Equal(t, 48, b.x)
}

func TestRowHeightIsTallestChild(t *testing.T) {
	a, b, c := child(1, 12), child(1, 30), child(1, 7)
	res := layout.NewRow(0, layout.Top, layout.Start).Measure(scope1x, measurables(a, b, c), layout.Loose(100, 100))
	assert.Equal(t, 30, res.Height)
}

func TestRowVerticalAlignment(t *testing.T) {
	var scope layout.RowScope
	tests := []struct {
		name  string
		def   layout.VerticalAlignment
		mods  []layout.ParentDataModifier
		wantY int
	}{
		{name: "default top", def: layout.Top, wantY: 0},
		{name: "default center", def: layout.CenterVertically, wantY: (31 - 10) / 2},
		{name: "default bottom", def: layout.Bottom, wantY: 21},
		{name: "override center", def: layout.Top, mods: []layout.ParentDataModifier{scope.AlignVertical(layout.CenterVertically)}, wantY: 10},
		{name: "override bottom", def: layout.Top, mods: []layout.ParentDataModifier{scope.Align(layout.Bottom, layout.Start)}, wantY: 21},
		{name: "column tag ignored", def: layout.Bottom, mods: []layout.ParentDataModifier{layout.ColumnScope{}.Align(layout.End)}, wantY: 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tall := child(5, 31)
			short := child(5, 10, tt.mods...)
			res := layout.NewRow(0, tt.def, layout.Start).Measure(scope1x, measurables(tall, short), layout.Loose(100, 100))
			res.Place()
			assert.Equal(t, tt.wantY, short.y)
		})
	}
}

// The horizontal shift is computed per child from its own tag, so children
// with differing horizontal tags end up shifted by different amounts. This
// mirrors the established behaviour even though it is rarely what a layout
// author wants.
func TestRowPerChildHorizontalShift(t *testing.T) {
	var scope layout.RowScope
	a := child(40, 10, scope.Align(layout.Top, layout.End))
	b := child(60, 10)
	c := child(20, 10, scope.AlignVertical(layout.Top))

	res := layout.NewRow(0, layout.Top, layout.CenterHorizontally).Measure(scope1x, measurables(a, b, c), layout.Loose(220, 100))
	res.Place()

	// total 120 within 220
	assert.Equal(t, 100, a.x, "own End tag")
	assert.Equal(t, 40+50, b.x, "container Center default")
	assert.Equal(t, 100, c.x, "vertical-only tag resets horizontal to Start")
}

func TestRowIntrinsics(t *testing.T) {
	a, b, c := child(10, 3), child(20, 9), child(5, 5)
	b.minH = 4
	ms := layout.Intrinsics(measurables(a, b, c))
	row := layout.NewRow(8, layout.Top, layout.Start)

	assert.Equal(t, 35+16, row.MaxIntrinsicWidth(scope1x, ms, 0))
	assert.Equal(t, 35+16, row.MinIntrinsicWidth(scope1x, ms, 0))
	assert.Equal(t, 9, row.MaxIntrinsicHeight(scope1x, ms, 0))
	assert.Equal(t, 5, row.MinIntrinsicHeight(scope1x, ms, 0))

	assert.Zero(t, row.MaxIntrinsicWidth(scope1x, nil, 0))
	assert.Zero(t, row.MinIntrinsicHeight(scope1x, nil, 0))
	assert.Zero(t, a.measured+b.measured+c.measured)
}
