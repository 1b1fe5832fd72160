package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/litelayout/layout"
)

func TestResolveFallsBackToDefault(t *testing.T) {
	for _, def := range []layout.HorizontalAlignment{layout.Start, layout.CenterHorizontally, layout.End} {
		assert.Equal(t, def, layout.ResolveHorizontal(nil, def))
	}
	for _, def := range []layout.VerticalAlignment{layout.Top, layout.CenterVertically, layout.Bottom} {
		assert.Equal(t, def, layout.ResolveVertical(nil, def))
	}

	end := layout.End
	assert.Equal(t, layout.End, layout.ResolveHorizontal(&end, layout.Start))
	bottom := layout.Bottom
	assert.Equal(t, layout.Bottom, layout.ResolveVertical(&bottom, layout.Top))
}

func TestParseAlignment(t *testing.T) {
	h, err := layout.ParseHorizontal("Right")
	require.NoError(t, err)
	assert.Equal(t, layout.End, h)

	v, err := layout.ParseVertical(" middle ")
	require.NoError(t, err)
	assert.Equal(t, layout.CenterVertically, v)

	_, err = layout.ParseHorizontal("diagonal")
	assert.Error(t, err)
	_, err = layout.ParseVertical("")
	assert.Error(t, err)

	assert.Equal(t, "center", layout.CenterHorizontally.String())
	assert.Equal(t, "bottom", layout.Bottom.String())
}

func TestFoldParentDataFirstModifierWins(t *testing.T) {
	var col layout.ColumnScope
	data := layout.FoldParentData([]layout.ParentDataModifier{col.Align(layout.End), col.Align(layout.Start)})
	require.IsType(t, &layout.ColumnChildData{}, data)
	assert.Equal(t, layout.End, data.(*layout.ColumnChildData).Alignment)

	assert.Nil(t, layout.FoldParentData(nil))
}

func TestRowTagCarriesBothAxes(t *testing.T) {
	var row layout.RowScope
	data := layout.FoldParentData([]layout.ParentDataModifier{row.AlignVertical(layout.Bottom)})
	require.IsType(t, &layout.RowChildData{}, data)
	d := data.(*layout.RowChildData)
	assert.Equal(t, layout.Bottom, d.Vertical)
	assert.Equal(t, layout.Start, d.Horizontal)
}

func TestConstraintsClampTolerateNegative(t *testing.T) {
	cs := layout.Constraints{MinWidth: 5, MaxWidth: 50, MinHeight: 0, MaxHeight: 10}
	assert.Equal(t, 5, cs.ConstrainWidth(-30))
	assert.Equal(t, 0, cs.ConstrainHeight(-1))
	assert.Equal(t, 50, cs.ConstrainWidth(1000))
	assert.True(t, cs.HasBoundedWidth())
	assert.False(t, layout.Unbounded().HasBoundedHeight())

	d := layout.Loose(30, layout.Infinity).Deflate(20)
	assert.Equal(t, 0, d.MaxWidth)
	assert.Equal(t, layout.Infinity, d.MaxHeight)
}
