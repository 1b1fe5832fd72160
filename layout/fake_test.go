package layout_test

import "github.com/ByLCY/litelayout/layout"

// fakeChild is a fixed-size child that respects the constraints it is given
// and records how it was measured and placed.
type fakeChild struct {
	width, height int
	// intrinsic overrides; zero means "same as width/height"
	minW, maxW, minH, maxH int

	mods []layout.ParentDataModifier

	measured  int
	lastCs    layout.Constraints
	placed    bool
	x, y      int
	outWidth  int
	outHeight int
}

func child(w, h int, mods ...layout.ParentDataModifier) *fakeChild {
	return &fakeChild{width: w, height: h, mods: mods}
}

func (f *fakeChild) ParentData() any { return layout.FoldParentData(f.mods) }

func (f *fakeChild) MinIntrinsicWidth(int) int  { return pick(f.minW, f.width) }
func (f *fakeChild) MaxIntrinsicWidth(int) int  { return pick(f.maxW, f.width) }
func (f *fakeChild) MinIntrinsicHeight(int) int { return pick(f.minH, f.height) }
func (f *fakeChild) MaxIntrinsicHeight(int) int { return pick(f.maxH, f.height) }

func (f *fakeChild) Measure(cs layout.Constraints) layout.Placeable {
	f.measured++
	f.lastCs = cs
	f.outWidth = cs.ConstrainWidth(f.width)
	f.outHeight = cs.ConstrainHeight(f.height)
	return f
}

func (f *fakeChild) Width() int  { return f.outWidth }
func (f *fakeChild) Height() int { return f.outHeight }

func (f *fakeChild) PlaceAt(x, y int) {
	f.placed = true
	f.x, f.y = x, y
}

func pick(override, fallback int) int {
	if override != 0 {
		return override
	}
	return fallback
}

func measurables(children ...*fakeChild) []layout.Measurable {
	out := make([]layout.Measurable, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

var scope1x = layout.MeasureScope{Density: layout.Density{Density: 1}}
