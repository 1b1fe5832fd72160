package layout

import "math"

// Infinity marks an unbounded maximum. It is kept well below math.MaxInt so
// that budget arithmetic on unbounded widths never overflows.
const Infinity = math.MaxInt32

// Constraints are the acceptable ranges for a child's width and height,
// in pixels. Min is always at least 0 and at most Max; Max may be Infinity.
type Constraints struct {
	MinWidth  int `json:"minWidth"`
	MaxWidth  int `json:"maxWidth"`
	MinHeight int `json:"minHeight"`
	MaxHeight int `json:"maxHeight"`
}

// Unbounded returns constraints with no minimum and no maximum.
func Unbounded() Constraints {
	return Constraints{MaxWidth: Infinity, MaxHeight: Infinity}
}

// Fixed returns constraints that can only be satisfied by the given size.
func Fixed(width, height int) Constraints {
	return Constraints{MinWidth: width, MaxWidth: width, MinHeight: height, MaxHeight: height}
}

// Loose returns constraints bounded by width and height with no minimum.
func Loose(width, height int) Constraints {
	return Constraints{MaxWidth: width, MaxHeight: height}
}

func (c Constraints) HasBoundedWidth() bool  { return c.MaxWidth != Infinity }
func (c Constraints) HasBoundedHeight() bool { return c.MaxHeight != Infinity }

// ConstrainWidth clamps w into [MinWidth, MaxWidth]. Negative values clamp to MinWidth.
func (c Constraints) ConstrainWidth(w int) int { return coerceIn(w, c.MinWidth, c.MaxWidth) }

// ConstrainHeight clamps h into [MinHeight, MaxHeight].
func (c Constraints) ConstrainHeight(h int) int { return coerceIn(h, c.MinHeight, c.MaxHeight) }

// Deflate shrinks the constraints by a uniform inset on every side,
// never below zero. Unbounded maximums stay unbounded.
func (c Constraints) Deflate(inset int) Constraints {
	shrink := func(v int) int {
		if v == Infinity {
			return v
		}
		return max(v-2*inset, 0)
	}
	c.MinWidth = shrink(c.MinWidth)
	c.MaxWidth = shrink(c.MaxWidth)
	c.MinHeight = shrink(c.MinHeight)
	c.MaxHeight = shrink(c.MaxHeight)
	return c
}

func coerceIn(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
