package layout

import (
	"math"
	"strconv"
	"strings"
)

// This file defines density-independent lengths and their conversion to pixels.

// Unit records the unit a length was written with in the DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitPx               // device pixels
	UnitDp               // density-independent pixels
	UnitSp               // scaled pixels, dp with font scaling applied
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPx:
		return "px"
	case UnitDp:
		return "dp"
	case UnitSp:
		return "sp"
	default:
		return ""
	}
}

// Dp is a density-independent length.
type Dp float32

// Sp is a font-scaled length, used for text sizes.
type Sp float32

// Density converts Dp and Sp values to device pixels.
// The zero value behaves as a 1x screen without font scaling.
type Density struct {
	Density   float32 `json:"density" toml:"density"`
	FontScale float32 `json:"fontScale" toml:"font_scale"`
}

func (d Density) density() float32 {
	if d.Density <= 0 {
		return 1
	}
	return d.Density
}

func (d Density) fontScale() float32 {
	if d.FontScale <= 0 {
		return 1
	}
	return d.FontScale
}

// ToPx returns the exact pixel value of v.
func (d Density) ToPx(v Dp) float32 { return float32(v) * d.density() }

// RoundToPx returns v in pixels rounded to the nearest integer.
// Infinite lengths map to Infinity.
func (d Density) RoundToPx(v Dp) int {
	px := d.ToPx(v)
	if math.IsInf(float64(px), 0) {
		return Infinity
	}
	return int(math.Round(float64(px)))
}

// SpToPx returns the pixel value of a text size.
func (d Density) SpToPx(v Sp) float32 { return float32(v) * d.density() * d.fontScale() }

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPx converts l to pixels. Unit-less values are taken as dp.
func (l Length) ToPx(d Density) float32 {
	switch l.Unit {
	case UnitPx:
		return float32(l.Value)
	case UnitSp:
		return d.SpToPx(Sp(l.Value))
	default:
		return d.ToPx(Dp(l.Value))
	}
}

// Dp returns l as a Dp. Pixel values are divided back by the density.
func (l Length) Dp(d Density) Dp {
	switch l.Unit {
	case UnitPx:
		return Dp(float32(l.Value) / d.density())
	case UnitSp:
		return Dp(float32(l.Value) * d.fontScale())
	default:
		return Dp(l.Value)
	}
}

// ParseLength parses a DSL length string preserving its unit.
// Invalid input yields a zero length.
func ParseLength(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{Value: 0, Unit: UnitNone}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"dp", UnitDp}, {"sp", UnitSp}, {"px", UnitPx}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{Value: 0, Unit: UnitNone}
	}
	return Length{Value: f, Unit: unit}
}

// String formats the length back into DSL form.
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}
