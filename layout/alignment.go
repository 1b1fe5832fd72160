package layout

import (
	"fmt"
	"strings"
)

// HorizontalAlignment positions a child along the x axis.
type HorizontalAlignment uint8

const (
	Start HorizontalAlignment = iota
	CenterHorizontally
	End
)

// VerticalAlignment positions a child along the y axis.
type VerticalAlignment uint8

const (
	Top VerticalAlignment = iota
	CenterVertically
	Bottom
)

func (a HorizontalAlignment) String() string {
	switch a {
	case Start:
		return "start"
	case CenterHorizontally:
		return "center"
	case End:
		return "end"
	default:
		return fmt.Sprintf("HorizontalAlignment(%d)", uint8(a))
	}
}

func (a VerticalAlignment) String() string {
	switch a {
	case Top:
		return "top"
	case CenterVertically:
		return "center"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("VerticalAlignment(%d)", uint8(a))
	}
}

// ParseHorizontal accepts start/left, center/middle and end/right.
func ParseHorizontal(s string) (HorizontalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "left":
		return Start, nil
	case "center", "middle":
		return CenterHorizontally, nil
	case "end", "right":
		return End, nil
	}
	return Start, fmt.Errorf("unknown horizontal alignment %q", s)
}

// ParseVertical accepts top, center/middle and bottom.
func ParseVertical(s string) (VerticalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "start":
		return Top, nil
	case "center", "middle":
		return CenterVertically, nil
	case "bottom", "end":
		return Bottom, nil
	}
	return Top, fmt.Errorf("unknown vertical alignment %q", s)
}

// offset returns the x of a child of the given width inside space.
func (a HorizontalAlignment) offset(space, width int) int {
	switch a {
	case CenterHorizontally:
		return (space - width) / 2
	case End:
		return space - width
	default:
		return 0
	}
}

func (a VerticalAlignment) offset(space, height int) int {
	switch a {
	case CenterVertically:
		return (space - height) / 2
	case Bottom:
		return space - height
	default:
		return 0
	}
}

// ResolveHorizontal prefers a child's override over the container default.
func ResolveHorizontal(override *HorizontalAlignment, fallback HorizontalAlignment) HorizontalAlignment {
	if override == nil {
		return fallback
	}
	return *override
}

// ResolveVertical prefers a child's override over the container default.
func ResolveVertical(override *VerticalAlignment, fallback VerticalAlignment) VerticalAlignment {
	if override == nil {
		return fallback
	}
	return *override
}
