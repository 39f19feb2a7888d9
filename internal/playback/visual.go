package playback

import "image/color"

// Role is the semantic state of a slot. Renderers without RGBA output (the
// terminal UI) style by role; the rest use the palette colors in SlotVisual.
type Role int

const (
	RoleDefault Role = iota
	RoleCompareA
	RoleCompareB
	RoleSorted
	RoleFinal
)

func (r Role) String() string {
	switch r {
	case RoleCompareA:
		return "compare-a"
	case RoleCompareB:
		return "compare-b"
	case RoleSorted:
		return "sorted"
	case RoleFinal:
		return "final"
	}
	return "default"
}

func (r Role) isCompare() bool { return r == RoleCompareA || r == RoleCompareB }

// SlotVisual is the drawable state of one array slot for the current frame.
type SlotVisual struct {
	Value            int
	X                float64
	Fill             color.RGBA
	Outline          color.RGBA
	OutlineThickness float64
	Role             Role
	Swapping         bool
}

type Palette struct {
	Background color.RGBA
	Bar        color.RGBA
	Outline    color.RGBA
	CompareA   color.RGBA
	CompareB   color.RGBA
	Swapping   color.RGBA
	Sorted     color.RGBA
	Final      color.RGBA
}

func DefaultPalette() Palette {
	return Palette{
		Background: rgb(10, 10, 60),
		Bar:        rgb(200, 200, 200),
		Outline:    rgb(20, 20, 60),
		CompareA:   rgb(255, 80, 80),
		CompareB:   rgb(80, 160, 255),
		Swapping:   rgb(255, 210, 74),
		Sorted:     rgb(74, 210, 122),
		Final:      rgb(255, 255, 255),
	}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (p Palette) fill(r Role) color.RGBA {
	switch r {
	case RoleCompareA:
		return p.CompareA
	case RoleCompareB:
		return p.CompareB
	case RoleSorted:
		return p.Sorted
	case RoleFinal:
		return p.Final
	}
	return p.Bar
}

// Timing holds base durations in seconds at speed 1.
type Timing struct {
	StepInterval      float64
	SwapDuration      float64
	HighlightDuration float64
	SweepInterval     float64
}

func DefaultTiming() Timing {
	return Timing{
		StepInterval:      0.05,
		SwapDuration:      0.2,
		HighlightDuration: 0.25,
		SweepInterval:     0.02,
	}
}

// Layout places slot i at Origin + i*Spacing.
type Layout struct {
	Origin  float64
	Spacing float64
}

func DefaultLayout() Layout {
	return Layout{Spacing: 1}
}

func (l Layout) Home(i int) float64 {
	return l.Origin + float64(i)*l.Spacing
}
