package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/sortviz/internal/playback"
)

// Theme maps slot roles and chrome onto terminal colors.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Dim      lipgloss.Color
	Bar      lipgloss.Color
	CompareA lipgloss.Color
	CompareB lipgloss.Color
	Swapping lipgloss.Color
	Sorted   lipgloss.Color
	Final    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:     "ocean",
		Title:    lipgloss.Color("#00a8cc"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Dim:      lipgloss.Color("#24445a"),
		Bar:      lipgloss.Color("#0077be"),
		CompareA: lipgloss.Color("#ff4444"),
		CompareB: lipgloss.Color("#ffd700"),
		Swapping: lipgloss.Color("#ffcc00"),
		Sorted:   lipgloss.Color("#00ff88"),
		Final:    lipgloss.Color("#ffffff"),
		Warning:  lipgloss.Color("#ffcc00"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Title:    lipgloss.Color("#00ff00"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#008800"),
		Dim:      lipgloss.Color("#005500"),
		Bar:      lipgloss.Color("#00aa00"),
		CompareA: lipgloss.Color("#ffff00"),
		CompareB: lipgloss.Color("#88ff88"),
		Swapping: lipgloss.Color("#ffffff"),
		Sorted:   lipgloss.Color("#00ff00"),
		Final:    lipgloss.Color("#ffffff"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Title:    lipgloss.Color("#ffffff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Dim:      lipgloss.Color("#444444"),
		Bar:      lipgloss.Color("#cccccc"),
		CompareA: lipgloss.Color("#0088ff"),
		CompareB: lipgloss.Color("#00ccff"),
		Swapping: lipgloss.Color("#ffaa00"),
		Sorted:   lipgloss.Color("#00ff00"),
		Final:    lipgloss.Color("#ffffff"),
		Warning:  lipgloss.Color("#ffaa00"),
	}
)

// PaletteTheme builds the "classic" theme from a playback palette so the
// terminal matches the window renderer.
func PaletteTheme(p playback.Palette) Theme {
	return Theme{
		Name:     "classic",
		Title:    hex(p.CompareB),
		Text:     hex(p.Final),
		Muted:    lipgloss.Color("#888888"),
		Dim:      lipgloss.Color("#444444"),
		Bar:      hex(p.Bar),
		CompareA: hex(p.CompareA),
		CompareB: hex(p.CompareB),
		Swapping: hex(p.Swapping),
		Sorted:   hex(p.Sorted),
		Final:    hex(p.Final),
		Warning:  hex(p.Swapping),
	}
}

func hex(c color.RGBA) lipgloss.Color {
	cf, _ := colorful.MakeColor(c)
	return lipgloss.Color(cf.Hex())
}

// Themes lists the cycle order, starting from the palette theme.
func Themes(p playback.Palette) []Theme {
	return []Theme{PaletteTheme(p), ThemeOcean, ThemeRetro, ThemeMinimal}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	themes := Themes(playback.DefaultPalette())
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) slotColor(v playback.SlotVisual) lipgloss.Color {
	if v.Swapping {
		return t.Swapping
	}
	switch v.Role {
	case playback.RoleCompareA:
		return t.CompareA
	case playback.RoleCompareB:
		return t.CompareB
	case playback.RoleSorted:
		return t.Sorted
	case playback.RoleFinal:
		return t.Final
	}
	return t.Bar
}

// shade darkens c towards black as ratio falls, so taller default bars read
// brighter. Colors that fail to parse are returned unchanged.
func shade(c lipgloss.Color, ratio float64) lipgloss.Color {
	base, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	black := colorful.Color{}
	return lipgloss.Color(black.BlendLab(base, 0.45+0.55*ratio).Clamped().Hex())
}

func ThemeByName(p playback.Palette, name string) (Theme, bool) {
	for _, t := range Themes(p) {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
