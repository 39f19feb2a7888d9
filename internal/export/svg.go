package export

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/sortviz/internal/playback"
)

func hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// FrameToSVG writes one playback frame as an SVG bar chart. Bars are placed
// by their X coordinate, so a frame taken mid-swap shows the bars in flight.
func FrameToSVG(w io.Writer, vs []playback.SlotVisual, bg color.RGBA, width, height int) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(bg)))

	maxVal := 1
	for _, v := range vs {
		maxVal = max(maxVal, v.Value)
	}

	if len(vs) > 0 {
		barW := float64(width) / float64(len(vs))
		for _, v := range vs {
			h := float64(height) * float64(v.Value) / float64(maxVal)
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>
`, v.X*barW, float64(height)-h, barW, h, hex(v.Fill), hex(v.Outline), v.OutlineThickness))
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SeriesToSVG plots each series as a polyline sharing one y scale, colored by
// evenly spaced hues in name order. Series with fewer than two points are
// skipped.
func SeriesToSVG(w io.Writer, series map[string][]float64, width, height int) error {
	minY, maxY := 0.0, 0.0
	longest := 0
	for _, data := range series {
		for _, y := range data {
			maxY = max(maxY, y)
		}
		longest = max(longest, len(data))
	}
	if longest < 2 {
		return fmt.Errorf("export: nothing to plot")
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(longest - 1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		stroke := colorful.Hcl(360*float64(i)/float64(len(names)), 0.6, 0.7).Clamped().Hex()
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, name, stroke))
		for k, y := range data {
			px := float64(k) / rangeX * float64(width)
			py := float64(height) - (y-minY)/rangeY*float64(height)
			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
