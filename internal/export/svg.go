package export

import (
	"fmt"
	"strings"
)

var palette = []string{
	"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#8888ff",
}

// TrajectoryToSVG plots one concentration-vs-time polyline per species on
// a shared axis, with a legend in the top-right corner.
func TrajectoryToSVG(times []float64, states [][]float64, species []string, width, height int) string {
	if len(times) < 2 || len(states) < 2 {
		return ""
	}

	minT, maxT := times[0], times[len(times)-1]
	minY, maxY := states[0][0], states[0][0]
	for _, s := range states {
		for _, v := range s {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for si := range species {
		color := palette[si%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, s := range states {
			if si >= len(s) {
				continue
			}
			x := (times[i] - minT) / rangeT * float64(width)
			y := float64(height) - (s[si]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for si, name := range species {
		color := palette[si%len(palette)]
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, width-60, 16+si*16, color, name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
