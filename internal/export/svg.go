// Package export renders stored flight telemetry as SVG figures.
package export

import (
	"fmt"
	"strings"

	"flightdyn/internal/telemetry"
)

const (
	background = "#0a0a0a"
	stroke     = "#00ff00"
	axisColor  = "#333333"
)

type point struct{ x, y float64 }

// polylineSVG scales the points into the viewport, flips the vertical axis
// so larger values draw upward, and emits a single-polyline SVG document.
func polylineSVG(points []point, width, height int, caption string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].x, points[0].x
	minY, maxY := points[0].y, points[0].y
	for _, p := range points {
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	const margin = 20.0
	w, h := float64(width), float64(height)
	sx := (w - 2*margin) / rangeX
	sy := (h - 2*margin) / rangeY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, margin, margin, w-2*margin, h-2*margin, axisColor))

	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, stroke))
	for i, p := range points {
		px := margin + (p.x-minX)*sx
		py := h - margin - (p.y-minY)*sy
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
	}
	sb.WriteString("\"/>\n")

	if caption != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, margin, margin-6, stroke, caption))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// GroundTrackSVG plots the flight path from above, east against north.
func GroundTrackSVG(samples []telemetry.Sample, width, height int) string {
	points := make([]point, len(samples))
	for i, s := range samples {
		points[i] = point{x: s.State.PositionEnuM.X, y: s.State.PositionEnuM.Y}
	}
	return polylineSVG(points, width, height, "ground track (east vs north, m)")
}

// AltitudeProfileSVG plots altitude against time.
func AltitudeProfileSVG(samples []telemetry.Sample, width, height int) string {
	points := make([]point, len(samples))
	for i, s := range samples {
		points[i] = point{x: s.T, y: s.State.PositionEnuM.Z}
	}
	return polylineSVG(points, width, height, "altitude vs time (m)")
}
