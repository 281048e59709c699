package export

import (
	"fmt"
	"math"
	"strings"
)

// Curve is one named series for plotting.
type Curve struct {
	Y     []float64
	Color string
}

// SpectrumToSVG renders one or more P(k) curves on a shared log-log canvas.
func SpectrumToSVG(k []float64, curves []Curve, width, height int) string {
	if len(k) < 2 || len(curves) == 0 {
		return ""
	}

	// Bounds in log space
	minX, maxX := math.Log10(k[0]), math.Log10(k[len(k)-1])
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range curves {
		for _, v := range c.Y {
			if v <= 0 {
				continue
			}
			ly := math.Log10(v)
			if ly < minY {
				minY = ly
			}
			if ly > maxY {
				maxY = ly
			}
		}
	}
	if math.IsInf(minY, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, c := range curves {
		if len(c.Y) != len(k) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, c.Color))
		started := false
		for i := range k {
			if c.Y[i] <= 0 {
				continue
			}
			x := (math.Log10(k[i]) - minX) / rangeX * float64(width)
			y := float64(height) - (math.Log10(c.Y[i])-minY)/rangeY*float64(height)
			if !started {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				started = true
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CorrelationToSVG renders a BAO correlation function on linear axes.
func CorrelationToSVG(r, xi []float64, width, height int, strokeColor string) string {
	if len(r) < 2 || len(xi) != len(r) {
		return ""
	}

	minX, maxX := r[0], r[len(r)-1]
	minY, maxY := xi[0], xi[0]
	for _, v := range xi {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range r {
		x := (r[i] - minX) / rangeX * float64(width)
		y := float64(height) - (xi[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
