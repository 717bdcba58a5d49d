package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/reactor"
)

// Point is one sample of a series.
type Point struct{ X, Y float64 }

const (
	background      = "#0a0a0a"
	rodColor        = "#555577"
	neutronColor    = "#00ffff"
	fissileColor    = "#ff8800"
	fragmentColor   = "#888888"
	minNeutronPixel = 1.0
)

func fill(p *particle.Particle) string {
	switch {
	case p.Is(particle.Neutron):
		return neutronColor
	case p.Unstable():
		return fissileColor
	default:
		return fragmentColor
	}
}

// WorldToSVG draws a snapshot of w, scale pixels per world unit. Rods are
// drawn at their thickness, particles at their collision radius.
func WorldToSVG(w *reactor.World, scale float64) string {
	if w == nil || scale <= 0 {
		return ""
	}

	width, height := w.Width*scale, w.Height*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, r := range w.Rods {
		a, b := r.Start().Scale(scale), r.End().Scale(scale)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>
`, a.X, a.Y, b.X, b.Y, rodColor, r.Thickness()*scale)
	}

	for _, p := range w.Particles {
		c := p.Position().Scale(scale)
		radius := p.Radius() * scale
		if p.Is(particle.Neutron) {
			radius = max(radius, minNeutronPixel)
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c.X, c.Y, radius, fill(p))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Series extracts (time, field) pairs from recorded stats.
func Series(stats []reactor.Stats, field func(s reactor.Stats) float64) []Point {
	points := make([]Point, len(stats))
	for i, s := range stats {
		points[i] = Point{X: s.Time, Y: field(s)}
	}
	return points
}

// SeriesToSVG draws points as a single polyline scaled to width x height
// with 10% padding. Fewer than two points yield an empty string.
func SeriesToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

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
