// Package barrier implements segment obstacles ("rods") that particles
// collide with.
package barrier

import (
	"math"

	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/vec"
)

const DefaultThickness = 15.0

// Body is the read-only view of a particle needed for collision tests.
type Body interface {
	Position() vec.Vec2
	Radius() float64
}

// Rod is a line segment with a drawing thickness. Collision tests treat it
// as the bare segment.
type Rod struct {
	start     vec.Vec2
	end       vec.Vec2
	thickness float64
}

func New(start, end vec.Vec2) *Rod {
	return &Rod{start: start, end: end, thickness: DefaultThickness}
}

func (r *Rod) Start() vec.Vec2    { return r.start }
func (r *Rod) End() vec.Vec2      { return r.end }
func (r *Rod) Thickness() float64 { return r.thickness }
func (r *Rod) Length() float64    { return r.start.Distance(r.end) }
func (r *Rod) IsDegenerate() bool { return r.start == r.end }

func (r *Rod) SetStart(v vec.Vec2) *Rod {
	r.start = v
	return r
}

func (r *Rod) SetEnd(v vec.Vec2) *Rod {
	r.end = v
	return r
}

// SetThickness ignores non-positive values.
func (r *Rod) SetThickness(t float64) *Rod {
	if t > 0 {
		r.thickness = t
	}
	return r
}

// Closest returns the point of the segment nearest to p. A zero-length rod
// is the point Start.
func (r *Rod) Closest(p vec.Vec2) vec.Vec2 {
	d := r.end.Sub(r.start)
	len2 := d.Dot(d)
	if len2 <= 0 {
		return r.start
	}

	t := p.Sub(r.start).Dot(d) / len2
	t = math.Max(0, math.Min(1, t))
	return r.start.Add(d.Scale(t))
}

// IsCollided reports whether the segment passes within b's radius of its
// centre.
func (r *Rod) IsCollided(b Body) bool {
	return r.Closest(b.Position()).Distance(b.Position()) <= b.Radius()
}

// Reflect bounces p off the rod when the two touch and p is moving into
// it. The normal component of the velocity is reversed and scaled by
// restitution. It reports whether a reflection happened.
func (r *Rod) Reflect(p *particle.Particle, restitution float64) bool {
	if !r.IsCollided(p) {
		return false
	}

	normal := p.Position().Sub(r.Closest(p.Position()))
	if normal.IsZero() {
		// Centre on the segment: push along the segment's left normal,
		// or against the motion for a point rod.
		d := r.end.Sub(r.start)
		if d.IsZero() {
			normal = p.Velocity().Scale(-1)
		} else {
			normal = vec.New(-d.Y, d.X)
		}
		if normal.Dot(p.Velocity()) > 0 {
			normal = normal.Scale(-1)
		}
	}
	normal = normal.Unit()

	velN := p.Velocity().Dot(normal)
	if velN >= 0 {
		return false
	}

	p.SetVelocity(p.Velocity().Sub(normal.Scale((1 + restitution) * velN)))
	return true
}
