package particle

import "github.com/san-kum/chernoby/internal/vec"

// Softening is added to the squared separation in AttractTo so the
// acceleration stays finite as two bodies meet.
const Softening = 0.01

// Elastic is the restitution of a perfectly elastic bounce.
const Elastic = 1.0

// Age advances the particle's lifetime by dt. Negative steps are not
// rejected; drivers supply non-negative dt.
func (p *Particle) Age(dt float64) {
	p.timeLived += dt
}

func (p *Particle) IsDead() bool { return p.kind.Expired(p) }

// IsOutside reports whether the particle sits on or beyond the edges of
// the box [0,width]x[0,height].
func (p *Particle) IsOutside(width, height float64) bool {
	return p.position.X <= 0 || p.position.X >= width ||
		p.position.Y <= 0 || p.position.Y >= height
}

// Integrate performs a semi-implicit Euler step: v += a*dt; p += v*dt.
// The acceleration accumulator is cleared afterwards.
func (p *Particle) Integrate(dt float64) {
	p.velocity = p.velocity.Add(p.acceleration.Scale(dt))
	p.position = p.position.Add(p.velocity.Scale(dt))
	p.acceleration = vec.Zero
}

// IsCollided is the circle-circle overlap test.
func (p *Particle) IsCollided(other *Particle) bool {
	return p.position.Distance(other.position) <= p.Radius()+other.Radius()
}

// AttractTo adds the softened inverse-square pull of other to p's
// acceleration.
func (p *Particle) AttractTo(other *Particle) {
	dir := other.position.Sub(p.position)
	dist := dir.Magnitude()
	if dist <= 0 {
		return
	}

	mag := p.attractionStrength * float64(other.mass) / (dist*dist + Softening)
	p.acceleration = p.acceleration.Add(dir.Unit().Scale(mag))
}

// Bounce resolves a contact between p and other with an impulse along the
// contact normal. Pairs that do not touch, that carry a non-positive mass,
// or that already separate are left alone. restitution 1 is elastic, 0 is
// perfectly inelastic.
func (p *Particle) Bounce(other *Particle, restitution float64) {
	if !p.IsCollided(other) {
		return
	}
	if p.mass <= 0 || other.mass <= 0 {
		return
	}

	offset := p.position.Sub(other.position)
	if offset.IsZero() {
		return
	}
	normal := offset.Unit()

	velN := p.velocity.Sub(other.velocity).Dot(normal)
	if velN > 0 {
		return
	}

	invM1 := 1 / float64(p.mass)
	invM2 := 1 / float64(other.mass)
	j := -(1 + restitution) * velN / (invM1 + invM2)
	impulse := normal.Scale(j)

	p.velocity = p.velocity.Add(impulse.Scale(invM1))
	other.velocity = other.velocity.Sub(impulse.Scale(invM2))
}
