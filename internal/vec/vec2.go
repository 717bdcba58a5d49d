// Package vec provides the 2-D vector value type used by the particle kernel.
package vec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is an immutable 2-D vector. Every operation returns a new value.
type Vec2 r2.Vec

// Zero is the additive identity.
var Zero = Vec2{}

// Rand is the random source consumed by Random.
type Rand interface {
	Float64() float64
}

func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) r2() r2.Vec { return r2.Vec(v) }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2(r2.Add(v.r2(), o.r2())) }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2(r2.Sub(v.r2(), o.r2())) }

func (v Vec2) Scale(f float64) Vec2 { return Vec2(r2.Scale(f, v.r2())) }

func (v Vec2) Dot(o Vec2) float64 { return r2.Dot(v.r2(), o.r2()) }

// Magnitude returns sqrt(v·v).
func (v Vec2) Magnitude() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v scaled to length one. The zero vector has no direction and
// maps to Zero; callers that care must check Magnitude first.
func (v Vec2) Unit() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Zero
	}
	return v.Scale(1 / m)
}

func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Magnitude() }

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vec2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}

// Random returns a unit vector with a uniformly distributed direction.
func Random(r Rand) Vec2 {
	sin, cos := math.Sincos(2 * math.Pi * r.Float64())
	return Vec2{X: cos, Y: sin}
}
