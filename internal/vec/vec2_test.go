package vec

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-12

func TestVec2_Arithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(4, -6)

	if got := a.Add(b); got != New(5, -4) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != New(3, -8) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(-2); got != New(-2, -4) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != -8 {
		t.Errorf("Dot = %v, want -8", got)
	}
	if a != New(1, 2) || b != New(4, -6) {
		t.Error("operands were mutated")
	}
}

func TestVec2_Magnitude(t *testing.T) {
	tests := []struct {
		v    Vec2
		want float64
	}{
		{New(3, 4), 5},
		{New(0, 0), 0},
		{New(-1, 0), 1},
		{New(1, 1), math.Sqrt2},
	}

	for _, tt := range tests {
		if got := tt.v.Magnitude(); math.Abs(got-tt.want) > eps {
			t.Errorf("Magnitude(%v) = %v, want %v", tt.v, got, tt.want)
		}
		if got := math.Sqrt(tt.v.Dot(tt.v)); math.Abs(got-tt.v.Magnitude()) > eps {
			t.Errorf("Magnitude(%v) disagrees with sqrt(dot)", tt.v)
		}
	}
}

func TestVec2_Unit(t *testing.T) {
	u := New(3, 4).Unit()
	if math.Abs(u.X-0.6) > eps || math.Abs(u.Y-0.8) > eps {
		t.Errorf("Unit = %v, want (0.6, 0.8)", u)
	}

	if got := Zero.Unit(); !got.IsZero() {
		t.Errorf("zero vector Unit = %v, want zero", got)
	}
}

func TestVec2_Distance(t *testing.T) {
	if got := New(1, 1).Distance(New(4, 5)); math.Abs(got-5) > eps {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		v := Random(r)
		if math.Abs(v.Magnitude()-1) > 1e-9 {
			t.Fatalf("Random returned non-unit vector %v", v)
		}
	}

	a := Random(rand.New(rand.NewSource(42)))
	b := Random(rand.New(rand.NewSource(42)))
	if a != b {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}
