package control

import "math"

// Controller maps a measured value at time t to an actuation signal.
type Controller interface {
	Compute(measured, t float64) float64
}

// PID tracks Target with proportional, integral and derivative terms.
// The derivative acts on the measurement rather than the error, so a
// setpoint change does not kick the rods. The integral is clamped to
// ±IntegralLimit when the limit is positive.
type PID struct {
	Kp, Ki, Kd    float64
	Target        float64
	IntegralLimit float64

	integral     float64
	lastMeasured float64
	lastT        float64
	primed       bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target}
}

func (p *PID) Compute(measured, t float64) float64 {
	e := p.Target - measured
	u := p.Kp * e

	if p.primed {
		if dt := t - p.lastT; dt > 0 {
			p.integral += e * dt
			if p.IntegralLimit > 0 {
				p.integral = math.Max(-p.IntegralLimit, math.Min(p.integral, p.IntegralLimit))
			}
			u += p.Ki*p.integral - p.Kd*(measured-p.lastMeasured)/dt
		}
	}

	p.lastMeasured, p.lastT, p.primed = measured, t, true
	return u
}

// Reset clears the accumulated state.
func (p *PID) Reset() {
	p.integral, p.lastMeasured, p.lastT, p.primed = 0, 0, 0, false
}

// None never acts.
type None struct{}

func (None) Compute(float64, float64) float64 { return 0 }
