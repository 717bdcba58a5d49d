package control

import "github.com/san-kum/chernoby/internal/reactor"

type Actuator interface {
	SetRodAbsorption(v float64)
}

// RodController drives rod absorption from the neutron count. A positive
// controller output means too few neutrons, so the rods withdraw.
type RodController struct {
	ctrl     Controller
	act      Actuator
	bias     float64
	Position float64
}

func NewRodController(ctrl Controller, act Actuator, bias float64) *RodController {
	return &RodController{ctrl: ctrl, act: act, bias: bias, Position: bias}
}

func (r *RodController) OnStep(s reactor.Stats) {
	u := r.ctrl.Compute(float64(s.Neutrons), s.Time)
	r.Position = min(max(r.bias-u, 0), 1)
	r.act.SetRodAbsorption(r.Position)
}
