// Package control provides feedback controllers for the reactor.
//
// [RodController] observes each step and moves the rods' absorption so the
// neutron population tracks a setpoint:
//
//	pid := control.NewPID(0.02, 0.001, 0.01, 25)
//	sim.AddObserver(control.NewRodController(pid, sim, 0.5))
package control
