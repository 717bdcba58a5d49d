package config

import "sort"

func preset(name string, edit func(s *Scenario)) *Scenario {
	s := DefaultScenario()
	s.Name = name
	edit(s)
	return s
}

var Presets = map[string]*Scenario{
	"default": DefaultScenario(),
	"subcritical": preset("subcritical", func(s *Scenario) {
		s.Atoms.Count = 25
		s.Atoms.Absorption = 0.1
	}),
	"critical": preset("critical", func(s *Scenario) {
		s.Atoms.Count = 90
		s.Atoms.Absorption = 0.6
		s.Neutrons.Count = 5
	}),
	"moderated": preset("moderated", func(s *Scenario) {
		s.Atoms.Count = 90
		s.Atoms.Absorption = 0.6
		s.Rods = []RodConfig{
			{Start: [2]float64{70, 15}, End: [2]float64{70, 105}},
			{Start: [2]float64{130, 15}, End: [2]float64{130, 105}},
		}
		s.Fission.RodAbsorption = 0.9
	}),
	"controlled": preset("controlled", func(s *Scenario) {
		s.Atoms.Count = 90
		s.Atoms.Absorption = 0.6
		s.Neutrons.Count = 5
		s.Rods = []RodConfig{
			{Start: [2]float64{50, 10}, End: [2]float64{50, 110}},
			{Start: [2]float64{100, 10}, End: [2]float64{100, 110}},
			{Start: [2]float64{150, 10}, End: [2]float64{150, 110}},
		}
		s.Fission.RodAbsorption = 0.5
		s.Control = ControlConfig{Target: 20, Kp: 0.02, Ki: 0.002, Kd: 0.01, Limit: 200}
	}),
	"decay": preset("decay", func(s *Scenario) {
		s.Atoms.Count = 40
		s.Atoms.Decay = 0.01
		s.Neutrons.Count = 0
		s.Duration = 60
	}),
	"cluster": preset("cluster", func(s *Scenario) {
		s.Atoms.Count = 30
		s.Atoms.Attraction = 0.02
		s.Restitution = 0.8
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
