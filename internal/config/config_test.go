package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/chernoby/internal/reactor"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()

	if s.Name != "default" {
		t.Errorf("expected name default, got %s", s.Name)
	}
	if s.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if s.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default scenario should validate: %v", err)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		s := GetPreset(name)
		if s == nil {
			t.Fatalf("preset %s listed but not found", name)
		}
		if s.Name != name {
			t.Errorf("preset %s carries name %s", name, s.Name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset_Copy(t *testing.T) {
	s := GetPreset("moderated")
	if s == nil {
		t.Fatal("expected preset, got nil")
	}
	s.Rods[0].Start[0] = -1
	s.Atoms.Count = 0

	again := GetPreset("moderated")
	if again.Rods[0].Start[0] != 70 {
		t.Error("mutating a preset copy changed the preset's rods")
	}
	if again.Atoms.Count != 90 {
		t.Error("mutating a preset copy changed the preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if s := GetPreset("nonexistent"); s != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	s := GetPreset("moderated")
	s.Seed = 7

	if err := Save(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Seed != 7 || got.Name != "moderated" {
		t.Errorf("unexpected scenario: %+v", got)
	}
	if len(got.Rods) != 2 || got.Rods[1].End != [2]float64{130, 105} {
		t.Errorf("rods not preserved: %+v", got.Rods)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "name: tiny\natoms:\n  count: 4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Atoms.Count != 4 {
		t.Errorf("expected 4 atoms, got %d", s.Atoms.Count)
	}
	if s.Atoms.Mass != DefaultAtomMass {
		t.Errorf("expected default mass %d, got %d", DefaultAtomMass, s.Atoms.Mass)
	}
	if s.Dt != DefaultDt {
		t.Errorf("expected default dt %f, got %f", DefaultDt, s.Dt)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("width: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(s *Scenario)
		target error
	}{
		{"zero width", func(s *Scenario) { s.Width = 0 }, ErrInvalidScenario},
		{"negative atoms", func(s *Scenario) { s.Atoms.Count = -1 }, ErrInvalidScenario},
		{"zero mass", func(s *Scenario) { s.Atoms.Mass = 0 }, ErrInvalidScenario},
		{"no neutron lifetime", func(s *Scenario) { s.Neutrons.Lifetime = 0 }, ErrInvalidScenario},
		{"negative rod thickness", func(s *Scenario) {
			s.Rods = []RodConfig{{End: [2]float64{1, 1}, Thickness: -1}}
		}, ErrInvalidScenario},
		{"control without rods", func(s *Scenario) { s.Control.Target = 10 }, ErrInvalidScenario},
		{"zero dt", func(s *Scenario) { s.Dt = 0 }, reactor.ErrInvalidConfig},
		{"bad rod absorption", func(s *Scenario) { s.Fission.RodAbsorption = 3 }, reactor.ErrInvalidConfig},
	}

	for _, tt := range tests {
		s := DefaultScenario()
		tt.edit(s)
		if err := s.Validate(); !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
	}
}

func TestReactorConfig(t *testing.T) {
	s := DefaultScenario()
	s.Fission.FragmentSpeed = 1.5
	rc := s.ReactorConfig()

	if rc.Dt != s.Dt || rc.Duration != s.Duration || rc.Seed != s.Seed {
		t.Errorf("timing not carried over: %+v", rc)
	}
	if rc.Fission.FragmentSpeed != 1.5 {
		t.Errorf("expected fragment speed 1.5, got %f", rc.Fission.FragmentSpeed)
	}
	if rc.MaxParticles != s.MaxParticles {
		t.Errorf("expected max particles %d, got %d", s.MaxParticles, rc.MaxParticles)
	}
}
