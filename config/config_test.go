package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults failed: %v", err)
	}

	if cfg.Grid.Size != 50 {
		t.Errorf("grid.size = %d, want 50", cfg.Grid.Size)
	}
	if cfg.Population.Prey != 400 || cfg.Population.Predators != 50 {
		t.Errorf("population = (%d, %d), want (400, 50)",
			cfg.Population.Prey, cfg.Population.Predators)
	}
	if cfg.Prey.ReproduceProb != 0.1 {
		t.Errorf("prey.reproduce_prob = %g, want 0.1", cfg.Prey.ReproduceProb)
	}
	if cfg.Predator.ReproduceProb != 0.05 {
		t.Errorf("predator.reproduce_prob = %g, want 0.05", cfg.Predator.ReproduceProb)
	}
	if cfg.Predator.StarveTime != 20 {
		t.Errorf("predator.starve_time = %d, want 20", cfg.Predator.StarveTime)
	}
	if cfg.Predator.HuntingRadius != 8 {
		t.Errorf("predator.hunting_radius = %d, want 8", cfg.Predator.HuntingRadius)
	}
	if cfg.Run.MaxTicks != 200 {
		t.Errorf("run.max_ticks = %d, want 200", cfg.Run.MaxTicks)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	// Shrinking the grid means shrinking the populations too, or the
	// merged config fails the capacity check.
	override := "grid:\n  size: 12\npopulation:\n  prey: 60\n  predators: 12\npredator:\n  starve_time: 5\n"
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override failed: %v", err)
	}

	if cfg.Grid.Size != 12 {
		t.Errorf("grid.size = %d, want 12", cfg.Grid.Size)
	}
	if cfg.Population.Prey != 60 || cfg.Population.Predators != 12 {
		t.Errorf("population = (%d, %d), want (60, 12)",
			cfg.Population.Prey, cfg.Population.Predators)
	}
	if cfg.Predator.StarveTime != 5 {
		t.Errorf("predator.starve_time = %d, want 5", cfg.Predator.StarveTime)
	}
	// Untouched keys keep their defaults.
	if cfg.Prey.ReproduceProb != 0.1 {
		t.Errorf("prey.reproduce_prob = %g, want default 0.1", cfg.Prey.ReproduceProb)
	}
}

// Validation runs on the merged result, so a partial override that leaves
// the default populations over the shrunken grid's capacity must fail.
func TestLoadRejectsOverCapacityMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  size: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected capacity error for merged config")
	}
	if !strings.Contains(err.Error(), "capacity") {
		t.Errorf("error %q does not mention capacity", err)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func validConfig() Config {
	return Config{
		Grid:       GridConfig{Size: 10},
		Population: PopulationConfig{Prey: 20, Predators: 5},
		Prey:       PreyConfig{ReproduceProb: 0.1},
		Predator:   PredatorConfig{ReproduceProb: 0.05, StarveTime: 20, HuntingRadius: 8},
		Run:        RunConfig{MaxTicks: 100},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero grid size", func(c *Config) { c.Grid.Size = 0 }, "grid.size"},
		{"negative grid size", func(c *Config) { c.Grid.Size = -3 }, "grid.size"},
		{"negative population", func(c *Config) { c.Population.Prey = -1 }, "population"},
		{"over capacity", func(c *Config) { c.Population.Prey = 99; c.Population.Predators = 2 }, "capacity"},
		{"full grid ok", func(c *Config) { c.Population.Prey = 95; c.Population.Predators = 5 }, ""},
		{"prey prob zero", func(c *Config) { c.Prey.ReproduceProb = 0 }, "prey.reproduce_prob"},
		{"prey prob one", func(c *Config) { c.Prey.ReproduceProb = 1 }, "prey.reproduce_prob"},
		{"predator prob negative", func(c *Config) { c.Predator.ReproduceProb = -0.5 }, "predator.reproduce_prob"},
		{"starve time zero", func(c *Config) { c.Predator.StarveTime = 0 }, "starve_time"},
		{"radius zero", func(c *Config) { c.Predator.HuntingRadius = 0 }, "hunting_radius"},
		{"max ticks zero", func(c *Config) { c.Run.MaxTicks = 0 }, "max_ticks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	cfg := validConfig()
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing snapshot failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot failed: %v", err)
	}
	if *loaded != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, cfg)
	}
}
