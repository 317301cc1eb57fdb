package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/FarshadAmiri/complex-systems-simulations/components"
	"github.com/FarshadAmiri/complex-systems-simulations/config"
	"github.com/FarshadAmiri/complex-systems-simulations/systems"
)

func testConfig() *config.Config {
	return &config.Config{
		Grid:       config.GridConfig{Size: 20},
		Population: config.PopulationConfig{Prey: 40, Predators: 8},
		Prey:       config.PreyConfig{ReproduceProb: 0.1},
		Predator: config.PredatorConfig{
			ReproduceProb: 0.05,
			StarveTime:    10,
			HuntingRadius: 3,
		},
		Run: config.RunConfig{MaxTicks: 50},
	}
}

func TestBuildGridSeedsConfiguredPopulations(t *testing.T) {
	cfg := testConfig()
	grid := BuildGrid(cfg, rand.New(rand.NewSource(1)), nil)

	prey, pred := grid.Counts()
	if prey != cfg.Population.Prey || pred != cfg.Population.Predators {
		t.Errorf("counts = (%d, %d), want (%d, %d)",
			prey, pred, cfg.Population.Prey, cfg.Population.Predators)
	}
}

// Scenario: one prey, one predator whose hunting radius covers the whole
// grid, no reproduction. Whatever the activation order, the single tick
// ends with the prey eaten, the predator on its cell and hunger reset.
func TestPredationCollapsesPreyInOneTick(t *testing.T) {
	grid := systems.NewGrid(10)
	grid.Add(components.Position{X: 0, Y: 0}, components.Agent{Species: components.SpeciesPrey})
	pred := grid.Add(components.Position{X: 5, Y: 5}, components.Agent{
		Species:       components.SpeciesPredator,
		Hunger:        4,
		StarveTime:    9,
		HuntingRadius: 20,
	})

	clock := NewClock(grid, 10, rand.New(rand.NewSource(3)))
	if err := clock.Tick(); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	prey, predCount := grid.Counts()
	if prey != 0 || predCount != 1 {
		t.Fatalf("counts = (%d, %d), want (0, 1)", prey, predCount)
	}
	if got := grid.Agent(pred).Hunger; got != 9 {
		t.Errorf("predator hunger = %d, want reset to starve time 9", got)
	}
	if !clock.Terminated() || clock.Reason() != ReasonCollapse {
		t.Errorf("clock state = terminated:%v reason:%v, want collapse-terminated",
			clock.Terminated(), clock.Reason())
	}
	if clock.TickIndex() != 1 {
		t.Errorf("tick index = %d, want 1", clock.TickIndex())
	}
}

// Scenario: a 5x5 grid with no prey and one predator with starve time 3.
// The predator starves after exactly 3 ticks and the clock reports
// collapse. A species seeded with zero agents does not count as collapsed.
func TestStarvationCollapseAfterStarveTimeTicks(t *testing.T) {
	grid := systems.NewGrid(5)
	grid.Add(components.Position{X: 2, Y: 2}, components.Agent{
		Species:       components.SpeciesPredator,
		Hunger:        3,
		StarveTime:    3,
		HuntingRadius: 1,
	})

	clock := NewClock(grid, 10, rand.New(rand.NewSource(5)))
	reason, err := clock.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if reason != ReasonCollapse {
		t.Errorf("reason = %v, want collapse", reason)
	}
	if clock.TickIndex() != 3 {
		t.Errorf("terminated after %d ticks, want 3", clock.TickIndex())
	}
	if prey, pred := grid.Counts(); prey != 0 || pred != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", prey, pred)
	}
}

func TestMaxTicksTermination(t *testing.T) {
	grid := systems.NewGrid(5)
	grid.Add(components.Position{X: 1, Y: 1}, components.Agent{Species: components.SpeciesPrey})

	clock := NewClock(grid, 5, rand.New(rand.NewSource(1)))
	reason, err := clock.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if reason != ReasonMaxTicks {
		t.Errorf("reason = %v, want max-ticks", reason)
	}
	if clock.TickIndex() != 5 {
		t.Errorf("tick index = %d, want 5", clock.TickIndex())
	}
}

func TestTickAfterTerminatedFails(t *testing.T) {
	grid := systems.NewGrid(5)
	grid.Add(components.Position{X: 1, Y: 1}, components.Agent{Species: components.SpeciesPrey})

	clock := NewClock(grid, 1, rand.New(rand.NewSource(1)))
	if _, err := clock.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if err := clock.Tick(); !errors.Is(err, ErrTerminated) {
		t.Errorf("tick on terminated clock returned %v, want ErrTerminated", err)
	}
}

// An agent removed earlier in the same tick by another agent's action must
// be skipped, not acted upon. Two predators and one prey: only one predator
// can eat, and the tick completes without panicking on the stale entry.
func TestStaleSnapshotEntriesAreSkipped(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		grid := systems.NewGrid(10)
		grid.Add(components.Position{X: 0, Y: 0}, components.Agent{Species: components.SpeciesPrey})
		proto := components.Agent{
			Species:       components.SpeciesPredator,
			Hunger:        5,
			StarveTime:    5,
			HuntingRadius: 20,
		}
		grid.Add(components.Position{X: 5, Y: 5}, proto)
		grid.Add(components.Position{X: 2, Y: 7}, proto)

		clock := NewClock(grid, 10, rand.New(rand.NewSource(seed)))
		if err := clock.Tick(); err != nil {
			t.Fatalf("seed %d: tick failed: %v", seed, err)
		}

		prey, pred := grid.Counts()
		if prey != 0 {
			t.Errorf("seed %d: prey count = %d, want 0", seed, prey)
		}
		if pred != 2 {
			t.Errorf("seed %d: predator count = %d, want 2", seed, pred)
		}
	}
}

func TestConsumerReceivesTerminalCounts(t *testing.T) {
	grid := systems.NewGrid(5)
	grid.Add(components.Position{X: 2, Y: 2}, components.Agent{
		Species:       components.SpeciesPredator,
		Hunger:        1,
		StarveTime:    1,
		HuntingRadius: 1,
	})

	clock := NewClock(grid, 10, rand.New(rand.NewSource(1)))
	var last TickReport
	clock.SetConsumer(func(r TickReport) { last = r })

	if _, err := clock.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if last.Tick != 1 || last.Predators != 0 || last.Prey != 0 {
		t.Errorf("terminal report = %+v, want tick 1 with zero populations", last)
	}
	if len(last.Tags) != 25 {
		t.Fatalf("snapshot has %d tags, want 25", len(last.Tags))
	}
	for i, tag := range last.Tags {
		if tag != systems.TagEmpty {
			t.Errorf("cell %d still tagged %d in terminal snapshot", i, tag)
		}
	}
}

// Two runs from the same seed and configuration must produce identical
// per-tick population sequences.
func TestDeterministicReplay(t *testing.T) {
	type popRecord struct {
		Tick, Prey, Predators int
	}
	run := func() []popRecord {
		cfg := testConfig()
		rng := rand.New(rand.NewSource(42))
		grid := BuildGrid(cfg, rng, nil)
		clock := NewClock(grid, cfg.Run.MaxTicks, rng)

		var series []popRecord
		clock.SetConsumer(func(r TickReport) {
			series = append(series, popRecord{Tick: r.Tick, Prey: r.Prey, Predators: r.Predators})
		})
		if _, err := clock.Run(); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return series
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("tick %d differs: %+v vs %+v", i+1, first[i], second[i])
		}
	}
}
