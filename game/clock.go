// Package game drives the simulation: discrete ticks, randomized agent
// activation order, termination detection and per-tick reporting to an
// external consumer.
package game

import (
	"errors"
	"math/rand"

	"github.com/FarshadAmiri/complex-systems-simulations/components"
	"github.com/FarshadAmiri/complex-systems-simulations/config"
	"github.com/FarshadAmiri/complex-systems-simulations/systems"
)

// Reason records why a run terminated.
type Reason uint8

const (
	ReasonNone     Reason = iota // still running
	ReasonMaxTicks               // configured tick budget exhausted
	ReasonCollapse               // a seeded species died out
)

// String returns a short reason label.
func (r Reason) String() string {
	switch r {
	case ReasonMaxTicks:
		return "max-ticks"
	case ReasonCollapse:
		return "collapse"
	}
	return "none"
}

// ErrTerminated is returned by Tick once the clock has terminated.
// Ticking a terminated clock is a state violation, never silently ignored.
var ErrTerminated = errors.New("game: clock is terminated")

// TickReport is the read-only view handed to the consumer after each tick.
type TickReport struct {
	Tick      int
	Prey      int
	Predators int
	Tags      []systems.Tag // independent copy of the occupancy array, row-major
}

// Consumer receives per-tick reports. The clock never waits on it; pacing
// against a renderer is the driver's concern.
type Consumer func(TickReport)

// Clock steps the simulation. Execution is strictly single-threaded: one
// agent acts at a time, which is what makes the predator's eat-then-occupy
// compound operation safe without locks.
type Clock struct {
	grid     *systems.Grid
	rng      *rand.Rand
	maxTicks int

	tick       int
	terminated bool
	reason     Reason
	consumer   Consumer

	// Species seeded with zero agents never count as collapsed; a run
	// with no prey at all still lets its predators starve to the end.
	hadPrey int
	hadPred int
}

// NewClock wraps an already-populated grid. The RNG is the single stream
// shared with seeding and behavior; a fixed seed reproduces the whole run.
func NewClock(grid *systems.Grid, maxTicks int, rng *rand.Rand) *Clock {
	prey, pred := grid.Counts()
	return &Clock{
		grid:     grid,
		rng:      rng,
		maxTicks: maxTicks,
		hadPrey:  prey,
		hadPred:  pred,
	}
}

// BuildGrid constructs a grid from the configuration and seeds both initial
// populations on random empty cells. events may be nil; when given it is
// registered before seeding so initial placements count as births.
func BuildGrid(cfg *config.Config, rng *rand.Rand, events systems.EventRecorder) *systems.Grid {
	grid := systems.NewGrid(cfg.Grid.Size)
	if events != nil {
		grid.SetEventRecorder(events)
	}
	grid.Seed(rng, cfg.Population.Prey, components.Agent{
		Species:       components.SpeciesPrey,
		ReproduceProb: cfg.Prey.ReproduceProb,
	})
	grid.Seed(rng, cfg.Population.Predators, components.Agent{
		Species:       components.SpeciesPredator,
		ReproduceProb: cfg.Predator.ReproduceProb,
		Hunger:        cfg.Predator.StarveTime,
		StarveTime:    cfg.Predator.StarveTime,
		HuntingRadius: cfg.Predator.HuntingRadius,
	})
	return grid
}

// SetConsumer registers the per-tick report consumer.
func (c *Clock) SetConsumer(fn Consumer) {
	c.consumer = fn
}

// Grid exposes the underlying world, mainly for drivers and tests.
func (c *Clock) Grid() *systems.Grid {
	return c.grid
}

// TickIndex returns the number of completed ticks.
func (c *Clock) TickIndex() int {
	return c.tick
}

// Terminated reports whether the clock has reached its terminal state.
func (c *Clock) Terminated() bool {
	return c.terminated
}

// Reason returns why the run ended, or ReasonNone while running.
func (c *Clock) Reason() Reason {
	return c.reason
}

// Tick runs one simulation step: snapshot the live agent set, activate each
// agent in a fresh uniform random order, then report populations. Agents
// removed earlier in the same tick by another agent's action are skipped via
// the registry's liveness check.
func (c *Clock) Tick() error {
	if c.terminated {
		return ErrTerminated
	}

	agents := c.grid.Snapshot()
	c.rng.Shuffle(len(agents), func(i, j int) {
		agents[i], agents[j] = agents[j], agents[i]
	})
	for _, e := range agents {
		if !c.grid.Alive(e) {
			continue
		}
		systems.Step(c.grid, e, c.rng)
	}

	c.tick++
	prey, pred := c.grid.Counts()

	if c.consumer != nil {
		c.consumer(TickReport{
			Tick:      c.tick,
			Prey:      prey,
			Predators: pred,
			Tags:      c.grid.Tags(),
		})
	}

	switch {
	case (c.hadPrey > 0 && prey == 0) || (c.hadPred > 0 && pred == 0):
		c.terminated = true
		c.reason = ReasonCollapse
	case c.tick >= c.maxTicks:
		c.terminated = true
		c.reason = ReasonMaxTicks
	}
	return nil
}

// Run ticks until termination and returns the reason.
func (c *Clock) Run() (Reason, error) {
	for !c.terminated {
		if err := c.Tick(); err != nil {
			return c.reason, err
		}
	}
	return c.reason, nil
}
