// Package components defines ECS components for the simulation.
package components

// Species identifies the behavioral kind of an agent.
type Species uint8

const (
	SpeciesPrey Species = iota
	SpeciesPredator
)

// String returns the lower-case species name.
func (s Species) String() string {
	switch s {
	case SpeciesPrey:
		return "prey"
	case SpeciesPredator:
		return "predator"
	}
	return "unknown"
}

// Position is an agent's cell on the toroidal grid.
// Both coordinates are always normalized to [0, N).
type Position struct {
	X, Y int
}

// Agent holds per-agent behavioral state.
//
// ReproduceProb applies to both species. Hunger, StarveTime, HuntingRadius
// and Ate are meaningful for predators only and stay zero on prey.
type Agent struct {
	Species       Species
	ReproduceProb float64

	// Predator state. Hunger counts down each tick the predator fails to
	// eat and is clamped at zero; StarveTime is the reset value after a
	// successful hunt. Ate is reset at the start of the predator's own step.
	Hunger        int
	StarveTime    int
	HuntingRadius int
	Ate           bool
}
