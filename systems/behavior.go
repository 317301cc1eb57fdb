package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/FarshadAmiri/complex-systems-simulations/components"
)

// Step advances a single live agent by one tick, dispatching on species.
// All side effects go directly to the grid. Ties among equally eligible
// destinations or targets are broken by uniform random choice on the shared
// stream, never by coordinate order.
func Step(g *Grid, e ecs.Entity, rng *rand.Rand) {
	switch g.Agent(e).Species {
	case components.SpeciesPrey:
		stepPrey(g, e, rng)
	case components.SpeciesPredator:
		stepPredator(g, e, rng)
	}
}

// stepPrey wanders to a random empty neighbor, then independently rolls for
// reproduction into an empty cell adjacent to the current (possibly
// just-moved) position. The child inherits the parent's reproduction
// probability.
func stepPrey(g *Grid, e ecs.Entity, rng *rand.Rand) {
	reproduceProb := g.Agent(e).ReproduceProb

	if empty := Adjacent(g.PositionOf(e), g.size, g.IsTag(TagEmpty)); len(empty) > 0 {
		g.Move(e, empty[rng.Intn(len(empty))])
	}

	if rng.Float64() < reproduceProb {
		if empty := Adjacent(g.PositionOf(e), g.size, g.IsTag(TagEmpty)); len(empty) > 0 {
			g.Add(empty[rng.Intn(len(empty))], components.Agent{
				Species:       components.SpeciesPrey,
				ReproduceProb: reproduceProb,
			})
		}
	}
}

// stepPredator hunts prey within its Manhattan radius. On a hit it eats the
// target (vacate, then occupy — mandatory order), resets hunger and may
// reproduce into its own former cell, which the move just vacated and which
// no other agent can have taken under strict sequential activation. With no
// prey in range it wanders, loses hunger and starves at zero.
func stepPredator(g *Grid, e ecs.Entity, rng *rand.Rand) {
	// Copy the inherited parameters up front: component pointers are
	// invalidated by the structural changes below.
	params := *g.Agent(e)
	g.Agent(e).Ate = false
	pos := g.PositionOf(e)

	targets := InRadius(pos, params.HuntingRadius, g.size, g.IsTag(TagPrey))
	if len(targets) > 0 {
		target := targets[rng.Intn(len(targets))]
		g.RemoveAt(target)
		g.Move(e, target)

		st := g.Agent(e)
		st.Hunger = params.StarveTime
		st.Ate = true

		if rng.Float64() < params.ReproduceProb {
			g.Add(pos, components.Agent{
				Species:       components.SpeciesPredator,
				ReproduceProb: params.ReproduceProb,
				Hunger:        params.StarveTime,
				StarveTime:    params.StarveTime,
				HuntingRadius: params.HuntingRadius,
			})
		}
		return
	}

	if empty := Adjacent(pos, g.size, g.IsTag(TagEmpty)); len(empty) > 0 {
		g.Move(e, empty[rng.Intn(len(empty))])
	}

	st := g.Agent(e)
	st.Hunger--
	if st.Hunger <= 0 {
		st.Hunger = 0
		g.Remove(e)
	}
}
