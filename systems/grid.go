package systems

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/FarshadAmiri/complex-systems-simulations/components"
)

// Tag is the dense per-cell occupancy marker mirrored from the registry.
type Tag uint8

const (
	TagEmpty Tag = iota
	TagPrey
	TagPredator
)

// TagFor maps a species to its occupancy tag.
func TagFor(s components.Species) Tag {
	if s == components.SpeciesPredator {
		return TagPredator
	}
	return TagPrey
}

// EventRecorder observes agent births and deaths as they happen.
type EventRecorder interface {
	RecordBirth(s components.Species)
	RecordDeath(s components.Species)
}

// Grid owns the occupancy state of the toroidal world: the agent registry
// (an ark ECS world), the dense tag array mirroring it for O(1) cell
// lookups, and the reverse coordinate index. All mutation goes through Add,
// Remove, RemoveAt and Move so the three structures never disagree.
type Grid struct {
	size int

	world    *ecs.World
	mapper   *ecs.Map2[components.Position, components.Agent]
	posMap   *ecs.Map1[components.Position]
	agentMap *ecs.Map1[components.Agent]
	filter   *ecs.Filter2[components.Position, components.Agent]

	tags  []Tag
	index map[components.Position]ecs.Entity

	numPrey int
	numPred int

	events EventRecorder
}

// NewGrid creates an empty size×size toroidal grid.
// Size validation is a configuration concern; see config.Validate.
func NewGrid(size int) *Grid {
	if size <= 0 {
		panic(fmt.Sprintf("systems: non-positive grid size %d", size))
	}
	world := ecs.NewWorld()
	return &Grid{
		size:     size,
		world:    world,
		mapper:   ecs.NewMap2[components.Position, components.Agent](world),
		posMap:   ecs.NewMap1[components.Position](world),
		agentMap: ecs.NewMap1[components.Agent](world),
		filter:   ecs.NewFilter2[components.Position, components.Agent](world),
		tags:     make([]Tag, size*size),
		index:    make(map[components.Position]ecs.Entity, 64),
	}
}

// SetEventRecorder registers an observer for births and deaths.
func (g *Grid) SetEventRecorder(r EventRecorder) {
	g.events = r
}

// Size returns the grid side length N.
func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) idx(p components.Position) int {
	return p.Y*g.size + p.X
}

// TagAt returns the occupancy tag at a normalized coordinate.
func (g *Grid) TagAt(p components.Position) Tag {
	return g.tags[g.idx(p)]
}

// Tags returns an independent copy of the dense tag array, row-major
// (index = y*N + x), safe to hand to renderers and collectors.
func (g *Grid) Tags() []Tag {
	out := make([]Tag, len(g.tags))
	copy(out, g.tags)
	return out
}

// IsTag builds a CellFilter matching cells carrying the given tag.
func (g *Grid) IsTag(t Tag) CellFilter {
	return func(p components.Position) bool {
		return g.tags[g.idx(p)] == t
	}
}

// Add registers a new agent at p. The cell must be empty; violating that
// is a contract violation and panics.
func (g *Grid) Add(p components.Position, a components.Agent) ecs.Entity {
	if g.tags[g.idx(p)] != TagEmpty {
		panic(fmt.Sprintf("systems: add at occupied cell (%d,%d)", p.X, p.Y))
	}
	e := g.mapper.NewEntity(&p, &a)
	g.tags[g.idx(p)] = TagFor(a.Species)
	g.index[p] = e
	if a.Species == components.SpeciesPrey {
		g.numPrey++
	} else {
		g.numPred++
	}
	if g.events != nil {
		g.events.RecordBirth(a.Species)
	}
	return e
}

// Remove destroys an agent, clearing its tag and index entries atomically
// with the registry removal. Removing an already-dead entity is a no-op.
func (g *Grid) Remove(e ecs.Entity) {
	if !g.world.Alive(e) {
		return
	}
	pos := *g.posMap.Get(e)
	species := g.agentMap.Get(e).Species
	g.tags[g.idx(pos)] = TagEmpty
	delete(g.index, pos)
	// RemoveEntity destroys the entity itself, not just its components, so
	// Alive flips false and stale snapshot entries are skipped.
	g.world.RemoveEntity(e)
	if species == components.SpeciesPrey {
		g.numPrey--
	} else {
		g.numPred--
	}
	if g.events != nil {
		g.events.RecordDeath(species)
	}
}

// RemoveAt destroys whatever agent occupies p, if any.
func (g *Grid) RemoveAt(p components.Position) {
	if e, ok := g.index[p]; ok {
		g.Remove(e)
	}
}

// OccupantAt resolves the agent at p via the reverse index.
func (g *Grid) OccupantAt(p components.Position) (ecs.Entity, bool) {
	e, ok := g.index[p]
	return e, ok
}

// Move relocates an agent to dst, which must be empty. Within a tick the
// eat-then-occupy sequence (RemoveAt followed by Move onto the vacated
// cell) is the sanctioned way to take an occupied cell; agent activation
// is strictly sequential, so no one observes the intermediate state.
func (g *Grid) Move(e ecs.Entity, dst components.Position) {
	if g.tags[g.idx(dst)] != TagEmpty {
		panic(fmt.Sprintf("systems: move onto occupied cell (%d,%d)", dst.X, dst.Y))
	}
	pos := g.posMap.Get(e)
	species := g.agentMap.Get(e).Species
	g.tags[g.idx(*pos)] = TagEmpty
	delete(g.index, *pos)
	*pos = dst
	g.tags[g.idx(dst)] = TagFor(species)
	g.index[dst] = e
}

// Seed places count copies of the prototype agent on uniformly random empty
// cells, rejecting occupied samples. Callers must guarantee count does not
// exceed the free cell count (validated by config); a violation panics
// rather than looping forever.
func (g *Grid) Seed(rng *rand.Rand, count int, proto components.Agent) {
	free := g.size*g.size - (g.numPrey + g.numPred)
	if count > free {
		panic(fmt.Sprintf("systems: seeding %d agents with only %d free cells", count, free))
	}
	placed := 0
	for placed < count {
		p := components.Position{X: rng.Intn(g.size), Y: rng.Intn(g.size)}
		if g.tags[g.idx(p)] != TagEmpty {
			continue
		}
		g.Add(p, proto)
		placed++
	}
}

// Snapshot returns a point-in-time copy of the live agent set, safe to
// iterate while the registry is mutated. Entries can go stale mid-tick;
// callers must check Alive before acting on each one.
func (g *Grid) Snapshot() []ecs.Entity {
	out := make([]ecs.Entity, 0, g.numPrey+g.numPred)
	query := g.filter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// Alive reports whether the agent still exists in the registry.
func (g *Grid) Alive(e ecs.Entity) bool {
	return g.world.Alive(e)
}

// Agent returns the mutable behavioral state of a live agent. The pointer
// is invalidated by structural changes (Add/Remove); re-fetch after those.
func (g *Grid) Agent(e ecs.Entity) *components.Agent {
	return g.agentMap.Get(e)
}

// PositionOf returns the agent's current cell.
func (g *Grid) PositionOf(e ecs.Entity) components.Position {
	return *g.posMap.Get(e)
}

// Counts returns the live population per species, maintained incrementally.
func (g *Grid) Counts() (prey, predators int) {
	return g.numPrey, g.numPred
}

// countScan recomputes populations from the registry. Used by tests to
// cross-check the incremental counters and the tag array.
func (g *Grid) countScan() (prey, predators int) {
	query := g.filter.Query()
	for query.Next() {
		_, a := query.Get()
		if a.Species == components.SpeciesPrey {
			prey++
		} else {
			predators++
		}
	}
	return prey, predators
}
