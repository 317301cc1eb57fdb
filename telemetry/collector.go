// Package telemetry collects per-tick population records, lifecycle event
// counts and end-of-run statistics, and writes them as CSV.
package telemetry

import (
	"github.com/FarshadAmiri/complex-systems-simulations/components"
)

// TickRecord is one row of the per-tick population series.
type TickRecord struct {
	Tick      int `csv:"tick"`
	Prey      int `csv:"prey"`
	Predators int `csv:"predators"`
}

// Collector accumulates the population series and lifecycle event counts.
// It implements the grid's EventRecorder interface; register it with
// Grid.SetEventRecorder to receive births and deaths as they happen.
type Collector struct {
	series []TickRecord

	preyBirths int
	predBirths int
	preyDeaths int
	predDeaths int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirth counts an agent creation (seeding or reproduction).
func (c *Collector) RecordBirth(s components.Species) {
	if s == components.SpeciesPrey {
		c.preyBirths++
	} else {
		c.predBirths++
	}
}

// RecordDeath counts an agent destruction (predation or starvation).
func (c *Collector) RecordDeath(s components.Species) {
	if s == components.SpeciesPrey {
		c.preyDeaths++
	} else {
		c.predDeaths++
	}
}

// Observe appends one tick's population counts to the series.
func (c *Collector) Observe(tick, prey, predators int) {
	c.series = append(c.series, TickRecord{Tick: tick, Prey: prey, Predators: predators})
}

// Series returns the recorded per-tick population rows.
func (c *Collector) Series() []TickRecord {
	return c.series
}

// Births returns cumulative births per species, seeding included.
func (c *Collector) Births() (prey, predators int) {
	return c.preyBirths, c.predBirths
}

// Deaths returns cumulative deaths per species.
func (c *Collector) Deaths() (prey, predators int) {
	return c.preyDeaths, c.predDeaths
}
