// Package renderer draws grid snapshots: a live raylib viewer with raygui
// controls, and an animated GIF recorder for headless runs. The simulation
// core never calls into this package; drivers feed it per-tick reports.
package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/FarshadAmiri/complex-systems-simulations/game"
	"github.com/FarshadAmiri/complex-systems-simulations/systems"
)

const hudHeight = 64

// Colors follow the original visualization: empty white, prey green,
// predator red.
var tagColors = [3]rl.Color{rl.RayWhite, rl.Green, rl.Red}

// Viewer renders tick reports into a raylib window.
type Viewer struct {
	gridSize int
	cellPx   int32

	paused bool
	speed  float32 // ticks per frame, adjusted via the HUD slider
}

// NewViewer opens a window sized to the grid. cellPx is the pixel side
// length of one cell.
func NewViewer(gridSize, cellPx int, title string) *Viewer {
	v := &Viewer{gridSize: gridSize, cellPx: int32(cellPx), speed: 1}
	width := int32(gridSize * cellPx)
	rl.InitWindow(width, int32(gridSize*cellPx)+hudHeight, title)
	rl.SetTargetFPS(30)
	return v
}

// Close releases the window.
func (v *Viewer) Close() {
	rl.CloseWindow()
}

// ShouldClose reports whether the user asked to quit.
func (v *Viewer) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Paused reports whether stepping is suspended via the HUD.
func (v *Viewer) Paused() bool {
	return v.paused
}

// StepsPerFrame returns how many ticks the driver should run per frame.
func (v *Viewer) StepsPerFrame() int {
	if v.paused {
		return 0
	}
	return int(v.speed)
}

// Draw renders one frame from the latest report and processes HUD input.
func (v *Viewer) Draw(report game.TickReport) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	for y := 0; y < v.gridSize; y++ {
		for x := 0; x < v.gridSize; x++ {
			tag := report.Tags[y*v.gridSize+x]
			if tag == systems.TagEmpty {
				continue
			}
			rl.DrawRectangle(int32(x)*v.cellPx, int32(y)*v.cellPx, v.cellPx, v.cellPx, tagColors[tag])
		}
	}

	hudY := float32(v.gridSize) * float32(v.cellPx)
	rl.DrawRectangle(0, int32(hudY), int32(v.gridSize)*v.cellPx, hudHeight, rl.LightGray)
	rl.DrawText(fmt.Sprintf("tick %d   prey %d   predators %d", report.Tick, report.Prey, report.Predators),
		8, int32(hudY)+6, 16, rl.DarkGray)

	label := "Pause"
	if v.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 8, Y: hudY + 28, Width: 80, Height: 24}, label) {
		v.paused = !v.paused
	}
	v.speed = gui.SliderBar(
		rl.Rectangle{X: 160, Y: hudY + 28, Width: 140, Height: 24},
		"speed", fmt.Sprintf("%dx", int(v.speed)), v.speed, 1, 20)

	rl.EndDrawing()
}
