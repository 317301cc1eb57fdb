// Command complex-systems-simulations runs the predator–prey grid
// simulation, either headless with CSV/GIF output or in a live raylib
// viewer.
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/FarshadAmiri/complex-systems-simulations/config"
	"github.com/FarshadAmiri/complex-systems-simulations/game"
	"github.com/FarshadAmiri/complex-systems-simulations/renderer"
	"github.com/FarshadAmiri/complex-systems-simulations/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Override run.max_ticks from config (0 = keep config)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	gifPath := flag.String("gif", "", "Write an animated GIF of the run to this path")
	cellPx := flag.Int("cell-px", 12, "Cell size in pixels for the viewer")
	logEvery := flag.Int("log-every", 50, "Log population counts every N ticks (0 = off)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *maxTicks > 0 {
		cfg.Run.MaxTicks = *maxTicks
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	collector := telemetry.NewCollector()
	grid := game.BuildGrid(cfg, rng, collector)
	clock := game.NewClock(grid, cfg.Run.MaxTicks, rng)

	var gifRec *renderer.GIFRecorder
	if *gifPath != "" {
		gifRec = renderer.NewGIFRecorder(cfg.Grid.Size, 4, 10)
	}

	prey, pred := grid.Counts()
	last := game.TickReport{Prey: prey, Predators: pred, Tags: grid.Tags()}

	clock.SetConsumer(func(r game.TickReport) {
		last = r
		collector.Observe(r.Tick, r.Prey, r.Predators)
		if err := out.WriteTick(telemetry.TickRecord{Tick: r.Tick, Prey: r.Prey, Predators: r.Predators}); err != nil {
			slog.Error("failed to write population row", "error", err)
		}
		if gifRec != nil {
			gifRec.AddFrame(r.Tags)
		}
		if *logEvery > 0 && r.Tick%*logEvery == 0 {
			slog.Info("tick", "tick", r.Tick, "prey", r.Prey, "predators", r.Predators)
		}
	})

	slog.Info("starting simulation",
		"seed", rngSeed,
		"grid_size", cfg.Grid.Size,
		"prey", cfg.Population.Prey,
		"predators", cfg.Population.Predators,
		"max_ticks", cfg.Run.MaxTicks,
		"headless", *headless,
		"run_id", out.RunID(),
	)

	if *headless {
		if _, err := clock.Run(); err != nil {
			slog.Error("run failed", "error", err)
			os.Exit(1)
		}
	} else {
		runViewer(clock, cfg.Grid.Size, *cellPx, &last)
	}

	summary := telemetry.Summarize(collector.Series(), out.RunID(), clock.Reason().String())
	if err := out.WriteSummary(summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
	if gifRec != nil && gifRec.FrameCount() > 0 {
		if err := gifRec.Save(*gifPath); err != nil {
			slog.Error("failed to save gif", "error", err)
		} else {
			slog.Info("gif saved", "path", *gifPath, "frames", gifRec.FrameCount())
		}
	}

	preyBirths, predBirths := collector.Births()
	preyDeaths, predDeaths := collector.Deaths()
	slog.Info("run finished",
		"reason", clock.Reason().String(),
		"ticks", humanize.Comma(int64(clock.TickIndex())),
		"prey_final", summary.PreyFinal,
		"pred_final", summary.PredFinal,
		"prey_births", humanize.Comma(int64(preyBirths)),
		"pred_births", humanize.Comma(int64(predBirths)),
		"prey_deaths", humanize.Comma(int64(preyDeaths)),
		"pred_deaths", humanize.Comma(int64(predDeaths)),
		"prey_mean", summary.PreyMean,
		"pred_mean", summary.PredMean,
		"correlation", summary.Correlation,
	)
}

// runViewer drives the clock from the render loop: draw, then tick as many
// times as the HUD speed asks for. The core never waits on the renderer;
// this pacing is purely a display concern.
func runViewer(clock *game.Clock, gridSize, cellPx int, last *game.TickReport) {
	viewer := renderer.NewViewer(gridSize, cellPx, "Predator-Prey")
	defer viewer.Close()

	for !viewer.ShouldClose() {
		steps := viewer.StepsPerFrame()
		for i := 0; i < steps && !clock.Terminated(); i++ {
			if err := clock.Tick(); err != nil {
				slog.Error("tick failed", "error", err)
				return
			}
		}
		viewer.Draw(*last)
	}
}
