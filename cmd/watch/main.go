// Command watch runs the simulation and streams per-tick snapshots to
// browser clients over a websocket, one JSON frame per tick.
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FarshadAmiri/complex-systems-simulations/config"
	"github.com/FarshadAmiri/complex-systems-simulations/game"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// frame is one websocket message. Tags is the row-major occupancy array
// (0 empty, 1 prey, 2 predator).
type frame struct {
	Type      string  `json:"type"`
	Tick      int     `json:"tick,omitempty"`
	Prey      int     `json:"prey,omitempty"`
	Predators int     `json:"predators,omitempty"`
	Tags      []uint8 `json:"tags,omitempty"`
	Size      int     `json:"size,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	interval := flag.Duration("interval", 100*time.Millisecond, "Delay between ticks")

	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	grid := game.BuildGrid(cfg, rng, nil)
	clock := game.NewClock(grid, cfg.Run.MaxTicks, rng)

	frames := make(chan frame, 16)
	clock.SetConsumer(func(r game.TickReport) {
		tags := make([]uint8, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = uint8(t)
		}
		frames <- frame{Type: "tick", Tick: r.Tick, Prey: r.Prey, Predators: r.Predators, Tags: tags}
	})

	// The core itself is single-threaded; this goroutine is the only one
	// stepping the clock, and clients only ever see emitted snapshots.
	go func() {
		defer close(frames)
		for !clock.Terminated() {
			if err := clock.Tick(); err != nil {
				slog.Error("tick failed", "error", err)
				return
			}
			time.Sleep(*interval)
		}
		frames <- frame{Type: "terminated", Tick: clock.TickIndex(), Reason: clock.Reason().String()}
	}()

	clients := make(map[*client]struct{})
	var clientsMu sync.Mutex

	go func() {
		for f := range frames {
			clientsMu.Lock()
			list := make([]*client, 0, len(clients))
			for c := range clients {
				list = append(list, c)
			}
			clientsMu.Unlock()

			for _, c := range list {
				if err := c.send(f); err != nil {
					slog.Error("client send failed", "error", err)
					clientsMu.Lock()
					delete(clients, c)
					clientsMu.Unlock()
					c.conn.Close()
				}
			}
		}
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}
		c := &client{conn: conn}
		clientsMu.Lock()
		clients[c] = struct{}{}
		clientsMu.Unlock()

		_ = c.send(frame{Type: "config", Size: cfg.Grid.Size})

		// Drain and ignore client messages; a read error means the
		// client went away.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					clientsMu.Lock()
					delete(clients, c)
					clientsMu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})

	slog.Info("watch server listening", "addr", *addr, "seed", rngSeed)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
