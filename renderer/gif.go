package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/FarshadAmiri/complex-systems-simulations/systems"
)

// gifPalette matches the viewer colors: empty white, prey green, predator red.
var gifPalette = color.Palette{
	color.RGBA{R: 255, G: 255, B: 255, A: 255},
	color.RGBA{G: 228, B: 48, A: 255},
	color.RGBA{R: 230, G: 41, B: 55, A: 255},
}

// GIFRecorder accumulates tag-array snapshots as paletted frames and writes
// them out as a single animated GIF.
type GIFRecorder struct {
	gridSize int
	scale    int
	delay    int // per-frame delay in 100ths of a second
	frames   []*image.Paletted
}

// NewGIFRecorder creates a recorder for a gridSize×gridSize world, scaling
// each cell to scale×scale pixels.
func NewGIFRecorder(gridSize, scale, delay int) *GIFRecorder {
	if scale < 1 {
		scale = 1
	}
	return &GIFRecorder{gridSize: gridSize, scale: scale, delay: delay}
}

// AddFrame renders one tag-array snapshot into a frame.
func (r *GIFRecorder) AddFrame(tags []systems.Tag) {
	side := r.gridSize * r.scale
	frame := image.NewPaletted(image.Rect(0, 0, side, side), gifPalette)
	for y := 0; y < r.gridSize; y++ {
		for x := 0; x < r.gridSize; x++ {
			idx := uint8(tags[y*r.gridSize+x])
			for py := 0; py < r.scale; py++ {
				base := (y*r.scale+py)*side + x*r.scale
				for px := 0; px < r.scale; px++ {
					frame.Pix[base+px] = idx
				}
			}
		}
	}
	r.frames = append(r.frames, frame)
}

// FrameCount returns the number of recorded frames.
func (r *GIFRecorder) FrameCount() int {
	return len(r.frames)
}

// Save encodes all recorded frames to path.
func (r *GIFRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("gif: no frames recorded")
	}
	delays := make([]int, len(r.frames))
	for i := range delays {
		delays[i] = r.delay
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gif file: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &gif.GIF{Image: r.frames, Delay: delays}); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}
