// Package tui is a dependency-free fallback renderer for terminals where
// the full-screen live view is unwanted, such as piped or dumb terminals.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/neurodyn/internal/neuro"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	// display range for membrane potentials
	vFloor = -90.0
	vCeil  = 40.0
)

type LiveRenderer struct {
	title     string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	spikes    int
}

func NewLiveRenderer(title string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		title:     title,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

// OnStep draws one frame from the group's membrane potentials and spike
// flags, dropping frames to hold the configured rate.
func (r *LiveRenderer) OnStep(v, sp neuro.Vector, t float64) {
	for _, s := range sp {
		if s > 0 {
			r.spikes++
		}
	}

	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawBars(v, sp)
	r.render(v, t)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// drawBars shows one column per neuron, height proportional to how far the
// membrane sits above the display floor. Spiking neurons get a cap mark.
func (r *LiveRenderer) drawBars(v, sp neuro.Vector) {
	n := len(v)
	if n == 0 {
		return
	}

	bw := (width - 4) / n
	if bw < 1 {
		bw = 1
		if n > width-4 {
			n = width - 4
		}
	}

	for i := 0; i < n; i++ {
		frac := (v[i] - vFloor) / (vCeil - vFloor)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		bh := int(frac * float64(height-2))
		bx := 2 + i*bw

		for y := height - 1; y > height-1-bh; y-- {
			for w := 0; w < bw && w < 2; w++ {
				r.set(bx+w, y, '#')
			}
		}
		if i < len(sp) && sp[i] > 0 {
			r.set(bx, height-2-bh, '*')
		}
	}
}

func (r *LiveRenderer) render(v neuro.Vector, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2f  spikes=%d\n", r.title, t, r.spikes))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	stateStr := "  "
	for i, val := range v {
		if i >= 4 {
			break
		}
		stateStr += fmt.Sprintf("V%d=%.1f ", i, val)
	}
	b.WriteString(stateStr + "\n")

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
