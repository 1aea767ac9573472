package viewer

import (
	"fmt"
	"strings"

	"solar-system/renderer"
)

// HUD counts frames and builds the once-per-second window title.
type HUD struct {
	Base string

	lines   []string
	frames  int
	elapsed float64
	fps     int
}

func NewHUD(base string) *HUD {
	return &HUD{Base: base}
}

// Tick records a frame of dt seconds. It returns true once a full second has
// accumulated, at which point FPS holds the new rate.
func (h *HUD) Tick(dt float64) bool {
	h.frames++
	h.elapsed += dt
	if h.elapsed < 1 {
		return false
	}
	h.fps = int(float64(h.frames)/h.elapsed + 0.5)
	h.frames = 0
	h.elapsed = 0
	return true
}

func (h *HUD) FPS() int {
	return h.fps
}

func (h *HUD) AddLine(format string, args ...any) {
	h.lines = append(h.lines, fmt.Sprintf(format, args...))
}

func (h *HUD) Clear() {
	h.lines = h.lines[:0]
}

// Title joins the base title and the current lines.
func (h *HUD) Title() string {
	if len(h.lines) == 0 {
		return h.Base
	}
	return h.Base + " | " + strings.Join(h.lines, " | ")
}

// Update refills the lines from the latest frame.
func (h *HUD) Update(view string, clock *Clock, stats renderer.Stats) {
	h.Clear()
	h.AddLine("%d FPS", h.fps)
	h.AddLine("%s", view)
	if clock.Paused {
		h.AddLine("paused")
	} else {
		h.AddLine("x%.2f", clock.TimeScale)
	}
	h.AddLine("draws %d tris %d culled %d", stats.DrawCalls, stats.Triangles, stats.Culled)
}
