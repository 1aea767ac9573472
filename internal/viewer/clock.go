package viewer

import (
	"solar-system/config"
	"solar-system/math"
)

// TimeScaleStep is the factor one Faster or Slower applies.
const TimeScaleStep = 1.5

// Clock converts wall-clock frame time into simulated time.
type Clock struct {
	TimeScale float32
	Paused    bool
	MaxStep   float32
}

func NewClock(s config.SimulationSettings) *Clock {
	return &Clock{TimeScale: s.TimeScale, Paused: s.Paused, MaxStep: s.MaxStep}
}

// Step returns the simulated seconds for a frame that took dt seconds.
func (c *Clock) Step(dt float32) float32 {
	if c.Paused || dt <= 0 {
		return 0
	}
	if c.MaxStep > 0 && dt > c.MaxStep {
		dt = c.MaxStep
	}
	return dt * c.TimeScale
}

func (c *Clock) Faster() {
	c.TimeScale = math.Clamp(c.TimeScale*TimeScaleStep, config.MinTimeScale, config.MaxTimeScale)
}

func (c *Clock) Slower() {
	c.TimeScale = math.Clamp(c.TimeScale/TimeScaleStep, config.MinTimeScale, config.MaxTimeScale)
}

func (c *Clock) TogglePause() {
	c.Paused = !c.Paused
}
