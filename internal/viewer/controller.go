package viewer

import (
	"log/slog"

	"solar-system/scene"
)

// Controller applies commands to the camera rig and the clock. Quit and
// Reload are handed back to the owner of the window and GL context.
type Controller struct {
	Rig    *scene.CameraRig
	Clock  *Clock
	Name   func(i int) string
	Quit   func()
	Reload func()

	logger *slog.Logger
}

func NewController(rig *scene.CameraRig, clock *Clock, name func(int) string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		Rig:    rig,
		Clock:  clock,
		Name:   name,
		Quit:   func() {},
		Reload: func() {},
		logger: logger,
	}
}

func (c *Controller) Apply(cmds []Command) {
	for _, cmd := range cmds {
		c.apply(cmd)
	}
}

func (c *Controller) apply(cmd Command) {
	switch cmd.Action {
	case ActionQuit:
		c.Quit()
	case ActionReload:
		c.Reload()
	case ActionToggleCamera:
		c.Rig.Toggle()
		c.logView()
	case ActionNextBody:
		c.Rig.Next()
		c.logView()
	case ActionPrevBody:
		c.Rig.Prev()
		c.logView()
	case ActionSelectBody:
		if !c.Rig.Select(cmd.Body) {
			c.logger.Warn("no body to chase", "index", cmd.Body)
			return
		}
		c.logView()
	case ActionTogglePause:
		c.Clock.TogglePause()
		c.logger.Info("simulation", "paused", c.Clock.Paused)
	case ActionFaster:
		c.Clock.Faster()
		c.logger.Info("time scale", "scale", c.Clock.TimeScale)
	case ActionSlower:
		c.Clock.Slower()
		c.logger.Info("time scale", "scale", c.Clock.TimeScale)
	}
}

func (c *Controller) logView() {
	c.logger.Info("camera", "mode", c.Rig.Mode.String(), "target", c.Name(c.Rig.Target))
}
