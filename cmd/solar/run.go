package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"solar-system/assets"
	"solar-system/config"
	"solar-system/core"
	"solar-system/internal/opengl"
	"solar-system/internal/viewer"
	"solar-system/renderer"
	"solar-system/scene"
	"solar-system/solar"
)

const watchDebounce = 250 * time.Millisecond

var defaultBindings = viewer.Bindings{
	Quit:         core.KeyEscape,
	Reload:       core.KeyR,
	ToggleCamera: core.KeyC,
	Cycle:        core.KeyTab,
	Shift:        []int{core.KeyLeftShift, core.KeyRightShift},
	Pause:        core.KeySpace,
	Faster:       []int{core.KeyEqual, core.KeyKPAdd},
	Slower:       []int{core.KeyMinus, core.KeyKPSubtract},
	Select:       keyRange(core.Key1, core.Key8),
}

func keyRange(first, last int) []int {
	keys := make([]int, 0, last-first+1)
	for k := first; k <= last; k++ {
		keys = append(keys, k)
	}
	return keys
}

type app struct {
	settings   config.Settings
	configPath string
	logger     *slog.Logger

	window  *core.Window
	engine  *renderer.RenderEngine
	system  *solar.System
	rig     *scene.CameraRig
	clock   *viewer.Clock
	input   *viewer.Input
	control *viewer.Controller
	hud     *viewer.HUD
	watcher *assets.Watcher

	fbWidth, fbHeight int
	lastErr           string
}

func runViewer(cmd *cobra.Command, opts *options) error {
	s, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(s, os.Stderr)
	if err != nil {
		return err
	}

	a := &app{settings: s, configPath: opts.configPath, logger: logger}
	if err := a.setup(opts.watch); err != nil {
		a.shutdown()
		return err
	}
	defer a.shutdown()

	a.loop()
	return nil
}

func (a *app) setup(watch bool) error {
	s := a.settings

	window, err := core.NewWindow(s.WindowConfig())
	if err != nil {
		return err
	}
	a.window = window

	backend, err := opengl.NewRenderer(a.logger)
	if err != nil {
		return err
	}

	meshPath := filepath.Join(s.Assets.Dir, s.Assets.Mesh)
	mesh, fallback, err := scene.LoadMeshOrSphere(meshPath, s.Assets.SphereSegments, s.Assets.SphereRings)
	if err != nil {
		backend.Destroy()
		return fmt.Errorf("load mesh: %w", err)
	}
	if fallback {
		a.logger.Warn("mesh not found, using a procedural sphere", "path", meshPath,
			"segments", s.Assets.SphereSegments, "rings", s.Assets.SphereRings)
	}

	opts := renderer.Options{
		SkyboxScale:    s.Render.SkyboxScale,
		Ambient:        s.Lighting.Ambient,
		Glossiness:     s.Lighting.Glossiness,
		LightColor:     s.Lighting.LightColor(),
		Background:     s.Render.BackgroundColor(),
		FrustumCulling: true,
	}
	engine, err := renderer.NewRenderEngine(backend, mesh, opts, a.logger)
	if err != nil {
		backend.Destroy()
		return err
	}
	a.engine = engine

	system, err := solar.NewSystem(s.Catalog, s.Assets.Dir, engine.Textures(), a.logger)
	if err != nil {
		return err
	}
	a.system = system
	if err := system.Load(); err != nil {
		return err
	}

	cam := scene.NewCamera(s.Camera.FOV, 1, s.Camera.Near, s.Camera.Far)
	a.rig = scene.NewCameraRig(cam)
	a.rig.OverviewEye = s.Camera.Eye()
	a.rig.ChaseDistance = s.Camera.ChaseDistance
	a.rig.ChaseHeight = s.Camera.ChaseHeight
	a.resize()

	a.clock = viewer.NewClock(s.Simulation)
	a.input = viewer.NewInput(defaultBindings, window.IsKeyPressed)
	a.control = viewer.NewController(a.rig, a.clock, system.Name, a.logger)
	a.control.Quit = func() { window.SetShouldClose(true) }
	a.control.Reload = func() { a.reload("key") }
	a.hud = viewer.NewHUD(s.Window.Title)

	window.SetScrollCallback(func(xoff, yoff float64) {
		a.rig.ZoomBy(float32(yoff))
	})
	window.SetClickCallback(func(button int, x, y float64) {
		if button == core.MouseButtonLeft {
			a.click(x, y)
		}
	})

	if watch {
		// the mesh is loaded once at startup, so only textures are watched
		a.watcher, err = assets.NewWatcher(s.Assets.Dir, watchDebounce, assets.FileSet(s.Catalog.Files()...), a.logger)
		if err != nil {
			return err
		}
		a.logger.Info("watching assets", "dir", s.Assets.Dir)
	}
	return nil
}

func (a *app) loop() {
	last := a.window.Time()
	for !a.window.ShouldClose() {
		a.window.PollEvents()
		a.control.Apply(a.input.Poll())
		if a.watcher != nil && a.watcher.Pending() {
			a.reload("assets changed")
		}

		now := a.window.Time()
		dt := float32(now - last)
		last = now

		a.system.Update(a.clock.Step(dt))
		a.rig.Update(a.system)
		a.resize()

		if err := a.engine.Render(a.system, a.rig); err != nil {
			if msg := err.Error(); msg != a.lastErr {
				a.logger.Error("render failed", "err", err)
				a.lastErr = msg
			}
		} else {
			a.lastErr = ""
		}
		a.window.SwapBuffers()

		if a.hud.Tick(float64(dt)) {
			stats := a.engine.DrawStats()
			a.hud.Update(a.rig.Describe(a.system.Name), a.clock, stats)
			a.window.SetTitle(a.hud.Title())
			a.logger.Debug("frame stats", "fps", a.hud.FPS(), "draws", stats.DrawCalls,
				"triangles", stats.Triangles, "culled", stats.Culled)
		}
	}
}

func (a *app) resize() {
	w, h := a.window.GetFramebufferSize()
	if w == a.fbWidth && h == a.fbHeight {
		return
	}
	a.fbWidth, a.fbHeight = w, h
	if w > 0 && h > 0 {
		a.engine.Resize(w, h, a.rig.Camera)
	}
}

// click logs the cursor and chases the planet under it, if any.
func (a *app) click(x, y float64) {
	if a.window.Width <= 0 || a.window.Height <= 0 {
		return
	}
	ray := scene.ScreenToRay(float32(x), float32(y), a.window.Width, a.window.Height, a.rig.Camera)
	i, hit := scene.Pick(ray, a.system)
	if !hit {
		a.logger.Info("left mouse down", "x", x, "y", y)
		return
	}
	a.logger.Info("left mouse down", "x", x, "y", y, "body", a.system.Name(i))
	if i > 0 {
		a.control.Apply([]viewer.Command{{Action: viewer.ActionSelectBody, Body: i}})
	}
}

// reload re-reads the catalog from the config file, when there is one, and
// rebuilds every body and texture. A failed reload leaves the system empty
// until the next one succeeds.
func (a *app) reload(reason string) {
	a.logger.Info("reloading", "reason", reason)
	if a.configPath != "" {
		s, err := config.Load(a.configPath)
		if err != nil {
			a.logger.Warn("keeping previous catalog", "err", err)
		} else if err := a.system.SetCatalog(s.Catalog); err != nil {
			a.logger.Warn("keeping previous catalog", "err", err)
		} else if a.watcher != nil {
			a.watcher.SetFilter(assets.FileSet(s.Catalog.Files()...))
		}
	}
	if err := a.system.Reload(); err != nil {
		a.logger.Error("reload failed", "err", err)
		return
	}
	a.rig.Update(a.system)
}

func (a *app) shutdown() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.system != nil {
		a.system.Release()
	}
	if a.engine != nil {
		a.engine.Destroy()
	}
	if a.window != nil {
		a.window.Destroy()
	}
	a.logger.Info("exiting")
}
