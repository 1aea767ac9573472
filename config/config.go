// Package config holds the viewer settings and reads them from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"solar-system/core"
	"solar-system/math"
	"solar-system/solar"
)

const (
	MinTimeScale = 0.1
	MaxTimeScale = 50.0
)

type Settings struct {
	Window     WindowSettings     `toml:"window"`
	Assets     AssetSettings      `toml:"assets"`
	Camera     CameraSettings     `toml:"camera"`
	Lighting   LightingSettings   `toml:"lighting"`
	Render     RenderSettings     `toml:"render"`
	Simulation SimulationSettings `toml:"simulation"`
	Logging    LoggingSettings    `toml:"logging"`
	Catalog    solar.Catalog      `toml:"catalog"`
}

type WindowSettings struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	VSync     bool   `toml:"vsync"`
	Resizable bool   `toml:"resizable"`
}

type AssetSettings struct {
	Dir string `toml:"dir"`
	// Mesh is the sphere model shared by every body. When the file is
	// missing a procedural sphere with the given resolution is used.
	Mesh           string `toml:"mesh"`
	SphereSegments int    `toml:"sphere_segments"`
	SphereRings    int    `toml:"sphere_rings"`
}

type CameraSettings struct {
	FOV           float32    `toml:"fov"` // degrees
	Near          float32    `toml:"near"`
	Far           float32    `toml:"far"`
	OverviewEye   [3]float32 `toml:"overview_eye"`
	ChaseDistance float32    `toml:"chase_distance"` // body radii
	ChaseHeight   float32    `toml:"chase_height"`   // body radii
}

type LightingSettings struct {
	Ambient    float32    `toml:"ambient"`
	Color      [3]float32 `toml:"color"`
	Glossiness float32    `toml:"glossiness"`
}

type RenderSettings struct {
	Background  [3]float32 `toml:"background"`
	SkyboxScale float32    `toml:"skybox_scale"`
}

type SimulationSettings struct {
	TimeScale float32 `toml:"time_scale"`
	Paused    bool    `toml:"paused"`
	// MaxStep caps one frame's simulated seconds, so a stalled frame does
	// not make the planets jump.
	MaxStep float32 `toml:"max_step"`
}

type LoggingSettings struct {
	Level string `toml:"level"`
}

func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:     512,
			Height:    512,
			Title:     "Solar System",
			VSync:     true,
			Resizable: true,
		},
		Assets: AssetSettings{
			Dir:            "assets",
			Mesh:           "sphere.obj",
			SphereSegments: 48,
			SphereRings:    24,
		},
		Camera: CameraSettings{
			FOV:           60,
			Near:          0.1,
			Far:           100,
			OverviewEye:   [3]float32{0, 14, 20},
			ChaseDistance: 4,
			ChaseHeight:   1.5,
		},
		Lighting: LightingSettings{
			Ambient:    0.15,
			Color:      [3]float32{1, 1, 1},
			Glossiness: 50,
		},
		Render: RenderSettings{
			Background:  [3]float32{0.2, 0.2, 0.2},
			SkyboxScale: 3,
		},
		Simulation: SimulationSettings{
			TimeScale: 1,
			MaxStep:   0.1,
		},
		Logging: LoggingSettings{Level: "info"},
		Catalog: solar.DefaultCatalog(),
	}
}

// Load reads a TOML file over the defaults. Keys the file leaves out keep
// their default value; a file without catalog bodies keeps the built-in set.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Settings{}, fmt.Errorf("config %q: %w", path, err)
	}
	return s, nil
}

// Decode is Load for an already open reader. Unknown keys are an error.
func Decode(r io.Reader) (Settings, error) {
	s := Default()
	defaults := s.Catalog.Bodies
	s.Catalog.Bodies = nil

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Settings{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Settings{}, err
	}
	if len(s.Catalog.Bodies) == 0 {
		s.Catalog.Bodies = defaults
	}
	return s, nil
}

// Write encodes s as TOML.
func (s Settings) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(s)
}

// Validate reports every out-of-range value at once.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Window.Width > 0 && s.Window.Height > 0, "window: size %dx%d must be positive", s.Window.Width, s.Window.Height)
	check(s.Assets.Dir != "", "assets: dir is empty")
	check(s.Assets.Mesh != "", "assets: mesh is empty")
	check(s.Assets.SphereSegments >= 3 && s.Assets.SphereRings >= 2, "assets: sphere resolution %dx%d too low", s.Assets.SphereSegments, s.Assets.SphereRings)
	check(s.Camera.FOV > 0 && s.Camera.FOV < 180, "camera: fov %g outside (0, 180)", s.Camera.FOV)
	check(s.Camera.Near > 0 && s.Camera.Far > s.Camera.Near, "camera: need 0 < near < far, got %g, %g", s.Camera.Near, s.Camera.Far)
	check(s.Camera.ChaseDistance > 0, "camera: chase_distance must be positive")
	check(s.Lighting.Ambient >= 0 && s.Lighting.Ambient <= 1, "lighting: ambient %g outside [0, 1]", s.Lighting.Ambient)
	check(s.Lighting.Glossiness > 0, "lighting: glossiness must be positive")
	check(s.Render.SkyboxScale > 0, "render: skybox_scale must be positive")
	check(s.Simulation.TimeScale >= MinTimeScale && s.Simulation.TimeScale <= MaxTimeScale,
		"simulation: time_scale %g outside [%g, %g]", s.Simulation.TimeScale, MinTimeScale, MaxTimeScale)
	check(s.Simulation.MaxStep > 0, "simulation: max_step must be positive")
	if _, err := s.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Catalog.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses Logging.Level ("debug", "info", "warn", "error").
func (s Settings) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

func (s Settings) WindowConfig() core.WindowConfig {
	return core.WindowConfig{
		Width:     s.Window.Width,
		Height:    s.Window.Height,
		Title:     s.Window.Title,
		Resizable: s.Window.Resizable,
		VSync:     s.Window.VSync,
	}
}

func (c CameraSettings) Eye() math.Vec3 {
	return vec3(c.OverviewEye)
}

func (l LightingSettings) LightColor() math.Vec3 {
	return vec3(l.Color)
}

func (r RenderSettings) BackgroundColor() core.Color {
	return core.Color{R: r.Background[0], G: r.Background[1], B: r.Background[2], A: 1}
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
