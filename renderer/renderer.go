package renderer

import (
	"fmt"
	"log/slog"
	"strings"

	"solar-system/scene"
	"solar-system/solar"
)

// Backend executes planned frames. internal/opengl provides the real one.
type Backend interface {
	solar.TextureStore
	SetViewport(width, height int)
	// Execute clears the target, runs every command with mesh and reports
	// how many commands it actually drew.
	Execute(frame *Frame, mesh *scene.Mesh) (int, error)
	Destroy()
}

// Stats describes the most recent frame.
type Stats struct {
	DrawCalls int
	Triangles int
	Culled    int
}

// RenderEngine owns the backend, the shared sphere and the frame options.
type RenderEngine struct {
	Options Options

	backend Backend
	mesh    *scene.Mesh
	logger  *slog.Logger

	stats   Stats
	skipped string
}

func NewRenderEngine(backend Backend, mesh *scene.Mesh, opts Options, logger *slog.Logger) (*RenderEngine, error) {
	if mesh == nil {
		return nil, fmt.Errorf("render engine needs a mesh")
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("render engine initialized",
		"mesh", mesh.Name, "vertices", len(mesh.Vertices), "triangles", mesh.TriangleCount())
	return &RenderEngine{
		Options: opts,
		backend: backend,
		mesh:    mesh,
		logger:  logger,
	}, nil
}

// Render plans and draws one frame from the camera of rig.
func (re *RenderEngine) Render(sys Bodies, rig *scene.CameraRig) error {
	frame := Plan(sys, rig.Camera, re.Options)
	re.reportSkipped(frame.Skipped)

	drawn, err := re.backend.Execute(&frame, re.mesh)
	if err != nil {
		return fmt.Errorf("execute frame: %w", err)
	}
	re.stats = Stats{
		DrawCalls: drawn,
		Triangles: drawn * re.mesh.TriangleCount(),
		Culled:    frame.Culled,
	}
	return nil
}

// reportSkipped warns when the set of undrawable bodies changes, not on
// every frame.
func (re *RenderEngine) reportSkipped(names []string) {
	key := strings.Join(names, ",")
	if key == re.skipped {
		return
	}
	re.skipped = key
	if key != "" {
		re.logger.Warn("bodies without a diffuse texture are not drawn", "bodies", key)
	}
}

// Resize updates the viewport and the camera aspect ratio.
func (re *RenderEngine) Resize(width, height int, cam *scene.Camera) {
	re.backend.SetViewport(width, height)
	cam.UpdateAspectRatio(width, height)
}

// Textures exposes the backend as the texture store for solar.System.
func (re *RenderEngine) Textures() solar.TextureStore {
	return re.backend
}

func (re *RenderEngine) Mesh() *scene.Mesh {
	return re.mesh
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() Stats {
	return re.stats
}

func (re *RenderEngine) Destroy() {
	re.backend.Destroy()
}
