package solar

import (
	"fmt"
	"log/slog"
	"strings"

	"solar-system/math"
	"solar-system/scene"
)

// System is the ordered collection of bodies. Index 0 is always the sun; it
// spins but never orbits. Bodies are only created by Load/Reload.
type System struct {
	catalog Catalog
	dir     string
	store   TextureStore
	logger  *slog.Logger

	bodies   []*Body
	skybox   *scene.Texture
	textures *textureSet
}

// NewSystem validates the catalog and prepares an empty system. Call Load to
// decode and upload textures.
func NewSystem(catalog Catalog, assetDir string, store TextureStore, logger *slog.Logger) (*System, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &System{
		catalog: catalog,
		dir:     assetDir,
		store:   store,
		logger:  logger,
	}, nil
}

// Load builds every body from the catalog. If any required texture fails,
// everything uploaded so far is deleted and the system stays empty.
func (s *System) Load() error {
	if len(s.bodies) > 0 {
		return fmt.Errorf("solar: system already loaded")
	}

	textures := newTextureSet(s.dir, s.store, s.logger)
	bodies, skybox, err := s.build(textures)
	if err != nil {
		textures.release()
		return fmt.Errorf("load solar system: %w", err)
	}

	s.bodies = bodies
	s.skybox = skybox
	s.textures = textures
	s.Update(0)
	s.logger.Info("solar system loaded", "bodies", len(bodies), "textures", len(textures.uploaded))
	return nil
}

func (s *System) build(textures *textureSet) ([]*Body, *scene.Texture, error) {
	var skybox *scene.Texture
	if s.catalog.Skybox != "" {
		var err error
		if skybox, err = textures.get(s.catalog.Skybox, nil); err != nil {
			return nil, nil, fmt.Errorf("skybox: %w", err)
		}
	}

	bodies := make([]*Body, 0, len(s.catalog.Bodies))
	for _, spec := range s.catalog.Bodies {
		diffuse, err := textures.get(spec.Diffuse, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", spec.Name, err)
		}
		b := &Body{
			Name:           spec.Name,
			Kind:           spec.Kind,
			Diffuse:        diffuse,
			Specular:       textures.optional(spec.Name, "specular", spec.Specular, nil),
			Normal:         textures.optional(spec.Name, "normal", spec.Normal, nil),
			Clouds:         textures.optional(spec.Name, "clouds", spec.Clouds, (*scene.Texture).AlphaFromLuminance),
			Scale:          math.Splat3(spec.Scale),
			OrbitAngle:     math.WrapAngle(spec.OrbitPhase),
			OrbitSpeed:     spec.OrbitSpeed,
			OrbitRadius:    spec.OrbitRadius,
			SpinSpeed:      spec.SpinSpeed,
			CloudSpinSpeed: spec.CloudSpinSpeed,
			Tilt:           math.DegToRad(spec.TiltDegrees),
		}
		bodies = append(bodies, b)
	}
	return bodies, skybox, nil
}

// Release deletes every body and GPU texture. The system is empty afterwards.
func (s *System) Release() {
	if s.textures != nil {
		s.textures.release()
		s.textures = nil
	}
	s.bodies = nil
	s.skybox = nil
}

// Reload tears the whole collection down and rebuilds it from the catalog.
// On failure the system is left empty until a later Reload succeeds.
func (s *System) Reload() error {
	s.Release()
	return s.Load()
}

// SetCatalog replaces the catalog used by the next Load or Reload.
func (s *System) SetCatalog(c Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.catalog = c
	return nil
}

// Update advances the simulation by dt seconds.
func (s *System) Update(dt float32) {
	for i, b := range s.bodies {
		b.Spin = math.WrapAngle(b.Spin + b.SpinSpeed*dt)
		if b.HasClouds() {
			b.CloudSpin = math.WrapAngle(b.CloudSpin + b.CloudSpinSpeed*dt)
		}
		if i == 0 {
			b.Position = math.Vec3Zero
			continue
		}
		b.OrbitAngle = math.WrapAngle(b.OrbitAngle + b.OrbitSpeed*dt)
		b.Position = math.FromPolarXZ(b.OrbitRadius, b.OrbitAngle)
	}
}

func (s *System) Len() int {
	return len(s.bodies)
}

// Body returns the body at index i, or nil when i is out of range.
func (s *System) Body(i int) *Body {
	if i < 0 || i >= len(s.bodies) {
		return nil
	}
	return s.bodies[i]
}

// Bodies returns the bodies in index order. The slice must not be modified.
func (s *System) Bodies() []*Body {
	return s.bodies
}

// Sun returns body 0, or ErrNoBodies for an empty system.
func (s *System) Sun() (*Body, error) {
	if len(s.bodies) == 0 {
		return nil, ErrNoBodies
	}
	return s.bodies[0], nil
}

// Find looks a body up by case-insensitive name. It returns -1 when absent.
func (s *System) Find(name string) (*Body, int) {
	for i, b := range s.bodies {
		if strings.EqualFold(b.Name, name) {
			return b, i
		}
	}
	return nil, -1
}

// Earth returns the first body with a detail or cloud layer, falling back to
// the body named Earth.
func (s *System) Earth() *Body {
	for _, b := range s.bodies {
		if b.Detailed() || b.HasClouds() {
			return b
		}
	}
	b, _ := s.Find("Earth")
	return b
}

func (s *System) Skybox() *scene.Texture {
	return s.skybox
}

func (s *System) Catalog() Catalog {
	return s.catalog
}

// PositionOf and RadiusOf let a scene.CameraRig track bodies.
func (s *System) PositionOf(i int) math.Vec3 {
	return s.bodies[i].Position
}

func (s *System) RadiusOf(i int) float32 {
	return s.bodies[i].Radius()
}

// Name returns the name of body i, or "" when out of range.
func (s *System) Name(i int) string {
	if b := s.Body(i); b != nil {
		return b.Name
	}
	return ""
}
