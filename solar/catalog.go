package solar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoBodies is returned when a catalog or system holds no bodies.
	ErrNoBodies = errors.New("solar: no bodies")
	// ErrInvalidCatalog wraps every catalog validation failure.
	ErrInvalidCatalog = errors.New("solar: invalid catalog")
)

// BodySpec describes one body before its textures are loaded. Texture
// fields are file names relative to the asset directory.
type BodySpec struct {
	Name     string `toml:"name"`
	Kind     Kind   `toml:"kind"`
	Diffuse  string `toml:"diffuse"`
	Specular string `toml:"specular,omitempty"`
	Normal   string `toml:"normal,omitempty"`
	Clouds   string `toml:"clouds,omitempty"`

	Scale          float32 `toml:"scale"`
	OrbitRadius    float32 `toml:"orbit_radius"`
	OrbitSpeed     float32 `toml:"orbit_speed"`
	OrbitPhase     float32 `toml:"orbit_phase"`
	SpinSpeed      float32 `toml:"spin_speed"`
	CloudSpinSpeed float32 `toml:"cloud_spin_speed,omitempty"`
	TiltDegrees    float32 `toml:"tilt"`
}

// Catalog is the ordered list of bodies plus the skybox texture.
type Catalog struct {
	Skybox string     `toml:"skybox"`
	Bodies []BodySpec `toml:"bodies"`
}

// DefaultCatalog is the sun and the eight planets with compressed distances,
// sizes and periods chosen to read well on screen.
func DefaultCatalog() Catalog {
	return Catalog{
		Skybox: "milkyway.bmp",
		Bodies: []BodySpec{
			{Name: "Sun", Kind: KindSun, Diffuse: "sunmap.bmp", Scale: 1.0, SpinSpeed: 0.1, TiltDegrees: 7.25},
			{Name: "Mercury", Kind: KindPlanet, Diffuse: "mercurymap.bmp", Scale: 0.12, OrbitRadius: 2.0, OrbitSpeed: 1.24, OrbitPhase: 0.7, SpinSpeed: 0.05, TiltDegrees: 0.03},
			{Name: "Venus", Kind: KindPlanet, Diffuse: "venusmap.bmp", Scale: 0.2, OrbitRadius: 2.8, OrbitSpeed: 0.49, OrbitPhase: 1.4, SpinSpeed: 0.02, TiltDegrees: 177.4},
			{
				Name: "Earth", Kind: KindPlanet,
				Diffuse: "earthmap1k.bmp", Specular: "earthspec1k.bmp", Normal: "earthnormal1k.bmp", Clouds: "earthcloudmap.bmp",
				Scale: 0.22, OrbitRadius: 3.8, OrbitSpeed: 0.3, OrbitPhase: 2.1, SpinSpeed: 1.0, CloudSpinSpeed: 1.2, TiltDegrees: 23.44,
			},
			{Name: "Mars", Kind: KindPlanet, Diffuse: "marsmap.bmp", Scale: 0.16, OrbitRadius: 4.8, OrbitSpeed: 0.16, OrbitPhase: 2.8, SpinSpeed: 0.97, TiltDegrees: 25.19},
			{Name: "Jupiter", Kind: KindPlanet, Diffuse: "jupitermap.bmp", Scale: 0.6, OrbitRadius: 6.8, OrbitSpeed: 0.08, OrbitPhase: 3.5, SpinSpeed: 2.4, TiltDegrees: 3.13},
			{Name: "Saturn", Kind: KindPlanet, Diffuse: "saturnmap.bmp", Scale: 0.5, OrbitRadius: 8.6, OrbitSpeed: 0.05, OrbitPhase: 4.2, SpinSpeed: 2.2, TiltDegrees: 26.73},
			{Name: "Uranus", Kind: KindPlanet, Diffuse: "uranusmap.bmp", Scale: 0.35, OrbitRadius: 10.2, OrbitSpeed: 0.035, OrbitPhase: 4.9, SpinSpeed: 1.4, TiltDegrees: 97.77},
			{Name: "Neptune", Kind: KindPlanet, Diffuse: "neptunemap.bmp", Scale: 0.34, OrbitRadius: 11.6, OrbitSpeed: 0.025, OrbitPhase: 5.6, SpinSpeed: 1.5, TiltDegrees: 28.32},
		},
	}
}

// Validate checks the structural rules every catalog must satisfy. All
// returned errors match ErrInvalidCatalog, and an empty catalog also matches
// ErrNoBodies.
func (c Catalog) Validate() error {
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, ErrNoBodies)
	}

	sun := c.Bodies[0]
	if sun.Kind != KindSun {
		return fmt.Errorf("%w: first body %q must be of kind %q, got %q", ErrInvalidCatalog, sun.Name, KindSun, sun.Kind)
	}
	if sun.OrbitRadius != 0 {
		return fmt.Errorf("%w: %q must sit at the origin", ErrInvalidCatalog, sun.Name)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		key := strings.ToLower(b.Name)
		switch {
		case b.Name == "":
			return fmt.Errorf("%w: body %d has no name", ErrInvalidCatalog, i)
		case seen[key]:
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidCatalog, b.Name)
		case b.Diffuse == "":
			return fmt.Errorf("%w: %q has no diffuse texture", ErrInvalidCatalog, b.Name)
		case b.Scale <= 0:
			return fmt.Errorf("%w: %q needs a positive scale", ErrInvalidCatalog, b.Name)
		case i > 0 && b.Kind != KindPlanet:
			return fmt.Errorf("%w: %q must be of kind %q", ErrInvalidCatalog, b.Name, KindPlanet)
		case i > 0 && b.OrbitRadius <= 0:
			return fmt.Errorf("%w: %q needs a positive orbit radius", ErrInvalidCatalog, b.Name)
		}
		seen[key] = true
	}
	return nil
}

// Files lists every texture file the catalog references, without duplicates.
func (c Catalog) Files() []string {
	var files []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}
	add(c.Skybox)
	for _, b := range c.Bodies {
		add(b.Diffuse)
		add(b.Specular)
		add(b.Normal)
		add(b.Clouds)
	}
	return files
}
