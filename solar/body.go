package solar

import (
	"solar-system/math"
	"solar-system/scene"
)

// Kind tags a body as the central star or an orbiting planet.
type Kind string

const (
	KindSun    Kind = "sun"
	KindPlanet Kind = "planet"
)

// CloudShell is how much larger than its body the cloud sphere is drawn.
const CloudShell = 1.02

// Body is one renderable celestial object. All bodies share the same sphere
// mesh; they differ by transform and texture set.
type Body struct {
	Name string
	Kind Kind

	Diffuse  *scene.Texture
	Specular *scene.Texture
	Normal   *scene.Texture
	Clouds   *scene.Texture

	Scale    math.Vec3
	Position math.Vec3

	OrbitAngle  float32 // radians, kept in [0, 2π)
	OrbitSpeed  float32 // radians per second
	OrbitRadius float32

	Spin      float32
	SpinSpeed float32

	CloudSpin      float32
	CloudSpinSpeed float32

	Tilt float32 // axial tilt, radians
}

// HasClouds reports whether the body gets a cloud pass.
func (b *Body) HasClouds() bool {
	return b.Clouds != nil
}

// Detailed reports whether the body needs the specular/normal-mapped path.
func (b *Body) Detailed() bool {
	return b.Specular != nil || b.Normal != nil
}

// Radius is the largest scale component, the radius of the unit sphere once
// scaled.
func (b *Body) Radius() float32 {
	r := b.Scale.X
	if b.Scale.Y > r {
		r = b.Scale.Y
	}
	if b.Scale.Z > r {
		r = b.Scale.Z
	}
	return r
}

// ModelMatrix scales the unit sphere, spins it about its own axis, tilts that
// axis and moves the result to Position.
func (b *Body) ModelMatrix() math.Mat4 {
	return b.matrix(b.Scale, b.Spin)
}

// CloudMatrix is ModelMatrix for the cloud shell, which turns independently.
func (b *Body) CloudMatrix() math.Mat4 {
	return b.matrix(b.Scale.Mul(CloudShell), b.CloudSpin)
}

func (b *Body) matrix(scale math.Vec3, spin float32) math.Mat4 {
	rotation := math.Mat4RotationY(spin).Mul(math.Mat4RotationZ(b.Tilt))
	return math.Mat4SRT(scale, rotation, b.Position)
}

// textures lists the body's texture handles that are set.
func (b *Body) textures() []*scene.Texture {
	var out []*scene.Texture
	for _, t := range []*scene.Texture{b.Diffuse, b.Specular, b.Normal, b.Clouds} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
