package renderer

import (
	"fmt"

	"solar-system/core"
	"solar-system/math"
	"solar-system/scene"
	"solar-system/solar"
)

// Pass identifies the shading path and GL state of a draw command.
type Pass int

const (
	PassSkybox Pass = iota // unlit, inside of the sphere, behind everything
	PassSun                // unlit, emissive
	PassPlanet             // Phong lit from the sun
	PassEarth              // Phong with specular and normal maps
	PassClouds             // alpha-blended shell, drawn after all opaque passes
)

func (p Pass) String() string {
	switch p {
	case PassSkybox:
		return "skybox"
	case PassSun:
		return "sun"
	case PassPlanet:
		return "planet"
	case PassEarth:
		return "earth"
	case PassClouds:
		return "clouds"
	}
	return fmt.Sprintf("Pass(%d)", int(p))
}

// CullFace selects which triangle winding is discarded.
type CullFace int

const (
	CullBack CullFace = iota
	CullFront
)

// SkyboxBody is the Body index of the skybox command.
const SkyboxBody = -1

// DrawCommand is one draw of the shared sphere with its full GL state.
type DrawCommand struct {
	Pass  Pass
	Body  int
	Model math.Mat4

	Diffuse  *scene.Texture
	Specular *scene.Texture
	Normal   *scene.Texture

	Cull       CullFace
	DepthTest  bool
	DepthWrite bool
	Blend      bool
}

// Uniforms are shared by every command of a frame.
type Uniforms struct {
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3
	LightPos   math.Vec3
	LightColor math.Vec3
	Ambient    float32
	Glossiness float32
}

// Frame is the ordered list of draws for one rendered image.
type Frame struct {
	Commands   []DrawCommand
	Uniforms   Uniforms
	Background core.Color

	// Culled counts bodies left out by frustum culling.
	Culled int
	// Skipped names bodies that cannot be drawn (no diffuse texture).
	Skipped []string
}

// Options holds the per-frame constants.
type Options struct {
	SkyboxScale    float32
	Ambient        float32
	Glossiness     float32
	LightColor     math.Vec3
	Background     core.Color
	FrustumCulling bool
}

func DefaultOptions() Options {
	return Options{
		SkyboxScale:    3,
		Ambient:        0.15,
		Glossiness:     50,
		LightColor:     math.Vec3One,
		Background:     core.Gray(0.2),
		FrustumCulling: true,
	}
}

// Bodies is what Plan reads from the simulation.
type Bodies interface {
	Bodies() []*solar.Body
	Skybox() *scene.Texture
}

// Plan builds the draw list for one frame without touching OpenGL. Order:
// skybox, sun, planets by index, then every cloud shell.
func Plan(sys Bodies, cam *scene.Camera, opts Options) Frame {
	bodies := sys.Bodies()

	frame := Frame{
		Background: opts.Background,
		Uniforms: Uniforms{
			View:       cam.ViewMatrix(),
			Projection: cam.ProjectionMatrix(),
			Eye:        cam.Eye,
			LightColor: opts.LightColor,
			Ambient:    opts.Ambient,
			Glossiness: opts.Glossiness,
		},
		Commands: make([]DrawCommand, 0, len(bodies)+2),
	}
	if len(bodies) > 0 {
		frame.Uniforms.LightPos = bodies[0].Position
	}

	if sky := sys.Skybox(); sky != nil {
		frame.Commands = append(frame.Commands, DrawCommand{
			Pass:    PassSkybox,
			Body:    SkyboxBody,
			Model:   math.Mat4Scale(math.Splat3(opts.SkyboxScale)).Mul(math.Mat4Translation(cam.Eye)),
			Diffuse: sky,
			Cull:    CullFront,
		})
	}

	var frustum scene.Frustum
	if opts.FrustumCulling {
		frustum = scene.FrustumFromVP(frame.Uniforms.View.Mul(frame.Uniforms.Projection))
	}
	visible := func(b *solar.Body, scale float32) bool {
		if !opts.FrustumCulling || frustum.IntersectsSphere(b.Position, b.Radius()*scale) {
			return true
		}
		frame.Culled++
		return false
	}

	var clouds []DrawCommand
	for i, b := range bodies {
		if b.Diffuse == nil {
			frame.Skipped = append(frame.Skipped, b.Name)
			continue
		}
		if !visible(b, solar.CloudShell) {
			continue
		}

		cmd := DrawCommand{
			Pass:       PassPlanet,
			Body:       i,
			Model:      b.ModelMatrix(),
			Diffuse:    b.Diffuse,
			Cull:       CullBack,
			DepthTest:  true,
			DepthWrite: true,
		}
		switch {
		case i == 0:
			cmd.Pass = PassSun
		case b.Detailed():
			cmd.Pass = PassEarth
			cmd.Specular = b.Specular
			cmd.Normal = b.Normal
		}
		frame.Commands = append(frame.Commands, cmd)

		if i > 0 && b.HasClouds() {
			clouds = append(clouds, DrawCommand{
				Pass:      PassClouds,
				Body:      i,
				Model:     b.CloudMatrix(),
				Diffuse:   b.Clouds,
				Cull:      CullBack,
				DepthTest: true,
				Blend:     true,
			})
		}
	}
	frame.Commands = append(frame.Commands, clouds...)
	return frame
}
