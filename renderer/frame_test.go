package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system/math"
	"solar-system/scene"
	"solar-system/solar"
)

type fakeBodies struct {
	bodies []*solar.Body
	sky    *scene.Texture
}

func (f *fakeBodies) Bodies() []*solar.Body { return f.bodies }
func (f *fakeBodies) Skybox() *scene.Texture { return f.sky }

func tex(name string) *scene.Texture {
	return &scene.Texture{Name: name, Width: 1, Height: 1, Pixels: make([]byte, 4), ID: 1}
}

func testSystem() *fakeBodies {
	sun := &solar.Body{Name: "Sun", Kind: solar.KindSun, Diffuse: tex("sun"), Scale: math.Splat3(1)}
	mercury := &solar.Body{Name: "Mercury", Kind: solar.KindPlanet, Diffuse: tex("mercury"),
		Scale: math.Splat3(0.2), Position: math.Vec3{X: 2}}
	earth := &solar.Body{Name: "Earth", Kind: solar.KindPlanet, Diffuse: tex("earth"),
		Specular: tex("spec"), Normal: tex("normal"), Clouds: tex("clouds"),
		Scale: math.Splat3(0.3), Position: math.Vec3{X: -3}}
	mars := &solar.Body{Name: "Mars", Kind: solar.KindPlanet, Diffuse: tex("mars"),
		Scale: math.Splat3(0.25), Position: math.Vec3{Z: 4}}
	return &fakeBodies{
		bodies: []*solar.Body{sun, mercury, earth, mars},
		sky:    tex("milkyway"),
	}
}

func overviewCamera() *scene.Camera {
	cam := scene.NewCamera(60, 1, 0.1, 100)
	cam.Eye = math.Vec3{Y: 14, Z: 20}
	cam.Target = math.Vec3Zero
	return cam
}

func passes(f Frame) []Pass {
	out := make([]Pass, len(f.Commands))
	for i, c := range f.Commands {
		out[i] = c.Pass
	}
	return out
}

func TestPlanOrder(t *testing.T) {
	frame := Plan(testSystem(), overviewCamera(), DefaultOptions())

	assert.Equal(t, []Pass{PassSkybox, PassSun, PassPlanet, PassEarth, PassPlanet, PassClouds}, passes(frame))

	bodies := make([]int, len(frame.Commands))
	for i, c := range frame.Commands {
		bodies[i] = c.Body
	}
	assert.Equal(t, []int{SkyboxBody, 0, 1, 2, 3, 2}, bodies)
	assert.Zero(t, frame.Culled)
	assert.Empty(t, frame.Skipped)
}

func TestPlanState(t *testing.T) {
	frame := Plan(testSystem(), overviewCamera(), DefaultOptions())
	require.Len(t, frame.Commands, 6)

	sky := frame.Commands[0]
	assert.Equal(t, CullFront, sky.Cull)
	assert.False(t, sky.DepthTest)
	assert.False(t, sky.DepthWrite)
	assert.False(t, sky.Blend)

	for _, c := range frame.Commands[1:5] {
		assert.Equal(t, CullBack, c.Cull, c.Pass.String())
		assert.True(t, c.DepthTest, c.Pass.String())
		assert.True(t, c.DepthWrite, c.Pass.String())
		assert.False(t, c.Blend, c.Pass.String())
	}

	clouds := frame.Commands[5]
	assert.Equal(t, CullBack, clouds.Cull)
	assert.True(t, clouds.DepthTest)
	assert.False(t, clouds.DepthWrite)
	assert.True(t, clouds.Blend)
}

func TestPlanTextures(t *testing.T) {
	sys := testSystem()
	earth := sys.bodies[2]
	frame := Plan(sys, overviewCamera(), DefaultOptions())

	assert.Same(t, sys.sky, frame.Commands[0].Diffuse)

	ec := frame.Commands[3]
	assert.Same(t, earth.Diffuse, ec.Diffuse)
	assert.Same(t, earth.Specular, ec.Specular)
	assert.Same(t, earth.Normal, ec.Normal)

	mercury := frame.Commands[2]
	assert.Nil(t, mercury.Specular)
	assert.Nil(t, mercury.Normal)

	clouds := frame.Commands[5]
	assert.Same(t, earth.Clouds, clouds.Diffuse)
	assert.Equal(t, earth.CloudMatrix(), clouds.Model)
	assert.Equal(t, earth.ModelMatrix(), ec.Model)
}

func TestPlanSkyboxFollowsEye(t *testing.T) {
	cam := overviewCamera()
	opts := DefaultOptions()
	frame := Plan(testSystem(), cam, opts)

	model := frame.Commands[0].Model
	assert.True(t, model.Translation().ApproxEqual(cam.Eye, 1e-5))
	assert.InDelta(t, opts.SkyboxScale, model[0][0], 1e-6)
	assert.InDelta(t, opts.SkyboxScale, model[1][1], 1e-6)
	assert.InDelta(t, opts.SkyboxScale, model[2][2], 1e-6)
}

func TestPlanUniforms(t *testing.T) {
	sys := testSystem()
	sys.bodies[0].Position = math.Vec3{X: 1, Y: 2, Z: 3}
	cam := overviewCamera()
	opts := DefaultOptions()
	frame := Plan(sys, cam, opts)

	u := frame.Uniforms
	assert.Equal(t, sys.bodies[0].Position, u.LightPos)
	assert.Equal(t, cam.Eye, u.Eye)
	assert.Equal(t, cam.ViewMatrix(), u.View)
	assert.Equal(t, cam.ProjectionMatrix(), u.Projection)
	assert.Equal(t, opts.Glossiness, u.Glossiness)
	assert.Equal(t, opts.Ambient, u.Ambient)
	assert.Equal(t, opts.Background, frame.Background)
}

func TestPlanNoSkybox(t *testing.T) {
	sys := testSystem()
	sys.sky = nil
	frame := Plan(sys, overviewCamera(), DefaultOptions())
	assert.Equal(t, PassSun, frame.Commands[0].Pass)
}

func TestPlanSkipsBodiesWithoutDiffuse(t *testing.T) {
	sys := testSystem()
	sys.bodies[3].Diffuse = nil
	frame := Plan(sys, overviewCamera(), DefaultOptions())

	assert.Equal(t, []string{"Mars"}, frame.Skipped)
	for _, c := range frame.Commands {
		assert.NotEqual(t, 3, c.Body)
	}
}

func TestPlanEmptySystem(t *testing.T) {
	frame := Plan(&fakeBodies{}, overviewCamera(), DefaultOptions())
	assert.Empty(t, frame.Commands)
	assert.Equal(t, math.Vec3Zero, frame.Uniforms.LightPos)
}

func TestPlanFrustumCulling(t *testing.T) {
	sys := testSystem()
	// far behind the overview camera
	sys.bodies[3].Position = math.Vec3{Z: 80}

	frame := Plan(sys, overviewCamera(), DefaultOptions())
	assert.Equal(t, 1, frame.Culled)
	for _, c := range frame.Commands {
		assert.NotEqual(t, 3, c.Body)
	}

	opts := DefaultOptions()
	opts.FrustumCulling = false
	frame = Plan(sys, overviewCamera(), opts)
	assert.Zero(t, frame.Culled)
	assert.Len(t, frame.Commands, 6)
}

func TestPassString(t *testing.T) {
	assert.Equal(t, "clouds", PassClouds.String())
	assert.Equal(t, "Pass(9)", Pass(9).String())
}
