package opengl

import (
	"fmt"
	"log/slog"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"solar-system/math"
	"solar-system/renderer"
	"solar-system/scene"
)

// Renderer is the OpenGL backend for renderer.RenderEngine.
type Renderer struct {
	unlit *program // skybox, sun
	phong *program // planets, clouds
	earth *program // specular and normal mapped bodies

	state     glState
	gpuMeshes map[*scene.Mesh]*GPUMesh
	textures  int

	viewportW int32
	viewportH int32

	logger *slog.Logger
}

// NewRenderer loads GL function pointers and compiles the three programs.
// The GL context must be current on the calling thread.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	r := &Renderer{
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
		logger:    logger,
	}
	var err error
	if r.unlit, err = newShaderProgram("unlit", sphereVertSrc, unlitFragSrc); err != nil {
		return nil, err
	}
	if r.phong, err = newShaderProgram("phong", sphereVertSrc, phongFragSrc); err != nil {
		r.unlit.destroy()
		return nil, err
	}
	if r.earth, err = newShaderProgram("earth", sphereVertSrc, earthFragSrc); err != nil {
		r.unlit.destroy()
		r.phong.destroy()
		return nil, err
	}

	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CCW)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	r.state.reset()
	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) programFor(pass renderer.Pass) *program {
	switch pass {
	case renderer.PassSkybox, renderer.PassSun:
		return r.unlit
	case renderer.PassEarth:
		return r.earth
	default:
		return r.phong
	}
}

// Execute clears the framebuffer and draws every command with mesh. Commands
// without an uploaded diffuse texture are skipped and not counted.
func (r *Renderer) Execute(frame *renderer.Frame, mesh *scene.Mesh) (int, error) {
	bg := frame.Background
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if len(frame.Commands) == 0 {
		return 0, nil
	}
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return 0, fmt.Errorf("mesh %q has no geometry", mesh.Name)
	}

	u := &frame.Uniforms
	viewProj := u.View.Mul(u.Projection)
	prepared := map[*program]bool{}
	var current *program
	drawn := 0

	gl.BindVertexArray(gpu.VAO)
	for i := range frame.Commands {
		cmd := &frame.Commands[i]
		if !cmd.Diffuse.Uploaded() {
			continue
		}

		prog := r.programFor(cmd.Pass)
		if prog != current {
			gl.UseProgram(prog.id)
			current = prog
		}
		if !prepared[prog] {
			setFrameUniforms(prog, u)
			prepared[prog] = true
		}

		r.state.apply(cmd)

		mvp := cmd.Model.Mul(viewProj)
		setMat4(prog.mvpLoc, &mvp)
		setMat4(prog.modelLoc, &cmd.Model)
		gl.Uniform1i(prog.useTexAlphaLoc, boolToInt32(cmd.Blend))
		gl.Uniform1i(prog.hasSpecularTexLoc, boolToInt32(cmd.Specular.Uploaded()))
		gl.Uniform1i(prog.hasNormalTexLoc, boolToInt32(cmd.Normal.Uploaded()))

		bindTexture(unitDiffuse, cmd.Diffuse)
		bindTexture(unitSpecular, cmd.Specular)
		bindTexture(unitNormal, cmd.Normal)

		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
		drawn++
	}
	gl.BindVertexArray(0)
	r.state.reset()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return drawn, fmt.Errorf("GL error 0x%x", code)
	}
	return drawn, nil
}

func setFrameUniforms(p *program, u *renderer.Uniforms) {
	gl.Uniform3f(p.cameraPosLoc, u.Eye.X, u.Eye.Y, u.Eye.Z)
	gl.Uniform3f(p.lightPosLoc, u.LightPos.X, u.LightPos.Y, u.LightPos.Z)
	gl.Uniform3f(p.lightColorLoc, u.LightColor.X, u.LightColor.Y, u.LightColor.Z)
	gl.Uniform1f(p.ambientLoc, u.Ambient)
	gl.Uniform1f(p.glossLoc, u.Glossiness)
}

func setMat4(loc int32, m *math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Destroy releases all GPU resources. Textures still alive are reported.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	r.unlit.destroy()
	r.phong.destroy()
	r.earth.destroy()
	if r.textures != 0 {
		r.logger.Warn("textures still uploaded at shutdown", "count", r.textures)
	}
}
