package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Texture units shared by every program.
const (
	unitDiffuse  = 0
	unitSpecular = 1
	unitNormal   = 2
)

// program is a linked shader program with its uniform locations. Locations
// that a program does not declare are -1, which GL silently ignores.
type program struct {
	name string
	id   uint32

	mvpLoc        int32
	modelLoc      int32
	cameraPosLoc  int32
	lightPosLoc   int32
	lightColorLoc int32
	ambientLoc    int32
	glossLoc      int32

	useTexAlphaLoc    int32
	hasSpecularTexLoc int32
	hasNormalTexLoc   int32
}

func newShaderProgram(name, vertSrc, fragSrc string) (*program, error) {
	id, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}
	loc := func(uniform string) int32 {
		return gl.GetUniformLocation(id, gl.Str(uniform+"\x00"))
	}

	p := &program{
		name:              name,
		id:                id,
		mvpLoc:            loc("mvp"),
		modelLoc:          loc("model"),
		cameraPosLoc:      loc("cameraPos"),
		lightPosLoc:       loc("lightPos"),
		lightColorLoc:     loc("lightColor"),
		ambientLoc:        loc("ambient"),
		glossLoc:          loc("glossiness"),
		useTexAlphaLoc:    loc("useTexAlpha"),
		hasSpecularTexLoc: loc("hasSpecularTex"),
		hasNormalTexLoc:   loc("hasNormalTex"),
	}

	gl.UseProgram(id)
	gl.Uniform1i(loc("diffuseTex"), unitDiffuse)
	gl.Uniform1i(loc("specularTex"), unitSpecular)
	gl.Uniform1i(loc("normalTex"), unitNormal)
	gl.UseProgram(0)
	return p, nil
}

func (p *program) destroy() {
	gl.DeleteProgram(p.id)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
