package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"solar-system/renderer"
)

// glState mirrors the fixed-function state a DrawCommand controls, so
// consecutive commands only issue the calls that change something.
type glState struct {
	valid      bool
	cull       renderer.CullFace
	depthTest  bool
	depthWrite bool
	blend      bool
}

func (s *glState) apply(cmd *renderer.DrawCommand) {
	if !s.valid || s.cull != cmd.Cull {
		if cmd.Cull == renderer.CullFront {
			// the skybox is seen from inside, so its front faces point away
			gl.CullFace(gl.FRONT)
		} else {
			gl.CullFace(gl.BACK)
		}
		s.cull = cmd.Cull
	}
	if !s.valid || s.depthTest != cmd.DepthTest {
		enable(gl.DEPTH_TEST, cmd.DepthTest)
		s.depthTest = cmd.DepthTest
	}
	if !s.valid || s.depthWrite != cmd.DepthWrite {
		gl.DepthMask(cmd.DepthWrite)
		s.depthWrite = cmd.DepthWrite
	}
	if !s.valid || s.blend != cmd.Blend {
		enable(gl.BLEND, cmd.Blend)
		s.blend = cmd.Blend
	}
	s.valid = true
}

// reset restores the defaults after a frame: depth writes must be on for the
// next glClear to clear the depth buffer.
func (s *glState) reset() {
	gl.DepthMask(true)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.CullFace(gl.BACK)
	s.valid = false
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}
