package core

import (
	"solar-system/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Gray returns an opaque gray of the given intensity.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// RGB returns the color channels without alpha.
func (c Color) RGB() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Vertex is the interleaved layout shared by every mesh. The OpenGL backend
// binds its fields to attribute locations 0..5 in declaration order.
type Vertex struct {
	Position  math.Vec3
	Normal    math.Vec3
	UV        math.Vec2
	Color     Color
	Tangent   math.Vec3
	Bitangent math.Vec3
}
