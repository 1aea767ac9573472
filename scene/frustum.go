package scene

import "solar-system/math"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means inside.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts normalized clip planes from a view-projection matrix
// (Gribb/Hartmann). Points transform as v*vp, so clip coordinate i is the dot
// product of the point with column i of vp.
func FrustumFromVP(vp math.Mat4) Frustum {
	col := func(i int) [4]float32 {
		return [4]float32{vp[0][i], vp[1][i], vp[2][i], vp[3][i]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)

	plane := func(a [4]float32, sign float32, b [4]float32) Plane {
		n := math.Vec3{X: a[0] + sign*b[0], Y: a[1] + sign*b[1], Z: a[2] + sign*b[2]}
		d := a[3] + sign*b[3]
		l := n.Length()
		if l == 0 {
			return Plane{}
		}
		return Plane{Normal: n.Div(l), D: d / l}
	}

	return Frustum{Planes: [6]Plane{
		plane(c3, 1, c0),
		plane(c3, -1, c0),
		plane(c3, 1, c1),
		plane(c3, -1, c1),
		plane(c3, 1, c2),
		plane(c3, -1, c2),
	}}
}

// IntersectsSphere returns false only if the sphere lies entirely outside
// one of the planes.
func (f *Frustum) IntersectsSphere(center math.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}
