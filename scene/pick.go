package scene

import (
	"github.com/chewxy/math32"

	reMath "solar-system/math"
)

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    reMath.Vec3
	Direction reMath.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) reMath.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay turns a cursor position in pixels (origin top-left) into a
// world-space ray from the camera eye.
func ScreenToRay(x, y float32, width, height int, cam *Camera) Ray {
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height) // flip Y

	// point on the view-space plane z = -1 under the cursor
	tanHalf := math32.Tan(cam.FOV / 2)
	onPlane := reMath.Vec3{X: ndcX * tanHalf * cam.AspectRatio, Y: ndcY * tanHalf, Z: -1}

	world := cam.WorldMatrix().MulVec3(onPlane)
	return Ray{Origin: cam.Eye, Direction: world.Sub(cam.Eye).Normalize()}
}

// IntersectSphere returns the distance to the first hit in front of the
// origin.
func (r Ray) IntersectSphere(center reMath.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.LengthSqr() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		// origin inside the sphere
		t = -b + sq
	}
	return t, t >= 0
}

// Pick returns the index of the closest body the ray hits.
func Pick(ray Ray, bodies Tracked) (int, bool) {
	best, hit := -1, false
	closest := float32(math32.MaxFloat32)
	for i := 0; i < bodies.Len(); i++ {
		t, ok := ray.IntersectSphere(bodies.PositionOf(i), bodies.RadiusOf(i))
		if ok && t < closest {
			best, closest, hit = i, t, true
		}
	}
	return best, hit
}
