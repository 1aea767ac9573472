package scene

import (
	"fmt"

	"github.com/chewxy/math32"

	reMath "solar-system/math"
)

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Eye    reMath.Vec3
	Target reMath.Vec3
	Up     reMath.Vec3

	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera takes the vertical field of view in degrees.
func NewCamera(fovDeg, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Eye:         reMath.Vec3{X: 0, Y: 0, Z: 2},
		Target:      reMath.Vec3Zero,
		Up:          reMath.Vec3Up,
		FOV:         reMath.DegToRad(fovDeg),
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

func (c *Camera) UpdateAspectRatio(width, height int) {
	if width > 0 && height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

func (c *Camera) ViewMatrix() reMath.Mat4 {
	return reMath.Mat4LookAt(c.Eye, c.Target, c.Up)
}

// WorldMatrix is the inverse of ViewMatrix: it maps view space to world
// space.
func (c *Camera) WorldMatrix() reMath.Mat4 {
	z := c.Eye.Sub(c.Target).Normalize()
	x := c.Up.Cross(z).Normalize()
	y := z.Cross(x)
	return reMath.Mat4{
		{x.X, x.Y, x.Z, 0},
		{y.X, y.Y, y.Z, 0},
		{z.X, z.Y, z.Z, 0},
		{c.Eye.X, c.Eye.Y, c.Eye.Z, 1},
	}
}

func (c *Camera) ProjectionMatrix() reMath.Mat4 {
	return reMath.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

// CameraMode selects how a CameraRig places its camera.
type CameraMode int

const (
	CameraOverview CameraMode = iota // fixed viewpoint above the ecliptic
	CameraChase                      // follows one body
)

func (m CameraMode) String() string {
	switch m {
	case CameraOverview:
		return "overview"
	case CameraChase:
		return "chase"
	}
	return fmt.Sprintf("CameraMode(%d)", int(m))
}

// Tracked is the set of bodies a CameraRig can look at. Index 0 is the
// central body and is never chased.
type Tracked interface {
	Len() int
	PositionOf(i int) reMath.Vec3
	RadiusOf(i int) float32
}

const (
	MinZoom = 0.2
	MaxZoom = 5.0
)

// CameraRig drives a Camera from the simulation state.
type CameraRig struct {
	Camera *Camera
	Mode   CameraMode
	Target int

	// OverviewEye is the overview position before zoom is applied.
	OverviewEye reMath.Vec3
	// ChaseDistance and ChaseHeight are measured in radii of the chased body.
	ChaseDistance float32
	ChaseHeight   float32
	// MinChaseOffset keeps the chase eye clear of the near plane on tiny bodies.
	MinChaseOffset float32

	Zoom float32

	count int
}

func NewCameraRig(cam *Camera) *CameraRig {
	return &CameraRig{
		Camera:         cam,
		Mode:           CameraOverview,
		Target:         1,
		OverviewEye:    reMath.Vec3{X: 0, Y: 14, Z: 20},
		ChaseDistance:  4,
		ChaseHeight:    1.5,
		MinChaseOffset: 0.4,
		Zoom:           1,
	}
}

// Toggle switches between overview and chase.
func (r *CameraRig) Toggle() {
	if r.Mode == CameraOverview {
		r.Mode = CameraChase
	} else {
		r.Mode = CameraOverview
	}
}

// Next moves the chase target to the following body, wrapping past the last
// one back to index 1.
func (r *CameraRig) Next() {
	if r.count < 2 {
		return
	}
	r.Target++
	if r.Target >= r.count {
		r.Target = 1
	}
}

// Prev moves the chase target to the previous body, skipping index 0.
func (r *CameraRig) Prev() {
	if r.count < 2 {
		return
	}
	r.Target--
	if r.Target < 1 {
		r.Target = r.count - 1
	}
}

// Select chases body i. Out-of-range indices and the central body are
// rejected and leave the rig unchanged.
func (r *CameraRig) Select(i int) bool {
	if i < 1 || i >= r.count {
		return false
	}
	r.Target = i
	r.Mode = CameraChase
	return true
}

// ZoomBy zooms in for positive steps and out for negative ones.
func (r *CameraRig) ZoomBy(steps float32) {
	r.Zoom = reMath.Clamp(r.Zoom*math32.Pow(0.9, steps), MinZoom, MaxZoom)
}

// Update recomputes the camera eye and target from the bodies' positions.
func (r *CameraRig) Update(bodies Tracked) {
	r.count = bodies.Len()
	if r.Target < 1 || r.Target >= r.count {
		r.Target = 1
	}

	cam := r.Camera
	cam.Up = reMath.Vec3Up
	if r.Mode == CameraOverview || r.count < 2 {
		cam.Eye = r.overviewEye(bodies)
		cam.Target = reMath.Vec3Zero
		return
	}

	pos := bodies.PositionOf(r.Target)
	radial := reMath.Vec3{X: pos.X, Z: pos.Z}.Normalize()
	if radial.LengthSqr() == 0 {
		radial = reMath.Vec3Right
	}
	radius := bodies.RadiusOf(r.Target)
	// the eye must stay outside the body and clear of the near plane
	floor := math32.Max(r.MinChaseOffset, (radius+cam.NearPlane)*1.1)
	back := math32.Max(r.ChaseDistance*radius*r.Zoom, floor)
	up := r.ChaseHeight * radius * r.Zoom

	cam.Eye = pos.Add(radial.Mul(back)).Add(reMath.Vec3Up.Mul(up))
	cam.Target = pos
}

// overviewEye is OverviewEye scaled by Zoom, pulled in when needed so the
// farthest body still lies inside the far plane.
func (r *CameraRig) overviewEye(bodies Tracked) reMath.Vec3 {
	eye := r.OverviewEye.Mul(r.Zoom)
	var reach float32
	for i := 0; i < bodies.Len(); i++ {
		reach = math32.Max(reach, bodies.PositionOf(i).Length()+bodies.RadiusOf(i))
	}
	limit := r.Camera.FarPlane*0.99 - reach
	if d := eye.Length(); limit > 0 && d > limit {
		eye = eye.Mul(limit / d)
	}
	return eye
}

// Describe names the current view for the HUD.
func (r *CameraRig) Describe(name func(int) string) string {
	if r.Mode == CameraOverview || r.count < 2 {
		return CameraOverview.String()
	}
	return fmt.Sprintf("%s %s", r.Mode, name(r.Target))
}
