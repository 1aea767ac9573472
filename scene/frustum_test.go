package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solar-system/math"
)

func TestFrustumIntersectsSphere(t *testing.T) {
	cam := NewCamera(60, 1, 0.1, 100)
	cam.Eye = math.NewVec3(0, 0, 10)
	cam.Target = math.Vec3Zero
	f := FrustumFromVP(cam.ViewMatrix().Mul(cam.ProjectionMatrix()))

	tests := []struct {
		name   string
		center math.Vec3
		radius float32
		want   bool
	}{
		{"origin", math.Vec3Zero, 1, true},
		{"behind the eye", math.NewVec3(0, 0, 20), 1, false},
		{"far off to the side", math.NewVec3(50, 0, 0), 1, false},
		{"straddling the edge", math.NewVec3(6.5, 0, 0), 1, true},
		{"past the far plane", math.NewVec3(0, 0, -120), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IntersectsSphere(tt.center, tt.radius))
		})
	}
}
