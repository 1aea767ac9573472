package scene

import (
	"github.com/chewxy/math32"

	"solar-system/math"
)

// ComputeTangents fills per-vertex tangent and bitangent vectors for
// tangent-space normal mapping. Triangles with a degenerate UV area are
// skipped; vertices left without a tangent get an arbitrary one
// perpendicular to the normal.
func ComputeTangents(m *Mesh) {
	for i := range m.Vertices {
		m.Vertices[i].Tangent = math.Vec3{}
		m.Vertices[i].Bitangent = math.Vec3{}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV.X-v0.UV.X, v1.UV.Y-v0.UV.Y
		du2, dv2 := v2.UV.X-v0.UV.X, v2.UV.Y-v0.UV.Y

		det := du1*dv2 - du2*dv1
		if math32.Abs(det) < 1e-12 {
			continue
		}
		r := 1 / det
		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))
		b := e2.Mul(du1 * r).Sub(e1.Mul(du2 * r))

		for _, idx := range [3]uint32{i0, i1, i2} {
			m.Vertices[idx].Tangent = m.Vertices[idx].Tangent.Add(t)
			m.Vertices[idx].Bitangent = m.Vertices[idx].Bitangent.Add(b)
		}
	}

	// Gram-Schmidt against the normal.
	for i := range m.Vertices {
		v := &m.Vertices[i]
		n := v.Normal
		t := v.Tangent.Sub(n.Mul(n.Dot(v.Tangent)))
		if t.LengthSqr() < 1e-8 {
			if math32.Abs(n.X) < 0.9 {
				t = math.Vec3Right.Sub(n.Mul(n.X))
			} else {
				t = math.Vec3Up.Sub(n.Mul(n.Y))
			}
		}
		v.Tangent = t.Normalize()

		b := v.Bitangent
		if b.LengthSqr() < 1e-8 {
			b = n.Cross(v.Tangent)
		}
		v.Bitangent = b.Normalize()
	}
	m.HasTangents = true
}
