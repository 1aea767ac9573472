package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"solar-system/core"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32

	// HasTangents is set once ComputeTangents has filled the tangent frame.
	HasTangents bool

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

func NewMesh(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
}

// TriangleCount is the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that the mesh is non-empty and every index is in range.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh %q is empty", m.Name)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh %q: index %d at %d out of range (%d vertices)", m.Name, idx, i, n)
		}
	}
	return nil
}

// LoadMesh loads the first mesh of an OBJ or glTF file, chosen by extension.
// Tangents are computed before returning.
func LoadMesh(path string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = LoadOBJ(path)
	case ".gltf", ".glb":
		mesh, err = LoadGLTFMesh(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	ComputeTangents(mesh)
	return mesh, nil
}

// LoadMeshOrSphere loads path, or builds a unit sphere when the file does not
// exist. The returned flag reports whether the fallback was used.
func LoadMeshOrSphere(path string, segments, rings int) (*Mesh, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		mesh := CreateSphere(1, segments, rings)
		ComputeTangents(mesh)
		return mesh, true, nil
	}
	mesh, err := LoadMesh(path)
	return mesh, false, err
}
