package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"solar-system/core"
	reMath "solar-system/math"
)

// objCorner references one face corner (0-based, -1 = absent).
type objCorner struct{ v, vt, vn int }

type objObject struct {
	name  string
	faces [][3]objCorner
}

// LoadOBJ parses a Wavefront .obj file and returns its first object as a mesh.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads Wavefront OBJ data. Polygons are fan-triangulated, identical
// corners share one vertex and normals are generated when the file has none.
// Texture v is flipped so v = 0 is the top row, as CreateSphere and glTF use.
// Only the first object with faces is kept; materials are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []reMath.Vec3
		normals   []reMath.Vec3
		uvs       []reMath.Vec2
		objects   []objObject
	)
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, v)

		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, v)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: vt needs 2 components", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad texture coordinate", lineNo)
			}
			// OBJ puts v = 0 at the bottom; textures are stored top row first
			uvs = append(uvs, reMath.Vec2{X: float32(u), Y: 1 - float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, c)
			}
			for i := 1; i+1 < len(corners); i++ {
				cur.faces = append(cur.faces, [3]objCorner{corners[0], corners[i], corners[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}

	return buildOBJMesh(objects[0], positions, normals, uvs), nil
}

func parseVec3(fields []string) (reMath.Vec3, error) {
	if len(fields) < 3 {
		return reMath.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return reMath.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	return reMath.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices are
// relative to the end of the lists read so far.
func parseCorner(tok string, nv, nvt, nvn int) (objCorner, error) {
	resolve := func(s string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return -1, fmt.Errorf("bad index %q", s)
		}
		switch {
		case i > 0 && i <= n:
			return i - 1, nil
		case i < 0 && -i <= n:
			return n + i, nil
		}
		return -1, fmt.Errorf("index %d out of range (%d)", i, n)
	}

	parts := strings.Split(tok, "/")
	c := objCorner{v: -1, vt: -1, vn: -1}
	var err error
	if c.v, err = resolve(parts[0], nv); err != nil {
		return c, err
	}
	if c.v < 0 {
		return c, fmt.Errorf("face corner %q has no position", tok)
	}
	if len(parts) > 1 {
		if c.vt, err = resolve(parts[1], nvt); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 {
		if c.vn, err = resolve(parts[2], nvn); err != nil {
			return c, err
		}
	}
	return c, nil
}

func buildOBJMesh(obj objObject, positions, normals []reMath.Vec3, uvs []reMath.Vec2) *Mesh {
	lookup := map[objCorner]uint32{}
	var vertices []core.Vertex
	indices := make([]uint32, 0, len(obj.faces)*3)
	missingNormals := false

	for _, face := range obj.faces {
		for _, c := range face {
			if idx, ok := lookup[c]; ok {
				indices = append(indices, idx)
				continue
			}
			v := core.Vertex{Position: positions[c.v], Color: core.ColorWhite}
			if c.vt >= 0 {
				v.UV = uvs[c.vt]
			}
			if c.vn >= 0 {
				v.Normal = normals[c.vn]
			} else {
				missingNormals = true
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			lookup[c] = idx
			indices = append(indices, idx)
		}
	}

	if missingNormals {
		generateNormals(vertices, indices)
	}
	return NewMesh(obj.name, vertices, indices)
}

// generateNormals writes area-weighted smooth normals into vertices.
func generateNormals(vertices []core.Vertex, indices []uint32) {
	accum := make([]reMath.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := vertices[i0].Position
		n := vertices[i1].Position.Sub(p0).Cross(vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = accum[i].Normalize()
	}
}
