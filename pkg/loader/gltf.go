package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// LoadGLTF reads a glTF or GLB file. Triangle primitives of every
// mesh in the document are concatenated into one indexed mesh.
func LoadGLTF(path string) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	m := &mesh.Mesh{Name: baseName(path)}
	for _, gm := range doc.Meshes {
		if err := appendPrimitives(doc, gm, m); err != nil {
			return nil, fmt.Errorf("gltf mesh %q: %w", gm.Name, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("gltf %s: %w", path, err)
	}
	return m, nil
}

// appendPrimitives decodes the triangle primitives of one glTF mesh
// into m. Positions and indices are read through the modeler helpers;
// unindexed primitives are taken as sequential triangles.
func appendPrimitives(doc *gltf.Document, gm *gltf.Mesh, m *mesh.Mesh) error {
	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		base := m.VertexCount()
		for _, p := range positions {
			m.Vertices = append(m.Vertices,
				math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				appendTriangle(m, [3]int{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				appendTriangle(m, [3]int{base + i, base + i + 1, base + i + 2})
			}
		}
	}
	return nil
}

// appendTriangle adds t unless it references a corner twice.
func appendTriangle(m *mesh.Mesh, t [3]int) {
	if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
		return
	}
	m.Triangles = append(m.Triangles, t)
}
