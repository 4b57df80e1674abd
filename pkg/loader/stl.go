package loader

import (
	"fmt"
	"io"

	"github.com/hschendel/stl"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// LoadSTL reads an STL file, binary or ASCII.
func LoadSTL(path string) (*mesh.Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	name := solid.Name
	if name == "" {
		name = baseName(path)
	}
	return fromSolid(name, solid)
}

// ReadSTL reads STL data from r. Seeking is needed to sniff binary
// versus ASCII.
func ReadSTL(name string, r io.ReadSeeker) (*mesh.Mesh, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	if solid.Name != "" {
		name = solid.Name
	}
	return fromSolid(name, solid)
}

// fromSolid converts STL's independent-triangle soup to an indexed
// mesh. Corners at exactly the same position collapse into one shared
// vertex; facets that lose a corner to the collapse are degenerate in
// the file and are dropped.
func fromSolid(name string, solid *stl.Solid) (*mesh.Mesh, error) {
	m := &mesh.Mesh{Name: name}
	index := make(map[math3d.Vec3]int)

	for _, tri := range solid.Triangles {
		var idx [3]int
		for i, v := range tri.Vertices {
			p := math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
			j, ok := index[p]
			if !ok {
				j = len(m.Vertices)
				m.Vertices = append(m.Vertices, p)
				index[p] = j
			}
			idx[i] = j
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
			continue
		}
		m.Triangles = append(m.Triangles, idx)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("stl %s: %w", name, err)
	}
	return m, nil
}
