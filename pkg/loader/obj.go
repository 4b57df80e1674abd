package loader

import (
	"fmt"
	"io"

	"github.com/g3n/engine/loader/obj"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// LoadOBJ reads a Wavefront OBJ file. Material libraries referenced by
// the file are irrelevant here and any decoder warnings about them are
// ignored.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	dec, err := obj.Decode(path, "")
	if err != nil {
		return nil, fmt.Errorf("decode obj: %w", err)
	}
	return fromOBJ(baseName(path), dec)
}

// ReadOBJ reads OBJ data from r, with no material library.
func ReadOBJ(name string, r io.Reader) (*mesh.Mesh, error) {
	dec, err := obj.DecodeReader(r, nil)
	if err != nil {
		return nil, fmt.Errorf("decode obj: %w", err)
	}
	return fromOBJ(name, dec)
}

// fromOBJ flattens every object's faces over the decoder's shared
// vertex array. Polygon faces become triangle fans anchored at their
// first corner.
func fromOBJ(name string, dec *obj.Decoder) (*mesh.Mesh, error) {
	m := &mesh.Mesh{Name: name}
	for i := 0; i+2 < len(dec.Vertices); i += 3 {
		m.Vertices = append(m.Vertices, math3d.V3(
			float64(dec.Vertices[i]),
			float64(dec.Vertices[i+1]),
			float64(dec.Vertices[i+2]),
		))
	}
	for _, o := range dec.Objects {
		for _, f := range o.Faces {
			if len(f.Vertices) < 3 {
				continue
			}
			for k := 1; k+1 < len(f.Vertices); k++ {
				appendTriangle(m, [3]int{
					f.Vertices[0],
					f.Vertices[k],
					f.Vertices[k+1],
				})
			}
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("obj %s: %w", name, err)
	}
	return m, nil
}
