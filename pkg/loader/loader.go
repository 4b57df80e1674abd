// Package loader reads triangle meshes from interchange formats and
// hands the kernel validated indexed geometry. Only positions and
// triangle indices survive ingestion; normals are recomputed per face
// by the lighting pipeline and materials are ignored.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nmocellin/umbra/pkg/mesh"
)

// Load reads the model at path, picking the decoder from the file
// extension: .stl, .gltf, .glb, or .obj.
func Load(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return LoadSTL(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	case ".obj":
		return LoadOBJ(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}

// baseName strips the directory and extension from a model path.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
