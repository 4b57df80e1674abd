// Package lighting computes per-triangle Lambertian illumination with
// cast shadows for umbra meshes.
package lighting

import (
	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// Map holds one illumination value in [0,1] per triangle, parallel to
// the mesh's triangle table.
type Map []float64

// Lambert returns the Lambertian cosine term for a surface point with
// the given unit normal lit from source: the dot of the normal with
// the unit direction toward the source, clamped to [0,1]. Surfaces
// facing away receive 0. A zero normal (degenerate triangle) and a
// source coincident with the point both yield 0.
func Lambert(normal, point, source math3d.Vec3) float64 {
	d := source.Sub(point).Normalize()
	l := normal.Dot(d)
	if l < 0 {
		return 0
	}
	if l > 1 {
		return 1
	}
	return l
}

// TriangleIllumination returns the unshadowed illumination of the
// triangle abc lit from source, evaluated at its centroid.
func TriangleIllumination(a, b, c, source math3d.Vec3) float64 {
	return Lambert(
		math3d.TriangleNormal(a, b, c),
		math3d.TriangleCentroid(a, b, c),
		source,
	)
}

// Direct returns the illumination map of m lit from source with no
// occlusion testing. Each triangle is evaluated independently.
func Direct(m *mesh.Mesh, source math3d.Vec3) Map {
	out := make(Map, m.TriangleCount())
	for i := range out {
		a, b, c := m.Triangle(i)
		out[i] = TriangleIllumination(a, b, c, source)
	}
	return out
}
