// Package mesh provides the indexed triangle surface representation for umbra.
package mesh

import (
	"fmt"
	"math"

	"github.com/nmocellin/umbra/pkg/math3d"
)

// Mesh represents a triangulated surface: a vertex table plus triangles
// referencing it by index. Meshes are built by a loader, a primitive
// builder, or the tessellation engine, and are not mutated afterwards;
// pipeline stages that change geometry produce a new Mesh.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Triangles [][3]int
}

// Triangle returns the corner positions of triangle i in winding order.
// Panics if i or a stored index is out of range; Validate catches the
// latter up front.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	t := m.Triangles[i]
	return m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
}

// Centroid returns the centroid of triangle i.
func (m *Mesh) Centroid(i int) math3d.Vec3 {
	return math3d.TriangleCentroid(m.Triangle(i))
}

// Normal returns the unit normal of triangle i, zero if degenerate.
func (m *Mesh) Normal(i int) math3d.Vec3 {
	return math3d.TriangleNormal(m.Triangle(i))
}

// Area returns the area of triangle i.
func (m *Mesh) Area(i int) float64 {
	return math3d.TriangleArea(m.Triangle(i))
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Bounds returns the axis-aligned bounding box of the vertex table.
// An empty mesh has a zero box.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	min, max := m.Bounds()
	return max.Sub(min)
}

// MaxTriangleArea returns the largest triangle area in the mesh, zero
// for an empty mesh. Degenerate triangles contribute zero and so never
// dominate. Callers derive refinement thresholds from this rather than
// from fixed constants.
func (m *Mesh) MaxTriangleArea() float64 {
	var max float64
	for i := range m.Triangles {
		if a := m.Area(i); a > max {
			max = a
		}
	}
	return max
}

// Validate checks the triangle table against the vertex table: every
// index must be in range and the three indices of a triangle must be
// distinct. A nil error means the mesh satisfies the invariants the
// rest of the pipeline assumes.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= n {
				return fmt.Errorf("triangle %d: vertex index %d out of range [0,%d)", i, idx, n)
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return fmt.Errorf("triangle %d: repeated vertex index in %v", i, t)
		}
	}
	return nil
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Triangles, m.Triangles)
	return clone
}

// Concatenate merges two meshes into a new one: a's vertices followed
// by b's, a's triangles followed by b's with every index offset by
// a's vertex count. Coincident vertices across the seam are kept as
// they are; see DedupVertices.
func Concatenate(a, b *Mesh) *Mesh {
	out := &Mesh{
		Name:      a.Name,
		Vertices:  make([]math3d.Vec3, 0, len(a.Vertices)+len(b.Vertices)),
		Triangles: make([][3]int, 0, len(a.Triangles)+len(b.Triangles)),
	}
	out.Vertices = append(out.Vertices, a.Vertices...)
	out.Vertices = append(out.Vertices, b.Vertices...)
	out.Triangles = append(out.Triangles, a.Triangles...)
	off := len(a.Vertices)
	for _, t := range b.Triangles {
		out.Triangles = append(out.Triangles, [3]int{t[0] + off, t[1] + off, t[2] + off})
	}
	return out
}

// DedupVertices returns a copy of the mesh with coincident vertices
// merged and triangle indices rewritten. Vertices are coincident when
// their coordinates quantized by eps agree; eps <= 0 merges exact
// duplicates only. Triangle count and order are unchanged, so any
// illumination map stays parallel to the result.
func (m *Mesh) DedupVertices(eps float64) *Mesh {
	out := &Mesh{
		Name:      m.Name,
		Triangles: make([][3]int, len(m.Triangles)),
	}
	remap := make([]int, len(m.Vertices))
	if eps > 0 {
		seen := make(map[[3]int64]int, len(m.Vertices))
		for i, v := range m.Vertices {
			k := [3]int64{
				int64(math.Round(v.X / eps)),
				int64(math.Round(v.Y / eps)),
				int64(math.Round(v.Z / eps)),
			}
			j, ok := seen[k]
			if !ok {
				j = len(out.Vertices)
				out.Vertices = append(out.Vertices, v)
				seen[k] = j
			}
			remap[i] = j
		}
	} else {
		seen := make(map[math3d.Vec3]int, len(m.Vertices))
		for i, v := range m.Vertices {
			j, ok := seen[v]
			if !ok {
				j = len(out.Vertices)
				out.Vertices = append(out.Vertices, v)
				seen[v] = j
			}
			remap[i] = j
		}
	}
	for i, t := range m.Triangles {
		out.Triangles[i] = [3]int{remap[t[0]], remap[t[1]], remap[t[2]]}
	}
	return out
}
