// Package tessellate refines umbra meshes by 1-to-4 triangle
// subdivision until every triangle fits under an area threshold.
package tessellate

import (
	"fmt"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// Subdivide splits triangle i of m at its three edge midpoints. It
// returns the midpoints, to be appended to the vertex table, and the
// four child triangles: one per corner plus the central one, all
// keeping the parent's winding. Midpoint indices start at
// m.VertexCount(). m itself is not modified.
func Subdivide(m *mesh.Mesh, i int) (verts []math3d.Vec3, tris [][3]int) {
	return subdivide(m.Vertices, m.Triangles[i], m.VertexCount())
}

// subdivide splits t over the vertex table verts, allocating midpoint
// indices from base onward in edge order ab, bc, ca.
func subdivide(verts []math3d.Vec3, t [3]int, base int) ([]math3d.Vec3, [][3]int) {
	a, b, c := verts[t[0]], verts[t[1]], verts[t[2]]
	mab := a.Add(b).Scale(0.5)
	mbc := b.Add(c).Scale(0.5)
	mca := c.Add(a).Scale(0.5)

	iab, ibc, ica := base, base+1, base+2
	return []math3d.Vec3{mab, mbc, mca}, [][3]int{
		{t[0], iab, ica},
		{t[1], ibc, iab},
		{t[2], ica, ibc},
		{iab, ibc, ica},
	}
}

// Refine returns a new mesh in which no triangle's area exceeds
// minArea. Oversized triangles are split 1-to-4 and their children
// re-checked, through an explicit worklist rather than recursion.
// Each split quarters the area, so the split depth of any triangle is
// bounded by log4 of its area over minArea. Midpoints of shared edges
// are appended once per split and not merged across neighbors; run
// mesh.DedupVertices on the result if coincident vertices matter.
//
// minArea must be positive, derived from the mesh itself (for example
// a fraction of MaxTriangleArea); Refine panics otherwise, since the
// termination bound collapses.
func Refine(m *mesh.Mesh, minArea float64) *mesh.Mesh {
	if !(minArea > 0) {
		panic(fmt.Sprintf("tessellate: minimum area %v is not positive", minArea))
	}

	verts := make([]math3d.Vec3, m.VertexCount())
	copy(verts, m.Vertices)

	queue := make([][3]int, 0, 2*m.TriangleCount())
	queue = append(queue, m.Triangles...)
	out := make([][3]int, 0, m.TriangleCount())

	for head := 0; head < len(queue); head++ {
		t := queue[head]
		a, b, c := verts[t[0]], verts[t[1]], verts[t[2]]
		if math3d.TriangleArea(a, b, c) <= minArea {
			out = append(out, t)
			continue
		}
		mids, children := subdivide(verts, t, len(verts))
		verts = append(verts, mids...)
		queue = append(queue, children...)
	}

	return &mesh.Mesh{Name: m.Name, Vertices: verts, Triangles: out}
}
