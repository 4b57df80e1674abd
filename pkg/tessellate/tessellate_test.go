package tessellate

import (
	"math"
	"testing"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

const eps = 1e-12

func singleTriangle() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(2, 0, 0),
			math3d.V3(0, 2, 0),
		},
		Triangles: [][3]int{{0, 1, 2}},
	}
}

func TestSubdivide(t *testing.T) {
	m := singleTriangle()
	verts, tris := Subdivide(m, 0)

	wantVerts := []math3d.Vec3{
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0),
	}
	if len(verts) != 3 {
		t.Fatalf("got %d midpoints, want 3", len(verts))
	}
	for i, v := range verts {
		if v != wantVerts[i] {
			t.Errorf("midpoint %d = %v, want %v", i, v, wantVerts[i])
		}
	}

	wantTris := [][3]int{
		{0, 3, 5},
		{1, 4, 3},
		{2, 5, 4},
		{3, 4, 5},
	}
	if len(tris) != 4 {
		t.Fatalf("got %d children, want 4", len(tris))
	}
	for i, tri := range tris {
		if tri != wantTris[i] {
			t.Errorf("child %d = %v, want %v", i, tri, wantTris[i])
		}
	}

	// The source mesh is untouched.
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Errorf("source mesh modified: %d verts, %d tris", m.VertexCount(), m.TriangleCount())
	}
}

// applySubdivide builds the mesh obtained by replacing triangle i of m
// with its four children.
func applySubdivide(m *mesh.Mesh, i int) *mesh.Mesh {
	verts, tris := Subdivide(m, i)
	out := m.Clone()
	out.Vertices = append(out.Vertices, verts...)
	out.Triangles = append(out.Triangles[:i:i], out.Triangles[i+1:]...)
	out.Triangles = append(out.Triangles, tris...)
	return out
}

func TestSubdivideConservesArea(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []math3d.Vec3{
			math3d.V3(0.3, -1, 2),
			math3d.V3(4, 0.5, -0.7),
			math3d.V3(-2, 3, 1),
		},
		Triangles: [][3]int{{0, 1, 2}},
	}
	parent := m.Area(0)

	split := applySubdivide(m, 0)
	if err := split.Validate(); err != nil {
		t.Fatalf("split mesh invalid: %v", err)
	}
	var sum float64
	for i := range split.Triangles {
		sum += split.Area(i)
	}
	if math.Abs(sum-parent) > eps*parent {
		t.Errorf("children area sum = %v, parent = %v", sum, parent)
	}

	// Each child lies in the parent's plane with the parent's winding.
	n := m.Normal(0)
	for i := range split.Triangles {
		if cn := split.Normal(i); cn.Sub(n).Len() > 1e-9 {
			t.Errorf("child %d normal = %v, parent %v", i, cn, n)
		}
	}
}

func TestSubdivideKeepsParentVertices(t *testing.T) {
	m := singleTriangle()
	_, tris := Subdivide(m, 0)

	referenced := map[int]bool{}
	for _, tri := range tris {
		for _, idx := range tri {
			referenced[idx] = true
		}
	}
	for _, idx := range m.Triangles[0] {
		if !referenced[idx] {
			t.Errorf("parent vertex %d not referenced by any child", idx)
		}
	}
}

func TestRefineCount(t *testing.T) {
	// Area 2 with threshold area/10 = 0.2: one split leaves 0.5 per
	// child, a second leaves 0.125, so exactly two rounds and 16
	// triangles.
	m := singleTriangle()
	minArea := m.Area(0) / 10

	out := Refine(m, minArea)
	if err := out.Validate(); err != nil {
		t.Fatalf("refined mesh invalid: %v", err)
	}
	if out.TriangleCount() != 16 {
		t.Fatalf("TriangleCount = %d, want 16", out.TriangleCount())
	}
	// 3 original vertices plus 3 midpoints for each of the 5 splits,
	// shared-edge duplicates kept.
	if out.VertexCount() != 18 {
		t.Errorf("VertexCount = %d, want 18", out.VertexCount())
	}

	var sum float64
	for i := range out.Triangles {
		if a := out.Area(i); a > minArea+eps {
			t.Errorf("triangle %d area %v exceeds threshold %v", i, a, minArea)
		} else {
			sum += a
		}
	}
	if math.Abs(sum-2) > 1e-9 {
		t.Errorf("total area = %v, want 2", sum)
	}
}

func TestRefineDedupCombination(t *testing.T) {
	// Two rounds of subdivision over one triangle touch 15 distinct
	// positions; everything beyond that is shared-edge duplication.
	out := Refine(singleTriangle(), 0.2)
	d := out.DedupVertices(0)
	if d.VertexCount() != 15 {
		t.Errorf("deduped VertexCount = %d, want 15", d.VertexCount())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("deduped mesh invalid: %v", err)
	}
}

func TestRefineIdempotent(t *testing.T) {
	m := mesh.Pyramid(2, 1.5)
	minArea := m.MaxTriangleArea() / 10

	once := Refine(m, minArea)
	twice := Refine(once, minArea)
	if twice.TriangleCount() != once.TriangleCount() {
		t.Errorf("second refine changed triangle count: %d -> %d",
			once.TriangleCount(), twice.TriangleCount())
	}
}

func TestRefineNoopBelowThreshold(t *testing.T) {
	m := singleTriangle()
	out := Refine(m, m.Area(0))

	if out.TriangleCount() != 1 || out.VertexCount() != 3 {
		t.Fatalf("counts changed: %d verts, %d tris", out.VertexCount(), out.TriangleCount())
	}
	if out.Triangles[0] != m.Triangles[0] {
		t.Errorf("triangle rewritten: %v", out.Triangles[0])
	}
}

func TestRefineLeavesDegenerateAlone(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(1, 1, 1),
			math3d.V3(2, 2, 2),
			math3d.V3(0, 0, 0),
			math3d.V3(3, 0, 0),
			math3d.V3(0, 3, 0),
		},
		Triangles: [][3]int{
			{0, 1, 2}, // zero area
			{3, 4, 5}, // area 4.5
		},
	}
	out := Refine(m, 1.2)

	// The degenerate triangle passes the threshold untouched; the real
	// one splits once (4.5 -> 1.125 per child).
	if out.TriangleCount() != 5 {
		t.Fatalf("TriangleCount = %d, want 5", out.TriangleCount())
	}
	if out.Triangles[0] != [3]int{0, 1, 2} {
		t.Errorf("degenerate triangle rewritten: %v", out.Triangles[0])
	}
}

func TestRefineConservesTotalArea(t *testing.T) {
	m := mesh.Pyramid(3, 2)
	var before float64
	for i := range m.Triangles {
		before += m.Area(i)
	}

	out := Refine(m, m.MaxTriangleArea()/7)
	var after float64
	for i := range out.Triangles {
		after += out.Area(i)
	}
	if math.Abs(after-before) > 1e-9 {
		t.Errorf("total area changed: %v -> %v", before, after)
	}
}

func TestRefinePanicsOnNonPositiveThreshold(t *testing.T) {
	for _, minArea := range []float64{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Refine(minArea=%v) did not panic", minArea)
				}
			}()
			Refine(singleTriangle(), minArea)
		}()
	}
}
