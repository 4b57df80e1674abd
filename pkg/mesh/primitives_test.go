package mesh

import (
	"math"
	"testing"

	"github.com/nmocellin/umbra/pkg/math3d"
)

func TestPyramid(t *testing.T) {
	m := Pyramid(2, 3)
	if m.VertexCount() != 5 || m.TriangleCount() != 6 {
		t.Fatalf("counts = %d verts, %d tris", m.VertexCount(), m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid pyramid: %v", err)
	}
	if apex := m.Vertices[4]; apex != math3d.V3(1, 1, 3) {
		t.Errorf("apex = %v, want (1,1,3)", apex)
	}

	// Both base triangles face down, away from the apex.
	for i := range 2 {
		if n := m.Normal(i); !vecNear(n, math3d.V3(0, 0, -1)) {
			t.Errorf("base normal %d = %v, want (0,0,-1)", i, n)
		}
	}

	// Every face winds outward: its normal points away from the solid's
	// center.
	center := m.Center()
	for i := range m.Triangles {
		outward := m.Centroid(i).Sub(center)
		if d := m.Normal(i).Dot(outward); d <= 0 {
			t.Errorf("face %d winds inward (dot %v)", i, d)
		}
	}
}

func TestPyramidBaseArea(t *testing.T) {
	m := Pyramid(4, 1)
	if got := m.Area(0) + m.Area(1); math.Abs(got-16) > eps {
		t.Errorf("base area = %v, want 16", got)
	}
}

func TestGround(t *testing.T) {
	m := Ground(math3d.V3(-1, -2, 0.5), math3d.V3(3, 4, 0.5))
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("counts = %d verts, %d tris", m.VertexCount(), m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid ground: %v", err)
	}

	// Flat rectangle at the shared altitude, facing up.
	for i := range m.Triangles {
		if n := m.Normal(i); !vecNear(n, math3d.V3(0, 0, 1)) {
			t.Errorf("normal %d = %v, want (0,0,1)", i, n)
		}
	}
	if got := m.Area(0) + m.Area(1); math.Abs(got-24) > eps {
		t.Errorf("area = %v, want 24", got)
	}
	min, max := m.Bounds()
	if min != math3d.V3(-1, -2, 0.5) || max != math3d.V3(3, 4, 0.5) {
		t.Errorf("bounds = %v, %v", min, max)
	}
}
