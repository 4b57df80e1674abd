package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func vec3Near(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

func TestTriangleCentroid(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec3
		want    Vec3
	}{
		{"origin corner", V3(0, 0, 0), V3(3, 0, 0), V3(0, 3, 0), V3(1, 1, 0)},
		{"off plane", V3(1, 1, 1), V3(4, 1, 1), V3(1, 4, 7), V3(2, 2, 3)},
		{"degenerate point", V3(2, -1, 5), V3(2, -1, 5), V3(2, -1, 5), V3(2, -1, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TriangleCentroid(tt.a, tt.b, tt.c)
			if !vec3Near(got, tt.want, eps) {
				t.Errorf("TriangleCentroid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriangleCentroidOrderIndependent(t *testing.T) {
	a, b, c := V3(1, 2, 3), V3(-4, 0, 2), V3(7, 7, -1)
	ref := TriangleCentroid(a, b, c)
	perms := [][3]Vec3{
		{b, c, a}, {c, a, b}, {b, a, c}, {a, c, b}, {c, b, a},
	}
	for _, p := range perms {
		if got := TriangleCentroid(p[0], p[1], p[2]); !vec3Near(got, ref, eps) {
			t.Errorf("centroid changed under permutation: %v vs %v", got, ref)
		}
	}
}

func TestTriangleNormal(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec3
		want    Vec3
	}{
		{"xy plane ccw", V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"xy plane cw", V3(0, 0, 0), V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1)},
		{"xz plane", V3(0, 0, 0), V3(0, 0, 1), V3(1, 0, 0), V3(0, 1, 0)},
		{"collinear", V3(0, 0, 0), V3(1, 1, 1), V3(2, 2, 2), V3(0, 0, 0)},
		{"coincident", V3(5, 5, 5), V3(5, 5, 5), V3(5, 5, 5), V3(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TriangleNormal(tt.a, tt.b, tt.c)
			if !vec3Near(got, tt.want, eps) {
				t.Errorf("TriangleNormal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriangleNormalUnitLength(t *testing.T) {
	a, b, c := V3(1, 2, 3), V3(400, 5, -6), V3(-7, 800, 9)
	n := TriangleNormal(a, b, c)
	if l := n.Len(); math.Abs(l-1) > eps {
		t.Errorf("normal length = %v, want 1", l)
	}
}

func TestTriangleNormalWinding(t *testing.T) {
	a, b, c := V3(0, 0, 0), V3(2, 1, 0), V3(0, 3, 1)
	n := TriangleNormal(a, b, c)

	// Cyclic rotations preserve the normal.
	if got := TriangleNormal(b, c, a); !vec3Near(got, n, eps) {
		t.Errorf("normal changed under cyclic rotation: %v vs %v", got, n)
	}
	if got := TriangleNormal(c, a, b); !vec3Near(got, n, eps) {
		t.Errorf("normal changed under cyclic rotation: %v vs %v", got, n)
	}

	// Swapping two vertices flips it.
	if got := TriangleNormal(a, c, b); !vec3Near(got, n.Negate(), eps) {
		t.Errorf("normal did not flip under swap: %v vs %v", got, n.Negate())
	}
}

func TestTriangleArea(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Vec3
		want    float64
	}{
		{"right triangle", V3(0, 0, 0), V3(2, 0, 0), V3(0, 2, 0), 2},
		{"half unit square", V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0), 0.5},
		{"3-4-5 legs", V3(0, 0, 0), V3(3, 0, 0), V3(0, 4, 0), 6},
		{"off axis", V3(1, 1, 1), V3(2, 1, 1), V3(1, 2, 1), 0.5},
		{"collinear", V3(0, 0, 0), V3(1, 2, 3), V3(2, 4, 6), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TriangleArea(tt.a, tt.b, tt.c)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("TriangleArea = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriangleAreaOrderIndependent(t *testing.T) {
	a, b, c := V3(1, -2, 0.5), V3(3, 4, -1), V3(-2, 0, 6)
	ref := TriangleArea(a, b, c)
	if ref <= 0 {
		t.Fatalf("expected positive area, got %v", ref)
	}
	perms := [][3]Vec3{
		{b, c, a}, {c, a, b}, {b, a, c}, {a, c, b}, {c, b, a},
	}
	for _, p := range perms {
		if got := TriangleArea(p[0], p[1], p[2]); math.Abs(got-ref) > eps {
			t.Errorf("area changed under permutation: %v vs %v", got, ref)
		}
	}
}
