package lighting

import (
	"testing"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

func TestShadowedSingleTriangleNoSelfShadow(t *testing.T) {
	// A lone lit triangle must never occlude itself: shadowed output
	// equals the direct output exactly.
	m := &mesh.Mesh{
		Vertices: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(1, 0, 0),
			math3d.V3(0, 1, 0),
		},
		Triangles: [][3]int{{0, 1, 2}},
	}
	source := math3d.V3(0.2, 0.3, 7)

	direct := Direct(m, source)
	shadowed := Shadowed(m, source, Options{})
	if direct[0] <= 0 {
		t.Fatalf("fixture not lit: direct = %v", direct[0])
	}
	if shadowed[0] != direct[0] {
		t.Errorf("shadowed = %v, direct = %v; triangle occluded itself", shadowed[0], direct[0])
	}
}

func TestShadowedBackFace(t *testing.T) {
	// Winding toward -z with the light at +z: facing away, always 0.
	m := &mesh.Mesh{
		Vertices: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(0, 1, 0),
			math3d.V3(1, 0, 0),
		},
		Triangles: [][3]int{{0, 1, 2}},
	}
	im := Shadowed(m, math3d.V3(0, 0, 10), Options{})
	if im[0] != 0 {
		t.Errorf("back face illumination = %v, want 0", im[0])
	}
}

func TestShadowedUnitSquareUnoccluded(t *testing.T) {
	m := unitSquare(0)
	im := Shadowed(m, math3d.V3(0, 0, 10), Options{})
	for i, v := range im {
		if v < 0.99 || v > 1 {
			t.Errorf("triangle %d = %v, want ~1.0", i, v)
		}
	}
}

func TestShadowedStackedSquares(t *testing.T) {
	// A second square 5 above the first: the lower one sits fully in
	// its shadow, the upper one stays lit.
	m := mesh.Concatenate(unitSquare(0), unitSquare(5))
	source := math3d.V3(0, 0, 10)

	im := Shadowed(m, source, Options{})
	direct := Direct(m, source)

	for i := 0; i < 2; i++ {
		if im[i] != 0 {
			t.Errorf("lower triangle %d = %v, want 0", i, im[i])
		}
		if direct[i] <= 0.99 {
			t.Errorf("lower triangle %d direct = %v, fixture broken", i, direct[i])
		}
	}
	for i := 2; i < 4; i++ {
		if im[i] != direct[i] {
			t.Errorf("upper triangle %d = %v, want unshadowed %v", i, im[i], direct[i])
		}
		if im[i] < 0.99 {
			t.Errorf("upper triangle %d = %v, want ~1.0", i, im[i])
		}
	}
}

func TestShadowedPyramid(t *testing.T) {
	// Light high in the +x+y octant: the downward base faces away,
	// the sides turned toward the light stay lit.
	m := mesh.Pyramid(2, 3)
	im := Shadowed(m, math3d.V3(6, 6, 9), Options{})

	if im[0] != 0 || im[1] != 0 {
		t.Errorf("base illumination = %v, %v, want 0", im[0], im[1])
	}
	lit := 0
	for _, v := range im[2:] {
		if v > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no side face lit")
	}
	for i, v := range im {
		if v < 0 || v > 1 {
			t.Errorf("triangle %d = %v out of [0,1]", i, v)
		}
	}
}

func TestShadowedParallelMatchesSequential(t *testing.T) {
	scene := mesh.Concatenate(
		mesh.Concatenate(unitSquare(0), unitSquare(5)),
		mesh.Pyramid(0.5, 0.5),
	)
	source := math3d.V3(0.5, 0.5, 10)

	seq := Shadowed(scene, source, Options{})
	for _, workers := range []int{2, 4, 16} {
		par := Shadowed(scene, source, Options{Workers: workers})
		if len(par) != len(seq) {
			t.Fatalf("workers=%d: length %d, want %d", workers, len(par), len(seq))
		}
		for i := range seq {
			if par[i] != seq[i] {
				t.Errorf("workers=%d: triangle %d = %v, sequential %v",
					workers, i, par[i], seq[i])
			}
		}
	}
}

func TestShadowedProgress(t *testing.T) {
	m := mesh.Concatenate(unitSquare(0), unitSquare(5))

	for _, workers := range []int{0, 3} {
		var calls []int
		Shadowed(m, math3d.V3(0, 0, 10), Options{
			Workers: workers,
			Progress: func(done, total int) {
				if total != m.TriangleCount() {
					t.Errorf("workers=%d: total = %d, want %d", workers, total, m.TriangleCount())
				}
				calls = append(calls, done)
			},
		})
		if len(calls) != m.TriangleCount() {
			t.Fatalf("workers=%d: %d progress calls, want %d", workers, len(calls), m.TriangleCount())
		}
		for i, done := range calls {
			if done != i+1 {
				t.Errorf("workers=%d: call %d reported done=%d", workers, i, done)
			}
		}
	}
}
