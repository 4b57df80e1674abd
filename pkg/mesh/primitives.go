package mesh

import "github.com/nmocellin/umbra/pkg/math3d"

// Pyramid builds a square-base pyramid sitting on the z=0 plane: base
// corners at (0,0,0), (base,0,0), (base,base,0), (0,base,0) and apex
// above the base center at height. All six faces wind outward.
func Pyramid(base, height float64) *Mesh {
	return &Mesh{
		Name: "pyramid",
		Vertices: []math3d.Vec3{
			math3d.V3(0, 0, 0),
			math3d.V3(base, 0, 0),
			math3d.V3(base, base, 0),
			math3d.V3(0, base, 0),
			math3d.V3(base/2, base/2, height),
		},
		Triangles: [][3]int{
			{0, 2, 1},
			{0, 3, 2},
			{4, 0, 1},
			{4, 1, 2},
			{4, 2, 3},
			{4, 3, 0},
		},
	}
}

// Ground builds a rectangle from two opposite corners p1 and p2. The
// two in-between corners take p1's altitude, and with p2 above and to
// the right of p1 the two triangles wind upward.
func Ground(p1, p2 math3d.Vec3) *Mesh {
	return &Mesh{
		Name: "ground",
		Vertices: []math3d.Vec3{
			p1,
			math3d.V3(p2.X, p1.Y, p1.Z),
			p2,
			math3d.V3(p1.X, p2.Y, p1.Z),
		},
		Triangles: [][3]int{
			{0, 1, 2},
			{0, 2, 3},
		},
	}
}
