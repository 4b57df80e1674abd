package render

import (
	"math"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// Rasterizer fills triangles into a framebuffer with depth testing.
// Triangles are drawn double sided so a surface stays visible from
// every orbit angle.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)
}

// NewRasterizer creates a rasterizer targeting the given framebuffer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
	}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex projected to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // Depth (for Z-buffer)
	W    float64 // Clip-space W
}

// DrawMeshShaded fills every triangle of the mesh with the colormap sample
// for its scalar value. values holds one entry per triangle and each is
// clamped to [0, 1] by the colormap.
func (r *Rasterizer) DrawMeshShaded(m *mesh.Mesh, values []float64, transform math3d.Mat4) {
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		r.DrawTriangleFlat(
			transform.MulVec3(a),
			transform.MulVec3(b),
			transform.MulVec3(c),
			Hot(values[i]),
		)
	}
}

// DrawTriangleFlat rasterizes a single triangle in one color.
// Both faces are drawn; there is no backface culling.
func (r *Rasterizer) DrawTriangleFlat(v0, v1, v2 math3d.Vec3, c Color) {
	// Transform vertices to screen space
	var sv [3]screenVertex
	allBehind := true

	viewProj := r.camera.ViewProjectionMatrix()

	for i, p := range [3]math3d.Vec3{v0, v1, v2} {
		clipPos := viewProj.MulVec4(math3d.V4FromV3(p, 1))

		if clipPos.W > 0 {
			allBehind = false
		}

		// Perspective divide
		if clipPos.W != 0 {
			sv[i].X = clipPos.X / clipPos.W
			sv[i].Y = clipPos.Y / clipPos.W
			sv[i].Z = clipPos.Z / clipPos.W
		}
		sv[i].W = clipPos.W

		// NDC to screen coordinates
		sv[i].X = (sv[i].X + 1) * 0.5 * float64(r.Width())
		sv[i].Y = (1 - sv[i].Y) * 0.5 * float64(r.Height()) // Y flipped
	}

	// Skip if entirely behind camera
	if allBehind {
		return
	}

	// Zero screen area has nothing to fill and breaks the barycentric solve.
	e1x, e1y := sv[1].X-sv[0].X, sv[1].Y-sv[0].Y
	e2x, e2y := sv[2].X-sv[0].X, sv[2].Y-sv[0].Y
	if e1x*e2y-e1y*e2x == 0 {
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	// Rasterize using barycentric coordinates
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)

			// Check if inside triangle
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			// Interpolate depth
			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z

			// Z-buffer test
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, c)
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
