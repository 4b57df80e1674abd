package render

import (
	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// DrawMeshWireframe draws every triangle edge of the mesh.
// Lines are drawn over whatever is already in the framebuffer, without
// depth testing.
func (r *Rasterizer) DrawMeshWireframe(m *mesh.Mesh, transform math3d.Mat4, c Color) {
	for i := 0; i < m.TriangleCount(); i++ {
		v0, v1, v2 := m.Triangle(i)

		w0 := transform.MulVec3(v0)
		w1 := transform.MulVec3(v1)
		w2 := transform.MulVec3(v2)

		r.drawLine3D(w0, w1, c)
		r.drawLine3D(w1, w2, c)
		r.drawLine3D(w2, w0, c)
	}
}

// DrawMeshNormals draws each face normal as a short segment from the
// triangle centroid. Segment length scales with the triangle so refined
// meshes keep readable whiskers.
func (r *Rasterizer) DrawMeshNormals(m *mesh.Mesh, transform math3d.Mat4, c Color) {
	for i := 0; i < m.TriangleCount(); i++ {
		v0, v1, v2 := m.Triangle(i)

		w0 := transform.MulVec3(v0)
		w1 := transform.MulVec3(v1)
		w2 := transform.MulVec3(v2)

		n := math3d.TriangleNormal(w0, w1, w2)
		if n == math3d.Zero3() {
			continue // degenerate triangle
		}

		base := math3d.TriangleCentroid(w0, w1, w2)
		tip := base.Add(n.Scale(0.3 * w1.Sub(w0).Len()))
		r.drawLine3D(base, tip, c)
	}
}

// DrawAxes draws the world axes at the origin. X is red, Y green, Z blue.
func (r *Rasterizer) DrawAxes(length float64) {
	origin := math3d.Zero3()
	r.drawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	r.drawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	r.drawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawLightMarker draws a fixed-size starburst at the light position.
// The marker sits on top of the scene, without depth testing.
func (r *Rasterizer) DrawLightMarker(pos math3d.Vec3, c Color) {
	x, y, _, visible := r.camera.WorldToScreen(pos, r.Width(), r.Height())
	if !visible {
		return
	}

	px, py := int(x), int(y)
	const arm = 3
	r.fb.DrawLine(px-arm, py, px+arm, py, c)
	r.fb.DrawLine(px, py-arm, px, py+arm, c)
	r.fb.DrawLine(px-arm, py-arm, px+arm, py+arm, c)
	r.fb.DrawLine(px-arm, py+arm, px+arm, py-arm, c)
}

// drawLine3D projects a segment and draws it with Bresenham.
// Segments with an endpoint behind the camera are skipped.
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, c Color) {
	viewProj := r.camera.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	// Perspective divide and NDC to screen
	clipA.X /= clipA.W
	clipA.Y /= clipA.W
	clipB.X /= clipB.W
	clipB.Y /= clipB.W

	x0 := int((clipA.X + 1) * 0.5 * float64(r.Width()))
	y0 := int((1 - clipA.Y) * 0.5 * float64(r.Height()))
	x1 := int((clipB.X + 1) * 0.5 * float64(r.Width()))
	y1 := int((1 - clipB.Y) * 0.5 * float64(r.Height()))

	r.fb.DrawLine(x0, y0, x1, y1, c)
}
