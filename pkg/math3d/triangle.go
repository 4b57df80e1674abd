package math3d

// TriangleCentroid returns the centroid of the triangle abc,
// the arithmetic mean of its three vertices.
func TriangleCentroid(a, b, c Vec3) Vec3 {
	return a.Add(b).Add(c).Div(3)
}

// TriangleNormal returns the unit normal of the triangle abc.
// Orientation follows the right-hand rule over the winding order,
// so swapping any two vertices flips the normal. A degenerate
// triangle (collinear or coincident vertices) has no plane and
// yields the zero vector.
func TriangleNormal(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// TriangleArea returns the area of the triangle abc, half the
// magnitude of the edge cross product. Degenerate triangles have
// area zero.
func TriangleArea(a, b, c Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}
