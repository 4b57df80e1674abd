package lighting

import (
	"sync"

	"github.com/nmocellin/umbra/pkg/math3d"
	"github.com/nmocellin/umbra/pkg/mesh"
)

// Options configures Shadowed.
type Options struct {
	// Workers is the number of goroutines evaluating triangles.
	// Values <= 1 compute sequentially. The result is identical
	// either way; each triangle only reads the mesh and writes its
	// own map slot.
	Workers int

	// Progress, when non-nil, is called after each completed triangle
	// with the number done so far and the total. Calls are serialized
	// even with multiple workers.
	Progress func(done, total int)
}

// Shadowed returns the illumination map of m lit from source with
// occlusion: a triangle keeps its Lambert illumination only if the
// segment from its centroid to the source crosses no other triangle
// of the mesh. The occluder scan short-circuits on the first hit,
// since shading is binary lit/unlit and the nearest occluder is
// irrelevant. Triangles facing away from the source are unlit already
// and skip the scan. The test is exhaustive over all triangle pairs,
// O(n²) with no acceleration structure.
func Shadowed(m *mesh.Mesh, source math3d.Vec3, opts Options) Map {
	n := m.TriangleCount()
	out := make(Map, n)

	if opts.Workers <= 1 {
		for i := range out {
			out[i] = shadowedTriangle(m, source, i)
			if opts.Progress != nil {
				opts.Progress(i+1, n)
			}
		}
		return out
	}

	tasks := make(chan int, n)
	results := make(chan int, n)
	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				out[i] = shadowedTriangle(m, source, i)
				results <- i
			}
		}()
	}
	for i := range n {
		tasks <- i
	}
	close(tasks)
	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, n)
		}
	}
	return out
}

// shadowedTriangle computes the occlusion-corrected illumination of
// triangle i. Triangle i itself is never tested as its own occluder.
func shadowedTriangle(m *mesh.Mesh, source math3d.Vec3, i int) float64 {
	a, b, c := m.Triangle(i)
	normal := math3d.TriangleNormal(a, b, c)
	centroid := math3d.TriangleCentroid(a, b, c)

	base := Lambert(normal, centroid, source)
	if base <= 0 {
		return 0
	}

	for j := range m.Triangles {
		if j == i {
			continue
		}
		oa, ob, oc := m.Triangle(j)
		if _, hit := IntersectSegment(oa, ob, oc, centroid, source); hit {
			return 0
		}
	}
	return base
}
