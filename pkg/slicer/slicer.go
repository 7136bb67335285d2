// Package slicer computes where triangles and their edges cross a
// horizontal slicing plane y = height. It is the numeric core of a
// layer-based slicer: pure functions over small value types, no state,
// no I/O, deterministic output for identical inputs.
//
// Every float comparison goes through a caller-supplied tolerance so
// behavior is reproducible and tunable per mesh scale. All inputs must
// be finite; NaN or infinite coordinates are a precondition violation
// the caller rejects before calling in.
package slicer

import "sort"

// DefaultTolerance suits meshes in millimetre scale. Callers slicing
// much larger or smaller geometry should supply their own.
const DefaultTolerance = 1e-9

// SliceSegment intersects one edge with the plane y = height and
// returns 0, 1 or 2 points:
//
//   - edge lying in the plane (direction.y ≈ 0, start.y ≈ height):
//     both endpoints, in (start, end) order
//   - edge crossing the plane within its bounds, endpoints included:
//     the single intersection point
//   - otherwise: nothing
//
// The y component of every returned point is assigned height directly
// rather than recomputed from the interpolation, so points contributed
// by different edges of one triangle can never drift apart in y.
func SliceSegment(e Edge, height, tol float64) []Point {
	d := e.Direction()

	if ApproxEqual(d.Y, 0, tol) {
		if !ApproxEqual(e.Start.Y, height, tol) {
			return nil
		}
		return []Point{
			{X: e.Start.X, Y: height, Z: e.Start.Z},
			{X: e.End.X, Y: height, Z: e.End.Z},
		}
	}

	t := (height - e.Start.Y) / d.Y
	if t < 0 || t > 1 {
		return nil
	}
	p := e.Start.Add(d.Scale(t))
	return []Point{{X: p.X, Y: height, Z: p.Z}}
}

// SliceTriangle intersects a triangle with the plane y = height. The
// three edges are sliced in winding order, then the combined points
// are sorted by CompareXYZ and deduplicated, so the result is sorted
// ascending by (x, y, z) with no two entries within tol of each other.
//
// Cardinality of the result:
//
//	0 — the plane misses the triangle's y-range
//	1 — the plane only grazes a single vertex
//	2 — a transversal cut; the chord downstream assembly chains
//	3 — the triangle is coplanar with the plane; its three vertices
//
// Degenerate inputs (zero-length edges, zero-area triangles, vertices
// exactly on the plane) are ordinary inputs here and still produce a
// well-defined result.
func SliceTriangle(tr Triangle, height, tol float64) []Point {
	// Fast reject keeps full-mesh sweeps cheap on the many triangles
	// far from any given layer.
	if height < tr.MinY() || height > tr.MaxY() {
		return nil
	}

	pts := make([]Point, 0, 6)
	for i := 0; i < 3; i++ {
		pts = append(pts, SliceSegment(tr.Edge(i), height, tol)...)
	}

	sort.SliceStable(pts, func(i, j int) bool {
		return CompareXYZ(pts[i], pts[j], tol) < 0
	})
	return dedupSorted(pts, tol)
}

// dedupSorted drops every entry within tol of its predecessor. Valid
// only on input sorted with the same tolerance, which is what makes
// adjacent-only comparison exhaustive.
func dedupSorted(pts []Point, tol float64) []Point {
	if len(pts) < 2 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if coincident(p, out[len(out)-1], tol) {
			continue
		}
		out = append(out, p)
	}
	return out
}
