package mesh

import (
	"sync"

	"github.com/chazu/lamella/pkg/slicer"
)

// Chord is the intersection of one triangle with one slicing plane.
// Two points mean a transversal cut; three mean the triangle lies in
// the plane. Points are sorted and deduplicated by the kernel.
type Chord struct {
	Triangle int            // index of the source triangle
	Points   []slicer.Point // 2 or 3 points
}

// Coplanar reports whether the source triangle lies in the plane.
func (c Chord) Coplanar() bool {
	return len(c.Points) == 3
}

// CrossSection slices every triangle of m at y = height. Chords appear
// in triangle-index order; triangles that miss the plane or touch it
// in fewer than two points contribute nothing. The result is the raw
// per-triangle input for downstream contour assembly — no stitching
// happens here.
func CrossSection(m *Mesh, height, tol float64) ([]Chord, error) {
	if miss(m, height) {
		return nil, nil
	}
	return sliceRange(m, height, tol, 0, m.TriangleCount())
}

// CrossSectionParallel computes the same chords as CrossSection using
// up to workers goroutines. Each worker slices its own index range
// into its own slot and the slots are concatenated afterwards, so the
// output is identical to the serial form for any worker count.
func CrossSectionParallel(m *Mesh, height, tol float64, workers int) ([]Chord, error) {
	n := m.TriangleCount()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return CrossSection(m, height, tol)
	}
	if miss(m, height) {
		return nil, nil
	}

	results := make([][]Chord, workers)
	errs := make([]error, workers)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			results[w], errs[w] = sliceRange(m, height, tol, start, end)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	var chords []Chord
	for _, r := range results {
		chords = append(chords, r...)
	}
	return chords, nil
}

// sliceRange slices triangles [start, end) in index order.
func sliceRange(m *Mesh, height, tol float64, start, end int) ([]Chord, error) {
	var chords []Chord
	for i := start; i < end; i++ {
		t, err := m.Triangle(i)
		if err != nil {
			return nil, err
		}
		pts := slicer.SliceTriangle(t, height, tol)
		if len(pts) < 2 {
			continue
		}
		chords = append(chords, Chord{Triangle: i, Points: pts})
	}
	return chords, nil
}

// miss reports whether the plane clears the mesh's y-range entirely.
func miss(m *Mesh, height float64) bool {
	lo, hi, ok := m.YBounds()
	return !ok || height < lo || height > hi
}
