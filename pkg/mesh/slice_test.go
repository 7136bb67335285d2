package mesh_test

import (
	"reflect"
	"testing"

	"github.com/chazu/lamella/pkg/mesh"
	"github.com/chazu/lamella/pkg/slicer"
)

const tol = slicer.DefaultTolerance

func TestCrossSectionWall(t *testing.T) {
	m := mesh.FromTriangles(wall())

	chords, err := mesh.CrossSection(m, 0.5, tol)
	if err != nil {
		t.Fatalf("CrossSection failed: %v", err)
	}
	if len(chords) != 2 {
		t.Fatalf("expected 2 chords, got %d", len(chords))
	}
	for i, c := range chords {
		if c.Triangle != i {
			t.Errorf("chord %d came from triangle %d, want index order", i, c.Triangle)
		}
		if len(c.Points) != 2 {
			t.Errorf("chord %d has %d points, want 2", i, len(c.Points))
		}
		if c.Coplanar() {
			t.Errorf("chord %d reported coplanar for a transversal cut", i)
		}
		for _, p := range c.Points {
			if p.Y != 0.5 {
				t.Errorf("chord %d point %v: y != 0.5", i, p)
			}
		}
	}
}

func TestCrossSectionMiss(t *testing.T) {
	m := mesh.FromTriangles(wall())
	for _, h := range []float64{-1, 2} {
		chords, err := mesh.CrossSection(m, h, tol)
		if err != nil {
			t.Fatalf("CrossSection(%v) failed: %v", h, err)
		}
		if len(chords) != 0 {
			t.Errorf("CrossSection(%v) = %v, want empty", h, chords)
		}
	}
}

func TestCrossSectionCoplanarTriangle(t *testing.T) {
	m := mesh.FromTriangles([]slicer.Triangle{
		{V0: pt(0, 1, 0), V1: pt(1, 1, 0), V2: pt(0, 1, 1)},
	})
	chords, err := mesh.CrossSection(m, 1, tol)
	if err != nil {
		t.Fatalf("CrossSection failed: %v", err)
	}
	if len(chords) != 1 {
		t.Fatalf("expected 1 chord, got %d", len(chords))
	}
	if !chords[0].Coplanar() {
		t.Errorf("expected coplanar chord, got %v", chords[0])
	}
	if len(chords[0].Points) != 3 {
		t.Errorf("coplanar chord has %d points, want 3", len(chords[0].Points))
	}
}

func TestCrossSectionEmptyMesh(t *testing.T) {
	var m mesh.Mesh
	chords, err := mesh.CrossSection(&m, 0, tol)
	if err != nil {
		t.Fatalf("CrossSection failed: %v", err)
	}
	if chords != nil {
		t.Errorf("empty mesh produced chords: %v", chords)
	}
}

// pyramid returns an open four-sided pyramid: apex at (0.5, 1, 0.5),
// square base corners at y = 0.
func pyramid() []slicer.Triangle {
	apex := pt(0.5, 1, 0.5)
	base := []slicer.Point{pt(0, 0, 0), pt(1, 0, 0), pt(1, 0, 1), pt(0, 0, 1)}
	var tris []slicer.Triangle
	for i := range base {
		tris = append(tris, slicer.Triangle{V0: base[i], V1: base[(i+1)%4], V2: apex})
	}
	return tris
}

func TestCrossSectionParallelMatchesSerial(t *testing.T) {
	m := mesh.FromTriangles(pyramid())

	for _, h := range []float64{0, 0.25, 0.5, 0.99} {
		want, err := mesh.CrossSection(m, h, tol)
		if err != nil {
			t.Fatalf("serial CrossSection(%v) failed: %v", h, err)
		}
		for _, workers := range []int{1, 2, 3, 8} {
			got, err := mesh.CrossSectionParallel(m, h, tol, workers)
			if err != nil {
				t.Fatalf("parallel CrossSection(%v, workers=%d) failed: %v", h, workers, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("workers=%d h=%v: parallel %v != serial %v", workers, h, got, want)
			}
		}
	}
}

func TestCrossSectionParallelBadMesh(t *testing.T) {
	m := mesh.FromTriangles(pyramid())
	m.Indices[3] = 200
	if _, err := mesh.CrossSectionParallel(m, 0.5, tol, 4); err == nil {
		t.Error("expected error from dangling vertex index")
	}
}
