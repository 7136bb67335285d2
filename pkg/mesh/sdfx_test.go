package mesh_test

import (
	"testing"

	"github.com/chazu/lamella/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestFromSDF3Box(t *testing.T) {
	s, err := sdf.Box3D(v3.Vec{X: 40, Y: 60, Z: 20}, 0)
	if err != nil {
		t.Fatalf("Box3D failed: %v", err)
	}

	m := mesh.FromSDF3(s, 32)
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.VertexCount() != m.TriangleCount()*3 {
		t.Fatalf("vertex count %d inconsistent with triangle count %d", m.VertexCount(), m.TriangleCount())
	}

	// The box is centered at the origin, so its y-range is about ±30.
	lo, hi, ok := m.YBounds()
	if !ok {
		t.Fatal("YBounds reported empty mesh")
	}
	if lo > -25 || hi < 25 {
		t.Errorf("YBounds = (%v, %v), expected roughly (-30, 30)", lo, hi)
	}
}

func TestFromSDF3CrossSection(t *testing.T) {
	s, err := sdf.Box3D(v3.Vec{X: 40, Y: 60, Z: 20}, 0)
	if err != nil {
		t.Fatalf("Box3D failed: %v", err)
	}
	m := mesh.FromSDF3(s, 32)

	chords, err := mesh.CrossSection(m, 0, tol)
	if err != nil {
		t.Fatalf("CrossSection failed: %v", err)
	}
	if len(chords) == 0 {
		t.Fatal("mid-height cross-section of a box produced no chords")
	}
	for _, c := range chords {
		for _, p := range c.Points {
			if p.Y != 0 {
				t.Fatalf("chord point %v has y != 0", p)
			}
		}
	}
}
