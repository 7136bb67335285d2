// Package mesh holds triangle soups in the flat layout produced by
// the sdfx tessellator and feeds them to the slicing kernel one
// triangle at a time.
package mesh

import (
	"fmt"

	"github.com/chazu/lamella/pkg/slicer"
)

// Mesh is a triangle soup. Vertices holds 3 floats per vertex
// (x, y, z); Indices holds 3 entries per triangle. Coordinates are
// float64 because slicing precision, not GPU upload, is the concern
// here.
type Mesh struct {
	Vertices []float64 // [x0,y0,z0, x1,y1,z1, ...]
	Indices  []uint32  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle decodes triangle i into the slicer's value form. Vertex
// order follows the index array, so the winding the producer chose is
// preserved.
func (m *Mesh) Triangle(i int) (slicer.Triangle, error) {
	if i < 0 || i >= m.TriangleCount() {
		return slicer.Triangle{}, fmt.Errorf("mesh: triangle %d out of range (mesh has %d)", i, m.TriangleCount())
	}
	v0, err := m.vertex(m.Indices[i*3])
	if err != nil {
		return slicer.Triangle{}, fmt.Errorf("mesh: triangle %d: %w", i, err)
	}
	v1, err := m.vertex(m.Indices[i*3+1])
	if err != nil {
		return slicer.Triangle{}, fmt.Errorf("mesh: triangle %d: %w", i, err)
	}
	v2, err := m.vertex(m.Indices[i*3+2])
	if err != nil {
		return slicer.Triangle{}, fmt.Errorf("mesh: triangle %d: %w", i, err)
	}
	return slicer.Triangle{V0: v0, V1: v1, V2: v2}, nil
}

func (m *Mesh) vertex(i uint32) (slicer.Point, error) {
	if int(i) >= m.VertexCount() {
		return slicer.Point{}, fmt.Errorf("vertex index %d out of range (mesh has %d)", i, m.VertexCount())
	}
	return slicer.Point{
		X: m.Vertices[i*3],
		Y: m.Vertices[i*3+1],
		Z: m.Vertices[i*3+2],
	}, nil
}

// YBounds returns the vertical extent of the mesh. ok is false for an
// empty mesh.
func (m *Mesh) YBounds() (min, max float64, ok bool) {
	n := m.VertexCount()
	if n == 0 {
		return 0, 0, false
	}
	min = m.Vertices[1]
	max = m.Vertices[1]
	for i := 1; i < n; i++ {
		y := m.Vertices[i*3+1]
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	return min, max, true
}

// FromTriangles builds a mesh from loose triangles. Vertices are not
// shared; each triangle contributes three.
func FromTriangles(tris []slicer.Triangle) *Mesh {
	m := &Mesh{
		Vertices: make([]float64, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for i, t := range tris {
		for j, v := range [3]slicer.Point{t.V0, t.V1, t.V2} {
			m.Vertices = append(m.Vertices, v.X, v.Y, v.Z)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}
