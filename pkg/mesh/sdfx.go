package mesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// FromSDF3 tessellates an sdfx solid into a Mesh using uniform
// marching cubes. cells controls the resolution along the longest axis
// of the solid's bounding box; higher values give finer layers at the
// cost of more triangles per slice.
func FromSDF3(s sdf.SDF3, cells int) *Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := &Mesh{
		Vertices: make([]float64, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, v.X, v.Y, v.Z)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}
