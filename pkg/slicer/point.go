package slicer

// Point is a position in 3D space. Points are plain values; equality
// and ordering are always decided through ApproxEqual and CompareXYZ,
// never through ==.
type Point struct {
	X, Y, Z float64
}

// Add returns the component-wise sum p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k, Z: p.Z * k}
}

// Edge is one directed side of a triangle. Direction matters only for
// the ordering of the coplanar two-point result, not for whether an
// intersection is found.
type Edge struct {
	Start, End Point
}

// Direction returns End - Start.
func (e Edge) Direction() Point {
	return e.End.Sub(e.Start)
}

// Triangle is an ordered vertex triple. Its edges follow winding
// order: (V0,V1), (V1,V2), (V2,V0).
type Triangle struct {
	V0, V1, V2 Point
}

// Edge returns the i-th edge in winding order. i must be 0, 1 or 2.
func (t Triangle) Edge(i int) Edge {
	switch i {
	case 0:
		return Edge{Start: t.V0, End: t.V1}
	case 1:
		return Edge{Start: t.V1, End: t.V2}
	default:
		return Edge{Start: t.V2, End: t.V0}
	}
}

// MinY returns the smallest vertex y.
func (t Triangle) MinY() float64 {
	min := t.V0.Y
	if t.V1.Y < min {
		min = t.V1.Y
	}
	if t.V2.Y < min {
		min = t.V2.Y
	}
	return min
}

// MaxY returns the largest vertex y.
func (t Triangle) MaxY() float64 {
	max := t.V0.Y
	if t.V1.Y > max {
		max = t.V1.Y
	}
	if t.V2.Y > max {
		max = t.V2.Y
	}
	return max
}
