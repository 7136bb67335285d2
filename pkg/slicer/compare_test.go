package slicer

import "testing"

func TestApproxEqualAbsolute(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		tol  float64
		want bool
	}{
		{"identical", 1.0, 1.0, 1e-9, true},
		{"within tolerance", 1.0, 1.0 + 1e-10, 1e-9, true},
		{"at tolerance", 1.0, 1.0 + 1e-9, 1e-9, true},
		{"beyond tolerance", 1.0, 1.001, 1e-9, false},
		{"negative values", -2.5, -2.5 + 1e-10, 1e-9, true},
		{"opposite signs", -1.0, 1.0, 1e-9, false},
		{"zero tolerance exact", 0.5, 0.5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApproxEqual(tt.a, tt.b, tt.tol); got != tt.want {
				t.Errorf("ApproxEqual(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
			}
		})
	}
}

func TestApproxEqualRelativeFallback(t *testing.T) {
	// 1e17 and the next representable float64 differ by 16, far beyond
	// any sensible absolute tolerance, but are adjacent in float space.
	a := 1e17
	b := a + 16
	if !ApproxEqual(a, b, 1e-9) {
		t.Errorf("ApproxEqual(%v, %v, 1e-9) = false, want true via relative check", a, b)
	}
	// A genuinely different large value must still compare unequal.
	if ApproxEqual(a, a*1.001, 1e-9) {
		t.Error("ApproxEqual accepted a 0.1%% difference at large magnitude")
	}
}

func TestCompareXYZ(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		tol  float64
		want int
	}{
		{"equal points", Point{}, Point{}, 1e-5, 0},
		{"z within tolerance", Point{}, Point{Z: 0.0001}, 0.0001, 0},
		{"z beyond tolerance", Point{}, Point{Z: 0.0001}, 0.00001, -1},
		{"y decides before z", Point{Z: 1}, Point{Y: 0.0001, Z: 1}, 0.00001, -1},
		{"y greater", Point{Y: 1}, Point{}, 0.00001, 1},
		{"x decides first", Point{X: 1, Y: 1, Z: 1}, Point{Y: 1, Z: 1}, 0.00001, 1},
		{"x less", Point{X: -3}, Point{X: 2}, 0.00001, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareXYZ(tt.a, tt.b, tt.tol); got != tt.want {
				t.Errorf("CompareXYZ(%v, %v, %v) = %d, want %d", tt.a, tt.b, tt.tol, got, tt.want)
			}
		})
	}
}

func TestCompareXYZAntisymmetric(t *testing.T) {
	a := Point{X: 0.5, Y: 1.25, Z: -3}
	b := Point{X: 0.5, Y: 2.0, Z: -3}
	if CompareXYZ(a, b, 1e-9) != -CompareXYZ(b, a, 1e-9) {
		t.Error("CompareXYZ(a,b) and CompareXYZ(b,a) are not opposites")
	}
}
