package slicer

import "math"

// machineEpsilon is the float64 unit roundoff, 2^-52.
const machineEpsilon = 0x1p-52

// ApproxEqual reports whether a and b differ by at most tol. When the
// absolute check fails, a relative check against the machine epsilon
// scaled by the larger magnitude catches rounding on large coordinates
// that a fixed tol would misclassify. This is the single equality
// policy for the whole kernel; the sort and dedup passes of
// SliceTriangle both go through it with the same tol.
func ApproxEqual(a, b, tol float64) bool {
	d := math.Abs(a - b)
	if d <= tol {
		return true
	}
	return d <= machineEpsilon*math.Max(math.Abs(a), math.Abs(b))
}

// CompareXYZ orders a and b lexicographically: x first, then y, then
// z. The first axis that is not approximately equal decides by raw
// numeric comparison; if all three axes are approximately equal the
// result is 0. Inputs must be finite.
//
// A tolerance comparator is not transitive in the strict sense. The
// failure mode that matters downstream — dedup missing near-duplicates
// because sort and dedup disagreed — cannot occur here because both
// passes share one tolerance.
func CompareXYZ(a, b Point, tol float64) int {
	switch {
	case !ApproxEqual(a.X, b.X, tol):
		return rawCompare(a.X, b.X)
	case !ApproxEqual(a.Y, b.Y, tol):
		return rawCompare(a.Y, b.Y)
	case !ApproxEqual(a.Z, b.Z, tol):
		return rawCompare(a.Z, b.Z)
	}
	return 0
}

func rawCompare(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// coincident reports whether every component of a and b is within tol.
func coincident(a, b Point, tol float64) bool {
	return ApproxEqual(a.X, b.X, tol) &&
		ApproxEqual(a.Y, b.Y, tol) &&
		ApproxEqual(a.Z, b.Z, tol)
}
