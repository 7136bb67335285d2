package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/lamella/pkg/mesh"
	"github.com/chazu/lamella/pkg/slicer"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms slicing scripts before zygomys sees them:
//
//  1. Keyword conversion: :tolerance -> "__kw_tolerance" (string
//     literal), so keywords need no global symbol registration.
//  2. Kebab-case to underscore: slice-triangle -> slice_triangle,
//     because zygomys reads a hyphen inside an identifier as
//     subtraction. Hyphens inside keyword names are preserved.
//  3. Lisp ; line comments become zygomys // comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		switch {
		case b[i] == '"' || b[i] == '`':
			i = copyString(b, i, &out)

		case b[i] == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case b[i] == ':' && i+1 < len(b) && b[i+1] == '=':
			// := assignment operator, not a keyword.
			out = append(out, ':', '=')
			i += 2

		case b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]):
			i++ // consume ':'
			out = append(out, '"')
			out = append(out, kwPrefix...)
			for i < len(b) && isIdentChar(b[i]) {
				out = append(out, b[i])
				i++
			}
			out = append(out, '"')

		case isLetter(b[i]):
			for i < len(b) && isIdentChar(b[i]) {
				c := b[i]
				if c == '-' {
					// A hyphen is part of the name only when a letter
					// follows; x-1 is subtraction, not an identifier.
					if i+1 >= len(b) || !isLetter(b[i+1]) {
						break
					}
					c = '_'
				}
				out = append(out, c)
				i++
			}

		default:
			out = append(out, b[i])
			i++
		}
	}
	return string(out)
}

// copyString copies a quoted literal starting at b[i] verbatim,
// honoring backslash escapes inside double quotes. Returns the index
// past the closing quote.
func copyString(b []byte, i int, out *[]byte) int {
	quote := b[i]
	*out = append(*out, b[i])
	i++
	for i < len(b) && b[i] != quote {
		if quote == '"' && b[i] == '\\' && i+1 < len(b) {
			*out = append(*out, b[i], b[i+1])
			i += 2
			continue
		}
		*out = append(*out, b[i])
		i++
	}
	if i < len(b) {
		*out = append(*out, b[i])
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '?' || c == '!'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a slicer.Point.
type sexpPoint struct {
	p slicer.Point
}

func (v *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.p.X, v.p.Y, v.p.Z)
}
func (v *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpTriangle wraps a slicer.Triangle.
type sexpTriangle struct {
	t slicer.Triangle
}

func (t *sexpTriangle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(triangle %s %s %s)",
		(&sexpPoint{p: t.t.V0}).SexpString(ps),
		(&sexpPoint{p: t.t.V1}).SexpString(ps),
		(&sexpPoint{p: t.t.V2}).SexpString(ps))
}
func (t *sexpTriangle) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps an sdfx solid so scripts can build geometry and
// slice it without leaving the sandbox.
type sexpSolid struct {
	s sdf.SDF3
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	bb := s.s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	return fmt.Sprintf("(solid %gx%gx%g)", size.X, size.Y, size.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks whether a Sexp is a preprocessed keyword string,
// returning the bare keyword name if so.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		if ok {
			// Trailing keyword without a value.
			result.kw[name] = zygo.SexpNull
			i++
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a slicer.Point from a sexpPoint.
func toPoint(s zygo.Sexp) (slicer.Point, error) {
	if v, ok := s.(*sexpPoint); ok {
		return v.p, nil
	}
	return slicer.Point{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toTriangle extracts a slicer.Triangle from a sexpTriangle.
func toTriangle(s zygo.Sexp) (slicer.Triangle, error) {
	if v, ok := s.(*sexpTriangle); ok {
		return v.t, nil
	}
	return slicer.Triangle{}, fmt.Errorf("expected triangle, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts an sdf.SDF3 from a sexpSolid.
func toSolid(s zygo.Sexp) (sdf.SDF3, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toleranceArg reads the optional :tolerance keyword, falling back to def.
func toleranceArg(pa kwArgs, def float64) (float64, error) {
	v, ok := pa.kw["tolerance"]
	if !ok {
		return def, nil
	}
	tol, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("tolerance: %w", err)
	}
	return tol, nil
}

// pointsToArray converts kernel output into a Lisp array of vec3s.
func pointsToArray(pts []slicer.Point) *zygo.SexpArray {
	vals := make([]zygo.Sexp, len(pts))
	for i, p := range pts {
		vals[i] = &sexpPoint{p: p}
	}
	return &zygo.SexpArray{Val: vals}
}

// ---------------------------------------------------------------------------
// Section recording
// ---------------------------------------------------------------------------

// recorder accumulates the sections produced by slicing builtins
// during one evaluation. Evaluations are single-threaded inside the
// sandbox, so no locking is needed.
type recorder struct {
	tol      float64
	sections []Section
}

func (r *recorder) record(height float64, pts []slicer.Point) {
	r.sections = append(r.sections, Section{Height: height, Points: pts})
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// defaultCells is the marching cubes resolution used by cross-section
// when a script does not pass :cells.
const defaultCells = 64

// registerBuiltins installs the slicing vocabulary into a zygomys
// environment. Source must be preprocessed with preprocessSource so
// that :keyword tokens and kebab-case names are recognizable.
func registerBuiltins(env *zygo.Zlisp, rec *recorder) {

	// -----------------------------------------------------------------------
	// (vec3 1 2.5 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpPoint{p: slicer.Point{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (triangle (vec3 ...) (vec3 ...) (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("triangle requires exactly 3 vertices, got %d", len(args))
		}
		var vs [3]slicer.Point
		for i, a := range args {
			p, err := toPoint(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("triangle: vertex %d: %w", i, err)
			}
			vs[i] = p
		}
		return &sexpTriangle{t: slicer.Triangle{V0: vs[0], V1: vs[1], V2: vs[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (compare-xyz (vec3 ...) (vec3 ...) :tolerance 1e-6) -> -1 | 0 | 1
	// -----------------------------------------------------------------------
	env.AddFunction("compare_xyz", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("compare-xyz requires two points, got %d", len(pa.positional))
		}
		a, err := toPoint(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("compare-xyz: %w", err)
		}
		b, err := toPoint(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("compare-xyz: %w", err)
		}
		tol, err := toleranceArg(pa, rec.tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("compare-xyz: %w", err)
		}
		return &zygo.SexpInt{Val: int64(slicer.CompareXYZ(a, b, tol))}, nil
	})

	// -----------------------------------------------------------------------
	// (slice-segment (vec3 ...) (vec3 ...) 0.5 :tolerance 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("slice_segment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("slice-segment requires start, end and height, got %d arguments", len(pa.positional))
		}
		start, err := toPoint(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-segment: start: %w", err)
		}
		end, err := toPoint(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-segment: end: %w", err)
		}
		height, err := toFloat64(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-segment: height: %w", err)
		}
		tol, err := toleranceArg(pa, rec.tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-segment: %w", err)
		}

		pts := slicer.SliceSegment(slicer.Edge{Start: start, End: end}, height, tol)
		rec.record(height, pts)
		return pointsToArray(pts), nil
	})

	// -----------------------------------------------------------------------
	// (slice-triangle (triangle ...) 0.5 :tolerance 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("slice_triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("slice-triangle requires a triangle and a height, got %d arguments", len(pa.positional))
		}
		tr, err := toTriangle(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-triangle: %w", err)
		}
		height, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-triangle: height: %w", err)
		}
		tol, err := toleranceArg(pa, rec.tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-triangle: %w", err)
		}

		pts := slicer.SliceTriangle(tr, height, tol)
		rec.record(height, pts)
		return pointsToArray(pts), nil
	})

	// -----------------------------------------------------------------------
	// (box 40 60 20) — min corner at the origin
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires x, y and z dimensions, got %d arguments", len(args))
		}
		var d [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			d[i] = f
		}
		s, err := sdf.Box3D(v3.Vec{X: d[0], Y: d[1], Z: d[2]}, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		// Shift from center-origin to min-corner-origin so layer
		// heights start at zero.
		m := sdf.Translate3d(v3.Vec{X: d[0] / 2, Y: d[1] / 2, Z: d[2] / 2})
		return &sexpSolid{s: sdf.Transform3D(s, m)}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder 50 10) — height, radius; centered at the origin
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires height and radius, got %d arguments", len(args))
		}
		height, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		radius, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		s, err := sdf.Cylinder3D(height, radius, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpSolid{s: s}, nil
	})

	// -----------------------------------------------------------------------
	// (translate solid (vec3 10 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and a vec3, got %d arguments", len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		p, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		m := sdf.Translate3d(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
		return &sexpSolid{s: sdf.Transform3D(s, m)}, nil
	})

	// -----------------------------------------------------------------------
	// (cross-section solid 5.0 :cells 32 :tolerance 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("cross_section", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("cross-section requires a solid and a height, got %d arguments", len(pa.positional))
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cross-section: %w", err)
		}
		height, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cross-section: height: %w", err)
		}
		tol, err := toleranceArg(pa, rec.tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cross-section: %w", err)
		}
		cells := defaultCells
		if v, ok := pa.kw["cells"]; ok {
			cells, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cross-section: cells: %w", err)
			}
		}

		m := mesh.FromSDF3(s, cells)
		chords, err := mesh.CrossSection(m, height, tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cross-section: %w", err)
		}

		var pts []slicer.Point
		vals := make([]zygo.Sexp, len(chords))
		for i, c := range chords {
			pts = append(pts, c.Points...)
			vals[i] = pointsToArray(c.Points)
		}
		rec.record(height, pts)
		return &zygo.SexpArray{Val: vals}, nil
	})
}
