package game

import "math"

// Vec2 is a 2D vector or point in world coordinates
type Vec2 struct {
	X float64
	Y float64
}

// V is shorthand for Vec2{x, y}
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromPolar builds a vector of the given length pointing along angle (radians)
func FromPolar(angle, length float64) Vec2 {
	return Vec2{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Neg() Vec2       { return Vec2{X: -v.X, Y: -v.Y} }

// Scale multiplies both components by s
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Div divides both components by s
func (v Vec2) Div(s float64) Vec2 { return Vec2{X: v.X / s, Y: v.Y / s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Norm returns the Euclidean length
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length. A zero vector yields NaN components.
func (v Vec2) Normalize() Vec2 { return v.Div(v.Norm()) }

// Normal returns v rotated 90 degrees counter-clockwise
func (v Vec2) Normal() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

// Reflect mirrors v about the unit normal n: v - 2(v·n)n
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Angle returns the heading of v in radians
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Modulo is a floored modulus: the result lies in [0, d) for any sign of x.
func Modulo(x, d float64) float64 {
	m := math.Mod(math.Mod(x, d)+d, d)
	// math.Mod(-tiny + d, d) can round up to exactly d
	if m >= d {
		return 0
	}
	return m
}

// WrapAdd returns a+b with both coordinates wrapped into [0, size)
func WrapAdd(a, b Vec2, size float64) Vec2 {
	r := a.Add(b)
	return Vec2{X: Modulo(r.X, size), Y: Modulo(r.Y, size)}
}

// Wrap brings p into [0, size) on both axes
func Wrap(p Vec2, size float64) Vec2 {
	return WrapAdd(p, Vec2{}, size)
}

// WrapDelta returns the shortest displacement from a to b on a torus of the
// given size. Each component lies in [-size/2, size/2).
func WrapDelta(a, b Vec2, size float64) Vec2 {
	d := b.Sub(a)
	half := size / 2
	return Vec2{
		X: Modulo(d.X+half, size) - half,
		Y: Modulo(d.Y+half, size) - half,
	}
}

// TorusDistance is the length of WrapDelta(a, b, size)
func TorusDistance(a, b Vec2, size float64) float64 {
	return WrapDelta(a, b, size).Norm()
}

// AngleDiff returns the signed shortest rotation from source to target,
// in (-π, π].
func AngleDiff(source, target float64) float64 {
	return math.Pi - Modulo(source-target+math.Pi, 2*math.Pi)
}

// NormalizeAngle maps a into (-π, π]
func NormalizeAngle(a float64) float64 {
	return AngleDiff(0, a)
}
