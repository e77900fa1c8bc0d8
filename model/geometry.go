package model

import "math"

// Point is a position in user space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle given by its lower-left corner and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Matrix is a PDF affine transform [a b c d e f].
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Transform maps p through m.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m followed by other, the order PDF uses for "cm":
// CTM' = m × CTM.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translation returns the (e, f) components.
func (m Matrix) Translation() (x, y float64) {
	return m[4], m[5]
}

// ScaleFactors returns the lengths of the transformed unit vectors.
func (m Matrix) ScaleFactors() (sx, sy float64) {
	return math.Hypot(m[0], m[1]), math.Hypot(m[2], m[3])
}

// UnitSquare returns the bounding box of the unit square under m, the area
// an image XObject covers.
func (m Matrix) UnitSquare() Rect {
	corners := [4]Point{
		m.Transform(Point{0, 0}),
		m.Transform(Point{1, 0}),
		m.Transform(Point{0, 1}),
		m.Transform(Point{1, 1}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsIdentity reports whether m is the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
