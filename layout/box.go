package layout

import "math"

// Eps is the tolerance used when comparing coordinates. All coordinates are in
// micrometers, so anything below a picometer is noise from float arithmetic.
const Eps = 1e-9

// A Point is a location (or a 2D extent) in micrometers.
type Point struct {
	X, Y float64
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// A Box is an axis-aligned rectangle. X0 <= X1 and Y0 <= Y1 always hold for
// boxes created with MakeBox.
type Box struct {
	X0, Y0, X1, Y1 float64
}

// MakeBox creates a box from two opposite corners given in any order.
func MakeBox(x0, y0, x1, y1 float64) Box {
	return Box{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// BoxAt creates a box of the given size whose lower-left corner is at (x, y).
func BoxAt(x, y, w, h float64) Box {
	return MakeBox(x, y, x+w, y+h)
}

// CenteredBox creates a box of the given size centered at c.
func CenteredBox(c Point, w, h float64) Box {
	return MakeBox(c.X-w/2, c.Y-h/2, c.X+w/2, c.Y+h/2)
}

func (b Box) Width() float64  { return b.X1 - b.X0 }
func (b Box) Height() float64 { return b.Y1 - b.Y0 }
func (b Box) Area() float64   { return b.Width() * b.Height() }

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{(b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2}
}

// Empty tells if the box covers no area.
func (b Box) Empty() bool {
	return b.Width() <= Eps || b.Height() <= Eps
}

// Expand grows the box by dx on the left and right and dy on the top and
// bottom. Negative values shrink it.
func (b Box) Expand(dx, dy float64) Box {
	return Box{b.X0 - dx, b.Y0 - dy, b.X1 + dx, b.Y1 + dy}
}

// Grow expands the box by d on every side.
func (b Box) Grow(d float64) Box {
	return b.Expand(d, d)
}

// Translate moves the box by the offset.
func (b Box) Translate(off Point) Box {
	return Box{b.X0 + off.X, b.Y0 + off.Y, b.X1 + off.X, b.Y1 + off.Y}
}

// Union returns the smallest box that covers both boxes.
func (b Box) Union(o Box) Box {
	return Box{
		X0: math.Min(b.X0, o.X0),
		Y0: math.Min(b.Y0, o.Y0),
		X1: math.Max(b.X1, o.X1),
		Y1: math.Max(b.Y1, o.Y1),
	}
}

// Intersect returns the overlapping part of two boxes and whether they
// overlap with a positive area.
func (b Box) Intersect(o Box) (Box, bool) {
	r := Box{
		X0: math.Max(b.X0, o.X0),
		Y0: math.Max(b.Y0, o.Y0),
		X1: math.Min(b.X1, o.X1),
		Y1: math.Min(b.Y1, o.Y1),
	}

	if r.X1-r.X0 <= Eps || r.Y1-r.Y0 <= Eps {
		return Box{}, false
	}

	return r, true
}

// Contains tells if o lies inside b.
func (b Box) Contains(o Box) bool {
	return o.X0 >= b.X0-Eps && o.Y0 >= b.Y0-Eps &&
		o.X1 <= b.X1+Eps && o.Y1 <= b.Y1+Eps
}

// Encloses tells if b contains o with at least dx of margin horizontally and
// dy vertically.
func (b Box) Encloses(o Box, dx, dy float64) bool {
	return b.Contains(o.Expand(dx, dy))
}

// Equal compares two boxes within Eps.
func (b Box) Equal(o Box) bool {
	return math.Abs(b.X0-o.X0) < Eps && math.Abs(b.Y0-o.Y0) < Eps &&
		math.Abs(b.X1-o.X1) < Eps && math.Abs(b.Y1-o.Y1) < Eps
}

// WithMinArea inflates the height of the box, keeping its center, until the
// area reaches minArea.
func (b Box) WithMinArea(minArea float64) Box {
	if b.Area() >= minArea-Eps || b.Width() <= Eps {
		return b
	}

	h := minArea / b.Width()
	c := b.Center()

	return CenteredBox(c, b.Width(), h)
}

// WithMinSize inflates each dimension of the box around its center until it
// is at least w wide and h high.
func (b Box) WithMinSize(w, h float64) Box {
	c := b.Center()

	return CenteredBox(c, math.Max(w, b.Width()), math.Max(h, b.Height()))
}

// RingBoxes splits the region between outer and inner into four disjoint
// rectangles: full-width top and bottom bars and the left and right bars in
// between. The inner box must lie inside the outer box.
func RingBoxes(outer, inner Box) []Box {
	return []Box{
		MakeBox(outer.X0, inner.Y1, outer.X1, outer.Y1),
		MakeBox(outer.X0, outer.Y0, outer.X1, inner.Y0),
		MakeBox(outer.X0, inner.Y0, inner.X0, inner.Y1),
		MakeBox(inner.X1, inner.Y0, outer.X1, inner.Y1),
	}
}
