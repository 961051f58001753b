// Package guardring builds rectangular tap rings with optional contacts up to
// local interconnect or metal1.
package guardring

import (
	"fmt"

	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/via"
)

// Connection is the highest routing layer drawn over the tap ring.
type Connection int

const (
	ConnectNone Connection = iota
	ConnectLI
	ConnectMetal1
)

var connectionNames = map[Connection]string{
	ConnectNone:   "none",
	ConnectLI:     "li",
	ConnectMetal1: "metal1",
}

func (c Connection) String() string {
	if n, ok := connectionNames[c]; ok {
		return n
	}

	return fmt.Sprintf("Connection(%d)", int(c))
}

// ParseConnection converts a name produced by Connection.String back.
func ParseConnection(s string) (Connection, bool) {
	for c, n := range connectionNames {
		if n == s {
			return c, true
		}
	}

	return ConnectNone, false
}

// ConnectionNames lists the connection levels from lowest to highest.
func ConnectionNames() []string {
	return []string{"none", "li", "metal1"}
}

const (
	// MinRingWidth is the narrowest tap ring.
	MinRingWidth = 0.17

	// TapContactSpacing keeps contacts in the ring away from the inner
	// corners.
	TapContactSpacing = 0.06

	// SelectEnclosure is how far a select annulus extends past the tap on
	// both sides.
	SelectEnclosure = 0.125
)

// MinInner returns the smallest inner opening for a connection level.
func MinInner(c Connection) float64 {
	if c == ConnectMetal1 {
		return 0.38
	}

	return 0.27
}

// Builder draws a ring around an inner box.
type Builder struct {
	ringWidth  float64
	connection Connection
	selectLyr  layout.Layer
	hasSelect  bool
}

// MakeBuilder returns a builder for a minimum-width ring contacted to local
// interconnect.
func MakeBuilder() Builder {
	return Builder{
		ringWidth:  MinRingWidth,
		connection: ConnectLI,
	}
}

// WithRingWidth sets the width of the tap ring.
func (b Builder) WithRingWidth(w float64) Builder {
	b.ringWidth = w
	return b
}

// WithConnection sets the routing layers drawn over the tap.
func (b Builder) WithConnection(c Connection) Builder {
	b.connection = c
	return b
}

// WithSelect draws an annulus of the select layer straddling the ring.
func (b Builder) WithSelect(l layout.Layer) Builder {
	b.selectLyr = l
	b.hasSelect = true

	return b
}

func (b Builder) parametersMustBeValid(inner layout.Box) {
	if b.ringWidth <= 0 {
		panic("ring width must be positive")
	}

	if inner.Empty() {
		panic("guard ring inner box is empty")
	}

	if b.connection < ConnectNone || b.connection > ConnectMetal1 {
		panic(fmt.Sprintf("invalid connection %d", b.connection))
	}
}

// Build creates a ring whose opening is the inner box.
func (b Builder) Build(name string, inner layout.Box) *layout.Cell {
	b.parametersMustBeValid(inner)

	cell := layout.NewCell(name)
	outer := inner.Grow(b.ringWidth)
	ring := layout.RingBoxes(outer, inner)

	cell.AddRects(layers.Tap, ring...)

	if b.hasSelect {
		cell.AddRects(b.selectLyr, layout.RingBoxes(
			outer.Grow(SelectEnclosure), inner.Grow(-SelectEnclosure))...)
	}

	if b.connection >= ConnectLI {
		cell.AddRects(layers.LI, ring...)
		b.addSegments(cell, name+"_licon", via.LiconRule, inner, outer,
			via.DiffLiconEnclosure)
	}

	if b.connection >= ConnectMetal1 {
		cell.AddRects(layers.Met1, ring...)
		b.addSegments(cell, name+"_mcon", via.MconRule, inner, outer,
			via.Transitions[0].Above)
	}

	return cell
}

// addSegments fills the four sides of the ring with one cut array each.
// Enclosure is given for the top and bottom bars; the sides use it rotated.
func (b Builder) addSegments(
	cell *layout.Cell,
	name string,
	rule via.Rule,
	inner, outer layout.Box,
	enclosure layout.Point,
) {
	eps := TapContactSpacing
	rotated := layout.Point{X: enclosure.Y, Y: enclosure.X}

	y0, y1 := outer.Y0, outer.Y1
	if b.ringWidth >= rule.Size.X+2*rotated.X {
		y0, y1 = inner.Y0+eps, inner.Y1-eps
	}

	segments := []struct {
		suffix string
		region layout.Box
		enc    layout.Point
	}{
		{"top", layout.MakeBox(inner.X0+eps, inner.Y1, inner.X1-eps, outer.Y1), enclosure},
		{"bottom", layout.MakeBox(inner.X0+eps, outer.Y0, inner.X1-eps, inner.Y0), enclosure},
		{"left", layout.MakeBox(outer.X0, y0, inner.X0, y1), rotated},
		{"right", layout.MakeBox(inner.X1, y0, outer.X1, y1), rotated},
	}

	for _, s := range segments {
		cuts := via.Fill(name+"_"+s.suffix, s.region, rule, s.enc)
		cell.AddInstance(cuts, layout.Point{})
	}
}

// Params describe a standalone guard ring.
type Params struct {
	InnerL     float64
	InnerW     float64
	RingWidth  float64
	Connection Connection
}

// Coerce clamps the dimensions to the minimums of the connection level.
func (p Params) Coerce() Params {
	minInner := MinInner(p.Connection)

	p.InnerL = max(p.InnerL, minInner)
	p.InnerW = max(p.InnerW, minInner)
	p.RingWidth = max(p.RingWidth, MinRingWidth)

	return p
}

// Ring builds a standalone ring around an opening of innerW by innerL with
// its lower-left corner at the origin. Dimensions below the minimums are
// clamped.
func Ring(innerL, innerW, grw float64, c Connection) *layout.Cell {
	p := Params{
		InnerL:     innerL,
		InnerW:     innerW,
		RingWidth:  grw,
		Connection: c,
	}.Coerce()

	return MakeBuilder().
		WithRingWidth(p.RingWidth).
		WithConnection(p.Connection).
		Build("guard_ring", layout.MakeBox(0, 0, p.InnerW, p.InnerL))
}
