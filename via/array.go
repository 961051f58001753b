// Package via fills regions with contact and via cuts and builds contact
// stacks from a base layer up to a chosen metal.
package via

import (
	"math"

	"github.com/sarchlab/pcells/layout"
)

// ArrayBuilder fills a rectangular region with a regular grid of cuts.
type ArrayBuilder struct {
	rule      Rule
	enclosure layout.Point
}

// MakeArrayBuilder returns an ArrayBuilder that places licon cuts without
// enclosure.
func MakeArrayBuilder() ArrayBuilder {
	return ArrayBuilder{rule: LiconRule}
}

// WithRule sets the cut layer, size and spacing.
func (b ArrayBuilder) WithRule(rule Rule) ArrayBuilder {
	b.rule = rule
	return b
}

// WithEnclosure sets how far the region edge must stay from the cuts.
func (b ArrayBuilder) WithEnclosure(enclosure layout.Point) ArrayBuilder {
	b.enclosure = enclosure
	return b
}

// Build creates a cell whose cuts fill the region. The grid is as large as the
// enclosure and spacing allow and is centered in the region. At least one cut
// is always placed, even if the region is too small to enclose it.
func (b ArrayBuilder) Build(name string, region layout.Box) *layout.Cell {
	cols := cutCount(region.Width(), b.rule.Size.X, b.rule.Spacing.X, b.enclosure.X)
	rows := cutCount(region.Height(), b.rule.Size.Y, b.rule.Spacing.Y, b.enclosure.Y)

	gridW := float64(cols)*b.rule.Size.X + float64(cols-1)*b.rule.Spacing.X
	gridH := float64(rows)*b.rule.Size.Y + float64(rows-1)*b.rule.Spacing.Y

	origin := layout.Point{
		X: region.X0 + (region.Width()-gridW)/2,
		Y: region.Y0 + (region.Height()-gridH)/2,
	}

	unit := layout.NewCell(name + "_cut")
	unit.AddRect(b.rule.Layer, layout.BoxAt(0, 0, b.rule.Size.X, b.rule.Size.Y))

	array := layout.NewCell(name)
	array.AddArray(unit, origin, cols, rows, b.rule.Pitch().X, b.rule.Pitch().Y)

	return array
}

func cutCount(length, size, spacing, enclosure float64) int {
	n := int(math.Floor((length-2*enclosure+spacing)/(size+spacing) + layout.Eps))
	if n < 1 {
		n = 1
	}

	return n
}

// Fill is a shorthand for building a cut array in one call.
func Fill(
	name string,
	region layout.Box,
	rule Rule,
	enclosure layout.Point,
) *layout.Cell {
	return MakeArrayBuilder().
		WithRule(rule).
		WithEnclosure(enclosure).
		Build(name, region)
}
