package via

import (
	"fmt"

	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
)

// Level selects the top routing layer of a stack.
type Level int

// Routing levels, indexed like layers.Metals.
const (
	LocalInterconnect Level = iota
	Metal1
	Metal2
	Metal3
	Metal4
	Metal5
)

// Layer returns the routing layer of the level.
func (l Level) Layer() layout.Layer {
	return layers.Metals[l]
}

func (l Level) String() string {
	if l == LocalInterconnect {
		return "li"
	}

	return fmt.Sprintf("met%d", int(l))
}

// Direction selects the side on which local interconnect extends past licon.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

func (d Direction) liEnclosure() layout.Point {
	if d == Horizontal {
		return layout.Point{X: LILiconEnclosure}
	}

	return layout.Point{Y: LILiconEnclosure}
}

// StackBuilder builds a column of cuts and metals from a base layer up to a
// top routing level. The base layer itself is drawn by the caller.
type StackBuilder struct {
	base  layout.Layer
	top   Level
	liDir Direction

	baseEnclosure    layout.Point
	hasBaseEnclosure bool
}

// MakeStackBuilder returns a builder for a diffusion to metal1 stack.
func MakeStackBuilder() StackBuilder {
	return StackBuilder{
		base:  layers.Diff,
		top:   Metal1,
		liDir: Vertical,
	}
}

// WithBase sets the layer the licon cuts land on.
func (b StackBuilder) WithBase(base layout.Layer) StackBuilder {
	b.base = base
	return b
}

// WithTop sets the highest routing level of the stack.
func (b StackBuilder) WithTop(top Level) StackBuilder {
	b.top = top
	return b
}

// WithLIDirection sets the side on which local interconnect extends past
// the licon cuts.
func (b StackBuilder) WithLIDirection(dir Direction) StackBuilder {
	b.liDir = dir
	return b
}

// WithBaseEnclosure overrides the enclosure of licon by the base layer.
func (b StackBuilder) WithBaseEnclosure(enc layout.Point) StackBuilder {
	b.baseEnclosure = enc
	b.hasBaseEnclosure = true

	return b
}

func (b StackBuilder) parametersMustBeValid() {
	if b.top < LocalInterconnect || b.top > Metal5 {
		panic(fmt.Sprintf("invalid top level %d", b.top))
	}
}

// Build creates the stack cell. The licon cuts fill the region.
func (b StackBuilder) Build(name string, region layout.Box) *layout.Cell {
	b.parametersMustBeValid()

	cell := layout.NewCell(name)

	enc := LiconEnclosure(b.base)
	if b.hasBaseEnclosure {
		enc = b.baseEnclosure
	}

	licon := Fill(name+"_licon", region, LiconRule, enc)
	cell.AddInstance(licon, layout.Point{})
	liconBox, _ := licon.BBox()

	if b.base == layers.Poly {
		cell.AddRect(layers.NPC, liconBox.Grow(NPCLiconEnclosure))
	}

	liEnc := b.liDir.liEnclosure()
	metal := liconBox.Expand(liEnc.X, liEnc.Y)
	cell.AddRect(layers.LI, metal)

	for k := 1; k <= int(b.top); k++ {
		t := Transitions[k-1]

		cuts := Fill(fmt.Sprintf("%s_%s", name, cutName(k-1)), metal, t.Cut, t.Below)
		cell.AddInstance(cuts, layout.Point{})
		cutBox, _ := cuts.BBox()

		metal = cutBox.Expand(t.Above.X, t.Above.Y)

		if k < int(b.top) {
			next := Transitions[k]
			footprint := layout.CenteredBox(metal.Center(),
				next.Cut.Size.X+2*next.Below.X,
				next.Cut.Size.Y+2*next.Below.Y)
			metal = metal.Union(footprint)
		}

		metal = applyMetalMinimums(Level(k), metal)
		cell.AddRect(layers.Metals[k], metal)
	}

	return cell
}

func applyMetalMinimums(level Level, metal layout.Box) layout.Box {
	switch level {
	case Metal1:
		metal = metal.WithMinArea(Met1MinArea)
	case Metal5:
		metal = metal.WithMinSize(Met5MinWidth, Met5MinWidth)
		metal = metal.WithMinArea(Met5MinArea)
	}

	return metal
}

func cutName(transition int) string {
	if transition == 0 {
		return "mcon"
	}

	return fmt.Sprintf("via%d", transition)
}

// Stack is a shorthand for building a stack in one call.
func Stack(
	name string,
	region layout.Box,
	base layout.Layer,
	top Level,
	liDir Direction,
) *layout.Cell {
	return MakeStackBuilder().
		WithBase(base).
		WithTop(top).
		WithLIDirection(liDir).
		Build(name, region)
}
