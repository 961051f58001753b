package mosfet

import (
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/via"
)

// Interdigitation wiring constants.
const (
	StrapWidth  = 0.26
	Met2Spacing = 0.14
	LinkOffset  = 0.3
)

// BusWidth is the height of a metal2 bus, sized to enclose one via1.
var BusWidth = via.Via1Rule.Size.Y + 2*via.Transitions[1].Above.Y

func (g *generator) interdigitated() bool {
	if !g.p.Interdigitate {
		return false
	}

	return len([]rune(g.p.Pattern)) == g.p.NF
}

type busGroup struct {
	above   bool
	base    float64
	symbols []string
	index   map[string]int
}

func newBusGroup(above bool, base float64) *busGroup {
	return &busGroup{above: above, base: base, index: map[string]int{}}
}

func (b *busGroup) add(sym string) {
	if _, ok := b.index[sym]; ok {
		return
	}

	b.index[sym] = len(b.symbols)
	b.symbols = append(b.symbols, sym)
}

// yRange returns the vertical extent of the bus of a symbol. Upper buses
// stack upward from the base and lower buses stack downward.
func (b *busGroup) yRange(sym string) (float64, float64) {
	k := float64(b.index[sym])
	step := BusWidth + Met2Spacing

	if b.above {
		y0 := b.base + k*step
		return y0, y0 + BusWidth
	}

	y1 := b.base - k*step

	return y1 - BusWidth, y1
}

// addInterdigitation connects every gate to a metal2 bus named by its
// pattern symbol.
func (g *generator) addInterdigitation() {
	symbols := []rune(g.p.Pattern)

	upper, lower := g.busGroups(symbols)

	busX := make(map[*busGroup]map[string][2]float64)
	busX[upper] = map[string][2]float64{}
	busX[lower] = map[string][2]float64{}

	viaCell := via.Fill("via1",
		layout.BoxAt(0, 0, StrapWidth, BusWidth),
		via.Via1Rule, via.Transitions[1].Below)

	tapBus := func(group *busGroup, sym string, x0 float64) {
		y0, y1 := group.yRange(sym)

		g.cell.AddInstance(viaCell, layout.Point{X: x0, Y: y0})
		g.cell.AddLabel(layers.Met2Label, sym,
			layout.Point{X: x0 + StrapWidth/2, Y: (y0 + y1) / 2})

		r, ok := busX[group][sym]
		if !ok {
			r = [2]float64{g.diff.X0, g.diff.X1}
		}

		r[0] = min(r[0], x0)
		r[1] = max(r[1], x0+StrapWidth)
		busX[group][sym] = r
	}

	for i, f := range g.fingers {
		group := lower
		if f.above {
			group = upper
		}

		sym := string(symbols[i])
		x0 := f.x + g.p.L/2 - StrapWidth/2
		y0, y1 := group.yRange(sym)
		yPad := f.pad.Center().Y

		if group.above {
			g.cell.AddRect(layers.Met1, layout.MakeBox(x0, yPad, x0+StrapWidth, y1))
		} else {
			g.cell.AddRect(layers.Met1, layout.MakeBox(x0, y0, x0+StrapWidth, yPad))
		}

		tapBus(group, sym, x0)
	}

	g.addCrossLinks(upper, lower, tapBus)

	for _, group := range []*busGroup{upper, lower} {
		for _, sym := range group.symbols {
			y0, y1 := group.yRange(sym)
			r := busX[group][sym]
			g.cell.AddRect(layers.Met2, layout.MakeBox(r[0], y0, r[1], y1))
		}
	}
}

func (g *generator) busGroups(symbols []rune) (upper, lower *busGroup) {
	top, bottom := g.diff.Y1, g.diff.Y0

	for _, f := range g.fingers {
		if f.above {
			top = max(top, f.pad.Y1)
		} else {
			bottom = min(bottom, f.pad.Y0)
		}
	}

	upper = newBusGroup(true, top+Met2Spacing)
	lower = newBusGroup(false, bottom-Met2Spacing)

	for i, f := range g.fingers {
		if f.above {
			upper.add(string(symbols[i]))
		} else {
			lower.add(string(symbols[i]))
		}
	}

	return upper, lower
}

// addCrossLinks joins the upper and lower buses of a symbol used on both
// sides. Links go on the left when a tie occupies the right end.
func (g *generator) addCrossLinks(
	upper, lower *busGroup,
	tapBus func(group *busGroup, sym string, x0 float64),
) {
	n := 0

	for _, sym := range upper.symbols {
		if _, shared := lower.index[sym]; !shared {
			continue
		}

		step := float64(n) * (StrapWidth + Met2Spacing)
		x0 := g.diff.X1 + LinkOffset + step
		if g.p.Bulk == BulkTie {
			x0 = g.diff.X0 - LinkOffset - step - StrapWidth
		}

		_, upperTop := upper.yRange(sym)
		lowerBottom, _ := lower.yRange(sym)

		g.cell.AddRect(layers.Met1,
			layout.MakeBox(x0, lowerBottom, x0+StrapWidth, upperTop))
		tapBus(upper, sym, x0)
		tapBus(lower, sym, x0)

		n++
	}
}
