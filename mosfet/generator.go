package mosfet

import (
	"github.com/sarchlab/pcells/guardring"
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/via"
)

// Layout constants of the transistor body, in micrometers.
const (
	EndCap             = 0.2
	PolyPadWidth       = 0.27
	PolyPadHeight      = 0.33
	PolySpacing        = 0.21
	PolyExtension      = 0.2
	PolyTapSpacing     = 0.075
	SelectEnclosure    = 0.125
	HVNTMEnclosure     = 0.185
	ThresholdEnclosure = 0.18
	HVIEnclosure       = 0.18
	TieLengthRatio     = 1.5
)

type finger struct {
	x     float64
	above bool
	poly  layout.Box
	pad   layout.Box
}

type generator struct {
	p    Params
	kind Kind
	cell *layout.Cell

	diff    layout.Box
	tap     layout.Box
	hasTap  bool
	ring    layout.Box
	hasRing bool

	pitch   float64
	fingers []finger
	gates   layout.Box
}

// Generate builds the transistor described by p. Parameters are coerced
// first, so out-of-range values never fail.
func Generate(p Params) *layout.Cell {
	p = p.Coerce()
	k, _ := LookupKind(p.Kind)

	g := &generator{
		p:     p,
		kind:  k,
		cell:  layout.NewCell(p.Kind),
		pitch: p.L + p.LSD,
	}

	g.addDiffusion()
	g.addSourceDrainContacts()
	g.addFingers()

	if g.interdigitated() {
		g.addInterdigitation()
	}

	g.addBulk()
	g.addWellsAndMarkers()
	g.addBoundary()

	return g.cell
}

func (g *generator) selectLayers() (device, tap layout.Layer) {
	if g.kind.PMOS {
		return layers.PSDM, layers.NSDM
	}

	return layers.NSDM, layers.PSDM
}

func (g *generator) fingerX(i int) float64 {
	return SDL(g.p.CCOL) + float64(i)*g.pitch
}

func (g *generator) addDiffusion() {
	g.diff = layout.MakeBox(0, 0, g.p.DiffusionLength(), g.p.W)
	g.cell.AddRect(layers.Diff, g.diff)
}

func (g *generator) addSourceDrainContacts() {
	sdl := SDL(g.p.CCOL)
	region := layout.MakeBox(0, 0, sdl-via.LiconGateSpacing, g.p.W)

	sd := via.Stack("sd_contact", region, layers.Diff, via.Metal1, via.Vertical)
	g.cell.AddInstance(sd, layout.Point{})
	g.cell.AddInstance(sd, layout.Point{X: g.diff.X1 - region.X1})

	if !g.p.InterFingerContact || g.p.NF < 2 {
		return
	}

	gap := layout.MakeBox(0, 0, g.p.LSD-2*via.LiconGateSpacing, g.p.W)
	inner := via.MakeStackBuilder().
		WithBaseEnclosure(layout.Point{Y: via.DiffLiconEnclosure.Y}).
		Build("gap_contact", gap)

	g.cell.AddArray(inner,
		layout.Point{X: g.fingerX(0) + g.p.L + via.LiconGateSpacing},
		g.p.NF-1, 1, g.pitch, 0)
}

// tight tells if two pads side by side would violate poly spacing.
func (g *generator) tight() bool {
	if g.p.NF < 2 {
		return false
	}

	padW := max(g.p.L, PolyPadWidth)
	return g.pitch-padW < PolySpacing-layout.Eps
}

func (g *generator) contactAbove(i int) bool {
	switch g.p.GatePos {
	case GateTop:
		return true
	case GateBottom:
		return false
	default:
		return i%2 == 1
	}
}

func (g *generator) extension(i int) float64 {
	if !g.tight() {
		return 0
	}

	if g.p.GatePos == GateAlternating {
		return PolyExtension
	}

	if i%2 == 1 {
		return PolyPadHeight + PolySpacing
	}

	return 0
}

func (g *generator) polyContact() *layout.Cell {
	top := via.LocalInterconnect
	if g.interdigitated() {
		top = via.Metal1
	}

	padW := max(g.p.L, PolyPadWidth)
	pad := layout.BoxAt(-padW/2, 0, padW, PolyPadHeight)

	c := layout.NewCell("poly_contact")
	c.AddRect(layers.Poly, pad)
	c.AddInstance(via.MakeStackBuilder().
		WithBase(layers.Poly).
		WithTop(top).
		Build("poly_contact_stack", pad), layout.Point{})

	return c
}

// fingerCell draws one finger with its gate contact. The finger starts at
// x = 0 and the channel spans y = 0 to W.
func (g *generator) fingerCell(name string, i int, contact *layout.Cell) (*layout.Cell, finger) {
	above := g.contactAbove(i)
	ext := g.extension(i)
	y0, y1 := -EndCap, g.p.W+EndCap

	padY := y1 + ext
	if above {
		y1 += ext
	} else {
		y0 -= ext
		padY = y0 - PolyPadHeight
	}

	poly := layout.MakeBox(0, y0, g.p.L, y1)
	origin := layout.Point{X: g.p.L / 2, Y: padY}

	c := layout.NewCell(name)
	c.AddRect(layers.Poly, poly)
	c.AddInstance(contact, origin)

	padBox, _ := contact.BBox()

	return c, finger{above: above, poly: poly, pad: padBox.Translate(origin)}
}

func (g *generator) addFingers() {
	contact := g.polyContact()

	even, evenF := g.fingerCell("poly_even", 0, contact)
	g.cell.AddArray(even, layout.Point{X: g.fingerX(0)}, (g.p.NF+1)/2, 1, 2*g.pitch, 0)

	var oddF finger
	if g.p.NF > 1 {
		var odd *layout.Cell
		odd, oddF = g.fingerCell("poly_odd", 1, contact)
		g.cell.AddArray(odd, layout.Point{X: g.fingerX(1)}, g.p.NF/2, 1, 2*g.pitch, 0)
	}

	for i := 0; i < g.p.NF; i++ {
		f := evenF
		if i%2 == 1 {
			f = oddF
		}

		off := layout.Point{X: g.fingerX(i)}
		f.x = off.X
		f.poly = f.poly.Translate(off)
		f.pad = f.pad.Translate(off)

		if i == 0 {
			g.gates = f.poly.Union(f.pad)
		} else {
			g.gates = g.gates.Union(f.poly).Union(f.pad)
		}

		g.fingers = append(g.fingers, f)
	}
}

func (g *generator) addBulk() {
	devSel, tapSel := g.selectLayers()

	switch g.p.Bulk {
	case BulkTie:
		g.addTie(devSel, tapSel)
	case BulkGuardRing:
		g.addGuardRing(devSel, tapSel)
	default:
		g.cell.AddRect(devSel, g.diff.Grow(SelectEnclosure))
	}

	if g.kind.HV && !g.kind.PMOS {
		g.cell.AddRect(layers.HVNTM, g.diff.Grow(HVNTMEnclosure))
	}
}

func (g *generator) addTie(devSel, tapSel layout.Layer) {
	tieL := TieLengthRatio * SDL(g.p.CCOL)
	g.tap = layout.MakeBox(g.diff.X1, g.diff.Y0, g.diff.X1+tieL, g.diff.Y1)
	g.hasTap = true

	g.cell.AddRect(layers.Tap, g.tap)
	g.cell.AddInstance(
		via.Stack("bulk_contact", g.tap, layers.Tap, via.Metal1, via.Vertical),
		layout.Point{})

	se := SelectEnclosure
	g.cell.AddRect(devSel, layout.MakeBox(
		g.diff.X0-se, g.diff.Y0-se, g.diff.X1, g.diff.Y1+se))
	g.cell.AddRect(tapSel, layout.MakeBox(
		g.tap.X0, g.tap.Y0-se, g.tap.X1+se, g.tap.Y1+se))
}

func (g *generator) addGuardRing(devSel, tapSel layout.Layer) {
	dts := g.kind.diffTapSpacing()
	inner := g.diff.Grow(dts).Union(g.gates.Grow(PolyTapSpacing))

	ring := guardring.MakeBuilder().
		WithRingWidth(g.p.GRW).
		WithConnection(guardring.ConnectLI).
		WithSelect(tapSel).
		Build("guard_ring", inner)
	g.cell.AddInstance(ring, layout.Point{})

	g.ring = inner.Grow(g.p.GRW)
	g.hasRing = true

	g.cell.AddRect(devSel, g.diff.Grow(SelectEnclosure))
}

// deviceExtent covers the diffusion, the tie and the guard ring.
func (g *generator) deviceExtent() layout.Box {
	if g.hasRing {
		return g.ring
	}

	ext := g.diff
	if g.hasTap {
		ext = ext.Union(g.tap)
	}

	return ext
}

func (g *generator) addWellsAndMarkers() {
	k := g.kind
	ext := g.deviceExtent()

	var nwell layout.Box
	if k.PMOS {
		nwell = ext.Grow(k.nwellEnclosure())
		g.cell.AddRect(layers.NWell, nwell)
	}

	if k.HV {
		hvi := ext.Grow(HVIEnclosure)
		if k.PMOS {
			hvi = nwell
		}

		g.cell.AddRect(layers.HVI, hvi)
	}

	gates := g.fingers[0].poly
	for _, f := range g.fingers[1:] {
		gates = gates.Union(f.poly)
	}

	if k.LVT {
		g.cell.AddRect(layers.LVTN, gates.Grow(ThresholdEnclosure))
	}

	if k.HVT {
		g.cell.AddRect(layers.HVTP, gates.Grow(ThresholdEnclosure))
	}

	if k.Native {
		for _, f := range g.fingers {
			channel := layout.MakeBox(f.x, g.diff.Y0, f.x+g.p.L, g.diff.Y1)
			g.cell.AddRect(layers.LVNArea, channel.Grow(ThresholdEnclosure))
		}
	}
}

func (g *generator) addBoundary() {
	bbox, _ := g.cell.BBox()
	g.cell.AddRect(layers.PRBndry, bbox)
}
