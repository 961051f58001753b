package resistor

import (
	"github.com/sarchlab/pcells/guardring"
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/via"
)

// Layout constants, in micrometers.
const (
	DiffusionHead     = 0.29
	PolyHead          = 0.33
	MetalTerminal     = 0.3
	IsoHead           = 0.5
	SelectEnclosure   = 0.125
	HVNTMEnclosure    = 0.185
	HVIEnclosure      = 0.18
	MarkerEnclosure   = 0.2
	TapSpacing        = 0.27
	TapSpacingHV      = 0.37
	IsoRingSpacing    = 0.6
	IsoNWellEnclosure = 0.18
	NWellEnclosure    = 0.18
	NWellEnclosureHV  = 0.33
)

// Terminal net names.
const (
	LabelLeft  = "R0"
	LabelRight = "R1"
)

type generator struct {
	p    Params
	kind Kind
	cell *layout.Cell

	body  layout.Box
	heads [2]layout.Box
}

// Generate builds the resistor described by p. Parameters are coerced first.
func Generate(p Params) *layout.Cell {
	p = p.Coerce()
	k, _ := LookupKind(p.Kind)

	g := &generator{
		p:    p,
		kind: k,
		cell: layout.NewCell(p.Kind),
		body: layout.MakeBox(0, 0, p.L, p.W),
	}

	switch v := k.Variant.(type) {
	case Diffusion:
		g.drawDiffusion(v)
	case Poly:
		g.drawPoly(v)
	case Metal:
		g.drawMetal(v)
	case IsoPwell:
		g.drawIsoPwell()
	}

	g.addBoundary()

	return g.cell
}

// stripe returns the body extended by a head of length h on both ends.
func stripe(body layout.Box, h float64) layout.Box {
	return layout.MakeBox(body.X0-h, body.Y0, body.X1+h, body.Y1)
}

// endBoxes returns the two boxes of length h beyond the ends of the body.
func endBoxes(body layout.Box, h float64) [2]layout.Box {
	return [2]layout.Box{
		layout.MakeBox(body.X0-h, body.Y0, body.X0, body.Y1),
		layout.MakeBox(body.X1, body.Y0, body.X1+h, body.Y1),
	}
}

// addHeads contacts both heads up to metal1 and labels the terminals.
func (g *generator) addHeads(base layout.Layer) {
	contact := via.Stack("head_contact",
		layout.MakeBox(0, 0, g.heads[0].Width(), g.heads[0].Height()),
		base, via.Metal1, via.Vertical)

	for _, h := range g.heads {
		g.cell.AddInstance(contact, layout.Point{X: h.X0, Y: h.Y0})
	}

	g.addTerminalLabels(layers.Met1Label)
}

func (g *generator) addTerminalLabels(l layout.Layer) {
	g.cell.AddLabel(l, LabelLeft, g.heads[0].Center())
	g.cell.AddLabel(l, LabelRight, g.heads[1].Center())
}

// addRing surrounds the extent with a tap ring contacted to local
// interconnect.
func (g *generator) addRing(inner layout.Box, tapSelect layout.Layer) layout.Box {
	ring := guardring.MakeBuilder().
		WithRingWidth(g.p.GRW).
		WithConnection(guardring.ConnectLI).
		WithSelect(tapSelect).
		Build("guard_ring", inner)
	g.cell.AddInstance(ring, layout.Point{})

	return inner.Grow(g.p.GRW)
}

func (g *generator) drawDiffusion(v Diffusion) {
	s := stripe(g.body, DiffusionHead)
	g.heads = endBoxes(g.body, DiffusionHead)

	g.cell.AddRect(layers.Diff, s)
	g.cell.AddRect(layers.DiffRes, g.body)
	g.addHeads(layers.Diff)

	bodySelect, tapSelect := layers.PSDM, layers.NSDM
	if v.NType {
		bodySelect, tapSelect = layers.NSDM, layers.PSDM
	}

	g.cell.AddRect(bodySelect, s.Grow(SelectEnclosure))

	extent := s
	if g.p.GuardRing {
		spacing := TapSpacing
		if v.HV {
			spacing = TapSpacingHV
		}

		extent = g.addRing(s.Grow(spacing), tapSelect)
	}

	if !v.NType {
		enc := NWellEnclosure
		if v.HV {
			enc = NWellEnclosureHV
		}

		g.cell.AddRect(layers.NWell, extent.Grow(enc))
	}

	if v.HV {
		g.cell.AddRect(layers.HVI, extent.Grow(HVIEnclosure))

		if v.NType {
			g.cell.AddRect(layers.HVNTM, s.Grow(HVNTMEnclosure))
		}
	}
}

func (g *generator) drawPoly(v Poly) {
	s := stripe(g.body, PolyHead)
	g.heads = endBoxes(g.body, PolyHead)

	g.cell.AddRect(layers.Poly, s)
	g.cell.AddRect(layers.PolyRes, g.body)
	g.addHeads(layers.Poly)

	if v.HasMarker {
		g.cell.AddRect(v.Marker, s.Grow(MarkerEnclosure))
		g.cell.AddRect(layers.PSDM, s.Grow(SelectEnclosure))
	}

	if g.p.GuardRing {
		g.addRing(s.Grow(TapSpacing), layers.PSDM)
	}
}

func (g *generator) drawMetal(v Metal) {
	s := stripe(g.body, MetalTerminal)
	g.heads = endBoxes(g.body, MetalTerminal)

	g.cell.AddRect(layers.Metals[v.Level], s)
	g.cell.AddRect(layers.MetalResistorIDs[v.Level], g.body)
	g.addTerminalLabels(layers.MetalLabels[v.Level])
}

func (g *generator) drawIsoPwell() {
	g.heads = [2]layout.Box{
		layout.MakeBox(g.body.X0, g.body.Y0, g.body.X0+IsoHead, g.body.Y1),
		layout.MakeBox(g.body.X1-IsoHead, g.body.Y0, g.body.X1, g.body.Y1),
	}

	g.cell.AddRect(layers.PwellRes, g.body)

	for _, h := range g.heads {
		g.cell.AddRect(layers.Tap, h)
		g.cell.AddRect(layers.PSDM, h.Grow(SelectEnclosure))
	}

	g.addHeads(layers.Tap)

	inner := g.body.Grow(IsoRingSpacing)
	outer := g.addRing(inner, layers.NSDM)

	g.cell.AddRects(layers.NWell, layout.RingBoxes(
		outer.Grow(IsoNWellEnclosure), inner.Grow(-IsoNWellEnclosure))...)
	g.cell.AddRect(layers.DNWell, inner.Grow(g.p.GRW/2))
}

func (g *generator) addBoundary() {
	bbox, _ := g.cell.BBox()
	g.cell.AddRect(layers.PRBndry, bbox)
}
