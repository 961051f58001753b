package via

import (
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
)

// A Rule describes one kind of cut: its layer, the size of a single cut, and
// the minimum distance between neighboring cuts.
type Rule struct {
	Layer   layout.Layer
	Size    layout.Point
	Spacing layout.Point
}

// Pitch is the center-to-center distance of neighboring cuts.
func (r Rule) Pitch() layout.Point {
	return r.Size.Add(r.Spacing)
}

// Cut rules.
var (
	LiconRule = Rule{layers.Licon, layout.Point{X: 0.17, Y: 0.17}, layout.Point{X: 0.17, Y: 0.17}}
	MconRule  = Rule{layers.Mcon, layout.Point{X: 0.17, Y: 0.17}, layout.Point{X: 0.19, Y: 0.19}}
	Via1Rule  = Rule{layers.Via1, layout.Point{X: 0.15, Y: 0.15}, layout.Point{X: 0.17, Y: 0.17}}
	Via2Rule  = Rule{layers.Via2, layout.Point{X: 0.2, Y: 0.2}, layout.Point{X: 0.2, Y: 0.2}}
	Via3Rule  = Rule{layers.Via3, layout.Point{X: 0.2, Y: 0.2}, layout.Point{X: 0.2, Y: 0.2}}
	Via4Rule  = Rule{layers.Via4, layout.Point{X: 0.8, Y: 0.8}, layout.Point{X: 0.8, Y: 0.8}}
)

// Enclosures of licon by the layer it lands on.
var (
	DiffLiconEnclosure = layout.Point{X: 0.04, Y: 0.06}
	PolyLiconEnclosure = layout.Point{X: 0.05, Y: 0.08}
)

const (
	// LILiconEnclosure is the one-direction enclosure of licon by local
	// interconnect.
	LILiconEnclosure = 0.08

	// NPCLiconEnclosure is how far the nitride poly cut opening extends
	// around licon on poly.
	NPCLiconEnclosure = 0.1

	// LiconGateSpacing is the distance from a diffusion contact to the gate.
	LiconGateSpacing = 0.05

	Met1MinArea  = 0.084
	Met5MinArea  = 4.0
	Met5MinWidth = 1.6
)

// A Transition is the cut between two consecutive routing levels together
// with how much the metal below and above must extend around it.
type Transition struct {
	Cut   Rule
	Below layout.Point
	Above layout.Point
}

// Transitions lists the cuts between routing levels. Transitions[k] connects
// layers.Metals[k] to layers.Metals[k+1].
var Transitions = [5]Transition{
	{MconRule, layout.Point{X: 0, Y: 0}, layout.Point{X: 0.03, Y: 0.06}},
	{Via1Rule, layout.Point{X: 0.055, Y: 0.085}, layout.Point{X: 0.055, Y: 0.085}},
	{Via2Rule, layout.Point{X: 0.085, Y: 0.04}, layout.Point{X: 0.065, Y: 0.065}},
	{Via3Rule, layout.Point{X: 0.09, Y: 0.06}, layout.Point{X: 0.065, Y: 0.065}},
	{Via4Rule, layout.Point{X: 0.19, Y: 0.19}, layout.Point{X: 0.31, Y: 0.31}},
}

// LiconEnclosure returns the enclosure of licon by a base layer.
func LiconEnclosure(base layout.Layer) layout.Point {
	if base == layers.Poly {
		return PolyLiconEnclosure
	}

	return DiffLiconEnclosure
}
