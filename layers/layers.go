// Package layers is the process layer table. Every builder takes its layers
// from here; nothing else assigns layer numbers.
package layers

import (
	"sort"

	"github.com/sarchlab/pcells/layout"
)

// Drawing layers.
var (
	Diff    = layout.Layer{Number: 65, Purpose: 20}
	Tap     = layout.Layer{Number: 65, Purpose: 44}
	NWell   = layout.Layer{Number: 64, Purpose: 20}
	DNWell  = layout.Layer{Number: 64, Purpose: 18}
	Poly    = layout.Layer{Number: 66, Purpose: 20}
	NSDM    = layout.Layer{Number: 93, Purpose: 44}
	PSDM    = layout.Layer{Number: 94, Purpose: 20}
	NPC     = layout.Layer{Number: 95, Purpose: 20}
	Licon   = layout.Layer{Number: 66, Purpose: 44}
	LI      = layout.Layer{Number: 67, Purpose: 20}
	Mcon    = layout.Layer{Number: 67, Purpose: 44}
	Met1    = layout.Layer{Number: 68, Purpose: 20}
	Via1    = layout.Layer{Number: 68, Purpose: 44}
	Met2    = layout.Layer{Number: 69, Purpose: 20}
	Via2    = layout.Layer{Number: 69, Purpose: 44}
	Met3    = layout.Layer{Number: 70, Purpose: 20}
	Via3    = layout.Layer{Number: 70, Purpose: 44}
	Met4    = layout.Layer{Number: 71, Purpose: 20}
	Via4    = layout.Layer{Number: 71, Purpose: 44}
	Met5    = layout.Layer{Number: 72, Purpose: 20}
	HVI     = layout.Layer{Number: 75, Purpose: 20}
	HVTP    = layout.Layer{Number: 78, Purpose: 44}
	LVTN    = layout.Layer{Number: 125, Purpose: 44}
	HVNTM   = layout.Layer{Number: 125, Purpose: 20}
	CapM    = layout.Layer{Number: 89, Purpose: 44}
	CapM2   = layout.Layer{Number: 97, Purpose: 44}
	RPM     = layout.Layer{Number: 86, Purpose: 20}
	URPM    = layout.Layer{Number: 79, Purpose: 20}
	LVNArea = layout.Layer{Number: 81, Purpose: 60}
	Diode   = layout.Layer{Number: 81, Purpose: 23}
	PRBndry = layout.Layer{Number: 235, Purpose: 4}
)

// Resistor identification layers, one per body material.
var (
	PwellRes = layout.Layer{Number: 64, Purpose: 13}
	DiffRes  = layout.Layer{Number: 65, Purpose: 13}
	PolyRes  = layout.Layer{Number: 66, Purpose: 13}
	LIRes    = layout.Layer{Number: 67, Purpose: 13}
	Met1Res  = layout.Layer{Number: 68, Purpose: 13}
	Met2Res  = layout.Layer{Number: 69, Purpose: 13}
	Met3Res  = layout.Layer{Number: 70, Purpose: 13}
	Met4Res  = layout.Layer{Number: 71, Purpose: 13}
	Met5Res  = layout.Layer{Number: 72, Purpose: 13}
)

// Label purposes.
var (
	LILabel   = layout.Layer{Number: 67, Purpose: 5}
	Met1Label = layout.Layer{Number: 68, Purpose: 5}
	Met2Label = layout.Layer{Number: 69, Purpose: 5}
	Met3Label = layout.Layer{Number: 70, Purpose: 5}
	Met4Label = layout.Layer{Number: 71, Purpose: 5}
	Met5Label = layout.Layer{Number: 72, Purpose: 5}
)

var byName = map[string]layout.Layer{
	"diff":     Diff,
	"tap":      Tap,
	"nwell":    NWell,
	"dnwell":   DNWell,
	"poly":     Poly,
	"nsdm":     NSDM,
	"psdm":     PSDM,
	"npc":      NPC,
	"licon":    Licon,
	"li":       LI,
	"mcon":     Mcon,
	"met1":     Met1,
	"via1":     Via1,
	"met2":     Met2,
	"via2":     Via2,
	"met3":     Met3,
	"via3":     Via3,
	"met4":     Met4,
	"via4":     Via4,
	"met5":     Met5,
	"hvi":      HVI,
	"hvtp":     HVTP,
	"lvtn":     LVTN,
	"hvntm":    HVNTM,
	"capm":     CapM,
	"capm2":    CapM2,
	"rpm":      RPM,
	"urpm":     URPM,
	"lvn":      LVNArea,
	"diode":    Diode,
	"prbndry":  PRBndry,
	"pwres":    PwellRes,
	"diffres":  DiffRes,
	"polyres":  PolyRes,
	"lires":    LIRes,
	"met1res":  Met1Res,
	"met2res":  Met2Res,
	"met3res":  Met3Res,
	"met4res":  Met4Res,
	"met5res":  Met5Res,
	"li.lbl":   LILabel,
	"met1.lbl": Met1Label,
	"met2.lbl": Met2Label,
	"met3.lbl": Met3Label,
	"met4.lbl": Met4Label,
	"met5.lbl": Met5Label,
}

var nameOf = func() map[layout.Layer]string {
	m := make(map[layout.Layer]string, len(byName))
	for n, l := range byName {
		m[l] = n
	}

	return m
}()

// ByName looks up a layer by its symbolic name.
func ByName(name string) (layout.Layer, bool) {
	l, ok := byName[name]
	return l, ok
}

// MustByName is ByName for names that are known to exist.
func MustByName(name string) layout.Layer {
	l, ok := byName[name]
	if !ok {
		panic("unknown layer " + name)
	}

	return l
}

// Name returns the symbolic name of a layer, or its number/purpose pair if
// the layer is not in the table.
func Name(l layout.Layer) string {
	if n, ok := nameOf[l]; ok {
		return n
	}

	return l.String()
}

// Names returns all symbolic layer names in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Metals lists the routing layers from local interconnect (index 0) up to
// metal5 (index 5).
var Metals = [6]layout.Layer{LI, Met1, Met2, Met3, Met4, Met5}

// MetalLabels lists the label purpose of each routing layer, indexed like
// Metals.
var MetalLabels = [6]layout.Layer{LILabel, Met1Label, Met2Label, Met3Label, Met4Label, Met5Label}

// MetalResistorIDs lists the resistor marker of each routing layer, indexed
// like Metals.
var MetalResistorIDs = [6]layout.Layer{LIRes, Met1Res, Met2Res, Met3Res, Met4Res, Met5Res}
