// Package resistor generates marked resistor layouts for the diffusion,
// poly, metal and isolated-pwell resistor families.
package resistor

import (
	"sort"

	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/via"
)

// A Variant is the family-specific part of a resistor kind. The concrete
// types are Diffusion, Poly, Metal and IsoPwell.
type Variant interface {
	family() string
}

// Diffusion resistors run on an n+ or p+ diffusion stripe.
type Diffusion struct {
	NType bool
	HV    bool
}

// Poly resistors run on a poly stripe, optionally under a resistive poly
// marker.
type Poly struct {
	Marker    layout.Layer
	HasMarker bool
}

// Metal resistors mark a section of a routing layer.
type Metal struct {
	Level via.Level
}

// IsoPwell resistors use a pwell isolated in a deep nwell tub.
type IsoPwell struct{}

func (Diffusion) family() string { return "diffusion" }
func (Poly) family() string      { return "poly" }
func (Metal) family() string     { return "metal" }
func (IsoPwell) family() string  { return "iso_pwell" }

// Family names the family of a variant.
func Family(v Variant) string {
	return v.family()
}

// A Kind is one resistor model.
type Kind struct {
	Name    string
	Variant Variant

	// Sheet is the resistance coefficient of the body.
	Sheet float64
	LMin  float64
	WMin  float64

	// GRWExposed tells if the ring width is a user parameter. When false
	// the ring is always drawn at the minimum width.
	GRWExposed bool
}

// DefaultKind is used when a parameter record names no known model.
const DefaultKind = "res_generic_po"

var polyBuckets = []struct {
	suffix string
	width  float64
}{
	{"0p35", 0.35},
	{"0p69", 0.69},
	{"1p41", 1.41},
	{"2p85", 2.85},
	{"5p73", 5.73},
}

var metalSheets = [6]float64{12.8, 0.125, 0.125, 0.047, 0.047, 0.029}
var metalMinWidths = [6]float64{0.17, 0.14, 0.14, 0.3, 0.3, 1.6}
var metalNames = [6]string{"l1", "m1", "m2", "m3", "m4", "m5"}

var kinds = newKindTable()

func newKindTable() map[string]Kind {
	var list []Kind

	list = append(list,
		Kind{Name: "res_generic_nd", Variant: Diffusion{NType: true},
			Sheet: 772.2, LMin: 0.42, WMin: 0.42},
		Kind{Name: "res_generic_nd__hv", Variant: Diffusion{NType: true, HV: true},
			Sheet: 772.2, LMin: 0.42, WMin: 0.42},
		Kind{Name: "res_generic_pd", Variant: Diffusion{},
			Sheet: 197, LMin: 0.42, WMin: 0.42, GRWExposed: true},
		Kind{Name: "res_generic_pd__hv", Variant: Diffusion{HV: true},
			Sheet: 197, LMin: 0.42, WMin: 0.42, GRWExposed: true},
		Kind{Name: "res_generic_po", Variant: Poly{},
			Sheet: 48.2, LMin: 0.33, WMin: 0.33, GRWExposed: true},
		Kind{Name: "res_iso_pw", Variant: IsoPwell{},
			Sheet: 975, LMin: 26.5, WMin: 2.65, GRWExposed: true},
	)

	for _, b := range polyBuckets {
		list = append(list,
			Kind{Name: "res_high_po_" + b.suffix,
				Variant: Poly{Marker: layers.RPM, HasMarker: true},
				Sheet:   319.8, LMin: 0.5, WMin: b.width, GRWExposed: true},
			Kind{Name: "res_xhigh_po_" + b.suffix,
				Variant: Poly{Marker: layers.URPM, HasMarker: true},
				Sheet:   2000, LMin: 0.5, WMin: b.width, GRWExposed: true},
		)
	}

	for i, n := range metalNames {
		list = append(list, Kind{
			Name:    "res_generic_" + n,
			Variant: Metal{Level: via.Level(i)},
			Sheet:   metalSheets[i],
			LMin:    metalMinWidths[i],
			WMin:    metalMinWidths[i],
		})
	}

	table := make(map[string]Kind, len(list))
	for _, k := range list {
		if _, dup := table[k.Name]; dup {
			panic("duplicate resistor kind " + k.Name)
		}

		table[k.Name] = k
	}

	return table
}

// LookupKind finds a model by name.
func LookupKind(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// KindNames lists all models sorted by name.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for n := range kinds {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// HasGuardRing tells if the family can be surrounded by a guard ring.
func (k Kind) HasGuardRing() bool {
	switch k.Variant.(type) {
	case Diffusion, Poly:
		return true
	default:
		return false
	}
}
