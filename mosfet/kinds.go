// Package mosfet generates multi-finger MOS transistor layouts.
package mosfet

import "sort"

// A Kind is a transistor model of the process. The name is used verbatim as
// the model identifier.
type Kind struct {
	Name   string
	PMOS   bool
	HV     bool
	Native bool
	LVT    bool
	HVT    bool
	LMin   float64
	WMin   float64
}

// DefaultKind is used when a parameter record names no known model.
const DefaultKind = "nfet_01v8"

var kinds = newKindTable([]Kind{
	{Name: "nfet_01v8", LMin: 0.15},
	{Name: "nfet_01v8_lvt", LVT: true, LMin: 0.15},
	{Name: "nfet_03v3_nvt", HV: true, Native: true, LMin: 0.5},
	{Name: "nfet_05v0_nvt", HV: true, Native: true, LMin: 0.9},
	{Name: "nfet_g5v0d10v5", HV: true, LMin: 0.5},
	{Name: "pfet_01v8", PMOS: true, LMin: 0.15},
	{Name: "pfet_01v8_lvt", PMOS: true, LVT: true, LMin: 0.35},
	{Name: "pfet_01v8_hvt", PMOS: true, HVT: true, LMin: 0.15},
	{Name: "pfet_g5v0d10v5", PMOS: true, HV: true, LMin: 0.5},
})

func newKindTable(list []Kind) map[string]Kind {
	table := make(map[string]Kind, len(list))

	for _, k := range list {
		if _, dup := table[k.Name]; dup {
			panic("duplicate mosfet kind " + k.Name)
		}

		if k.WMin == 0 {
			k.WMin = WMin
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

func (k Kind) diffTapSpacing() float64 {
	if k.HV {
		return 0.37
	}

	return 0.27
}

func (k Kind) nwellEnclosure() float64 {
	if k.HV {
		return 0.34
	}

	return 0.18
}
