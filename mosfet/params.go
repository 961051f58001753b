package mosfet

import (
	"fmt"
	"unicode/utf8"

	"github.com/sarchlab/pcells/via"
)

// GatePosition selects where the poly contacts of the fingers go.
type GatePosition int

const (
	GateTop GatePosition = iota
	GateBottom
	GateAlternating
)

var gatePositionNames = []string{"top", "bottom", "alternating"}

func (g GatePosition) String() string {
	if g < 0 || int(g) >= len(gatePositionNames) {
		return fmt.Sprintf("GatePosition(%d)", int(g))
	}

	return gatePositionNames[g]
}

// ParseGatePosition converts a name produced by GatePosition.String back.
func ParseGatePosition(s string) (GatePosition, bool) {
	for i, n := range gatePositionNames {
		if n == s {
			return GatePosition(i), true
		}
	}

	return GateTop, false
}

// GatePositionNames lists the accepted gate contact positions.
func GatePositionNames() []string {
	return append([]string(nil), gatePositionNames...)
}

// Bulk selects how the body of the transistor is contacted.
type Bulk int

const (
	BulkNone Bulk = iota
	BulkTie
	BulkGuardRing
)

var bulkNames = []string{"none", "tie", "guard_ring"}

func (b Bulk) String() string {
	if b < 0 || int(b) >= len(bulkNames) {
		return fmt.Sprintf("Bulk(%d)", int(b))
	}

	return bulkNames[b]
}

// ParseBulk converts a name produced by Bulk.String back.
func ParseBulk(s string) (Bulk, bool) {
	for i, n := range bulkNames {
		if n == s {
			return Bulk(i), true
		}
	}

	return BulkNone, false
}

// BulkNames lists the accepted bulk modes.
func BulkNames() []string {
	return append([]string(nil), bulkNames...)
}

const (
	// WMin is the narrowest gate of every model.
	WMin = 0.42

	// GRWMin is the narrowest guard ring.
	GRWMin = 0.17

	// LSDMin is the smallest gap between fingers without contacts in it.
	LSDMin = 0.21

	// LSDMinContacted is the smallest gap between fingers holding a
	// contact column.
	LSDMinContacted = 0.27
)

// Params is the full parameter record of a transistor.
type Params struct {
	Kind               string
	L                  float64
	W                  float64
	NF                 int
	LSD                float64
	CCOL               int
	GatePos            GatePosition
	Bulk               Bulk
	GRW                float64
	InterFingerContact bool
	Interdigitate      bool
	Pattern            string
}

// DefaultParams returns a single-finger minimum-length transistor of a
// model.
func DefaultParams(kind string) Params {
	k, ok := LookupKind(kind)
	if !ok {
		k = kinds[DefaultKind]
	}

	return Params{
		Kind:    k.Name,
		L:       k.LMin,
		W:       1,
		NF:      1,
		LSD:     0.3,
		CCOL:    1,
		GatePos: GateAlternating,
		Bulk:    BulkNone,
		GRW:     GRWMin,
	}
}

// Coerce clamps every dimension to the minimum of the model. A nonempty
// interdigitation pattern redefines the finger count.
func (p Params) Coerce() Params {
	k, ok := LookupKind(p.Kind)
	if !ok {
		k = kinds[DefaultKind]
		p.Kind = k.Name
	}

	p.L = max(p.L, k.LMin)
	p.W = max(p.W, k.WMin)
	p.NF = max(p.NF, 1)
	p.CCOL = max(p.CCOL, 1)
	p.GRW = max(p.GRW, GRWMin)

	if p.InterFingerContact {
		p.LSD = max(p.LSD, LSDMinContacted)
	} else {
		p.LSD = max(p.LSD, LSDMin)
	}

	if p.GatePos < GateTop || p.GatePos > GateAlternating {
		p.GatePos = GateAlternating
	}

	if p.Bulk < BulkNone || p.Bulk > BulkGuardRing {
		p.Bulk = BulkNone
	}

	if p.Interdigitate {
		n := utf8.RuneCountInString(p.Pattern)
		if n > 0 && n != p.NF {
			p.NF = n
		}
	}

	return p
}

// Area is the total gate area.
func (p Params) Area() float64 {
	return float64(p.NF) * p.L * p.W
}

// Perimeter is the total gate perimeter.
func (p Params) Perimeter() float64 {
	return 2 * float64(p.NF) * (p.L + p.W)
}

// SDL is the length of the diffusion beyond the outermost gates, sized to hold
// ccol contact columns.
func SDL(ccol int) float64 {
	ccol = max(ccol, 1)
	r := via.LiconRule

	return float64(ccol)*r.Size.X +
		float64(ccol-1)*r.Spacing.X +
		2*via.DiffLiconEnclosure.X +
		via.LiconGateSpacing
}

// DiffusionLength is the x-extent of the source/drain diffusion.
func (p Params) DiffusionLength() float64 {
	return 2*SDL(p.CCOL) + float64(p.NF)*p.L + float64(p.NF-1)*p.LSD
}
