package resistor

// GRWMin is the narrowest guard ring.
const GRWMin = 0.17

// Params is the full parameter record of a resistor. L runs along the
// current flow.
type Params struct {
	Kind      string
	L         float64
	W         float64
	GuardRing bool
	GRW       float64
}

// DefaultParams returns a minimum-size resistor of a model.
func DefaultParams(kind string) Params {
	k, ok := LookupKind(kind)
	if !ok {
		k = kinds[DefaultKind]
	}

	return Params{
		Kind: k.Name,
		L:    max(k.LMin, 1),
		W:    k.WMin,
		GRW:  GRWMin,
	}
}

// Coerce clamps the dimensions to the minimums of the model. Models that do
// not expose the ring width always use the minimum.
func (p Params) Coerce() Params {
	k, ok := LookupKind(p.Kind)
	if !ok {
		k = kinds[DefaultKind]
		p.Kind = k.Name
	}

	p.L = max(p.L, k.LMin)
	p.W = max(p.W, k.WMin)
	p.GRW = max(p.GRW, GRWMin)

	if !k.GRWExposed {
		p.GRW = GRWMin
	}

	if !k.HasGuardRing() {
		p.GuardRing = false
	}

	return p
}

// Resistance is the value reported for the body.
func (p Params) Resistance() float64 {
	k, ok := LookupKind(p.Kind)
	if !ok {
		return 0
	}

	return k.Sheet * p.L * p.W
}

// Area of the body.
func (p Params) Area() float64 {
	return p.L * p.W
}

// Perimeter of the body.
func (p Params) Perimeter() float64 {
	return 2 * (p.L + p.W)
}
