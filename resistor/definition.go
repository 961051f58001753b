package resistor

import (
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/pcell"
)

func init() {
	for _, name := range KindNames() {
		pcell.Register(definition{kind: kinds[name]})
	}
}

type definition struct {
	kind Kind
}

func (d definition) Name() string { return d.kind.Name }

func (d definition) Params() []pcell.ParamDecl {
	def := DefaultParams(d.kind.Name)

	decls := []pcell.ParamDecl{
		{Name: "l", Type: pcell.Float, Default: def.L, Unit: "um",
			Description: "body length"},
		{Name: "w", Type: pcell.Float, Default: def.W, Unit: "um",
			Description: "body width"},
	}

	if d.kind.HasGuardRing() {
		decls = append(decls, pcell.ParamDecl{
			Name: "guard_ring", Type: pcell.Bool, Default: false,
			Description: "surround the body with a tap ring",
		})
	}

	if d.kind.GRWExposed {
		decls = append(decls, pcell.ParamDecl{
			Name: "grw", Type: pcell.Float, Default: def.GRW, Unit: "um",
			Description: "guard ring width",
		})
	}

	return append(decls,
		pcell.ParamDecl{Name: "resistance", Type: pcell.Float,
			Default: def.Resistance(), Unit: "ohm", ReadOnly: true,
			Description: "reported resistance"},
		pcell.ParamDecl{Name: "area", Type: pcell.Float,
			Default: def.Area(), Unit: "um^2", ReadOnly: true},
		pcell.ParamDecl{Name: "perimeter", Type: pcell.Float,
			Default: def.Perimeter(), Unit: "um", ReadOnly: true},
	)
}

func (d definition) params(v pcell.Values) Params {
	return Params{
		Kind:      d.kind.Name,
		L:         v.Float("l"),
		W:         v.Float("w"),
		GuardRing: v.Bool("guard_ring"),
		GRW:       v.Float("grw"),
	}
}

func (d definition) Coerce(v pcell.Values) pcell.Values {
	p := d.params(v).Coerce()

	out := v.Clone()
	out["l"] = p.L
	out["w"] = p.W

	if d.kind.GRWExposed {
		out["grw"] = p.GRW
	}

	out["resistance"] = p.Resistance()
	out["area"] = p.Area()
	out["perimeter"] = p.Perimeter()

	return out
}

func (d definition) Produce(v pcell.Values) *layout.Cell {
	return Generate(d.params(v))
}
