package mosfet

import (
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/pcell"
)

func init() {
	for _, name := range KindNames() {
		pcell.Register(definition{kind: kinds[name]})
	}
}

// definition exposes one transistor model as a parametric cell.
type definition struct {
	kind Kind
}

func (d definition) Name() string { return d.kind.Name }

func (d definition) Params() []pcell.ParamDecl {
	def := DefaultParams(d.kind.Name)

	return []pcell.ParamDecl{
		{Name: "l", Type: pcell.Float, Default: def.L, Unit: "um",
			Description: "gate length"},
		{Name: "w", Type: pcell.Float, Default: def.W, Unit: "um",
			Description: "gate width"},
		{Name: "nf", Type: pcell.Int, Default: def.NF,
			Description: "number of fingers"},
		{Name: "lsd", Type: pcell.Float, Default: def.LSD, Unit: "um",
			Description: "diffusion length between fingers"},
		{Name: "ccol", Type: pcell.Int, Default: def.CCOL,
			Description: "source/drain contact columns"},
		{Name: "gate_contact", Type: pcell.Enum, Default: def.GatePos.String(),
			Choices: GatePositionNames(), Description: "gate contact placement"},
		{Name: "bulk", Type: pcell.Enum, Default: def.Bulk.String(),
			Choices: BulkNames(), Description: "bulk connection"},
		{Name: "grw", Type: pcell.Float, Default: def.GRW, Unit: "um",
			Description: "guard ring width"},
		{Name: "inter_finger_contact", Type: pcell.Bool, Default: false,
			Description: "contact the diffusion between fingers"},
		{Name: "interdigitated", Type: pcell.Bool, Default: false,
			Description: "wire gates to buses by pattern"},
		{Name: "pattern", Type: pcell.String, Default: "",
			Description: "one bus symbol per finger"},
		{Name: "area", Type: pcell.Float, Default: def.Area(), Unit: "um^2",
			ReadOnly: true, Description: "total gate area"},
		{Name: "perimeter", Type: pcell.Float, Default: def.Perimeter(), Unit: "um",
			ReadOnly: true, Description: "total gate perimeter"},
	}
}

func (d definition) params(v pcell.Values) Params {
	gp, _ := ParseGatePosition(v.Text("gate_contact"))
	bulk, _ := ParseBulk(v.Text("bulk"))

	return Params{
		Kind:               d.kind.Name,
		L:                  v.Float("l"),
		W:                  v.Float("w"),
		NF:                 v.Int("nf"),
		LSD:                v.Float("lsd"),
		CCOL:               v.Int("ccol"),
		GatePos:            gp,
		Bulk:               bulk,
		GRW:                v.Float("grw"),
		InterFingerContact: v.Bool("inter_finger_contact"),
		Interdigitate:      v.Bool("interdigitated"),
		Pattern:            v.Text("pattern"),
	}
}

func (d definition) Coerce(v pcell.Values) pcell.Values {
	p := d.params(v).Coerce()

	out := v.Clone()
	out["l"] = p.L
	out["w"] = p.W
	out["nf"] = p.NF
	out["lsd"] = p.LSD
	out["ccol"] = p.CCOL
	out["gate_contact"] = p.GatePos.String()
	out["bulk"] = p.Bulk.String()
	out["grw"] = p.GRW
	out["area"] = p.Area()
	out["perimeter"] = p.Perimeter()

	return out
}

func (d definition) Produce(v pcell.Values) *layout.Cell {
	return Generate(d.params(v))
}
