package pcell

import (
	"github.com/sarchlab/pcells/guardring"
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/via"
)

func init() {
	Register(guardRing{})
	Register(viaStack{})
}

type guardRing struct{}

func (guardRing) Name() string { return "guard_ring" }

func (guardRing) Params() []ParamDecl {
	return []ParamDecl{
		{Name: "inner_l", Type: Float, Default: 1.0, Unit: "um",
			Description: "height of the opening"},
		{Name: "inner_w", Type: Float, Default: 1.0, Unit: "um",
			Description: "width of the opening"},
		{Name: "grw", Type: Float, Default: guardring.MinRingWidth, Unit: "um",
			Description: "ring width"},
		{Name: "connection", Type: Enum, Default: "li",
			Choices:     guardring.ConnectionNames(),
			Description: "highest layer drawn over the tap"},
	}
}

func (guardRing) params(v Values) guardring.Params {
	c, _ := guardring.ParseConnection(v.Text("connection"))

	return guardring.Params{
		InnerL:     v.Float("inner_l"),
		InnerW:     v.Float("inner_w"),
		RingWidth:  v.Float("grw"),
		Connection: c,
	}
}

func (d guardRing) Coerce(v Values) Values {
	p := d.params(v).Coerce()

	out := v.Clone()
	out["inner_l"] = p.InnerL
	out["inner_w"] = p.InnerW
	out["grw"] = p.RingWidth
	out["connection"] = p.Connection.String()

	return out
}

func (d guardRing) Produce(v Values) *layout.Cell {
	p := d.params(v)
	return guardring.Ring(p.InnerL, p.InnerW, p.RingWidth, p.Connection)
}

var (
	stackBases = []string{"diff", "tap", "poly"}
	stackTops  = []string{"li", "met1", "met2", "met3", "met4", "met5"}
)

type viaStack struct{}

func (viaStack) Name() string { return "via_stack" }

func (viaStack) Params() []ParamDecl {
	return []ParamDecl{
		{Name: "base", Type: Enum, Default: "diff", Choices: stackBases,
			Description: "layer under the contacts"},
		{Name: "top", Type: Enum, Default: "met1", Choices: stackTops,
			Description: "highest metal"},
		{Name: "w", Type: Float, Default: 0.5, Unit: "um",
			Description: "width of the contact region"},
		{Name: "l", Type: Float, Default: 0.5, Unit: "um",
			Description: "height of the contact region"},
		{Name: "li_direction", Type: Enum, Default: "vertical",
			Choices:     []string{"vertical", "horizontal"},
			Description: "side on which li extends past licon"},
	}
}

func (viaStack) Coerce(v Values) Values {
	out := v.Clone()

	minSize := via.LiconRule.Size.X + 2*via.LiconEnclosure(layers.MustByName(v.Text("base"))).X
	out["w"] = max(v.Float("w"), minSize)
	out["l"] = max(v.Float("l"), minSize)

	return out
}

func (viaStack) Produce(v Values) *layout.Cell {
	base := layers.MustByName(v.Text("base"))

	top := via.Metal1
	for i, n := range stackTops {
		if n == v.Text("top") {
			top = via.Level(i)
		}
	}

	dir := via.Vertical
	if v.Text("li_direction") == "horizontal" {
		dir = via.Horizontal
	}

	region := layout.MakeBox(0, 0, v.Float("w"), v.Float("l"))
	cell := via.Stack("via_stack", region, base, top, dir)
	cell.AddRect(base, region)

	return cell
}
