package mosfet

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
)

func labelTexts(c *layout.Cell) []string {
	var out []string
	for _, l := range c.LabelsOn(layers.Met2Label) {
		out = append(out, l.Text)
	}

	return out
}

var _ = Describe("Interdigitation", func() {
	var p Params

	BeforeEach(func() {
		p = DefaultParams("nfet_01v8")
		p.Interdigitate = true
	})

	It("should build one bus per symbol", func() {
		p.NF = 4
		p.Pattern = "ABAB"
		p.GatePos = GateTop

		Expect(p.Coerce().NF).To(Equal(4))

		c := Generate(p)

		Expect(c.ShapesOn(layers.Met2)).To(HaveLen(2))
		Expect(c.ShapesOn(layers.Via1)).To(HaveLen(4))
		Expect(labelTexts(c)).To(ConsistOf("A", "B", "A", "B"))
	})

	It("should label each via with the symbol of its finger", func() {
		p.Pattern = "ABCA"
		p.GatePos = GateBottom

		c := Generate(p)
		q := p.Coerce()

		vias := c.ShapesOn(layers.Via1)
		labels := c.LabelsOn(layers.Met2Label)
		Expect(labels).To(HaveLen(4))

		for _, l := range labels {
			var finger = -1
			for i := 0; i < q.NF; i++ {
				xc := SDL(q.CCOL) + float64(i)*(q.L+q.LSD) + q.L/2
				if l.Pos.X > xc-1e-6 && l.Pos.X < xc+1e-6 {
					finger = i
				}
			}

			Expect(finger).To(BeNumerically(">=", 0))
			Expect(l.Text).To(Equal(string(q.Pattern[finger])))

			onVia := false
			for _, v := range vias {
				if v.Contains(layout.Box{X0: l.Pos.X, Y0: l.Pos.Y, X1: l.Pos.X, Y1: l.Pos.Y}) {
					onVia = true
				}
			}
			Expect(onVia).To(BeTrue())
		}

		for _, bus := range c.ShapesOn(layers.Met2) {
			Expect(bus.Y1).To(BeNumerically("<", 0))
		}
	})

	It("should split buses and link shared symbols with alternating contacts", func() {
		p.Pattern = "ABBA"
		p.GatePos = GateAlternating

		c := Generate(p)
		diff, _ := c.LayerBBox(layers.Diff)

		buses := c.ShapesOn(layers.Met2)
		Expect(buses).To(HaveLen(4))

		upper, lower := 0, 0
		for _, b := range buses {
			if b.Y0 > diff.Y1 {
				upper++
			} else {
				lower++
			}
		}
		Expect(upper).To(Equal(2))
		Expect(lower).To(Equal(2))

		Expect(c.ShapesOn(layers.Via1)).To(HaveLen(4 + 2*2))

		texts := map[string]bool{}
		for _, t := range labelTexts(c) {
			texts[t] = true
		}
		Expect(texts).To(HaveLen(2))
		Expect(texts).To(HaveKey("A"))
		Expect(texts).To(HaveKey("B"))

		var rightLinks int
		for _, m1 := range c.ShapesOn(layers.Met1) {
			if m1.X0 > diff.X1 {
				rightLinks++
			}
		}
		Expect(rightLinks).To(Equal(2))
	})

	It("should link on the left next to a tie", func() {
		p.Pattern = "AA"
		p.GatePos = GateAlternating
		p.Bulk = BulkTie

		c := Generate(p)
		diff := diffusion(c)

		var leftLinks int
		for _, m1 := range c.ShapesOn(layers.Met1) {
			if m1.X1 < diff.X0 {
				leftLinks++
			}
		}
		Expect(leftLinks).To(Equal(1))
	})

	It("should not wire without a pattern", func() {
		p.NF = 3

		c := Generate(p)

		Expect(c.ShapesOn(layers.Met2)).To(BeEmpty())
		Expect(c.LabelsOn(layers.Met2Label)).To(BeEmpty())
	})
})
