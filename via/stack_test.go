package via

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
)

func singleBox(cell *layout.Cell, l layout.Layer) layout.Box {
	boxes := cell.ShapesOn(l)
	Expect(boxes).To(HaveLen(1), "layer %s", layers.Name(l))

	return boxes[0]
}

var _ = Describe("StackBuilder", func() {
	var region layout.Box

	BeforeEach(func() {
		region = layout.MakeBox(0, 0, 0.25, 1.0)
	})

	It("should stop at local interconnect", func() {
		cell := Stack("s", region, layers.Diff, LocalInterconnect, Vertical)

		Expect(cell.ShapesOn(layers.Licon)).NotTo(BeEmpty())
		Expect(cell.ShapesOn(layers.Mcon)).To(BeEmpty())
		Expect(cell.ShapesOn(layers.Met1)).To(BeEmpty())

		licon, _ := cell.LayerBBox(layers.Licon)
		li := singleBox(cell, layers.LI)
		Expect(li.Equal(licon.Expand(0, LILiconEnclosure))).To(BeTrue())
	})

	It("should extend local interconnect horizontally", func() {
		cell := Stack("s", region, layers.Diff, LocalInterconnect, Horizontal)

		licon, _ := cell.LayerBBox(layers.Licon)
		li := singleBox(cell, layers.LI)
		Expect(li.Equal(licon.Expand(LILiconEnclosure, 0))).To(BeTrue())
	})

	It("should add a nitride poly cut on poly", func() {
		region = layout.MakeBox(0, 0, 0.3, 1.0)
		cell := Stack("s", region, layers.Poly, Metal1, Vertical)

		licon, _ := cell.LayerBBox(layers.Licon)
		npc := singleBox(cell, layers.NPC)
		Expect(npc.Equal(licon.Grow(NPCLiconEnclosure))).To(BeTrue())

		Expect(region.Encloses(licon, PolyLiconEnclosure.X, PolyLiconEnclosure.Y)).
			To(BeTrue())
	})

	It("should not add a nitride poly cut on diffusion", func() {
		cell := Stack("s", region, layers.Diff, Metal1, Vertical)

		Expect(cell.ShapesOn(layers.NPC)).To(BeEmpty())
	})

	It("should contain the vias below and above each metal", func() {
		for top := Metal1; top <= Metal5; top++ {
			cell := MakeStackBuilder().
				WithTop(top).
				Build("s", layout.MakeBox(0, 0, 2, 3))

			for k := 1; k <= int(top); k++ {
				metal := singleBox(cell, layers.Metals[k])

				below := Transitions[k-1]
				for _, cut := range cell.ShapesOn(below.Cut.Layer) {
					Expect(metal.Encloses(cut, below.Above.X, below.Above.Y)).
						To(BeTrue(), "%s does not enclose %s", top, cut)
				}

				if k == int(top) {
					continue
				}

				above := Transitions[k]
				for _, cut := range cell.ShapesOn(above.Cut.Layer) {
					Expect(metal.Encloses(cut, above.Below.X, above.Below.Y)).
						To(BeTrue())
				}
			}

			Expect(cell.ShapesOn(layers.Metals[top])).To(HaveLen(1))
			if top < Metal5 {
				Expect(cell.ShapesOn(layers.Metals[top+1])).To(BeEmpty())
			}
		}
	})

	It("should enforce the metal1 minimum area", func() {
		cell := Stack("s", layout.MakeBox(0, 0, 0.25, 0.25), layers.Diff, Metal1, Vertical)

		m1 := singleBox(cell, layers.Met1)
		Expect(m1.Area()).To(BeNumerically(">=", Met1MinArea-layout.Eps))
	})

	It("should enforce the metal5 minimum width and area", func() {
		cell := Stack("s", layout.MakeBox(0, 0, 0.25, 0.25), layers.Diff, Metal5, Vertical)

		m5 := singleBox(cell, layers.Met5)
		Expect(m5.Width()).To(BeNumerically(">=", Met5MinWidth-layout.Eps))
		Expect(m5.Height()).To(BeNumerically(">=", Met5MinWidth-layout.Eps))
		Expect(m5.Area()).To(BeNumerically(">=", Met5MinArea-layout.Eps))
	})

	It("should panic on an invalid top level", func() {
		Expect(func() {
			MakeStackBuilder().WithTop(Level(6)).Build("s", region)
		}).To(Panic())
	})
})
