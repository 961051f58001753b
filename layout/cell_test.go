package layout

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Cell", func() {
	var (
		metal = Layer{Number: 68, Purpose: 20}
		cut   = Layer{Number: 68, Purpose: 44}
	)

	ginkgo.It("should drop empty rectangles", func() {
		c := NewCell("c")
		c.AddRect(metal, MakeBox(0, 0, 0, 1))

		Expect(c.Shapes()).To(BeEmpty())
		_, ok := c.BBox()
		Expect(ok).To(BeFalse())
	})

	ginkgo.It("should flatten arrays", func() {
		unit := NewCell("unit")
		unit.AddRect(cut, MakeBox(0, 0, 0.1, 0.1))

		top := NewCell("top")
		top.AddRect(metal, MakeBox(-0.1, -0.1, 1, 1))
		top.AddArray(unit, Point{0.2, 0.3}, 3, 2, 0.25, 0.4)
		top.AddLabel(metal, "A", Point{0.5, 0.5})

		cuts := top.ShapesOn(cut)
		Expect(cuts).To(HaveLen(6))
		Expect(cuts[0].Equal(MakeBox(0.2, 0.3, 0.3, 0.4))).To(BeTrue())
		Expect(cuts[5].Equal(MakeBox(0.7, 0.7, 0.8, 0.8))).To(BeTrue())

		bbox, ok := top.BBox()
		Expect(ok).To(BeTrue())
		Expect(bbox.Equal(MakeBox(-0.1, -0.1, 1, 1))).To(BeTrue())

		Expect(top.LabelsOn(metal)).To(HaveLen(1))
		Expect(top.SubCells()).To(ConsistOf(unit))
		Expect(top.Layers()).To(Equal([]Layer{metal, cut}))
	})

	ginkgo.It("should translate labels of placed cells", func() {
		sub := NewCell("sub")
		sub.AddLabel(metal, "net", Point{1, 1})

		top := NewCell("top")
		top.AddInstance(sub, Point{2, 3})

		labels := top.FlattenLabels()
		Expect(labels).To(HaveLen(1))
		Expect(labels[0].Pos).To(Equal(Point{3, 4}))
	})

	ginkgo.It("should refuse to place itself", func() {
		c := NewCell("c")
		Expect(func() { c.AddInstance(c, Point{}) }).To(Panic())
	})
})

var _ = ginkgo.Describe("Library", func() {
	ginkgo.It("should keep names unique", func() {
		lib := NewLibrary("lib")

		a := NewCell("via")
		b := NewCell("via")

		top := NewCell("top")
		top.AddInstance(a, Point{})
		top.AddInstance(b, Point{1, 0})

		lib.Add(top)
		lib.Add(top)

		Expect(lib.Cells()).To(HaveLen(3))
		Expect(a.Name()).To(Equal("via"))
		Expect(b.Name()).To(Equal("via_1"))

		found, ok := lib.Cell("via_1")
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(b))

		Expect(lib.TopCells()).To(Equal([]*Cell{top}))
	})
})
