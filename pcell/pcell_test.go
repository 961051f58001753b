package pcell

import (
	"encoding/json"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pcells/layers"
)

var _ = Describe("ParamDecl", func() {
	It("should normalize numbers", func() {
		d := ParamDecl{Name: "w", Type: Float}

		Expect(d.Normalize(1)).To(Equal(1.0))
		Expect(d.Normalize("0.5")).To(Equal(0.5))
		Expect(d.Normalize(json.Number("2.25"))).To(Equal(2.25))

		_, err := d.Normalize("wide")
		Expect(err).To(HaveOccurred())
	})

	It("should round integers", func() {
		d := ParamDecl{Name: "nf", Type: Int}

		Expect(d.Normalize(2.6)).To(Equal(3))
		Expect(d.Normalize("4")).To(Equal(4))
	})

	DescribeTable("should reject non-finite numbers",
		func(t Type, raw any) {
			d := ParamDecl{Name: "l", Type: t}

			_, err := d.Normalize(raw)

			Expect(err).To(MatchError(ContainSubstring("not a finite number")))
		},
		Entry("NaN text", Float, "NaN"),
		Entry("Inf text", Float, "Inf"),
		Entry("negative Inf text", Float, "-Inf"),
		Entry("NaN value", Float, math.NaN()),
		Entry("integer Inf", Int, "+Inf"),
	)

	It("should parse flags", func() {
		d := ParamDecl{Name: "x", Type: Bool}

		Expect(d.Parse("true")).To(Equal(true))
		Expect(d.Parse("0")).To(Equal(false))
		Expect(d.Normalize(1)).To(Equal(true))
	})

	It("should restrict enums to their choices", func() {
		d := ParamDecl{Name: "bulk", Type: Enum, Choices: []string{"none", "tie"}}

		Expect(d.Normalize("tie")).To(Equal("tie"))

		_, err := d.Parse("ring")
		Expect(err).To(MatchError(ContainSubstring("bulk")))
	})

	It("should encode its type by name", func() {
		b, err := json.Marshal(ParamDecl{Name: "w", Type: Float, Default: 1.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring(`"type":"float"`))
		Expect(string(b)).NotTo(ContainSubstring("read_only"))
	})
})

var _ = Describe("Values", func() {
	decls := []ParamDecl{
		{Name: "w", Type: Float, Default: 1.0},
		{Name: "nf", Type: Int, Default: 1},
		{Name: "area", Type: Float, Default: 0.0, ReadOnly: true},
	}

	It("should fill defaults", func() {
		v, err := Resolve(decls, Values{"nf": "3"})

		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(Values{"w": 1.0, "nf": 3, "area": 0.0}))
	})

	It("should ignore read-only values from the caller", func() {
		v, err := Resolve(decls, Values{"area": 99.0})

		Expect(err).NotTo(HaveOccurred())
		Expect(v.Float("area")).To(Equal(0.0))
	})

	It("should reject unknown names", func() {
		_, err := Resolve(decls, Values{"width": 2.0})

		Expect(err).To(MatchError(ContainSubstring("width")))
	})

	It("should name the parameter holding a non-finite value", func() {
		_, err := Resolve(decls, Values{"w": "NaN"})

		Expect(err).To(MatchError(ContainSubstring("parameter w")))
	})

	It("should read typed values", func() {
		v := Values{"w": "1.5", "nf": 2.0, "on": "true", "name": 7}

		Expect(v.Float("w")).To(Equal(1.5))
		Expect(v.Int("nf")).To(Equal(2))
		Expect(v.Bool("on")).To(BeTrue())
		Expect(v.Text("name")).To(Equal("7"))
		Expect(v.Text("missing")).To(Equal(""))
		Expect(v.Float("missing")).To(Equal(0.0))
	})

	It("should give equal records equal canonical forms", func() {
		a := Values{"w": 1.0, "nf": 2, "kind": "x"}
		b := Values{"kind": "x", "nf": 2, "w": 1.0}

		Expect(a.Canonical()).To(Equal(b.Canonical()))
		Expect(a.Canonical()).NotTo(Equal(Values{"w": 1.5}.Canonical()))
	})

	It("should clone without sharing", func() {
		a := Values{"w": 1.0}
		b := a.Clone()
		b["w"] = 2.0

		Expect(a.Float("w")).To(Equal(1.0))
	})
})

var _ = Describe("Registry", func() {
	It("should list built-in definitions", func() {
		Expect(Names()).To(ContainElements("guard_ring", "via_stack"))
	})

	It("should report unknown kinds", func() {
		_, err := Lookup("capacitor")

		var unknown *UnknownKindError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("capacitor"))
	})

	It("should panic on duplicate registration", func() {
		Expect(func() { Register(guardRing{}) }).To(Panic())
	})
})

var _ = Describe("guard_ring definition", func() {
	var def Definition

	BeforeEach(func() {
		var err error
		def, err = Lookup("guard_ring")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should clamp the ring width", func() {
		v, err := Prepare(def, Values{"grw": 0.05})

		Expect(err).NotTo(HaveOccurred())
		Expect(v.Float("grw")).To(BeNumerically("~", 0.17, 1e-9))
	})

	It("should widen the opening for a metal1 ring", func() {
		v, err := Prepare(def, Values{"inner_l": 0.1, "inner_w": 0.1,
			"connection": "metal1"})

		Expect(err).NotTo(HaveOccurred())
		Expect(v.Float("inner_l")).To(BeNumerically("~", 0.38, 1e-9))
		Expect(v.Float("inner_w")).To(BeNumerically("~", 0.38, 1e-9))
	})

	It("should not modify its input", func() {
		in := Values{"inner_l": 1.0, "inner_w": 1.0, "grw": 0.05, "connection": "li"}

		def.Coerce(in)

		Expect(in["grw"]).To(Equal(0.05))
	})

	It("should produce a ring", func() {
		v, _ := Prepare(def, nil)
		c := def.Produce(v)

		Expect(c.Name()).To(Equal("guard_ring"))
		Expect(c.ShapesOn(layers.Tap)).To(HaveLen(4))
		Expect(c.ShapesOn(layers.LI)).To(HaveLen(4))
	})
})

var _ = Describe("via_stack definition", func() {
	var def Definition

	BeforeEach(func() {
		var err error
		def, err = Lookup("via_stack")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should keep the region large enough for one contact", func() {
		v, err := Prepare(def, Values{"w": 0.1, "l": 0.1, "base": "poly"})

		Expect(err).NotTo(HaveOccurred())
		Expect(v.Float("w")).To(BeNumerically("~", 0.27, 1e-9))
		Expect(v.Float("l")).To(BeNumerically("~", 0.27, 1e-9))
	})

	It("should stack up to the requested metal", func() {
		v, _ := Prepare(def, Values{"w": 2.0, "l": 2.0, "top": "met3"})
		c := def.Produce(v)

		Expect(c.ShapesOn(layers.Diff)).To(HaveLen(1))

		flat := map[string]bool{}
		for _, s := range c.Flatten() {
			flat[layers.Name(s.Layer)] = true
		}

		Expect(flat).To(HaveKey("met3"))
		Expect(flat).To(HaveKey("via2"))
		Expect(flat).NotTo(HaveKey("met4"))
	})

	It("should reject unknown bases", func() {
		_, err := Prepare(def, Values{"base": "met1"})

		Expect(err).To(HaveOccurred())
	})
})
