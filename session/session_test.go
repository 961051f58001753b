package session

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pcells/hooking"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/pcell"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Session", func() {
	var s *Session

	BeforeEach(func() {
		s = MakeBuilder().Build()
	})

	It("should build a cell with default parameters", func() {
		r, err := s.Build("nfet_01v8", nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Cell.Name()).To(Equal("nfet_01v8"))
		Expect(r.Cached).To(BeFalse())
		Expect(r.Values.Float("w")).To(BeNumerically("~", 1, 1e-9))

		c, ok := s.Cell("nfet_01v8")
		Expect(ok).To(BeTrue())
		Expect(c).To(BeIdenticalTo(r.Cell))
	})

	It("should report unknown kinds", func() {
		_, err := s.Build("nothing", nil)

		var unknown *pcell.UnknownKindError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Kind).To(Equal("nothing"))
	})

	It("should reject unknown parameters", func() {
		_, err := s.Build("nfet_01v8", pcell.Values{"width": 2.0})

		Expect(err).To(HaveOccurred())
	})

	DescribeTable("should reject non-finite dimensions without building",
		func(name, raw string) {
			var err error

			Expect(func() {
				_, err = s.Build("nfet_01v8", pcell.Values{name: raw})
			}).NotTo(Panic())
			Expect(err).To(MatchError(ContainSubstring("parameter " + name)))
			Expect(s.NumCells()).To(Equal(0))
		},
		Entry("NaN length", "l", "NaN"),
		Entry("infinite width", "w", "Inf"),
		Entry("negative infinite length", "l", "-Inf"),
		Entry("infinite finger count", "nf", "Inf"),
	)

	It("should return the clamped values", func() {
		r, err := s.Build("nfet_01v8", pcell.Values{"w": 0.1})

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Values.Float("w")).To(BeNumerically("~", 0.42, 1e-9))
	})

	It("should reuse cells built from equal records", func() {
		first, err := s.Build("nfet_01v8", pcell.Values{"w": 2.0})
		Expect(err).NotTo(HaveOccurred())

		again, err := s.Build("nfet_01v8", pcell.Values{"w": "2"})
		Expect(err).NotTo(HaveOccurred())

		Expect(again.Cached).To(BeTrue())
		Expect(again.Cell).To(BeIdenticalTo(first.Cell))
	})

	It("should treat values clamped to the same record as equal", func() {
		first, _ := s.Build("nfet_01v8", pcell.Values{"w": 0.1})
		again, _ := s.Build("nfet_01v8", pcell.Values{"w": 0.2})

		Expect(again.Cached).To(BeTrue())
		Expect(again.Cell).To(BeIdenticalTo(first.Cell))
	})

	It("should give different records unique cell names", func() {
		a, _ := s.Build("nfet_01v8", pcell.Values{"w": 1.0})
		b, _ := s.Build("nfet_01v8", pcell.Values{"w": 2.0})

		Expect(a.Cell.Name()).To(Equal("nfet_01v8"))
		Expect(b.Cell.Name()).To(Equal("nfet_01v8_1"))
	})

	It("should rebuild when caching is off", func() {
		s = MakeBuilder().WithCacheSize(0).Build()

		a, _ := s.Build("res_generic_m1", nil)
		b, _ := s.Build("res_generic_m1", nil)

		Expect(b.Cached).To(BeFalse())
		Expect(b.Cell).NotTo(BeIdenticalTo(a.Cell))
	})

	It("should invoke hooks around the build", func() {
		var seen []*hooking.HookPos

		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			seen = append(seen, ctx.Pos)

			if ctx.Pos == hooking.HookPosBeforeBuild {
				Expect(ctx.Item).To(Equal("guard_ring"))
			}

			if ctx.Pos == hooking.HookPosAfterBuild {
				Expect(ctx.Item).To(BeAssignableToTypeOf(&layout.Cell{}))
			}
		}))

		_, err := s.Build("guard_ring", nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]*hooking.HookPos{
			hooking.HookPosBeforeBuild,
			hooking.HookPosAfterBuild,
		}))
	})

	It("should panic on a negative cache size", func() {
		Expect(func() { MakeBuilder().WithCacheSize(-1).Build() }).To(Panic())
	})
})

var _ = Describe("Session with a recorder", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
		s        *Session
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
		recorder.EXPECT().CreateTable(BuildTable, BuildRecord{})

		s = MakeBuilder().WithRecorder(recorder).Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record every build", func() {
		var rows []BuildRecord

		recorder.EXPECT().
			InsertData(BuildTable, gomock.Any()).
			Do(func(_ string, entry any) {
				rows = append(rows, entry.(BuildRecord))
			}).
			Times(2)

		_, err := s.Build("pfet_01v8", nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Build("pfet_01v8", nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Kind).To(Equal("pfet_01v8"))
		Expect(rows[0].Cell).To(Equal("pfet_01v8"))
		Expect(rows[0].Cached).To(BeFalse())
		Expect(rows[0].Shapes).To(BeNumerically(">", 0))
		Expect(rows[0].Width).To(BeNumerically(">", 0))
		Expect(rows[1].Cached).To(BeTrue())
		Expect(rows[1].Params).To(Equal(rows[0].Params))
		Expect(rows[1].ID).NotTo(Equal(rows[0].ID))
	})

	It("should not record failed builds", func() {
		_, err := s.Build("pfet_01v8", pcell.Values{"nf": "many"})

		Expect(err).To(HaveOccurred())
	})

	It("should flush on close", func() {
		recorder.EXPECT().Flush()

		s.Close()
	})
})

var _ = Describe("Session with round trip", func() {
	var (
		dir string
		s   *Session
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		s = MakeBuilder().WithWorkDir(dir).WithRoundTrip().Build()
	})

	It("should return the cell read back from the stream file", func() {
		var path string

		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == hooking.HookPosRoundTrip {
				path = ctx.Detail.(string)
			}
		}))

		r, err := s.Build("nfet_01v8", pcell.Values{"nf": 2})
		Expect(err).NotTo(HaveOccurred())

		original, ok := s.Cell("nfet_01v8")
		Expect(ok).To(BeTrue())
		Expect(r.Cell).NotTo(BeIdenticalTo(original))
		Expect(r.Cell.Name()).To(Equal(original.Name()))
		Expect(r.Cell.Flatten()).To(HaveLen(len(original.Flatten())))

		got, _ := r.Cell.BBox()
		want, _ := original.BBox()
		Expect(got.Width()).To(BeNumerically("~", want.Width(), 1e-3))
		Expect(got.Height()).To(BeNumerically("~", want.Height(), 1e-3))

		Expect(filepath.Base(path)).To(HavePrefix("pcell_nfet_01v8_"))
		Expect(filepath.Ext(path)).To(Equal(".gds"))
		Expect(filepath.Dir(path)).To(Equal(dir))
	})

	It("should delete transient files", func() {
		_, err := s.Build("res_generic_po", nil)
		Expect(err).NotTo(HaveOccurred())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
		Expect(s.TransientFiles()).To(BeEmpty())
	})

	It("should fail when the work directory is missing", func() {
		s = MakeBuilder().
			WithWorkDir(filepath.Join(dir, "missing")).
			WithRoundTrip().
			Build()

		_, err := s.Build("nfet_01v8", nil)

		Expect(err).To(HaveOccurred())
	})

	It("should panic without a work directory", func() {
		Expect(func() {
			MakeBuilder().WithWorkDir("").WithRoundTrip().Build()
		}).To(Panic())
	})
})
