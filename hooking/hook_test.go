package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type namedItem struct{ name string }

func (n namedItem) Name() string { return n.name }

var _ = Describe("HookableBase", func() {
	var (
		base  *HookableBase
		calls []HookCtx
	)

	BeforeEach(func() {
		base = NewHookableBase()
		calls = nil
	})

	It("should invoke hooks in registration order", func() {
		order := []int{}
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 1) }))
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 2) }))

		base.InvokeHook(HookCtx{Pos: HookPosBeforeBuild})

		Expect(order).To(Equal([]int{1, 2}))
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should pass the context through", func() {
		base.AcceptHook(HookFunc(func(ctx HookCtx) { calls = append(calls, ctx) }))

		base.InvokeHook(HookCtx{
			Domain: base,
			Pos:    HookPosAfterBuild,
			Item:   "nfet_01v8",
		})

		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Pos).To(BeIdenticalTo(HookPosAfterBuild))
		Expect(calls[0].Item).To(Equal("nfet_01v8"))
		Expect(calls[0].Domain).To(BeIdenticalTo(base))
	})
})

var _ = Describe("LogHook", func() {
	It("should log the position and item name", func() {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(log.DebugLevel)

		h := NewLogHook(logger)
		h.Func(HookCtx{Pos: HookPosAfterBuild, Item: namedItem{"nfet_01v8_1"}})

		Expect(hook.Entries).To(HaveLen(1))
		entry := hook.LastEntry()
		Expect(entry.Level).To(Equal(log.DebugLevel))
		Expect(entry.Data["pos"]).To(Equal("AfterBuild"))
		Expect(entry.Data["item"]).To(Equal("nfet_01v8_1"))
	})

	It("should honour the configured level", func() {
		logger, hook := test.NewNullLogger()

		h := NewLogHook(logger)
		h.Level = log.InfoLevel
		h.Func(HookCtx{Pos: HookPosRoundTrip, Item: 3, Detail: "/tmp/x.gds"})

		Expect(hook.LastEntry().Level).To(Equal(log.InfoLevel))
		Expect(hook.LastEntry().Data["item"]).To(Equal("3"))
		Expect(hook.LastEntry().Data["detail"]).To(Equal("/tmp/x.gds"))
	})
})
