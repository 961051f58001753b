package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pcells/gds"
	"github.com/sarchlab/pcells/session"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var _ = Describe("Server", func() {
	var (
		srv     *Server
		handler http.Handler
		logs    *test.Hook
	)

	do := func(method, path string, body string) *httptest.ResponseRecorder {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}

		req := httptest.NewRequest(method, path, r)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		var logger *log.Logger
		logger, logs = test.NewNullLogger()

		srv = NewServer(session.MakeBuilder().WithLogger(logger).Build()).
			WithLogger(logger).
			WithProfileDuration(20 * time.Millisecond)
		handler = srv.Handler()
	})

	It("should list kinds", func() {
		rec := do(http.MethodGet, "/api/kinds", "")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var kinds []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &kinds)).To(Succeed())
		Expect(kinds).To(ContainElements(
			"nfet_01v8", "pfet_g5v0d10v5", "res_generic_po", "guard_ring", "via_stack"))
	})

	It("should log requests", func() {
		do(http.MethodGet, "/api/kinds", "")

		Expect(logs.LastEntry()).NotTo(BeNil())
		Expect(logs.LastEntry().Data["path"]).To(Equal("/api/kinds"))
	})

	It("should list parameters", func() {
		rec := do(http.MethodGet, "/api/params/res_generic_po", "")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var decls []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &decls)).To(Succeed())

		names := []any{}
		for _, d := range decls {
			names = append(names, d["name"])
		}
		Expect(names).To(ContainElements("l", "w", "resistance"))
	})

	It("should answer 404 for unknown kinds", func() {
		Expect(do(http.MethodGet, "/api/params/nothing", "").Code).
			To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPost, "/api/build/nothing", "{}").Code).
			To(Equal(http.StatusNotFound))
	})

	It("should build a cell and report clamped values", func() {
		rec := do(http.MethodPost, "/api/build/nfet_01v8", `{"w": 0.1, "nf": 2}`)

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp buildRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Cell).To(Equal("nfet_01v8"))
		Expect(rsp.Values["w"]).To(BeNumerically("~", 0.42, 1e-9))
		Expect(rsp.Values["nf"]).To(BeNumerically("==", 2))
		Expect(rsp.Shapes).To(BeNumerically(">", 0))
		Expect(rsp.BBox[2]).To(BeNumerically(">", rsp.BBox[0]))
	})

	It("should build with an empty body", func() {
		Expect(do(http.MethodPost, "/api/build/guard_ring", "").Code).
			To(Equal(http.StatusOK))
	})

	It("should reject bad parameters", func() {
		Expect(do(http.MethodPost, "/api/build/nfet_01v8", `{"nf": "many"}`).Code).
			To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/api/build/nfet_01v8", `{"nf": `).Code).
			To(Equal(http.StatusBadRequest))
	})

	Context("when a cell is built", func() {
		BeforeEach(func() {
			Expect(do(http.MethodPost, "/api/build/res_generic_m1", "{}").Code).
				To(Equal(http.StatusOK))
		})

		It("should describe the cell", func() {
			rec := do(http.MethodGet, "/api/cell/res_generic_m1", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
		})

		It("should download the stream file", func() {
			rec := do(http.MethodGet, "/api/cell/res_generic_m1/gds", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Disposition")).
				To(ContainSubstring("res_generic_m1.gds"))

			lib, err := gds.Read(bytes.NewReader(rec.Body.Bytes()))
			Expect(err).NotTo(HaveOccurred())

			_, ok := lib.Cell("res_generic_m1")
			Expect(ok).To(BeTrue())
		})

		It("should render a preview", func() {
			rec := do(http.MethodGet, "/api/cell/res_generic_m1/png", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("image/png"))
			Expect(rec.Body.Bytes()[:4]).To(Equal([]byte("\x89PNG")))
		})
	})

	It("should answer 404 for unknown cells", func() {
		Expect(do(http.MethodGet, "/api/cell/none", "").Code).
			To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, "/api/cell/none/png", "").Code).
			To(Equal(http.StatusNotFound))
	})

	It("should report resources", func() {
		rec := do(http.MethodGet, "/api/resource", "")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a profile", func() {
		rec := do(http.MethodGet, "/api/profile", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
	})

	It("should serve the page", func() {
		rec := do(http.MethodGet, "/", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("/api/kinds"))
	})

	It("should start and stop", func() {
		url, err := srv.StartServer()
		Expect(err).NotTo(HaveOccurred())

		rsp, err := http.Get(url + "/api/kinds")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		Expect(srv.Shutdown(context.Background())).To(Succeed())
	})

	It("should refuse privileged ports", func() {
		Expect(srv.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(srv.WithPortNumber(8080).portNumber).To(Equal(8080))
	})
})
