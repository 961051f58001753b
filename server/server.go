// Package server exposes a session over HTTP. It lists cell kinds and their
// parameters, builds cells from JSON records, and serves the results as
// stream files and previews.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/pcells/gds"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/pcell"
	"github.com/sarchlab/pcells/render"
	"github.com/sarchlab/pcells/server/web"
	"github.com/sarchlab/pcells/session"
	"github.com/shirou/gopsutil/process"
	log "github.com/sirupsen/logrus"
	"github.com/syifan/goseth"
	"gonum.org/v1/plot/vg"
)

// A Server serves a session over HTTP.
type Server struct {
	session         *session.Session
	portNumber      int
	logger          log.FieldLogger
	profileDuration time.Duration
	previewWidth    vg.Length

	router   *mux.Router
	httpSrv  *http.Server
	listener net.Listener
}

// NewServer creates a server for a session.
func NewServer(s *session.Session) *Server {
	srv := &Server{
		session:         s,
		logger:          log.StandardLogger(),
		profileDuration: time.Second,
		previewWidth:    6 * vg.Inch,
	}

	srv.router = srv.routes()

	return srv
}

// WithPortNumber sets the port number of the server. Zero picks a free port.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber != 0 && portNumber < 1000 {
		s.logger.Warnf("port %d is not allowed, using a random port instead",
			portNumber)

		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// WithLogger sets the logger used for request logs.
func (s *Server) WithLogger(l log.FieldLogger) *Server {
	s.logger = l
	return s
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (s *Server) WithProfileDuration(d time.Duration) *Server {
	s.profileDuration = d
	return s
}

// Handler returns the router, for use without a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.Use(s.logRequests)

	r.HandleFunc("/api/kinds", s.listKinds).Methods(http.MethodGet)
	r.HandleFunc("/api/params/{kind}", s.listParams).Methods(http.MethodGet)
	r.HandleFunc("/api/build/{kind}", s.build).Methods(http.MethodPost)
	r.HandleFunc("/api/cell/{name}", s.cellDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/cell/{name}/gds", s.cellStream).Methods(http.MethodGet)
	r.HandleFunc("/api/cell/{name}/png", s.cellPreview).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", s.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", s.collectProfile).Methods(http.MethodGet)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer listens on the configured port and serves in the background.
// It returns the address it listens on.
func (s *Server) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.portNumber))
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}

	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	s.logger.WithField("url", url).Info("serving cells")

	go func() {
		err := s.httpSrv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("server stopped")
		}
	}()

	return url, nil
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}

	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start),
		}).Info("request")
	})
}

type errorRsp struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.logger.WithError(err).Warn("response not written")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest

	var unknown *pcell.UnknownKindError
	if errors.As(err, &unknown) {
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, errorRsp{Error: err.Error()})
}

func (s *Server) listKinds(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, pcell.Names())
}

func (s *Server) listParams(w http.ResponseWriter, r *http.Request) {
	def, err := pcell.Lookup(mux.Vars(r)["kind"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, def.Params())
}

type buildRsp struct {
	Kind   string       `json:"kind"`
	Cell   string       `json:"cell"`
	Cached bool         `json:"cached"`
	Values pcell.Values `json:"values"`
	BBox   [4]float64   `json:"bbox"`
	Shapes int          `json:"shapes"`
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	values := pcell.Values{}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	err := dec.Decode(&values)
	if err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, fmt.Errorf("decode parameters: %w", err))
		return
	}

	res, err := s.session.Build(kind, values)
	if err != nil {
		s.writeError(w, err)
		return
	}

	bbox, _ := res.Cell.BBox()

	s.writeJSON(w, http.StatusOK, buildRsp{
		Kind:   res.Kind,
		Cell:   res.Cell.Name(),
		Cached: res.Cached,
		Values: res.Values,
		BBox:   [4]float64{bbox.X0, bbox.Y0, bbox.X1, bbox.Y1},
		Shapes: len(res.Cell.Flatten()),
	})
}

func (s *Server) findCellOr404(w http.ResponseWriter, r *http.Request) *layout.Cell {
	name := mux.Vars(r)["name"]

	c, ok := s.session.Cell(name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound,
			errorRsp{Error: fmt.Sprintf("cell %q not found", name)})
		return nil
	}

	return c
}

func (s *Server) cellDetails(w http.ResponseWriter, r *http.Request) {
	c := s.findCellOr404(w, r)
	if c == nil {
		return
	}

	depth := 2
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			s.writeError(w, fmt.Errorf("depth: %w", err))
			return
		}

		depth = n
	}

	buf := bytes.NewBuffer(nil)

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(depth)

	err := serializer.Serialize(buf)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) cellStream(w http.ResponseWriter, r *http.Request) {
	c := s.findCellOr404(w, r)
	if c == nil {
		return
	}

	lib := layout.NewLibrary(s.session.Library().Name)
	lib.Add(c)

	buf := bytes.NewBuffer(nil)

	err := gds.Write(buf, lib)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", c.Name()+".gds"))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) cellPreview(w http.ResponseWriter, r *http.Request) {
	c := s.findCellOr404(w, r)
	if c == nil {
		return
	}

	buf := bytes.NewBuffer(nil)

	err := render.Write(buf, c, "png", s.previewWidth)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
	Cells      int     `json:"cells"`
}

func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
		Cells:      s.session.NumCells(),
	})
}

func (s *Server) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		s.writeJSON(w, http.StatusConflict, errorRsp{Error: err.Error()})
		return
	}

	time.Sleep(s.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, prof)
}
