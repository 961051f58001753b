// Package session turns a kind name and a parameter record into a cell. It
// coerces the parameters, reuses cells built from identical records, and can
// pass every cell through a stream file before handing it out.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/xid"
	"github.com/sarchlab/pcells/datarecording"
	"github.com/sarchlab/pcells/gds"
	"github.com/sarchlab/pcells/hooking"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/pcell"
	log "github.com/sirupsen/logrus"

	// Cell kinds register themselves on import.
	_ "github.com/sarchlab/pcells/mosfet"
	_ "github.com/sarchlab/pcells/resistor"
)

// BuildTable is the table that holds one BuildRecord per build.
const BuildTable = "builds"

// A BuildRecord is the row written for every build.
type BuildRecord struct {
	ID        string
	Time      string
	Kind      string
	Cell      string
	Params    string
	Shapes    int
	Width     float64
	Height    float64
	Cached    bool
	RoundTrip bool
	ElapsedUS int64
}

// A Result is a built cell and the record it was built from.
type Result struct {
	Kind   string
	Values pcell.Values
	Cell   *layout.Cell
	Cached bool
}

// A Session builds cells. It is safe for concurrent use; builds are
// serialized.
type Session struct {
	*hooking.HookableBase

	mu        sync.Mutex
	lib       *layout.Library
	cache     *lru.Cache[string, *Result]
	recorder  datarecording.DataRecorder
	logger    log.FieldLogger
	workDir   string
	roundTrip bool

	transientMu sync.Mutex
	transient   map[string]bool
}

// Library returns the library that holds every cell built so far.
func (s *Session) Library() *layout.Library {
	return s.lib
}

// Cell finds a built cell by name.
func (s *Session) Cell(name string) (*layout.Cell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lib.Cell(name)
}

// NumCells returns the number of cells in the library, placed ones included.
func (s *Session) NumCells() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lib.Cells())
}

// Build produces a cell of the given kind. Missing parameters take their
// defaults and out-of-range values are clamped. The returned record holds the
// values actually used.
func (s *Session) Build(kind string, values pcell.Values) (*Result, error) {
	def, err := pcell.Lookup(kind)
	if err != nil {
		return nil, err
	}

	coerced, err := pcell.Prepare(def, values)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	key := kind + "|" + coerced.Canonical()

	if s.cache != nil {
		if r, ok := s.cache.Get(key); ok {
			hit := *r
			hit.Cached = true
			s.record(&hit, time.Since(start))

			return &hit, nil
		}
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    hooking.HookPosBeforeBuild,
		Item:   kind,
		Detail: coerced,
	})

	cell := s.lib.Add(def.Produce(coerced))

	if s.roundTrip {
		cell, err = s.passThroughFile(kind, cell)
		if err != nil {
			return nil, err
		}
	}

	r := &Result{Kind: kind, Values: coerced, Cell: cell}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    hooking.HookPosAfterBuild,
		Item:   cell,
		Detail: coerced,
	})

	if s.cache != nil {
		s.cache.Add(key, r)
	}

	s.record(r, time.Since(start))

	return r, nil
}

func (s *Session) record(r *Result, elapsed time.Duration) {
	bbox, _ := r.Cell.BBox()

	s.logger.WithFields(log.Fields{
		"kind":    r.Kind,
		"cell":    r.Cell.Name(),
		"shapes":  len(r.Cell.Shapes()),
		"cached":  r.Cached,
		"elapsed": elapsed,
	}).Debug("cell built")

	if s.recorder == nil {
		return
	}

	s.recorder.InsertData(BuildTable, BuildRecord{
		ID:        xid.New().String(),
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
		Kind:      r.Kind,
		Cell:      r.Cell.Name(),
		Params:    r.Values.Canonical(),
		Shapes:    len(r.Cell.Flatten()),
		Width:     bbox.Width(),
		Height:    bbox.Height(),
		Cached:    r.Cached,
		RoundTrip: s.roundTrip,
		ElapsedUS: elapsed.Microseconds(),
	})
}

// passThroughFile writes the cell and the cells it places to a fresh stream
// file and returns the top cell read back from it.
func (s *Session) passThroughFile(kind string, c *layout.Cell) (*layout.Cell, error) {
	path := filepath.Join(s.workDir,
		fmt.Sprintf("pcell_%s_%s.gds", kind, xid.New().String()))

	lib := layout.NewLibrary(s.lib.Name)
	lib.Add(c)

	s.trackTransient(path)

	if err := gds.WriteFile(path, lib); err != nil {
		return nil, fmt.Errorf("round trip %s: %w", kind, err)
	}

	back, err := gds.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("round trip %s: %w", kind, err)
	}

	reread, ok := back.Cell(c.Name())
	if !ok {
		return nil, fmt.Errorf("round trip %s: cell %s missing from %s",
			kind, c.Name(), path)
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    hooking.HookPosRoundTrip,
		Item:   reread,
		Detail: path,
	})

	if err := os.Remove(path); err == nil {
		s.untrackTransient(path)
	}

	return reread, nil
}

func (s *Session) trackTransient(path string) {
	s.transientMu.Lock()
	defer s.transientMu.Unlock()

	s.transient[path] = true
}

func (s *Session) untrackTransient(path string) {
	s.transientMu.Lock()
	defer s.transientMu.Unlock()

	delete(s.transient, path)
}

// TransientFiles lists stream files that could not be deleted yet.
func (s *Session) TransientFiles() []string {
	s.transientMu.Lock()
	defer s.transientMu.Unlock()

	files := make([]string, 0, len(s.transient))
	for f := range s.transient {
		files = append(files, f)
	}

	return files
}

func (s *Session) removeTransientFiles() {
	for _, f := range s.TransientFiles() {
		err := os.Remove(f)
		if err == nil || os.IsNotExist(err) {
			s.untrackTransient(f)
			continue
		}

		s.logger.WithError(err).WithField("file", f).Warn("transient file left behind")
	}
}

// Close removes leftover transient files and flushes the recorder.
func (s *Session) Close() {
	s.removeTransientFiles()

	if s.recorder != nil {
		s.recorder.Flush()
	}
}
