package session

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sarchlab/pcells/datarecording"
	"github.com/sarchlab/pcells/hooking"
	"github.com/sarchlab/pcells/layout"
	log "github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

// DefaultCacheSize is the number of built cells kept for reuse.
const DefaultCacheSize = 256

// Builder can be used to build a session.
type Builder struct {
	workDir   string
	roundTrip bool
	cacheSize int
	recorder  datarecording.DataRecorder
	logger    log.FieldLogger
	libName   string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		workDir:   os.TempDir(),
		cacheSize: DefaultCacheSize,
		libName:   "pcells",
	}
}

// WithWorkDir sets the directory that holds transient stream files.
func (b Builder) WithWorkDir(dir string) Builder {
	b.workDir = dir
	return b
}

// WithRoundTrip makes every build write the cell to a uniquely named stream
// file and return the cell read back from it.
func (b Builder) WithRoundTrip() Builder {
	b.roundTrip = true
	return b
}

// WithCacheSize sets how many built cells are kept. Zero disables caching.
func (b Builder) WithCacheSize(n int) Builder {
	b.cacheSize = n
	return b
}

// WithRecorder records one row per build in the given recorder.
func (b Builder) WithRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger. The standard logrus logger is used otherwise.
func (b Builder) WithLogger(l log.FieldLogger) Builder {
	b.logger = l
	return b
}

// WithLibraryName sets the name of the library that collects built cells.
func (b Builder) WithLibraryName(name string) Builder {
	b.libName = name
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.cacheSize < 0 {
		panic("cache size cannot be negative")
	}

	if b.roundTrip && b.workDir == "" {
		panic("round trip requires a work directory")
	}
}

// Build builds the session.
func (b Builder) Build() *Session {
	b.parametersMustBeValid()

	s := &Session{
		HookableBase: hooking.NewHookableBase(),
		lib:          layout.NewLibrary(b.libName),
		workDir:      b.workDir,
		roundTrip:    b.roundTrip,
		recorder:     b.recorder,
		logger:       b.logger,
		transient:    make(map[string]bool),
	}

	if s.logger == nil {
		s.logger = log.StandardLogger()
	}

	if b.cacheSize > 0 {
		cache, err := lru.New[string, *Result](b.cacheSize)
		if err != nil {
			panic(err)
		}

		s.cache = cache
	}

	if s.recorder != nil {
		s.recorder.CreateTable(BuildTable, BuildRecord{})
	}

	if s.roundTrip {
		atexit.Register(s.removeTransientFiles)
	}

	return s
}
