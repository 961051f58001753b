package gds

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/sarchlab/pcells/layout"
)

type record struct {
	typ  recordType
	data []byte
}

func (r record) int16s() []int16 {
	vs := make([]int16, len(r.data)/2)
	for i := range vs {
		vs[i] = int16(binary.BigEndian.Uint16(r.data[2*i:]))
	}

	return vs
}

func (r record) int32s() []int32 {
	vs := make([]int32, len(r.data)/4)
	for i := range vs {
		vs[i] = int32(binary.BigEndian.Uint32(r.data[4*i:]))
	}

	return vs
}

func (r record) reals() []float64 {
	vs := make([]float64, len(r.data)/8)
	for i := range vs {
		vs[i] = decodeReal8(binary.BigEndian.Uint64(r.data[8*i:]))
	}

	return vs
}

func (r record) ascii() string {
	return strings.TrimRight(string(r.data), "\x00")
}

type reader struct {
	r     *bufio.Reader
	dbu   float64
	cells map[string]*layout.Cell
	order []*layout.Cell
	seen  map[string]bool
}

func (rd *reader) next() (record, error) {
	var head [4]byte
	if _, err := io.ReadFull(rd.r, head[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return record{}, io.ErrUnexpectedEOF
		}

		return record{}, err
	}

	n := int(binary.BigEndian.Uint16(head[:2]))
	if n < 4 {
		return record{}, fmt.Errorf("bad record length %d", n)
	}

	data := make([]byte, n-4)
	if _, err := io.ReadFull(rd.r, data); err != nil {
		return record{}, err
	}

	return record{typ: recordType(binary.BigEndian.Uint16(head[2:])), data: data}, nil
}

// cell returns the cell of a name, creating it if it is referenced before it
// is defined.
func (rd *reader) cell(name string) *layout.Cell {
	if c, ok := rd.cells[name]; ok {
		return c
	}

	c := layout.NewCell(name)
	rd.cells[name] = c

	return c
}

// ref resolves the structure placed by a reference inside c.
func (rd *reader) ref(c *layout.Cell, name string) (*layout.Cell, error) {
	if name == "" {
		return nil, fmt.Errorf("cell %s: reference without structure name", c.Name())
	}

	if name == c.Name() {
		return nil, fmt.Errorf("cell %s: references itself", c.Name())
	}

	return rd.cell(name), nil
}

func (rd *reader) point(x, y int32) layout.Point {
	return layout.Point{X: float64(x) / rd.dbu, Y: float64(y) / rd.dbu}
}

// element collects the records between an element start and ENDEL.
type element struct {
	kind    recordType
	layer   layout.Layer
	xy      []int32
	sname   string
	text    string
	colrow  []int16
	hasSTr  bool
	nonUnit bool
}

func (rd *reader) readElement(kind recordType) (element, error) {
	el := element{kind: kind}

	for {
		rec, err := rd.next()
		if err != nil {
			return el, err
		}

		switch rec.typ {
		case recEndEl:
			return el, nil
		case recLayer:
			el.layer.Number = int(rec.int16s()[0])
		case recDataType, recTextType:
			el.layer.Purpose = int(rec.int16s()[0])
		case recXY:
			el.xy = rec.int32s()
		case recSName:
			el.sname = rec.ascii()
		case recString:
			el.text = rec.ascii()
		case recColRow:
			el.colrow = rec.int16s()
		case recSTrans:
			el.hasSTr = len(rec.data) >= 2 && binary.BigEndian.Uint16(rec.data) != 0
		case recMag:
			el.nonUnit = el.nonUnit || rec.reals()[0] != 1
		case recAngle:
			el.nonUnit = el.nonUnit || rec.reals()[0] != 0
		}
	}
}

func (rd *reader) addElement(c *layout.Cell, el element) error {
	if el.hasSTr || el.nonUnit {
		return fmt.Errorf("cell %s: transformed placements are not supported", c.Name())
	}

	switch el.kind {
	case recBoundary:
		return rd.addBoundary(c, el)
	case recText:
		if len(el.xy) < 2 {
			return fmt.Errorf("cell %s: text without position", c.Name())
		}

		c.AddLabel(el.layer, el.text, rd.point(el.xy[0], el.xy[1]))
	case recSRef:
		if len(el.xy) < 2 {
			return fmt.Errorf("cell %s: reference without position", c.Name())
		}

		sub, err := rd.ref(c, el.sname)
		if err != nil {
			return err
		}

		c.AddInstance(sub, rd.point(el.xy[0], el.xy[1]))
	case recARef:
		return rd.addArray(c, el)
	}

	return nil
}

func (rd *reader) addBoundary(c *layout.Cell, el element) error {
	if len(el.xy) < 8 {
		return fmt.Errorf("cell %s: boundary with too few points", c.Name())
	}

	minX, minY := int32(math.MaxInt32), int32(math.MaxInt32)
	maxX, maxY := int32(math.MinInt32), int32(math.MinInt32)

	for i := 0; i+1 < len(el.xy); i += 2 {
		minX, maxX = min(minX, el.xy[i]), max(maxX, el.xy[i])
		minY, maxY = min(minY, el.xy[i+1]), max(maxY, el.xy[i+1])
	}

	for i := 0; i+1 < len(el.xy); i += 2 {
		x, y := el.xy[i], el.xy[i+1]
		if (x != minX && x != maxX) || (y != minY && y != maxY) {
			return fmt.Errorf("cell %s: boundary is not a rectangle", c.Name())
		}
	}

	p0, p1 := rd.point(minX, minY), rd.point(maxX, maxY)
	c.AddRect(el.layer, layout.MakeBox(p0.X, p0.Y, p1.X, p1.Y))

	return nil
}

func (rd *reader) addArray(c *layout.Cell, el element) error {
	if len(el.colrow) < 2 || len(el.xy) < 6 {
		return fmt.Errorf("cell %s: malformed array reference", c.Name())
	}

	cols, rows := int(el.colrow[0]), int(el.colrow[1])
	if cols < 1 || rows < 1 {
		return fmt.Errorf("cell %s: array of %dx%d", c.Name(), cols, rows)
	}

	o := rd.point(el.xy[0], el.xy[1])
	colEnd := rd.point(el.xy[2], el.xy[3])
	rowEnd := rd.point(el.xy[4], el.xy[5])

	if colEnd.Y != o.Y || rowEnd.X != o.X {
		return fmt.Errorf("cell %s: skewed arrays are not supported", c.Name())
	}

	sub, err := rd.ref(c, el.sname)
	if err != nil {
		return err
	}

	c.AddArray(sub, o, cols, rows,
		(colEnd.X-o.X)/float64(cols), (rowEnd.Y-o.Y)/float64(rows))

	return nil
}

func (rd *reader) readStructure() error {
	var c *layout.Cell

	for {
		rec, err := rd.next()
		if err != nil {
			return err
		}

		switch rec.typ {
		case recStrName:
			name := rec.ascii()
			if name == "" {
				return errors.New("structure without name")
			}

			if rd.seen[name] {
				return fmt.Errorf("cell %s defined twice", name)
			}

			rd.seen[name] = true
			c = rd.cell(name)
			rd.order = append(rd.order, c)
		case recEndStr:
			return nil
		case recBoundary, recText, recSRef, recARef:
			if c == nil {
				return errors.New("element before structure name")
			}

			el, err := rd.readElement(rec.typ)
			if err != nil {
				return err
			}

			if err := rd.addElement(c, el); err != nil {
				return err
			}
		}
	}
}

// Read parses a stream into a library. Cells may be referenced before they
// are defined; a reference to a cell that is never defined is an error.
func Read(in io.Reader) (*layout.Library, error) {
	rd := &reader{
		r:     bufio.NewReader(in),
		dbu:   1000,
		cells: make(map[string]*layout.Cell),
		seen:  make(map[string]bool),
	}

	lib := layout.NewLibrary("")

	for done := false; !done; {
		rec, err := rd.next()
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}

		switch rec.typ {
		case recLibName:
			lib.Name = rec.ascii()
		case recUnits:
			units := rec.reals()
			if len(units) != 2 || units[1] <= 0 {
				return nil, errors.New("reading stream: bad units")
			}

			rd.dbu = math.Round(1e-6/units[1]*1e6) / 1e6
			lib.DBUPerMicron = rd.dbu
		case recBgnStr:
			if err := rd.readStructure(); err != nil {
				return nil, fmt.Errorf("reading stream: %w", err)
			}
		case recEndLib:
			done = true
		}
	}

	for name := range rd.cells {
		if !rd.seen[name] {
			return nil, fmt.Errorf("reading stream: cell %s is referenced but not defined", name)
		}
	}

	for _, c := range rd.order {
		lib.Add(c)
	}

	return lib, nil
}

// ReadFile reads a library from a file.
func ReadFile(path string) (*layout.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}
