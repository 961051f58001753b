package gds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/sarchlab/pcells/layout"
)

type writer struct {
	w   *bufio.Writer
	dbu float64
	err error
}

func (w *writer) record(t recordType, data []byte) {
	if w.err != nil {
		return
	}

	if len(data)+4 > maxRecordLength {
		w.err = fmt.Errorf("record 0x%04x too long", uint16(t))
		return
	}

	var head [4]byte
	binary.BigEndian.PutUint16(head[:2], uint16(len(data)+4))
	binary.BigEndian.PutUint16(head[2:], uint16(t))

	if _, err := w.w.Write(head[:]); err != nil {
		w.err = err
		return
	}

	if _, err := w.w.Write(data); err != nil {
		w.err = err
	}
}

func (w *writer) int16s(t recordType, vs ...int16) {
	data := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.BigEndian.PutUint16(data[2*i:], uint16(v))
	}

	w.record(t, data)
}

func (w *writer) int32s(t recordType, vs ...int32) {
	data := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.BigEndian.PutUint32(data[4*i:], uint32(v))
	}

	w.record(t, data)
}

func (w *writer) reals(t recordType, vs ...float64) {
	data := make([]byte, 8*len(vs))
	for i, v := range vs {
		binary.BigEndian.PutUint64(data[8*i:], encodeReal8(v))
	}

	w.record(t, data)
}

// ascii writes a string padded with a zero byte to an even length.
func (w *writer) ascii(t recordType, s string) {
	data := []byte(s)
	if len(data)%2 == 1 {
		data = append(data, 0)
	}

	w.record(t, data)
}

func timestamp(t time.Time) []int16 {
	return []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}
}

func (w *writer) coord(v float64) int32 {
	return int32(math.Round(v * w.dbu))
}

func (w *writer) xy(pts ...layout.Point) {
	vs := make([]int32, 0, 2*len(pts))
	for _, p := range pts {
		vs = append(vs, w.coord(p.X), w.coord(p.Y))
	}

	w.int32s(recXY, vs...)
}

func (w *writer) layer(l layout.Layer, typeRec recordType) {
	w.int16s(recLayer, int16(l.Number))
	w.int16s(typeRec, int16(l.Purpose))
}

func (w *writer) cell(c *layout.Cell, now []int16) {
	w.int16s(recBgnStr, append(append([]int16{}, now...), now...)...)
	w.ascii(recStrName, c.Name())

	for _, s := range c.Shapes() {
		b := s.Box

		w.record(recBoundary, nil)
		w.layer(s.Layer, recDataType)
		w.xy(
			layout.Point{X: b.X0, Y: b.Y0},
			layout.Point{X: b.X1, Y: b.Y0},
			layout.Point{X: b.X1, Y: b.Y1},
			layout.Point{X: b.X0, Y: b.Y1},
			layout.Point{X: b.X0, Y: b.Y0},
		)
		w.record(recEndEl, nil)
	}

	for _, l := range c.Labels() {
		w.record(recText, nil)
		w.layer(l.Layer, recTextType)
		w.xy(l.Pos)
		w.ascii(recString, l.Text)
		w.record(recEndEl, nil)
	}

	for _, inst := range c.Instances() {
		w.instance(inst)
	}

	w.record(recEndStr, nil)
}

func (w *writer) instance(inst layout.Instance) {
	if !inst.IsArray() {
		w.record(recSRef, nil)
		w.ascii(recSName, inst.Cell.Name())
		w.xy(inst.Origin)
		w.record(recEndEl, nil)

		return
	}

	o := inst.Origin

	w.record(recARef, nil)
	w.ascii(recSName, inst.Cell.Name())
	w.int16s(recColRow, int16(inst.Cols), int16(inst.Rows))
	w.xy(
		o,
		layout.Point{X: o.X + float64(inst.Cols)*inst.ColPitch, Y: o.Y},
		layout.Point{X: o.X, Y: o.Y + float64(inst.Rows)*inst.RowPitch},
	)
	w.record(recEndEl, nil)
}

// Write streams a library. Every cell placed by a library cell must belong to
// the library.
func Write(out io.Writer, lib *layout.Library) error {
	w := &writer{w: bufio.NewWriter(out), dbu: lib.DBUPerMicron}
	now := timestamp(time.Now())

	w.int16s(recHeader, Version)
	w.int16s(recBgnLib, append(append([]int16{}, now...), now...)...)
	w.ascii(recLibName, lib.Name)
	w.reals(recUnits, 1/lib.DBUPerMicron, 1e-6/lib.DBUPerMicron)

	for _, c := range lib.Cells() {
		w.cell(c, now)
	}

	w.record(recEndLib, nil)

	if w.err != nil {
		return fmt.Errorf("writing library %s: %w", lib.Name, w.err)
	}

	return w.w.Flush()
}

// WriteFile writes a library to a file.
func WriteFile(path string, lib *layout.Library) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, lib)
}
