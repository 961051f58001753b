// Package gds reads and writes the subset of the GDSII stream format used by
// generated cells: rectangles, text labels, and plain or arrayed placements
// without rotation or mirroring.
package gds

import "math"

type recordType uint16

// Record types, with the data type in the low byte.
const (
	recHeader   recordType = 0x0002
	recBgnLib   recordType = 0x0102
	recLibName  recordType = 0x0206
	recUnits    recordType = 0x0305
	recEndLib   recordType = 0x0400
	recBgnStr   recordType = 0x0502
	recStrName  recordType = 0x0606
	recEndStr   recordType = 0x0700
	recBoundary recordType = 0x0800
	recSRef     recordType = 0x0A00
	recARef     recordType = 0x0B00
	recText     recordType = 0x0C00
	recLayer    recordType = 0x0D02
	recDataType recordType = 0x0E02
	recXY       recordType = 0x1003
	recEndEl    recordType = 0x1100
	recSName    recordType = 0x1206
	recColRow   recordType = 0x1302
	recTextType recordType = 0x1602
	recString   recordType = 0x1906
	recSTrans   recordType = 0x1A01
	recMag      recordType = 0x1B05
	recAngle    recordType = 0x1C05
)

// Version is the stream format version written in the header.
const Version = 600

const maxRecordLength = 0xFFFF

// encodeReal8 converts a float to the excess-64, base-16 format of the
// stream.
func encodeReal8(v float64) uint64 {
	if v == 0 {
		return 0
	}

	var sign uint64
	if v < 0 {
		sign = 1 << 63
		v = -v
	}

	exp := 0
	for v >= 1 {
		v /= 16
		exp++
	}

	for v < 1.0/16 {
		v *= 16
		exp--
	}

	mant := uint64(math.Round(math.Ldexp(v, 56)))
	if mant >= 1<<56 {
		mant >>= 4
		exp++
	}

	return sign | uint64(exp+64)<<56 | mant
}

func decodeReal8(b uint64) float64 {
	mant := b & (1<<56 - 1)
	exp := int((b>>56)&0x7F) - 64

	v := math.Ldexp(float64(mant), -56) * math.Pow(16, float64(exp))
	if b>>63 == 1 {
		v = -v
	}

	return v
}
