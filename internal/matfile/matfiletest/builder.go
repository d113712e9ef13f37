// Package matfiletest builds synthetic Level 5 MAT-file byte streams for
// tests. It writes little-endian files with the same element layout the
// cycling instruments produce: one top-level struct variable holding a
// "cycle" struct array whose elements carry "type" and "data" fields.
package matfiletest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"math"
)

const (
	miINT8   = 1
	miINT32  = 5
	miUINT32 = 6
	miDOUBLE = 9
	miMATRIX = 14

	miCOMPRESSED = 15
	miUINT16     = 4

	mxCharClass   = 4
	mxStructClass = 2
	mxDoubleClass = 6
)

// Cycle describes one synthetic test segment.
type Cycle struct {
	Type string
	Data map[string][]float64
	// DataOrder fixes the field order of the data struct; keys absent
	// from it are appended in map iteration order.
	DataOrder []string
}

// File assembles a complete MAT-file from encoded top-level elements.
func File(elements ...[]byte) []byte {
	var buf bytes.Buffer
	header := make([]byte, 128)
	copy(header, []byte("MATLAB 5.0 MAT-file, synthetic battery record"))
	for i := len("MATLAB 5.0 MAT-file, synthetic battery record"); i < 116; i++ {
		header[i] = ' '
	}
	binary.LittleEndian.PutUint16(header[124:126], 0x0100)
	header[126] = 'I'
	header[127] = 'M'
	buf.Write(header)
	for _, el := range elements {
		buf.Write(el)
	}
	return buf.Bytes()
}

// BatteryRecord encodes the canonical instrument shape: a single struct
// variable with a "cycle" field listing the given cycles. Struct-array
// field values are a flat element-major sequence of field matrices, not
// per-element wrappers.
func BatteryRecord(varName string, cycles []Cycle) []byte {
	cycleElems := make([][]byte, len(cycles))
	for i, c := range cycles {
		cycleElems[i] = concat([][]byte{
			charMatrix("", c.Type),
			dataStruct(c),
		})
	}
	cycleArray := structArray("", []string{"type", "data"}, len(cycles), concat(cycleElems))

	top := structArray(varName, []string{"cycle"}, 1, cycleArray)
	return top
}

// RecordWithoutCycles encodes a struct variable that has fields but no
// "cycle" field, for structural-absence tests.
func RecordWithoutCycles(varName string) []byte {
	return structArray(varName, []string{"metadata"}, 1, charMatrix("", "no cycles here"))
}

// NumericVariable encodes a plain 1xN double variable.
func NumericVariable(name string, vals []float64) []byte {
	return doubleMatrix(name, vals)
}

// Compressed wraps an encoded element in a miCOMPRESSED envelope, the
// way MATLAB writes variables by default since R14.
func Compressed(element []byte) []byte {
	var z bytes.Buffer
	w := zlib.NewWriter(&z)
	w.Write(element)
	w.Close()

	var buf bytes.Buffer
	writeTag(&buf, miCOMPRESSED, z.Len())
	buf.Write(z.Bytes())
	return buf.Bytes()
}

func dataStruct(c Cycle) []byte {
	order := c.DataOrder
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		seen[k] = true
	}
	for k := range c.Data {
		if !seen[k] {
			order = append(order, k)
		}
	}
	values := make([][]byte, len(order))
	for i, k := range order {
		values[i] = doubleMatrix("", c.Data[k])
	}
	return structElement("", order, values)
}

// structElement encodes a 1x1 struct miMATRIX.
func structElement(name string, fields []string, values [][]byte) []byte {
	return structArray(name, fields, 1, concat(values))
}

// structArray encodes a 1xN struct miMATRIX whose field payloads are
// already concatenated in element-major, field-minor order.
func structArray(name string, fields []string, n int, payload []byte) []byte {
	var body bytes.Buffer
	writeArrayFlags(&body, mxStructClass)
	writeDims(&body, 1, n)
	writeName(&body, name)

	// Field name length (always 32, as MATLAB writes it).
	writeTag(&body, miINT32, 4)
	binary.Write(&body, binary.LittleEndian, int32(32))
	pad(&body)

	names := make([]byte, 32*len(fields))
	for i, f := range fields {
		copy(names[i*32:], f)
	}
	writeTag(&body, miINT8, len(names))
	body.Write(names)
	pad(&body)

	body.Write(payload)
	return matrix(body.Bytes())
}

func doubleMatrix(name string, vals []float64) []byte {
	var body bytes.Buffer
	writeArrayFlags(&body, mxDoubleClass)
	cols := len(vals)
	rows := 1
	if cols == 0 {
		rows = 0
	}
	writeDims(&body, rows, cols)
	writeName(&body, name)

	writeTag(&body, miDOUBLE, 8*len(vals))
	for _, v := range vals {
		binary.Write(&body, binary.LittleEndian, math.Float64bits(v))
	}
	pad(&body)
	return matrix(body.Bytes())
}

func charMatrix(name, s string) []byte {
	var body bytes.Buffer
	writeArrayFlags(&body, mxCharClass)
	writeDims(&body, 1, len(s))
	writeName(&body, name)

	writeTag(&body, miUINT16, 2*len(s))
	for _, r := range s {
		binary.Write(&body, binary.LittleEndian, uint16(r))
	}
	pad(&body)
	return matrix(body.Bytes())
}

func matrix(body []byte) []byte {
	var buf bytes.Buffer
	writeTag(&buf, miMATRIX, len(body))
	buf.Write(body)
	return buf.Bytes()
}

func writeArrayFlags(buf *bytes.Buffer, class uint8) {
	writeTag(buf, miUINT32, 8)
	binary.Write(buf, binary.LittleEndian, uint32(class))
	binary.Write(buf, binary.LittleEndian, uint32(0))
}

func writeDims(buf *bytes.Buffer, dims ...int) {
	writeTag(buf, miINT32, 4*len(dims))
	for _, d := range dims {
		binary.Write(buf, binary.LittleEndian, int32(d))
	}
	pad(buf)
}

func writeName(buf *bytes.Buffer, name string) {
	writeTag(buf, miINT8, len(name))
	buf.WriteString(name)
	pad(buf)
}

func writeTag(buf *bytes.Buffer, typ, size int) {
	binary.Write(buf, binary.LittleEndian, uint32(typ))
	binary.Write(buf, binary.LittleEndian, uint32(size))
}

func pad(buf *bytes.Buffer) {
	for buf.Len()%8 != 0 {
		buf.WriteByte(0)
	}
}

func concat(parts [][]byte) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.Write(p)
	}
	return buf.Bytes()
}
