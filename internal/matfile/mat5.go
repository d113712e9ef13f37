package matfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// MAT-file Level 5 data element types.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
	miUTF16      = 17
	miUTF32      = 18
)

const headerSize = 128

// Open reads and decodes a MAT-file from disk.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mat file: %w", err)
	}
	return Decode(data)
}

// Decode decodes a complete Level 5 MAT-file byte stream.
func Decode(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("mat file too short: %d bytes", len(data))
	}

	var order binary.ByteOrder
	switch {
	case data[126] == 'I' && data[127] == 'M':
		order = binary.LittleEndian
	case data[126] == 'M' && data[127] == 'I':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("not a Level 5 MAT-file: bad endian indicator %q", data[126:128])
	}

	version := order.Uint16(data[124:126])
	if version != 0x0100 {
		return nil, fmt.Errorf("unsupported MAT-file version 0x%04x", version)
	}

	f := &File{
		Header: strings.TrimRight(string(data[:116]), " \x00"),
	}

	r := &reader{data: data[headerSize:], order: order}
	for r.remaining() >= 8 {
		typ, payload, err := r.element()
		if err != nil {
			return nil, err
		}

		switch typ {
		case miCOMPRESSED:
			inner, err := inflate(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to inflate compressed element: %w", err)
			}
			ir := &reader{data: inner, order: order}
			ityp, ipayload, err := ir.element()
			if err != nil {
				return nil, err
			}
			if ityp != miMATRIX {
				continue
			}
			arr, err := parseMatrix(ipayload, order)
			if err != nil {
				return nil, err
			}
			if arr != nil {
				f.Vars = append(f.Vars, arr)
			}
		case miMATRIX:
			arr, err := parseMatrix(payload, order)
			if err != nil {
				return nil, err
			}
			if arr != nil {
				f.Vars = append(f.Vars, arr)
			}
		default:
			// Subsystem data and other element types are not variables.
		}
	}

	return f, nil
}

func inflate(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// reader walks a sequence of 8-byte-aligned data elements.
type reader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

// element reads the next data element, handling the small data element
// format (payload packed into the tag's trailing 4 bytes) and the 8-byte
// alignment padding of regular elements.
func (r *reader) element() (int, []byte, error) {
	if r.remaining() < 8 {
		return 0, nil, fmt.Errorf("truncated element tag at offset %d", r.pos)
	}

	first := r.order.Uint32(r.data[r.pos : r.pos+4])
	if first>>16 != 0 {
		// Small data element: size in the upper 16 bits, payload inline.
		typ := int(first & 0xffff)
		size := int(first >> 16)
		if size > 4 {
			return 0, nil, fmt.Errorf("invalid small element size %d", size)
		}
		payload := r.data[r.pos+4 : r.pos+4+size]
		r.pos += 8
		return typ, payload, nil
	}

	typ := int(first)
	size := int(r.order.Uint32(r.data[r.pos+4 : r.pos+8]))
	r.pos += 8
	if r.remaining() < size {
		return 0, nil, fmt.Errorf("element type %d claims %d bytes, %d remain", typ, size, r.remaining())
	}
	payload := r.data[r.pos : r.pos+size]
	r.pos += size

	// Regular elements are padded to the next 8-byte boundary, except a
	// compressed element, which runs to its exact end.
	if typ != miCOMPRESSED {
		if pad := (8 - size%8) % 8; pad <= r.remaining() {
			r.pos += pad
		} else {
			r.pos = len(r.data)
		}
	}
	return typ, payload, nil
}

// parseMatrix decodes a miMATRIX payload into an Array. A zero-length
// payload is MATLAB's encoding of an empty matrix.
func parseMatrix(payload []byte, order binary.ByteOrder) (*Array, error) {
	if len(payload) == 0 {
		return &Array{}, nil
	}

	r := &reader{data: payload, order: order}

	typ, flagsData, err := r.element()
	if err != nil {
		return nil, err
	}
	if typ != miUINT32 || len(flagsData) < 8 {
		return nil, fmt.Errorf("malformed array flags element (type %d, %d bytes)", typ, len(flagsData))
	}
	flags := order.Uint32(flagsData[:4])
	class := Class(flags & 0xff)
	complexFlag := flags&0x0800 != 0

	typ, dimsData, err := r.element()
	if err != nil {
		return nil, err
	}
	if typ != miINT32 {
		return nil, fmt.Errorf("malformed dimensions element (type %d)", typ)
	}
	dims := make([]int, len(dimsData)/4)
	for i := range dims {
		dims[i] = int(int32(order.Uint32(dimsData[i*4 : i*4+4])))
	}

	typ, nameData, err := r.element()
	if err != nil {
		return nil, err
	}
	if typ != miINT8 {
		return nil, fmt.Errorf("malformed array name element (type %d)", typ)
	}

	arr := &Array{
		Name:  string(nameData),
		Class: class,
		Dims:  dims,
	}

	switch class {
	case ClassDouble, ClassSingle, ClassInt8, ClassUint8, ClassInt16,
		ClassUint16, ClassInt32, ClassUint32, ClassInt64, ClassUint64:
		if r.remaining() >= 8 {
			typ, realData, err := r.element()
			if err != nil {
				return nil, err
			}
			arr.Numeric, err = numericPayload(typ, realData, order)
			if err != nil {
				return nil, err
			}
		}
		// The imaginary part of a complex array is not read; battery
		// instrument channels are real-valued.
		_ = complexFlag

	case ClassChar:
		if r.remaining() >= 8 {
			typ, charData, err := r.element()
			if err != nil {
				return nil, err
			}
			arr.Str, err = charPayload(typ, charData, order)
			if err != nil {
				return nil, err
			}
		}

	case ClassStruct:
		if err := parseStruct(r, arr, order); err != nil {
			return nil, err
		}

	case ClassCell:
		n := arr.NumElements()
		for i := 0; i < n && r.remaining() >= 8; i++ {
			typ, cellData, err := r.element()
			if err != nil {
				return nil, err
			}
			if typ != miMATRIX {
				return nil, fmt.Errorf("cell element %d has type %d, want miMATRIX", i, typ)
			}
			cell, err := parseMatrix(cellData, order)
			if err != nil {
				return nil, err
			}
			arr.Cells = append(arr.Cells, cell)
		}

	default:
		// Sparse and object arrays never occur in cycling records;
		// keep the shell so callers can still see name and class.
	}

	return arr, nil
}

func parseStruct(r *reader, arr *Array, order binary.ByteOrder) error {
	typ, lenData, err := r.element()
	if err != nil {
		return err
	}
	if typ != miINT32 || len(lenData) < 4 {
		return fmt.Errorf("malformed struct field name length (type %d)", typ)
	}
	nameLen := int(int32(order.Uint32(lenData[:4])))
	if nameLen <= 0 {
		return fmt.Errorf("invalid struct field name length %d", nameLen)
	}

	typ, namesData, err := r.element()
	if err != nil {
		return err
	}
	if typ != miINT8 {
		return fmt.Errorf("malformed struct field names (type %d)", typ)
	}
	var fields []string
	for off := 0; off+nameLen <= len(namesData); off += nameLen {
		name := strings.TrimRight(string(namesData[off:off+nameLen]), "\x00")
		if name != "" {
			fields = append(fields, name)
		}
	}

	n := arr.NumElements()
	for i := 0; i < n; i++ {
		elem := make(Struct, len(fields))
		for _, field := range fields {
			if r.remaining() < 8 {
				return fmt.Errorf("truncated struct: element %d field %q missing", i, field)
			}
			typ, fieldData, err := r.element()
			if err != nil {
				return err
			}
			if typ != miMATRIX {
				return fmt.Errorf("struct field %q has type %d, want miMATRIX", field, typ)
			}
			val, err := parseMatrix(fieldData, order)
			if err != nil {
				return err
			}
			elem[field] = val
		}
		arr.Elements = append(arr.Elements, elem)
	}
	return nil
}

// numericPayload converts a numeric data element to float64s.
func numericPayload(typ int, data []byte, order binary.ByteOrder) ([]float64, error) {
	switch typ {
	case miINT8:
		out := make([]float64, len(data))
		for i, b := range data {
			out[i] = float64(int8(b))
		}
		return out, nil
	case miUINT8:
		out := make([]float64, len(data))
		for i, b := range data {
			out[i] = float64(b)
		}
		return out, nil
	case miINT16:
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(int16(order.Uint16(data[i*2 : i*2+2])))
		}
		return out, nil
	case miUINT16:
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(order.Uint16(data[i*2 : i*2+2]))
		}
		return out, nil
	case miINT32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(int32(order.Uint32(data[i*4 : i*4+4])))
		}
		return out, nil
	case miUINT32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(order.Uint32(data[i*4 : i*4+4]))
		}
		return out, nil
	case miSINGLE:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(data[i*4 : i*4+4])))
		}
		return out, nil
	case miDOUBLE:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(data[i*8 : i*8+8]))
		}
		return out, nil
	case miINT64:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = float64(int64(order.Uint64(data[i*8 : i*8+8])))
		}
		return out, nil
	case miUINT64:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = float64(order.Uint64(data[i*8 : i*8+8]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported numeric element type %d", typ)
}

// charPayload decodes a char array data element to a Go string.
func charPayload(typ int, data []byte, order binary.ByteOrder) (string, error) {
	switch typ {
	case miUTF8, miINT8, miUINT8:
		return string(data), nil
	case miUINT16, miUTF16:
		runes := make([]rune, 0, len(data)/2)
		for i := 0; i+2 <= len(data); i += 2 {
			runes = append(runes, rune(order.Uint16(data[i:i+2])))
		}
		return string(runes), nil
	case miUINT32, miUTF32:
		runes := make([]rune, 0, len(data)/4)
		for i := 0; i+4 <= len(data); i += 4 {
			runes = append(runes, rune(order.Uint32(data[i:i+4])))
		}
		return string(runes), nil
	}
	return "", fmt.Errorf("unsupported char element type %d", typ)
}
