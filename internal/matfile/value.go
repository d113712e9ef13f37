package matfile

// Class identifies the MATLAB array class of a decoded variable.
type Class uint8

const (
	ClassCell   Class = 1
	ClassStruct Class = 2
	ClassObject Class = 3
	ClassChar   Class = 4
	ClassSparse Class = 5
	ClassDouble Class = 6
	ClassSingle Class = 7
	ClassInt8   Class = 8
	ClassUint8  Class = 9
	ClassInt16  Class = 10
	ClassUint16 Class = 11
	ClassInt32  Class = 12
	ClassUint32 Class = 13
	ClassInt64  Class = 14
	ClassUint64 Class = 15
)

// Struct is one element of a MATLAB struct array: field name to value.
type Struct map[string]*Array

// Field returns the named field, or nil if absent or empty.
func (s Struct) Field(name string) *Array {
	a, ok := s[name]
	if !ok || a == nil {
		return nil
	}
	return a
}

// Array is a decoded MATLAB array. Exactly one of the payload slots is
// populated, according to Class: Numeric for the numeric classes, Str
// for char arrays, Elements for struct arrays, Cells for cell arrays.
type Array struct {
	Name  string
	Class Class
	Dims  []int

	Numeric  []float64
	Str      string
	Elements []Struct
	Cells    []*Array
}

// IsEmpty reports whether the array has no elements (any dimension zero
// or the array was a placeholder for an empty matrix element).
func (a *Array) IsEmpty() bool {
	if a == nil {
		return true
	}
	if len(a.Dims) == 0 {
		return len(a.Numeric) == 0 && a.Str == "" && len(a.Elements) == 0 && len(a.Cells) == 0
	}
	for _, d := range a.Dims {
		if d == 0 {
			return true
		}
	}
	return false
}

// NumElements returns the total element count implied by Dims.
func (a *Array) NumElements() int {
	if a == nil || len(a.Dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

// Floats returns the numeric payload, or nil for non-numeric arrays.
func (a *Array) Floats() []float64 {
	if a == nil {
		return nil
	}
	return a.Numeric
}

// File is a decoded MAT-file: its top-level variables in file order.
type File struct {
	Header string
	Vars   []*Array
}

// Var returns the named top-level variable, or nil.
func (f *File) Var(name string) *Array {
	for _, v := range f.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}
