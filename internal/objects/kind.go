package objects

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Kind is the scalar representation of a property.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	// KindObjectRef holds the ID of another object in the same Context.
	KindObjectRef
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindObjectRef: "ref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Size returns the number of bytes one value of k occupies.
func (k Kind) Size() int {
	switch k {
	case KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64, KindObjectRef:
		return 8
	}
	return 0
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindObjectRef
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint64
}

// ParseKind maps a kind name ("int32", "float64", "ref", ...) to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "object", "objectref":
		return KindObjectRef, nil
	case "byte":
		return KindUint8, nil
	}
	for k, name := range kindNames {
		if k != int(KindInvalid) && name == s {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("objects: unknown kind %q: %w", s, ErrTypeMismatch)
}

// Scalar is the set of Go types that map onto a numeric Kind.
type Scalar interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func kindFor[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case uint8:
		return KindUint8
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64:
		return KindUint64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	}
	return KindInvalid
}

// decode reads a T from b. k must equal kindFor[T]().
func decode[T Scalar](k Kind, b []byte) T {
	var v any
	switch k {
	case KindInt8:
		v = int8(b[0])
	case KindUint8:
		v = b[0]
	case KindInt16:
		v = int16(binary.NativeEndian.Uint16(b))
	case KindUint16:
		v = binary.NativeEndian.Uint16(b)
	case KindInt32:
		v = int32(binary.NativeEndian.Uint32(b))
	case KindUint32:
		v = binary.NativeEndian.Uint32(b)
	case KindInt64:
		v = int64(binary.NativeEndian.Uint64(b))
	case KindUint64:
		v = binary.NativeEndian.Uint64(b)
	case KindFloat32:
		v = math.Float32frombits(binary.NativeEndian.Uint32(b))
	case KindFloat64:
		v = math.Float64frombits(binary.NativeEndian.Uint64(b))
	}
	return v.(T)
}

// encode writes v into b.
func encode[T Scalar](b []byte, v T) {
	switch x := any(v).(type) {
	case int8:
		b[0] = byte(x)
	case uint8:
		b[0] = x
	case int16:
		binary.NativeEndian.PutUint16(b, uint16(x))
	case uint16:
		binary.NativeEndian.PutUint16(b, x)
	case int32:
		binary.NativeEndian.PutUint32(b, uint32(x))
	case uint32:
		binary.NativeEndian.PutUint32(b, x)
	case int64:
		binary.NativeEndian.PutUint64(b, uint64(x))
	case uint64:
		binary.NativeEndian.PutUint64(b, x)
	case float32:
		binary.NativeEndian.PutUint32(b, math.Float32bits(x))
	case float64:
		binary.NativeEndian.PutUint64(b, math.Float64bits(x))
	}
}

// loadInt reads an integer of kind k and widens it to int64.
// Unsigned values above math.MaxInt64 saturate.
func loadInt(k Kind, b []byte) int64 {
	switch k {
	case KindInt8:
		return int64(decode[int8](k, b))
	case KindInt16:
		return int64(decode[int16](k, b))
	case KindInt32:
		return int64(decode[int32](k, b))
	case KindInt64:
		return decode[int64](k, b)
	case KindUint8:
		return int64(decode[uint8](k, b))
	case KindUint16:
		return int64(decode[uint16](k, b))
	case KindUint32:
		return int64(decode[uint32](k, b))
	case KindUint64:
		u := decode[uint64](k, b)
		if u > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(u)
	}
	return 0
}
