package objects

import (
	"errors"
	"math"
	"testing"
)

func roundTrip[T Scalar](t *testing.T, kind Kind, v T) {
	t.Helper()
	ctx := New()
	defer ctx.Dispose()

	cl, err := ctx.NewClass("box", 16, nil, nil)
	if err != nil {
		t.Fatalf("NewClass() failed: %v", err)
	}
	// Offset 3 exercises unaligned storage.
	if _, err := cl.RegisterProperty("v", kind, 3); err != nil {
		t.Fatalf("RegisterProperty(%s) failed: %v", kind, err)
	}
	o, err := ctx.NewObject("box", "b")
	if err != nil {
		t.Fatalf("NewObject() failed: %v", err)
	}

	if err := Set(o, "v", v); err != nil {
		t.Fatalf("Set(%v) failed: %v", v, err)
	}
	got, err := Get[T](o, "v")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != v {
		t.Errorf("%s round trip = %v, expected %v", kind, got, v)
	}
}

func TestScalarRoundTrip(t *testing.T) {
	t.Run("int8", func(t *testing.T) { roundTrip[int8](t, KindInt8, math.MinInt8) })
	t.Run("int16", func(t *testing.T) { roundTrip[int16](t, KindInt16, -12345) })
	t.Run("int32", func(t *testing.T) { roundTrip[int32](t, KindInt32, math.MaxInt32) })
	t.Run("int64", func(t *testing.T) { roundTrip[int64](t, KindInt64, math.MinInt64) })
	t.Run("uint8", func(t *testing.T) { roundTrip[uint8](t, KindUint8, 255) })
	t.Run("uint16", func(t *testing.T) { roundTrip[uint16](t, KindUint16, 65000) })
	t.Run("uint32", func(t *testing.T) { roundTrip[uint32](t, KindUint32, math.MaxUint32) })
	t.Run("uint64", func(t *testing.T) { roundTrip[uint64](t, KindUint64, math.MaxUint64) })
	t.Run("float32", func(t *testing.T) { roundTrip[float32](t, KindFloat32, -1.5) })
	t.Run("float64", func(t *testing.T) { roundTrip[float64](t, KindFloat64, math.Pi) })
}

func TestTypeEnforcement(t *testing.T) {
	ctx := New()
	defer ctx.Dispose()
	cl, _ := ctx.NewClass("mixed", 32, nil, nil)
	cl.RegisterProperty("count", KindInt32, 0)
	cl.RegisterArrayProperty("vals", KindInt32, 4, 4)

	o, _ := ctx.NewObject("mixed", "m")
	Set[int32](o, "count", 1)

	if _, err := Get[float32](o, "count"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Get[float32] on int32 error = %v, expected ErrTypeMismatch", err)
	}
	if _, err := Get[int64](o, "count"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Get[int64] on int32 error = %v, expected ErrTypeMismatch", err)
	}
	if err := Set[uint32](o, "count", 1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Set[uint32] on int32 error = %v, expected ErrTypeMismatch", err)
	}
	if _, err := Get[int32](o, "vals"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("scalar Get on array error = %v, expected ErrTypeMismatch", err)
	}
	if _, err := GetIndex[int32](o, "count", 0); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("indexed Get on scalar error = %v, expected ErrTypeMismatch", err)
	}
	if _, err := Get[int32](o, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on missing property error = %v, expected ErrNotFound", err)
	}
	if _, err := GetRef(o, "count"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetRef on int32 error = %v, expected ErrTypeMismatch", err)
	}
}

func TestFixedArrayBounds(t *testing.T) {
	const length = 4
	ctx := New()
	defer ctx.Dispose()
	cl, _ := ctx.NewClass("arr", 16, nil, nil)
	if _, err := cl.RegisterArrayProperty("vals", KindInt16, 0, length); err != nil {
		t.Fatalf("RegisterArrayProperty() failed: %v", err)
	}
	o, _ := ctx.NewObject("arr", "a")

	for i := 0; i < length; i++ {
		if err := SetIndex(o, "vals", i, int16(i*10)); err != nil {
			t.Fatalf("SetIndex(%d) failed: %v", i, err)
		}
	}
	if v, err := GetIndex[int16](o, "vals", length-1); err != nil || v != 30 {
		t.Errorf("GetIndex(L-1) = %d,%v expected 30", v, err)
	}
	if _, err := GetIndex[int16](o, "vals", length); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("GetIndex(L) error = %v, expected ErrIndexOutOfBounds", err)
	}
	if _, err := GetIndex[int16](o, "vals", -1); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("GetIndex(-1) error = %v, expected ErrIndexOutOfBounds", err)
	}
	if err := SetIndex(o, "vals", length, int16(1)); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("SetIndex(L) error = %v, expected ErrIndexOutOfBounds", err)
	}
	if n, err := Len(o, "vals"); err != nil || n != length {
		t.Errorf("Len() = %d,%v expected %d", n, err, length)
	}
}

func TestDynamicArray(t *testing.T) {
	ctx := New()
	defer ctx.Dispose()
	cl, _ := ctx.NewClass("list", 12, nil, nil)
	cl.RegisterProperty("count", KindUint8, 0)
	if _, err := cl.RegisterDynamicArrayProperty("items", KindUint16, 2, "count"); err != nil {
		t.Fatalf("RegisterDynamicArrayProperty() failed: %v", err)
	}
	o, _ := ctx.NewObject("list", "l")

	if _, err := GetIndex[uint16](o, "items", 0); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("GetIndex on empty dynamic array error = %v, expected ErrIndexOutOfBounds", err)
	}

	Set[uint8](o, "count", 3)
	if err := SetIndex(o, "items", 2, uint16(99)); err != nil {
		t.Fatalf("SetIndex(2) failed: %v", err)
	}
	if v, _ := GetIndex[uint16](o, "items", 2); v != 99 {
		t.Errorf("GetIndex(2) = %d, expected 99", v)
	}
	if _, err := GetIndex[uint16](o, "items", 3); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("GetIndex(count) error = %v, expected ErrIndexOutOfBounds", err)
	}

	// A count beyond the storage is clamped to the 5 elements that fit.
	Set[uint8](o, "count", 200)
	if n, _ := Len(o, "items"); n != 5 {
		t.Errorf("Len() = %d with oversized count, expected 5", n)
	}
	if _, err := GetIndex[uint16](o, "items", 5); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("GetIndex(5) error = %v, expected ErrIndexOutOfBounds", err)
	}
}

func TestRegisterPropertyValidation(t *testing.T) {
	ctx := New()
	defer ctx.Dispose()
	cl, _ := ctx.NewClass("small", 8, nil, nil)
	cl.RegisterProperty("a", KindInt32, 0)
	cl.RegisterArrayProperty("arr", KindUint8, 4, 2)

	tests := []struct {
		name     string
		register func() error
		expected error
	}{
		{"duplicate name", func() error { _, err := cl.RegisterProperty("a", KindInt32, 4); return err }, ErrDuplicateName},
		{"past end", func() error { _, err := cl.RegisterProperty("b", KindInt64, 4); return err }, ErrInvalidLayout},
		{"negative offset", func() error { _, err := cl.RegisterProperty("c", KindInt8, -1); return err }, ErrInvalidLayout},
		{"invalid kind", func() error { _, err := cl.RegisterProperty("d", KindInvalid, 0); return err }, ErrTypeMismatch},
		{"array past end", func() error { _, err := cl.RegisterArrayProperty("e", KindInt16, 4, 3); return err }, ErrInvalidLayout},
		{"offset near max int", func() error { _, err := cl.RegisterProperty("big", KindInt64, math.MaxInt-3); return err }, ErrInvalidLayout},
		{"array length near max int", func() error { _, err := cl.RegisterArrayProperty("huge", KindInt64, 0, math.MaxInt/4); return err }, ErrInvalidLayout},
		{"offset at end", func() error { _, err := cl.RegisterProperty("tail", KindInt8, 8); return err }, ErrInvalidLayout},
		{"zero length array", func() error { _, err := cl.RegisterArrayProperty("f", KindInt8, 0, 0); return err }, ErrInvalidLayout},
		{"missing length property", func() error { _, err := cl.RegisterDynamicArrayProperty("g", KindInt8, 4, "n"); return err }, ErrNotFound},
		{"array as length property", func() error { _, err := cl.RegisterDynamicArrayProperty("h", KindInt8, 4, "arr"); return err }, ErrTypeMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.register(); !errors.Is(err, tc.expected) {
				t.Errorf("error = %v, expected %v", err, tc.expected)
			}
		})
	}

	if p, _ := cl.Property("a"); p.Offset() != 0 || p.Kind() != KindInt32 {
		t.Error("duplicate registration disturbed the original property")
	}
}

func TestObjectReferences(t *testing.T) {
	ctx := New()
	defer ctx.Dispose()
	cl, _ := ctx.NewClass("node", 24, nil, nil)
	cl.RegisterProperty("next", KindObjectRef, 0)
	cl.RegisterArrayProperty("kids", KindObjectRef, 8, 2)

	a, _ := ctx.NewObject("node", "a")
	b, _ := ctx.NewObject("node", "b")

	if got, err := GetRef(a, "next"); err != nil || got != nil {
		t.Errorf("GetRef on empty reference = %v,%v expected nil,nil", got, err)
	}
	if err := SetRef(a, "next", b); err != nil {
		t.Fatalf("SetRef() failed: %v", err)
	}
	if got, err := GetRef(a, "next"); err != nil || got != b {
		t.Errorf("GetRef() = %v,%v expected b", got, err)
	}
	if err := SetIndexRef(a, "kids", 1, a); err != nil {
		t.Fatalf("SetIndexRef() failed: %v", err)
	}
	if got, _ := GetIndexRef(a, "kids", 1); got != a {
		t.Errorf("GetIndexRef(1) = %v, expected a", got)
	}

	ctx.DeleteObject(b)
	if _, err := GetRef(a, "next"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRef to deleted object error = %v, expected ErrNotFound", err)
	}
	if err := SetRef(a, "next", b); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetRef to deleted object error = %v, expected ErrNotFound", err)
	}

	// An object created later never inherits the dead reference.
	ctx.NewObject("node", "b")
	if _, err := GetRef(a, "next"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRef after name reuse error = %v, expected ErrNotFound", err)
	}

	if err := SetRef(a, "next", nil); err != nil {
		t.Fatalf("SetRef(nil) failed: %v", err)
	}
	if got, err := GetRef(a, "next"); got != nil || err != nil {
		t.Errorf("GetRef after clear = %v,%v expected nil,nil", got, err)
	}

	other := New()
	defer other.Dispose()
	other.NewClass("node", 8, nil, nil)
	foreign, _ := other.NewObject("node", "f")
	if err := SetRef(a, "next", foreign); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetRef to foreign object error = %v, expected ErrNotFound", err)
	}
}

func TestAccessDeletedObject(t *testing.T) {
	ctx := New()
	defer ctx.Dispose()
	newPoint(t, ctx)
	o, _ := ctx.NewObject("point", "p")
	ctx.DeleteObject(o)

	if _, err := Get[int32](o, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on deleted object error = %v, expected ErrNotFound", err)
	}
	if err := Set[int32](o, "x", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Set on deleted object error = %v, expected ErrNotFound", err)
	}
}
