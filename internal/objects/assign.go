package objects

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Assign stores a dynamically typed value into a property, converting it to
// the property's kind. Accepted values:
//
//   - Go integers and floats for numeric kinds (range-checked; floats must
//     be integral for integer kinds)
//   - *Object, an object name, or nil for object references
//   - []any for arrays; a dynamic array also gets its length property set
//     to the number of elements
func Assign(o *Object, name string, v any) error {
	p, err := o.property(name)
	if err != nil {
		return err
	}
	if !p.IsArray() {
		return o.store(p, o.data[p.offset:p.offset+p.kind.Size()], v)
	}

	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("objects: property %q is %s, got %T: %w", name, p, v, ErrTypeMismatch)
	}
	if capacity := p.capacity(len(o.data)); len(items) > capacity {
		return fmt.Errorf("objects: %d values for %q, room for %d: %w", len(items), name, capacity, ErrIndexOutOfBounds)
	}

	// Everything is converted into scratch space first so a bad item
	// leaves the object untouched.
	size := p.kind.Size()
	elems := make([]byte, len(items)*size)
	for i, item := range items {
		if err := o.store(p, elems[i*size:(i+1)*size], item); err != nil {
			return fmt.Errorf("objects: %s[%d]: %w", name, i, err)
		}
	}
	var count []byte
	lp := p.lengthOf
	if lp != nil {
		count = make([]byte, lp.kind.Size())
		if err := storeInt(lp.kind, count, int64(len(items))); err != nil {
			return fmt.Errorf("objects: length of %q: %w", name, err)
		}
	}

	copy(o.data[p.offset:], elems)
	if lp != nil {
		copy(o.data[lp.offset:], count)
	}
	return nil
}

func (o *Object) store(p *Property, b []byte, v any) error {
	if p.kind == KindObjectRef {
		switch x := v.(type) {
		case nil:
			return o.link(b, nil)
		case *Object:
			return o.link(b, x)
		case string:
			target, ok := o.ctx.Object(x)
			if !ok {
				return fmt.Errorf("objects: reference to object %q: %w", x, ErrNotFound)
			}
			return o.link(b, target)
		}
		return fmt.Errorf("objects: property %q is a reference, got %T: %w", p.name, v, ErrTypeMismatch)
	}

	switch x := v.(type) {
	case int:
		return storeInt(p.kind, b, int64(x))
	case int8:
		return storeInt(p.kind, b, int64(x))
	case int16:
		return storeInt(p.kind, b, int64(x))
	case int32:
		return storeInt(p.kind, b, int64(x))
	case int64:
		return storeInt(p.kind, b, x)
	case uint:
		return storeUint(p.kind, b, uint64(x))
	case uint8:
		return storeInt(p.kind, b, int64(x))
	case uint16:
		return storeInt(p.kind, b, int64(x))
	case uint32:
		return storeInt(p.kind, b, int64(x))
	case uint64:
		return storeUint(p.kind, b, x)
	case float32:
		return storeFloat(p.kind, b, float64(x))
	case float64:
		return storeFloat(p.kind, b, x)
	}
	return fmt.Errorf("objects: property %q is %s, got %T: %w", p.name, p.kind, v, ErrTypeMismatch)
}

func storeUint(k Kind, b []byte, u uint64) error {
	if u <= math.MaxInt64 {
		return storeInt(k, b, int64(u))
	}
	switch k {
	case KindUint64:
		encode(b, u)
	case KindFloat32:
		encode(b, float32(u))
	case KindFloat64:
		encode(b, float64(u))
	default:
		return fmt.Errorf("objects: %d overflows %s: %w", u, k, ErrTypeMismatch)
	}
	return nil
}

func storeInt(k Kind, b []byte, n int64) error {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	switch k {
	case KindInt8:
		lo, hi = math.MinInt8, math.MaxInt8
	case KindInt16:
		lo, hi = math.MinInt16, math.MaxInt16
	case KindInt32:
		lo, hi = math.MinInt32, math.MaxInt32
	case KindUint8:
		lo, hi = 0, math.MaxUint8
	case KindUint16:
		lo, hi = 0, math.MaxUint16
	case KindUint32:
		lo, hi = 0, math.MaxUint32
	case KindUint64:
		lo = 0
	}
	if n < lo || n > hi {
		return fmt.Errorf("objects: %d overflows %s: %w", n, k, ErrTypeMismatch)
	}

	switch k {
	case KindInt8:
		encode(b, int8(n))
	case KindInt16:
		encode(b, int16(n))
	case KindInt32:
		encode(b, int32(n))
	case KindInt64:
		encode(b, n)
	case KindUint8:
		encode(b, uint8(n))
	case KindUint16:
		encode(b, uint16(n))
	case KindUint32:
		encode(b, uint32(n))
	case KindUint64:
		encode(b, uint64(n))
	case KindFloat32:
		encode(b, float32(n))
	case KindFloat64:
		encode(b, float64(n))
	default:
		return fmt.Errorf("objects: cannot store integer in %s: %w", k, ErrTypeMismatch)
	}
	return nil
}

func storeFloat(k Kind, b []byte, f float64) error {
	switch k {
	case KindFloat32:
		encode(b, float32(f))
		return nil
	case KindFloat64:
		encode(b, f)
		return nil
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("objects: %v is not a valid %s: %w", f, k, ErrTypeMismatch)
	}
	return storeInt(k, b, int64(f))
}

// Format renders the current value of a property as text. Arrays render as
// "[a b c]"; references render as the target's name, "nil", or "#id?" when
// the target no longer exists.
func Format(o *Object, name string) (string, error) {
	p, err := o.property(name)
	if err != nil {
		return "", err
	}
	if !p.IsArray() {
		return o.formatSlot(p.kind, o.data[p.offset:p.offset+p.kind.Size()]), nil
	}

	n := o.length(p)
	size := p.kind.Size()
	parts := make([]string, n)
	for i := range n {
		off := p.offset + i*size
		parts[i] = o.formatSlot(p.kind, o.data[off:off+size])
	}
	return "[" + strings.Join(parts, " ") + "]", nil
}

func (o *Object) formatSlot(k Kind, b []byte) string {
	switch k {
	case KindFloat32:
		return strconv.FormatFloat(float64(decode[float32](k, b)), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(decode[float64](k, b), 'g', -1, 64)
	case KindUint64:
		return strconv.FormatUint(decode[uint64](k, b), 10)
	case KindObjectRef:
		id := decode[uint64](KindUint64, b)
		if id == 0 {
			return "nil"
		}
		if target, ok := o.ctx.byID.Find(id); ok {
			return target.name
		}
		return fmt.Sprintf("#%d?", id)
	}
	return strconv.FormatInt(loadInt(k, b), 10)
}
