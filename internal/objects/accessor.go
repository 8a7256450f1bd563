package objects

import (
	"encoding/binary"
	"fmt"
)

// property resolves name on a live object.
func (o *Object) property(name string) (*Property, error) {
	if o == nil || !o.Alive() {
		return nil, fmt.Errorf("objects: object is not live: %w", ErrNotFound)
	}
	p, ok := o.class.props.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("objects: class %q has no property %q: %w", o.class.name, name, ErrNotFound)
	}
	return p, nil
}

// scalar returns the storage of a non-array property of kind k.
func (o *Object) scalar(name string, k Kind) ([]byte, error) {
	p, err := o.property(name)
	if err != nil {
		return nil, err
	}
	if p.kind != k {
		return nil, fmt.Errorf("objects: property %q is %s, accessed as %s: %w", name, p, k, ErrTypeMismatch)
	}
	if p.IsArray() {
		return nil, fmt.Errorf("objects: property %q is %s, accessed as a scalar: %w", name, p, ErrTypeMismatch)
	}
	return o.data[p.offset : p.offset+k.Size()], nil
}

// element returns the storage of element index of array property name.
func (o *Object) element(name string, k Kind, index int) ([]byte, error) {
	p, err := o.property(name)
	if err != nil {
		return nil, err
	}
	if p.kind != k {
		return nil, fmt.Errorf("objects: property %q is %s, accessed as %s: %w", name, p, k, ErrTypeMismatch)
	}
	if !p.IsArray() {
		return nil, fmt.Errorf("objects: property %q is %s, accessed with an index: %w", name, p, ErrTypeMismatch)
	}
	n := o.length(p)
	if index < 0 || index >= n {
		return nil, fmt.Errorf("objects: index %d of %q out of range [0,%d): %w", index, name, n, ErrIndexOutOfBounds)
	}
	off := p.offset + index*k.Size()
	return o.data[off : off+k.Size()], nil
}

// length returns the effective element count of p on o.
func (o *Object) length(p *Property) int {
	if p.lengthOf == nil {
		return p.capacity(len(o.data))
	}
	lp := p.lengthOf
	n := loadInt(lp.kind, o.data[lp.offset:lp.offset+lp.kind.Size()])
	if n < 0 {
		return 0
	}
	return int(min(n, int64(p.capacity(len(o.data)))))
}

// Len returns the effective length of an array property: its static length,
// or the current value of its length property clamped to the storage.
func Len(o *Object, name string) (int, error) {
	p, err := o.property(name)
	if err != nil {
		return 0, err
	}
	if !p.IsArray() {
		return 0, fmt.Errorf("objects: property %q is not an array: %w", name, ErrTypeMismatch)
	}
	return o.length(p), nil
}

// Get reads a scalar property. The property kind must match T exactly.
func Get[T Scalar](o *Object, name string) (T, error) {
	k := kindFor[T]()
	b, err := o.scalar(name, k)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](k, b), nil
}

// Set overwrites a scalar property in place.
func Set[T Scalar](o *Object, name string, v T) error {
	b, err := o.scalar(name, kindFor[T]())
	if err != nil {
		return err
	}
	encode(b, v)
	return nil
}

// GetIndex reads element index of an array property.
func GetIndex[T Scalar](o *Object, name string, index int) (T, error) {
	k := kindFor[T]()
	b, err := o.element(name, k, index)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](k, b), nil
}

// SetIndex overwrites element index of an array property.
func SetIndex[T Scalar](o *Object, name string, index int, v T) error {
	b, err := o.element(name, kindFor[T](), index)
	if err != nil {
		return err
	}
	encode(b, v)
	return nil
}

// GetRef resolves an object-reference property. An empty reference yields
// (nil, nil); a reference to a deleted object yields ErrNotFound.
func GetRef(o *Object, name string) (*Object, error) {
	b, err := o.scalar(name, KindObjectRef)
	if err != nil {
		return nil, err
	}
	return o.resolve(name, b)
}

// SetRef stores a reference to target, or clears it when target is nil.
// target must be live in the same Context.
func SetRef(o *Object, name string, target *Object) error {
	b, err := o.scalar(name, KindObjectRef)
	if err != nil {
		return err
	}
	return o.link(b, target)
}

// GetIndexRef resolves element index of an object-reference array.
func GetIndexRef(o *Object, name string, index int) (*Object, error) {
	b, err := o.element(name, KindObjectRef, index)
	if err != nil {
		return nil, err
	}
	return o.resolve(name, b)
}

// SetIndexRef stores a reference in element index of an object-reference array.
func SetIndexRef(o *Object, name string, index int, target *Object) error {
	b, err := o.element(name, KindObjectRef, index)
	if err != nil {
		return err
	}
	return o.link(b, target)
}

func (o *Object) resolve(name string, b []byte) (*Object, error) {
	id := binary.NativeEndian.Uint64(b)
	if id == 0 {
		return nil, nil
	}
	target, ok := o.ctx.byID.Find(id)
	if !ok {
		return nil, fmt.Errorf("objects: %q references object #%d which no longer exists: %w", name, id, ErrNotFound)
	}
	return target, nil
}

func (o *Object) link(b []byte, target *Object) error {
	var id uint64
	if target != nil {
		if target.ctx != o.ctx || !target.Alive() {
			return fmt.Errorf("objects: reference target is not live in this context: %w", ErrNotFound)
		}
		id = target.id
	}
	binary.NativeEndian.PutUint64(b, id)
	return nil
}
