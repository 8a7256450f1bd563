package objects

import (
	"fmt"
)

// Property is a named, typed field at a byte offset in instance storage.
// A property is a scalar, a fixed-length array, or a dynamic array whose
// live length is read from another integer property of the same class.
type Property struct {
	name     string
	kind     Kind
	offset   int
	length   int
	lengthOf *Property
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Kind returns the scalar kind (the element kind for arrays).
func (p *Property) Kind() Kind { return p.kind }

// Offset returns the byte offset into instance storage.
func (p *Property) Offset() int { return p.offset }

// IsArray reports whether the property has the array modifier.
func (p *Property) IsArray() bool {
	return p.length > 0 || p.lengthOf != nil
}

// Length returns the static element count of a fixed array, 0 otherwise.
func (p *Property) Length() int { return p.length }

// LengthProperty returns the property holding a dynamic array's live count.
func (p *Property) LengthProperty() *Property { return p.lengthOf }

// String renders the declaration, e.g. "int32", "float32[4]", "uint8[count]".
func (p *Property) String() string {
	switch {
	case p.lengthOf != nil:
		return fmt.Sprintf("%s[%s]", p.kind, p.lengthOf.name)
	case p.length > 0:
		return fmt.Sprintf("%s[%d]", p.kind, p.length)
	}
	return p.kind.String()
}

// RegisterProperty declares a scalar property.
func (cl *Class) RegisterProperty(name string, kind Kind, offset int) (*Property, error) {
	return cl.addProperty(&Property{name: name, kind: kind, offset: offset}, 1)
}

// RegisterArrayProperty declares a fixed-length array of length elements.
func (cl *Class) RegisterArrayProperty(name string, kind Kind, offset, length int) (*Property, error) {
	if length <= 0 {
		return nil, fmt.Errorf("objects: array %q of class %q has length %d: %w", name, cl.name, length, ErrInvalidLayout)
	}
	return cl.addProperty(&Property{name: name, kind: kind, offset: offset, length: length}, length)
}

// RegisterDynamicArrayProperty declares an array whose live length is the
// current value of lengthProp, an integer scalar already registered on cl.
// At least one element must fit in the instance storage; elements past the
// end of storage are out of bounds regardless of the live length.
func (cl *Class) RegisterDynamicArrayProperty(name string, kind Kind, offset int, lengthProp string) (*Property, error) {
	lp, ok := cl.props.Lookup(lengthProp)
	if !ok {
		return nil, fmt.Errorf("objects: length property %q of class %q: %w", lengthProp, cl.name, ErrNotFound)
	}
	if !lp.kind.IsInteger() || lp.IsArray() {
		return nil, fmt.Errorf("objects: length property %q is %s, need an integer scalar: %w", lengthProp, lp, ErrTypeMismatch)
	}
	return cl.addProperty(&Property{name: name, kind: kind, offset: offset, lengthOf: lp}, 1)
}

func (cl *Class) addProperty(p *Property, count int) (*Property, error) {
	if err := cl.checkMutable(); err != nil {
		return nil, err
	}
	if p.name == "" {
		return nil, fmt.Errorf("objects: property name is empty: %w", ErrInvalidLayout)
	}
	if !p.kind.Valid() {
		return nil, fmt.Errorf("objects: property %q has invalid kind: %w", p.name, ErrTypeMismatch)
	}
	// Compared by division so a huge offset or count cannot wrap.
	if p.offset < 0 || p.offset > cl.size || count > (cl.size-p.offset)/p.kind.Size() {
		return nil, fmt.Errorf("objects: property %q (%s at %d) exceeds instance size %d of class %q: %w",
			p.name, p, p.offset, cl.size, cl.name, ErrInvalidLayout)
	}
	if err := cl.props.Register(p.name, p); err != nil {
		return nil, fmt.Errorf("objects: class %q: %w", cl.name, err)
	}

	cl.ctx.logger.Debug("property registered", "class", cl.name, "property", p.name, "type", p.String(), "offset", p.offset)
	return p, nil
}

// Property returns the property registered under name.
func (cl *Class) Property(name string) (*Property, bool) {
	return cl.props.Lookup(name)
}

// Properties returns every property in registration order.
func (cl *Class) Properties() []*Property {
	return cl.props.Values()
}

// capacity returns how many elements of p fit in storage of size bytes.
func (p *Property) capacity(size int) int {
	if p.length > 0 {
		return p.length
	}
	if p.lengthOf == nil {
		return 1
	}
	return (size - p.offset) / p.kind.Size()
}
