package objects

import (
	"fmt"
	"reflect"

	"github.com/vovakirdan/objman/internal/registry"
)

// MetaInterface describes the shape of an interface: the byte offset of each
// named method within an implementation struct of func fields.
type MetaInterface struct {
	ctx     *Context
	name    string
	methods *registry.Table[uintptr]
}

// MethodSlot is one method of a MetaInterface.
type MethodSlot struct {
	Name   string
	Offset uintptr
}

// NewMetaInterface registers an interface name.
func (c *Context) NewMetaInterface(name string) (*MetaInterface, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("objects: interface name is empty: %w", ErrInvalidLayout)
	}
	m := &MetaInterface{ctx: c, name: name, methods: registry.New[uintptr]("method")}
	if err := c.metas.Register(name, m); err != nil {
		return nil, fmt.Errorf("objects: %w", err)
	}
	c.logger.Debug("interface registered", "interface", name)
	return m, nil
}

// MetaInterface returns the meta-interface registered under name.
func (c *Context) MetaInterface(name string) (*MetaInterface, bool) {
	return c.metas.Lookup(name)
}

// MetaInterfaces returns every meta-interface in registration order.
func (c *Context) MetaInterfaces() []*MetaInterface {
	return c.metas.Values()
}

// Name returns the interface name.
func (m *MetaInterface) Name() string { return m.name }

// RegisterMethod records that method lives at offset within implementations.
func (m *MetaInterface) RegisterMethod(method string, offset uintptr) error {
	if err := m.ctx.checkOpen(); err != nil {
		return err
	}
	if err := m.methods.Register(method, offset); err != nil {
		return fmt.Errorf("objects: interface %q: %w", m.name, err)
	}
	return nil
}

// RegisterMethods registers every exported func field of proto, a struct or
// pointer to struct, at the field's offset.
func (m *MetaInterface) RegisterMethods(proto any) error {
	t := reflect.TypeOf(proto)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("objects: interface %q: prototype %T is not a struct: %w", m.name, proto, ErrTypeMismatch)
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Func {
			continue
		}
		if err := m.RegisterMethod(f.Name, f.Offset); err != nil {
			return err
		}
	}
	return nil
}

// Methods returns the registered methods in registration order.
func (m *MetaInterface) Methods() []MethodSlot {
	entries := m.methods.List()
	slots := make([]MethodSlot, len(entries))
	for i, e := range entries {
		slots[i] = MethodSlot{Name: e.Name, Offset: e.Value}
	}
	return slots
}

// MethodOffset returns the offset of method.
func (m *MetaInterface) MethodOffset(method string) (uintptr, bool) {
	return m.methods.Lookup(method)
}

type implementation struct {
	meta  *MetaInterface
	impl  any
	value reflect.Value // the struct the impl pointer refers to
}

// funcAt returns the exported func field stored at offset.
func (im *implementation) funcAt(offset uintptr) (reflect.Value, bool) {
	t := im.value.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Offset == offset && f.IsExported() && f.Type.Kind() == reflect.Func {
			return im.value.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// ImplementInterface attaches impl, a non-nil pointer to a struct of func
// fields, as the class's implementation of the named interface. Every method
// the meta-interface declares must land on an exported func field.
func (cl *Class) ImplementInterface(name string, impl any) error {
	if err := cl.checkMutable(); err != nil {
		return err
	}
	m, ok := cl.ctx.metas.Lookup(name)
	if !ok {
		return fmt.Errorf("objects: class %q implements %q: %w", cl.name, name, ErrInterfaceNotDeclared)
	}

	v := reflect.ValueOf(impl)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("objects: implementation of %q must be a non-nil struct pointer, got %T: %w", name, impl, ErrTypeMismatch)
	}
	im := &implementation{meta: m, impl: impl, value: v.Elem()}
	for _, slot := range m.Methods() {
		if _, ok := im.funcAt(slot.Offset); !ok {
			return fmt.Errorf("objects: %T has no func field at offset %d for %s.%s: %w",
				impl, slot.Offset, name, slot.Name, ErrTypeMismatch)
		}
	}

	if err := cl.impls.Register(name, im); err != nil {
		return fmt.Errorf("objects: class %q: %w", cl.name, err)
	}
	cl.ctx.logger.Debug("interface implemented", "class", cl.name, "interface", name)
	return nil
}

// Interface returns the implementation pointer registered for name.
func (cl *Class) Interface(name string) (any, bool) {
	im, ok := cl.impls.Lookup(name)
	if !ok {
		return nil, false
	}
	return im.impl, true
}

// Interfaces returns the names of implemented interfaces in registration order.
func (cl *Class) Interfaces() []string {
	entries := cl.impls.List()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Method resolves the func stored for method in the class's implementation
// of iface. The result is the func value; use MethodAs for a typed func.
func (cl *Class) Method(iface, method string) (any, error) {
	im, ok := cl.impls.Lookup(iface)
	if !ok {
		return nil, fmt.Errorf("objects: class %q does not implement %q: %w", cl.name, iface, ErrNotFound)
	}
	off, ok := im.meta.methods.Lookup(method)
	if !ok {
		return nil, fmt.Errorf("objects: interface %q has no method %q: %w", iface, method, ErrMethodNotFound)
	}
	fv, ok := im.funcAt(off)
	if !ok {
		return nil, fmt.Errorf("objects: %T has no func field at offset %d for %s.%s: %w",
			im.impl, off, iface, method, ErrTypeMismatch)
	}
	if fv.IsNil() {
		return nil, fmt.Errorf("objects: %s.%s is not set on class %q: %w", iface, method, cl.name, ErrMethodNotFound)
	}
	return fv.Interface(), nil
}

// MethodAs is Method with the result asserted to the func type F.
func MethodAs[F any](cl *Class, iface, method string) (F, error) {
	var zero F
	fn, err := cl.Method(iface, method)
	if err != nil {
		return zero, err
	}
	typed, ok := fn.(F)
	if !ok {
		return zero, fmt.Errorf("objects: %s.%s is %T, not %T: %w", iface, method, fn, zero, ErrTypeMismatch)
	}
	return typed, nil
}

// ConformsTo reports whether the object's class implements iface.
func (o *Object) ConformsTo(iface string) bool {
	if o.class == nil {
		return false
	}
	_, ok := o.class.Interface(iface)
	return ok
}
