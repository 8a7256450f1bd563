package objects

import (
	"fmt"
	"unsafe"
)

// Object is a named live instance of a Class. It exclusively owns its
// storage, which is released through the class destructor on deletion.
type Object struct {
	ctx   *Context
	id    uint64
	name  string
	class *Class
	data  []byte
}

// ID returns the object's identifier. IDs are never reused within a Context.
func (o *Object) ID() uint64 { return o.id }

// Name returns the object name.
func (o *Object) Name() string { return o.name }

// Class returns the object's class, or nil once the object is deleted.
func (o *Object) Class() *Class { return o.class }

// Data returns the raw instance storage, or nil once the object is deleted.
func (o *Object) Data() []byte { return o.data }

// Alive reports whether the object has not been deleted.
func (o *Object) Alive() bool { return o.data != nil }

// Addr returns the address of the instance storage, the key of the
// reverse index. It is 0 once the object is deleted.
func (o *Object) Addr() uintptr {
	return addrOf(o.data)
}

// IsInstanceOf reports whether the object's class is named className.
func (o *Object) IsInstanceOf(className string) bool {
	return o.class != nil && o.class.name == className
}

func addrOf(data []byte) uintptr {
	if len(data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(data)))
}

// NewObject instantiates className under name. The name is checked before
// the constructor runs, so a duplicate name never allocates storage.
func (c *Context) NewObject(className, name string) (*Object, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if c.disposing {
		return nil, fmt.Errorf("objects: object %q created during dispose: %w", name, ErrDisposed)
	}
	cl, ok := c.classes.Lookup(className)
	if !ok {
		return nil, fmt.Errorf("objects: class %q: %w", className, ErrNotFound)
	}
	if name == "" {
		return nil, fmt.Errorf("objects: object name is empty: %w", ErrInvalidLayout)
	}
	if c.objects.Exists(name) {
		return nil, fmt.Errorf("objects: object %q already registered: %w", name, ErrDuplicateName)
	}

	data, err := cl.ctor()
	if err != nil {
		return nil, fmt.Errorf("objects: constructing %q of class %q: %w: %w", name, className, ErrConstructionFailed, err)
	}
	if data == nil {
		return nil, fmt.Errorf("objects: constructing %q of class %q: %w", name, className, ErrAllocationFailed)
	}
	if len(data) != cl.size {
		cl.destruct(data)
		return nil, fmt.Errorf("objects: constructor of class %q returned %d bytes, want %d: %w",
			className, len(data), cl.size, ErrConstructionFailed)
	}
	addr := addrOf(data)
	if owner, taken := c.byAddr.Find(uint64(addr)); taken {
		// The storage belongs to another object; do not destroy it.
		return nil, fmt.Errorf("objects: constructor of class %q returned storage owned by %q: %w",
			className, owner.name, ErrConstructionFailed)
	}

	c.nextID++
	o := &Object{ctx: c, id: c.nextID, name: name, class: cl, data: data}
	if err := c.objects.Register(name, o); err != nil {
		cl.destruct(data)
		return nil, fmt.Errorf("objects: %w", err)
	}
	c.byAddr.Insert(uint64(addr), o)
	c.byID.Insert(o.id, o)
	cl.live++

	c.logger.Debug("object created", "object", name, "class", className, "id", o.id)
	return o, nil
}

// Object returns the object registered under name.
func (c *Context) Object(name string) (*Object, bool) {
	return c.objects.Lookup(name)
}

// ObjectByAddr returns the object whose storage starts at addr.
func (c *Context) ObjectByAddr(addr uintptr) (*Object, bool) {
	if addr == 0 {
		return nil, false
	}
	return c.byAddr.Find(uint64(addr))
}

// ObjectOf returns the object owning data, as handed out by Object.Data.
func (c *Context) ObjectOf(data []byte) (*Object, bool) {
	return c.ObjectByAddr(addrOf(data))
}

// ObjectByID returns the live object with the given ID.
func (c *Context) ObjectByID(id uint64) (*Object, bool) {
	return c.byID.Find(id)
}

// Objects returns every live object in creation order.
func (c *Context) Objects() []*Object {
	return c.objects.Values()
}

// DeleteObject removes o from every index and then runs the class
// destructor on its storage. Validation happens up front, so either all
// steps take place or none do.
func (c *Context) DeleteObject(o *Object) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if o == nil || o.ctx != c || !o.Alive() {
		return fmt.Errorf("objects: object not live in this context: %w", ErrNotFound)
	}
	if cur, ok := c.objects.Lookup(o.name); !ok || cur != o {
		return fmt.Errorf("objects: object %q: %w", o.name, ErrNotFound)
	}

	c.destroy(o)
	c.logger.Debug("object deleted", "object", o.name, "id", o.id)
	return nil
}

// destroy unlinks o from the name, address and ID indexes before the
// destructor sees the storage.
func (c *Context) destroy(o *Object) {
	c.objects.Remove(o.name)
	c.byAddr.Remove(uint64(o.Addr()))
	c.byID.Remove(o.id)

	cl, data := o.class, o.data
	o.data = nil
	o.class = nil
	cl.live--
	cl.destruct(data)
}

func (cl *Class) destruct(data []byte) {
	if cl.dtor != nil {
		cl.dtor(data)
	}
}
