package objects

import (
	"fmt"

	"github.com/vovakirdan/objman/internal/registry"
)

// Constructor allocates the raw storage of one instance. The returned slice
// must be exactly the class's instance size.
type Constructor func() ([]byte, error)

// Destructor releases storage produced by the matching Constructor.
type Destructor func(data []byte)

// Class describes the layout and behavior of a native structure.
// Properties and interface implementations are added after creation and are
// never removed or changed in place.
type Class struct {
	ctx  *Context
	name string
	size int
	ctor Constructor
	dtor Destructor

	props *registry.Table[*Property]
	impls *registry.Table[*implementation]

	live    int
	deleted bool
}

// NewClass registers a class. A nil ctor allocates zeroed storage of size
// bytes; a nil dtor does nothing. size must be positive so every instance
// has a distinct storage address.
func (c *Context) NewClass(name string, size int, ctor Constructor, dtor Destructor) (*Class, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("objects: class name is empty: %w", ErrInvalidLayout)
	}
	if size <= 0 {
		return nil, fmt.Errorf("objects: class %q has instance size %d: %w", name, size, ErrInvalidLayout)
	}

	cl := &Class{
		ctx:   c,
		name:  name,
		size:  size,
		ctor:  ctor,
		dtor:  dtor,
		props: registry.New[*Property]("property"),
		impls: registry.New[*implementation]("interface implementation"),
	}
	if cl.ctor == nil {
		cl.ctor = func() ([]byte, error) {
			return make([]byte, size), nil
		}
	}
	if err := c.classes.Register(name, cl); err != nil {
		return nil, fmt.Errorf("objects: %w", err)
	}

	c.logger.Debug("class registered", "class", name, "size", size)
	return cl, nil
}

// Class returns the class registered under name.
func (c *Context) Class(name string) (*Class, bool) {
	return c.classes.Lookup(name)
}

// Classes returns every class in registration order.
func (c *Context) Classes() []*Class {
	return c.classes.Values()
}

// DeleteClass unregisters cl and drops its properties and interface
// implementations. It fails with ErrClassInUse while objects of cl are alive.
func (c *Context) DeleteClass(cl *Class) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if cl == nil || cl.ctx != c || cl.deleted {
		return fmt.Errorf("objects: class not registered in this context: %w", ErrNotFound)
	}
	if cl.live > 0 {
		return fmt.Errorf("objects: class %q has %d live objects: %w", cl.name, cl.live, ErrClassInUse)
	}

	c.classes.Remove(cl.name)
	cl.release()

	c.logger.Debug("class deleted", "class", cl.name)
	return nil
}

func (cl *Class) release() {
	cl.props.Clear()
	cl.impls.Clear()
	cl.deleted = true
}

// Name returns the class name.
func (cl *Class) Name() string { return cl.name }

// Size returns the instance size in bytes.
func (cl *Class) Size() int { return cl.size }

// Instances returns the number of live objects of this class.
func (cl *Class) Instances() int { return cl.live }

func (cl *Class) checkMutable() error {
	if cl.deleted {
		return fmt.Errorf("objects: class %q was deleted: %w", cl.name, ErrNotFound)
	}
	return cl.ctx.checkOpen()
}
