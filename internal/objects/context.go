// Package objects implements an introspectable class/object runtime.
//
// Native structures are described as Classes: a fixed instance size, a
// constructor and destructor for the raw storage, named typed Properties at
// byte offsets, and named interface implementations. Objects are named
// instances of a Class that own their storage. Every object can be found by
// name, by ID, and by the address of its storage (the reverse index).
//
// All state lives in a Context; there are no package-level registries.
// A Context is not safe for concurrent use. Hosts that share one between
// goroutines must guard it with a single lock.
package objects

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/objman/internal/avl"
	"github.com/vovakirdan/objman/internal/registry"
)

// Context owns one class registry, one object registry with its reverse
// index, and one meta-interface registry.
type Context struct {
	classes *registry.Table[*Class]
	objects *registry.Table[*Object]
	metas   *registry.Table[*MetaInterface]

	// byAddr maps the address of an object's storage to the object.
	byAddr *avl.Tree[*Object]
	// byID resolves object-reference properties.
	byID   *avl.Tree[*Object]
	nextID uint64

	logger   *log.Logger
	disposed bool
	// disposing is set while Dispose tears objects down; destructors may
	// still delete objects but not create them.
	disposing bool
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used for registration and lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty Context.
func New(opts ...Option) *Context {
	c := &Context{
		classes: registry.New[*Class]("class"),
		objects: registry.New[*Object]("object"),
		metas:   registry.New[*MetaInterface]("interface"),
		byAddr:  avl.New[*Object](),
		byID:    avl.New[*Object](),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logger returns the Context's logger.
func (c *Context) Logger() *log.Logger {
	return c.logger
}

// Dispose destroys every object (newest first), then every class, then every
// meta-interface. Destructors run for all live objects. Any handle obtained
// from the Context is invalid afterwards, and further registrations fail
// with ErrDisposed. Calling Dispose twice is a no-op.
func (c *Context) Dispose() {
	if c.disposed || c.disposing {
		return
	}
	c.disposing = true

	objects, classes, metas := c.objects.Len(), c.classes.Len(), c.metas.Len()
	// A destructor may delete other objects, so walk a snapshot.
	all := c.objects.Values()
	for i := len(all) - 1; i >= 0; i-- {
		if o := all[i]; o.Alive() {
			c.destroy(o)
		}
	}
	c.objects.Clear()
	c.classes.Each(true, func(_ string, cl *Class) bool {
		cl.release()
		return true
	})
	c.classes.Clear()
	c.metas.Clear()
	c.byAddr.Dispose()
	c.byID.Dispose()
	c.disposed = true
	c.disposing = false

	c.logger.Debug("context disposed", "objects", objects, "classes", classes, "interfaces", metas)
}

// Disposed reports whether Dispose has been called.
func (c *Context) Disposed() bool {
	return c.disposed
}

// ReverseIndexHeight returns the height of the address index.
func (c *Context) ReverseIndexHeight() int {
	return c.byAddr.Height()
}

func (c *Context) checkOpen() error {
	if c.disposed {
		return fmt.Errorf("objects: %w", ErrDisposed)
	}
	return nil
}
