package objects

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/objman/internal/registry"
)

var (
	// ErrDuplicateName is returned when a class, object, meta-interface,
	// property, method or interface implementation is registered twice.
	ErrDuplicateName = registry.ErrDuplicate

	// ErrNotFound is returned when a lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch is returned when a property is accessed with the wrong
	// kind, or an interface implementation does not have the declared shape.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIndexOutOfBounds is returned by indexed access past the effective length.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrConstructionFailed is returned when a class constructor reports failure.
	ErrConstructionFailed = errors.New("construction failed")

	// ErrAllocationFailed is returned when a constructor yields no storage.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrInvalidLayout is returned when a property does not fit the instance
	// storage or its declaration is malformed.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrClassInUse is returned when deleting a class that still has live objects.
	ErrClassInUse = errors.New("class in use")

	// ErrDisposed is returned by operations on a disposed Context.
	ErrDisposed = errors.New("context disposed")
)

var (
	// ErrInterfaceNotDeclared is returned when implementing an interface that
	// has no meta-interface in the Context.
	ErrInterfaceNotDeclared = fmt.Errorf("interface not declared: %w", ErrNotFound)

	// ErrMethodNotFound is returned when a meta-interface has no such method.
	ErrMethodNotFound = fmt.Errorf("method: %w", ErrNotFound)
)
