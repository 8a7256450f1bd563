// Package registry provides name-keyed tables that remember insertion order.
// A Table backs every name index of the object runtime: classes, objects,
// meta-interfaces, properties and interface implementations.
package registry

import (
	"container/list"
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrDuplicate is returned when a name is registered twice in one table.
var ErrDuplicate = errors.New("duplicate name")

// Entry is a single (name, value) pair in a Table listing.
type Entry[T any] struct {
	Name  string
	Value T
}

// Table maps names to values. Lookups go through a hash map; listings walk
// a doubly linked list so they come back in registration order and removal
// by name is O(1).
type Table[T any] struct {
	kind  string
	index map[string]*list.Element
	order *list.List
}

// New creates an empty table. kind names what the table holds ("class",
// "object", ...) and appears in error messages.
func New[T any](kind string) *Table[T] {
	return &Table[T]{
		kind:  kind,
		index: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Register adds value under name.
// Returns an error wrapping ErrDuplicate if name is already taken; the
// existing entry is left untouched.
func (t *Table[T]) Register(name string, value T) error {
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("registry: %s %q already registered: %w", t.kind, name, ErrDuplicate)
	}
	t.index[name] = t.order.PushBack(Entry[T]{Name: name, Value: value})
	return nil
}

// Lookup returns the value registered under name.
func (t *Table[T]) Lookup(name string) (T, bool) {
	el, ok := t.index[name]
	if !ok {
		var zero T
		return zero, false
	}
	return el.Value.(Entry[T]).Value, true
}

// Exists checks if name is registered.
func (t *Table[T]) Exists(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Remove deletes name and returns the value it held.
func (t *Table[T]) Remove(name string) (T, bool) {
	el, ok := t.index[name]
	if !ok {
		var zero T
		return zero, false
	}
	delete(t.index, name)
	return t.order.Remove(el).(Entry[T]).Value, true
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.index)
}

// List returns all entries in registration order.
func (t *Table[T]) List() []Entry[T] {
	result := make([]Entry[T], 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value.(Entry[T]))
	}
	return result
}

// Values returns all values in registration order.
func (t *Table[T]) Values() []T {
	result := make([]T, 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value.(Entry[T]).Value)
	}
	return result
}

// Names returns all registered names, sorted.
func (t *Table[T]) Names() []string {
	names := make([]string, 0, len(t.index))
	for name := range t.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every entry, newest first when reverse is set,
// oldest first otherwise. Iteration stops when fn returns false.
// Entries present when Each starts are visited unless fn removes them
// first; entries fn registers are not visited.
func (t *Table[T]) Each(reverse bool, fn func(name string, value T) bool) {
	els := make([]*list.Element, 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		els = append(els, el)
	}
	if reverse {
		slices.Reverse(els)
	}
	for _, el := range els {
		e := el.Value.(Entry[T])
		if cur, ok := t.index[e.Name]; !ok || cur != el {
			continue
		}
		if !fn(e.Name, e.Value) {
			return
		}
	}
}

// Clear removes every entry.
func (t *Table[T]) Clear() {
	clear(t.index)
	t.order.Init()
}
