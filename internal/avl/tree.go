// Package avl provides a height-balanced binary search tree keyed by uint64.
// The key is wide enough to hold a pointer value, so the tree doubles as a
// reverse index from raw instance addresses to their owners.
//
// A Tree is not safe for concurrent use.
package avl

import (
	"errors"
	"fmt"
)

// ErrUnbalanced is returned by Check when a node violates the AVL invariants.
var ErrUnbalanced = errors.New("avl: invariant violated")

type node[V any] struct {
	key    uint64
	value  V
	left   *node[V]
	right  *node[V]
	height int8
}

// Tree maps uint64 keys to payloads of type V.
// The zero value is an empty tree ready to use.
type Tree[V any] struct {
	root *node[V]
	size int
}

// New returns an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Len returns the number of keys in the tree.
func (t *Tree[V]) Len() int {
	return t.size
}

// Height returns the height of the tree (0 for an empty tree).
func (t *Tree[V]) Height() int {
	return int(height(t.root))
}

// Insert stores value under key. An existing payload for key is replaced.
// Returns true if key was not present before.
func (t *Tree[V]) Insert(key uint64, value V) bool {
	var added bool
	t.root = insert(t.root, key, value, &added)
	if added {
		t.size++
	}
	return added
}

// Find returns the payload stored under key.
func (t *Tree[V]) Find(key uint64) (V, bool) {
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[V]) Contains(key uint64) bool {
	_, ok := t.Find(key)
	return ok
}

// Remove deletes key and returns its payload.
// The second result is false if key was not present.
func (t *Tree[V]) Remove(key uint64) (V, bool) {
	var (
		removed V
		found   bool
	)
	t.root = remove(t.root, key, &removed, &found)
	if found {
		t.size--
	}
	return removed, found
}

// ForEach calls fn for every entry in pre-order.
// The tree must not be modified from fn.
func (t *Tree[V]) ForEach(fn func(key uint64, value V)) {
	if t.root == nil {
		return
	}
	stack := []*node[V]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n.key, n.value)
		if n.right != nil {
			stack = append(stack, n.right)
		}
		if n.left != nil {
			stack = append(stack, n.left)
		}
	}
}

// Ascend calls fn for every entry in ascending key order until fn returns false.
func (t *Tree[V]) Ascend(fn func(key uint64, value V) bool) {
	var stack []*node[V]
	n := t.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n.key, n.value) {
			return
		}
		n = n.right
	}
}

// Keys returns all keys in ascending order.
func (t *Tree[V]) Keys() []uint64 {
	keys := make([]uint64, 0, t.size)
	t.Ascend(func(key uint64, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Dispose releases every node. Children are detached before their parent
// so no node is touched after it has been unlinked. The tree is empty
// afterwards and may be reused.
func (t *Tree[V]) Dispose() {
	var zero V
	stack := []*node[V]{}
	if t.root != nil {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		if n.left != nil {
			stack = append(stack, n.left)
			n.left = nil
			continue
		}
		if n.right != nil {
			stack = append(stack, n.right)
			n.right = nil
			continue
		}
		n.value = zero
		stack = stack[:len(stack)-1]
	}
	t.root = nil
	t.size = 0
}

// Check verifies ordering, balance and cached heights of every node.
func (t *Tree[V]) Check() error {
	_, err := check(t.root, 0, ^uint64(0), false, false)
	return err
}

func check[V any](n *node[V], lo, hi uint64, hasLo, hasHi bool) (int8, error) {
	if n == nil {
		return 0, nil
	}
	if (hasLo && n.key <= lo) || (hasHi && n.key >= hi) {
		return 0, fmt.Errorf("%w: key %d out of order", ErrUnbalanced, n.key)
	}
	lh, err := check(n.left, lo, n.key, hasLo, true)
	if err != nil {
		return 0, err
	}
	rh, err := check(n.right, n.key, hi, true, hasHi)
	if err != nil {
		return 0, err
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, fmt.Errorf("%w: key %d has balance %d", ErrUnbalanced, n.key, bf)
	}
	h := max(lh, rh) + 1
	if h != n.height {
		return 0, fmt.Errorf("%w: key %d caches height %d, actual %d", ErrUnbalanced, n.key, n.height, h)
	}
	return h, nil
}
