package avl

func height[V any](n *node[V]) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[V]) fix() {
	n.height = max(height(n.left), height(n.right)) + 1
}

// balance returns height(left) - height(right).
func (n *node[V]) balance() int8 {
	return height(n.left) - height(n.right)
}

// rotateRight lifts the left child into n's place.
// Returns the new subtree root.
func rotateRight[V any](n *node[V]) *node[V] {
	l := n.left
	n.left = l.right
	l.right = n
	n.fix()
	l.fix()
	return l
}

// rotateLeft lifts the right child into n's place.
// Returns the new subtree root.
func rotateLeft[V any](n *node[V]) *node[V] {
	r := n.right
	n.right = r.left
	r.left = n
	n.fix()
	r.fix()
	return r
}

// rebalance restores the AVL invariant at n after one of its subtrees
// changed height by at most one. Returns the new subtree root.
func rebalance[V any](n *node[V]) *node[V] {
	n.fix()
	switch bf := n.balance(); {
	case bf > 1:
		// Left-right case: straighten the left child first.
		if n.left.balance() < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		// Right-left case.
		if n.right.balance() > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func insert[V any](n *node[V], key uint64, value V, added *bool) *node[V] {
	if n == nil {
		*added = true
		return &node[V]{key: key, value: value, height: 1}
	}
	switch {
	case key < n.key:
		n.left = insert(n.left, key, value, added)
	case key > n.key:
		n.right = insert(n.right, key, value, added)
	default:
		n.value = value
		return n
	}
	return rebalance(n)
}

func remove[V any](n *node[V], key uint64, removed *V, found *bool) *node[V] {
	if n == nil {
		return nil
	}
	switch {
	case key < n.key:
		n.left = remove(n.left, key, removed, found)
	case key > n.key:
		n.right = remove(n.right, key, removed, found)
	default:
		*removed = n.value
		*found = true
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		// Two children: replace with the in-order successor.
		var succ *node[V]
		n.right = detachMin(n.right, &succ)
		succ.left = n.left
		succ.right = n.right
		n.left, n.right = nil, nil
		return rebalance(succ)
	}
	return rebalance(n)
}

// detachMin unlinks the smallest node of the subtree rooted at n.
func detachMin[V any](n *node[V], out **node[V]) *node[V] {
	if n.left == nil {
		*out = n
		r := n.right
		n.right = nil
		return r
	}
	n.left = detachMin(n.left, out)
	return rebalance(n)
}
