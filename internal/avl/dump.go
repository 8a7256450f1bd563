package avl

import (
	"bufio"
	"fmt"
	"io"
)

// Dump writes the tree as a Graphviz digraph. Every node is labelled with
// its key and balance factor; edges are tagged L or R. Intended for
// debugging only.
func (t *Tree[V]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph avl {")
	fmt.Fprintln(bw, "\tnode [shape=record];")

	var stack []*node[V]
	if t.root != nil {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fmt.Fprintf(bw, "\tn%d [label=\"%d | bf=%d\"];\n", n.key, n.key, n.balance())
		if n.left != nil {
			fmt.Fprintf(bw, "\tn%d -> n%d [label=L];\n", n.key, n.left.key)
			stack = append(stack, n.left)
		}
		if n.right != nil {
			fmt.Fprintf(bw, "\tn%d -> n%d [label=R];\n", n.key, n.right.key)
			stack = append(stack, n.right)
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
