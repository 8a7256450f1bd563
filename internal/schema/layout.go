package schema

import (
	"fmt"
	"math"

	"github.com/vovakirdan/objman/internal/objects"
)

// ClassLayout is the resolved storage layout of a ClassDecl.
type ClassLayout struct {
	Size    int
	Kinds   []objects.Kind
	Offsets []int
}

// maxAlign is the widest element size; extents stay this far below
// math.MaxInt so alignUp cannot wrap.
const maxAlign = 8

// Layout resolves kinds, offsets and the instance size of decl. Properties
// without an explicit offset are placed after the furthest byte used so
// far, aligned to their element size. Without an explicit size the class is
// sized to its last byte, rounded up to the largest element alignment.
func Layout(decl ClassDecl) (ClassLayout, error) {
	out := ClassLayout{
		Kinds:   make([]objects.Kind, len(decl.Properties)),
		Offsets: make([]int, len(decl.Properties)),
	}

	end, align := 0, 1
	for i, pd := range decl.Properties {
		kind, err := objects.ParseKind(pd.Kind)
		if err != nil {
			return out, fmt.Errorf("schema: class %q property %q: %w", decl.Name, pd.Name, err)
		}
		if pd.Length > 0 && pd.LengthOf != "" {
			return out, fmt.Errorf("schema: class %q property %q has both length and length_of: %w",
				decl.Name, pd.Name, objects.ErrInvalidLayout)
		}

		size := kind.Size()
		off := alignUp(end, size)
		if pd.Offset != nil {
			off = *pd.Offset
		}

		count := 1
		switch {
		case pd.Length > 0:
			count = pd.Length
		case pd.LengthOf != "" && pd.Capacity > 0:
			count = pd.Capacity
		}

		if off < 0 || count > (math.MaxInt-maxAlign-off)/size {
			return out, fmt.Errorf("schema: class %q property %q (offset %d, %d x %s) is out of range: %w",
				decl.Name, pd.Name, off, count, kind, objects.ErrInvalidLayout)
		}

		out.Kinds[i] = kind
		out.Offsets[i] = off
		end = max(end, off+size*count)
		align = max(align, size)
	}

	out.Size = decl.Size
	if out.Size == 0 {
		out.Size = alignUp(end, align)
	}
	return out, nil
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
