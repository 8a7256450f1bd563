package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/objman/internal/objects"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in point scenario",
	Long: `Registers a "point" class (12 bytes, int32 x/y/z at offsets 0/4/8),
gives it a "describable" interface, creates p1, sets x=5 and y=7, reads the
values back, finds p1 again through its storage address, calls the
interface method and finally deletes p1.

Each step is printed; the command fails if any step misbehaves.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runDemo(os.Stdout, mustApp()); err != nil {
			exitf("Error: %v\n", err)
		}
	},
}

// describable is the method table of the demo interface.
type describable struct {
	Describe func(o *objects.Object) string
}

func runDemo(w io.Writer, a *app) error {
	ctx := a.newContext()
	defer ctx.Dispose()

	step := func(format string, args ...any) {
		fmt.Fprintf(w, "-> "+format+"\n", args...)
	}

	point, err := ctx.NewClass("point", 12, nil, nil)
	if err != nil {
		return err
	}
	for i, name := range []string{"x", "y", "z"} {
		if _, err := point.RegisterProperty(name, objects.KindInt32, i*4); err != nil {
			return err
		}
	}
	step("registered class point (size %d) with x, y, z", point.Size())

	mi, err := ctx.NewMetaInterface("describable")
	if err != nil {
		return err
	}
	if err := mi.RegisterMethods(describable{}); err != nil {
		return err
	}
	impl := &describable{
		Describe: func(o *objects.Object) string {
			x, _ := objects.Get[int32](o, "x")
			y, _ := objects.Get[int32](o, "y")
			z, _ := objects.Get[int32](o, "z")
			return fmt.Sprintf("%s at (%d, %d, %d)", o.Name(), x, y, z)
		},
	}
	if err := point.ImplementInterface("describable", impl); err != nil {
		return err
	}
	step("point implements describable")

	p1, err := ctx.NewObject("point", "p1")
	if err != nil {
		return err
	}
	step("created p1 (id %d, storage %#x)", p1.ID(), p1.Addr())

	if err := objects.Set[int32](p1, "x", 5); err != nil {
		return err
	}
	if err := objects.Set[int32](p1, "y", 7); err != nil {
		return err
	}
	x, err := objects.Get[int32](p1, "x")
	if err != nil {
		return err
	}
	y, err := objects.Get[int32](p1, "y")
	if err != nil {
		return err
	}
	if x != 5 || y != 7 {
		return fmt.Errorf("demo: read back x=%d y=%d, expected 5 and 7", x, y)
	}
	step("set x=5 y=7, read back x=%d y=%d", x, y)

	if _, err = objects.Get[float32](p1, "x"); err == nil {
		return fmt.Errorf("demo: float32 read of an int32 property succeeded")
	}
	step("float32 read of x rejected: %v", err)

	found, ok := ctx.ObjectOf(p1.Data())
	if !ok || found != p1 {
		return fmt.Errorf("demo: reverse lookup of p1 failed")
	}
	step("reverse index resolves %#x to %s", p1.Addr(), found.Name())

	describe, err := objects.MethodAs[func(*objects.Object) string](point, "describable", "Describe")
	if err != nil {
		return err
	}
	step("describable.Describe(p1) = %q", describe(p1))

	fmt.Fprintln(w)
	fmt.Fprint(w, a.view.Classes(ctx.Catalog()))
	fmt.Fprintln(w)
	fmt.Fprint(w, a.view.Objects(ctx))
	fmt.Fprintln(w)

	addr := p1.Addr()
	if err := ctx.DeleteObject(p1); err != nil {
		return err
	}
	if _, ok := ctx.Object("p1"); ok {
		return fmt.Errorf("demo: p1 still registered after delete")
	}
	if _, ok := ctx.ObjectByAddr(addr); ok {
		return fmt.Errorf("demo: p1 still in the reverse index after delete")
	}
	step("deleted p1; lookups by name and address return nothing")
	return nil
}
