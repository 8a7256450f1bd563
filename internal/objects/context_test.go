package objects

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDisposeDestroysEverything(t *testing.T) {
	ctx := New()
	newPoint(t, ctx)

	var order []string
	ctx.NewClass("tracked", 4, nil, func(data []byte) {
		o, ok := ctx.ObjectOf(data)
		if ok {
			t.Errorf("object %s still indexed during its destructor", o.Name())
		}
		order = append(order, string(rune('0'+data[0])))
	})
	for i := byte(1); i <= 3; i++ {
		o, err := ctx.NewObject("tracked", string(rune('a'+i)))
		if err != nil {
			t.Fatalf("NewObject() failed: %v", err)
		}
		o.Data()[0] = i
	}
	p, _ := ctx.NewObject("point", "p")
	ctx.NewMetaInterface("drawable")

	ctx.Dispose()

	if strings.Join(order, "") != "321" {
		t.Errorf("destructors ran in order %v, expected newest first", order)
	}
	if !ctx.Disposed() {
		t.Error("Disposed() = false")
	}
	if p.Alive() {
		t.Error("object still alive after Dispose")
	}
	if len(ctx.Classes()) != 0 || len(ctx.Objects()) != 0 || len(ctx.MetaInterfaces()) != 0 {
		t.Error("registries not empty after Dispose")
	}
	if ctx.ReverseIndexHeight() != 0 {
		t.Error("reverse index not empty after Dispose")
	}

	if _, err := ctx.NewClass("late", 4, nil, nil); !errors.Is(err, ErrDisposed) {
		t.Errorf("NewClass after Dispose error = %v, expected ErrDisposed", err)
	}
	if _, err := ctx.NewObject("point", "q"); !errors.Is(err, ErrDisposed) {
		t.Errorf("NewObject after Dispose error = %v, expected ErrDisposed", err)
	}

	// Second call is a no-op.
	ctx.Dispose()
	if len(order) != 3 {
		t.Error("second Dispose ran destructors again")
	}
}

func TestDisposeWithDestructorsThatDeleteAndCreate(t *testing.T) {
	ctx := New()

	var order []string
	var createErr error
	ctx.NewClass("node", 1, nil, func(data []byte) {
		name := string(rune(data[0]))
		order = append(order, name)
		switch name {
		case "d":
			// Delete the next object Dispose would visit.
			if o, ok := ctx.Object("c"); ok {
				if err := ctx.DeleteObject(o); err != nil {
					t.Errorf("DeleteObject(c) during Dispose failed: %v", err)
				}
			}
		case "b":
			_, createErr = ctx.NewObject("node", "late")
		}
	})
	nodes := make(map[string]*Object)
	for _, n := range []string{"a", "b", "c", "d"} {
		o, err := ctx.NewObject("node", n)
		if err != nil {
			t.Fatalf("NewObject() failed: %v", err)
		}
		o.Data()[0] = n[0]
		nodes[n] = o
	}

	ctx.Dispose()

	if got := strings.Join(order, ""); got != "dcba" {
		t.Errorf("destructors ran in order %q, expected dcba", got)
	}
	if !errors.Is(createErr, ErrDisposed) {
		t.Errorf("NewObject during Dispose error = %v, expected ErrDisposed", createErr)
	}
	for n, o := range nodes {
		if o.Alive() {
			t.Errorf("object %s alive after Dispose", n)
		}
	}
	if len(ctx.Objects()) != 0 {
		t.Errorf("Objects() = %d after Dispose, expected 0", len(ctx.Objects()))
	}
}

func TestIndependentContexts(t *testing.T) {
	a, b := New(), New()
	defer a.Dispose()
	defer b.Dispose()

	newPoint(t, a)
	newPoint(t, b)

	pa, _ := a.NewObject("point", "p")
	pb, _ := b.NewObject("point", "p")
	Set[int32](pa, "x", 1)
	Set[int32](pb, "x", 2)

	if _, ok := b.ObjectByAddr(pa.Addr()); ok {
		t.Error("context b resolved an object from context a")
	}
	if x, _ := Get[int32](pa, "x"); x != 1 {
		t.Errorf("a.p.x = %d, expected 1", x)
	}
}

func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	ctx := New(WithLogger(logger))
	newPoint(t, ctx)
	o, _ := ctx.NewObject("point", "p1")
	ctx.DeleteObject(o)
	ctx.Dispose()

	out := buf.String()
	for _, want := range []string{"class registered", "object created", "object deleted", "context disposed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestCatalog(t *testing.T) {
	ctx := New()
	defer ctx.Dispose()
	newDrawable(t, ctx)
	cl := newPoint(t, ctx)
	cl.ImplementInterface("drawable", &drawable{})
	ctx.NewObject("point", "p1")
	ctx.NewObject("point", "p2")

	cat := ctx.Catalog()
	if len(cat.Classes) != 1 || cat.Classes[0].Name != "point" {
		t.Fatalf("Catalog classes = %+v", cat.Classes)
	}
	info := cat.Classes[0]
	if info.Size != 12 || info.Instances != 2 || len(info.Properties) != 3 {
		t.Errorf("class info = %+v", info)
	}
	if info.Properties[2].Name != "z" || info.Properties[2].Offset != 8 || info.Properties[2].Type != "int32" {
		t.Errorf("property info = %+v", info.Properties[2])
	}
	if len(info.Interfaces) != 1 || info.Interfaces[0] != "drawable" {
		t.Errorf("interfaces = %v", info.Interfaces)
	}
	if len(cat.Objects) != 2 || cat.Objects[0].Name != "p1" || cat.Objects[1].ID <= cat.Objects[0].ID {
		t.Errorf("objects = %+v", cat.Objects)
	}
	if len(cat.Interfaces) != 1 || len(cat.Interfaces[0].Methods) != 2 {
		t.Errorf("interfaces = %+v", cat.Interfaces)
	}
	if cat.IndexHeight != 2 {
		t.Errorf("IndexHeight = %d, expected 2", cat.IndexHeight)
	}
}
