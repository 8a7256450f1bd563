// Package schema loads YAML manifests that declare meta-interfaces, classes
// and objects, and applies them to an objects.Context.
//
// A manifest looks like:
//
//	interfaces:
//	  - name: drawable
//	    methods: [{name: draw}, {name: bounds}]
//	classes:
//	  - name: point
//	    properties:
//	      - {name: x, kind: int32}
//	      - {name: y, kind: int32}
//	      - {name: tags, kind: uint8, length: 4}
//	objects:
//	  - name: p1
//	    class: point
//	    values: {x: 5, y: 7, tags: [1, 2]}
//
// Property offsets and class sizes may be omitted; they are then packed in
// declaration order with natural alignment. Manifests are inputs only:
// nothing is ever written back.
package schema

import (
	"fmt"
	"os"
	"sort"
	"unsafe"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/objman/internal/objects"
)

// funcSlot is the size of one method slot in an implementation struct.
const funcSlot = unsafe.Sizeof(func() {})

// Manifest is the top-level document.
type Manifest struct {
	Interfaces []InterfaceDecl `yaml:"interfaces"`
	Classes    []ClassDecl     `yaml:"classes"`
	Objects    []ObjectDecl    `yaml:"objects"`
}

// InterfaceDecl declares a meta-interface.
type InterfaceDecl struct {
	Name    string       `yaml:"name"`
	Methods []MethodDecl `yaml:"methods"`
}

// MethodDecl declares one method slot. Without an offset the slot follows
// the previous one.
type MethodDecl struct {
	Name   string   `yaml:"name"`
	Offset *uintptr `yaml:"offset"`
}

// ClassDecl declares a class and its properties.
type ClassDecl struct {
	Name       string         `yaml:"name"`
	Size       int            `yaml:"size"` // 0 = computed from properties
	Properties []PropertyDecl `yaml:"properties"`
}

// PropertyDecl declares one property. Length makes a fixed array; LengthOf
// names the integer property holding a dynamic array's count, with Capacity
// elements reserved when the offset is computed.
type PropertyDecl struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Offset   *int   `yaml:"offset"`
	Length   int    `yaml:"length"`
	LengthOf string `yaml:"length_of"`
	Capacity int    `yaml:"capacity"`
}

// ObjectDecl declares an object and its initial property values.
// Reference properties take the name of another declared object.
type ObjectDecl struct {
	Name   string         `yaml:"name"`
	Class  string         `yaml:"class"`
	Values map[string]any `yaml:"values"`
}

// Parse decodes a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("schema: failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return m, nil
}

// Apply registers everything m declares on ctx: interfaces, then classes,
// then objects, then object values. Values are assigned after every object
// exists so references may point forward. On error ctx keeps whatever was
// registered before the failing declaration.
func Apply(ctx *objects.Context, m *Manifest) error {
	for _, decl := range m.Interfaces {
		if err := applyInterface(ctx, decl); err != nil {
			return err
		}
	}
	for _, decl := range m.Classes {
		if err := applyClass(ctx, decl); err != nil {
			return err
		}
	}

	created := make([]*objects.Object, len(m.Objects))
	for i, decl := range m.Objects {
		o, err := ctx.NewObject(decl.Class, decl.Name)
		if err != nil {
			return fmt.Errorf("schema: object %q: %w", decl.Name, err)
		}
		created[i] = o
	}
	for i, decl := range m.Objects {
		for _, name := range valueOrder(created[i], decl.Values) {
			if err := objects.Assign(created[i], name, decl.Values[name]); err != nil {
				return fmt.Errorf("schema: object %q: %w", decl.Name, err)
			}
		}
	}
	return nil
}

// valueOrder sorts value names with scalars before arrays, so a dynamic
// array's element count wins over an explicit value for its length property.
func valueOrder(o *objects.Object, values map[string]any) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	isArray := func(name string) bool {
		p, ok := o.Class().Property(name)
		return ok && p.IsArray()
	}
	sort.Slice(names, func(i, j int) bool {
		ai, aj := isArray(names[i]), isArray(names[j])
		if ai != aj {
			return aj
		}
		return names[i] < names[j]
	})
	return names
}

func applyInterface(ctx *objects.Context, decl InterfaceDecl) error {
	mi, err := ctx.NewMetaInterface(decl.Name)
	if err != nil {
		return fmt.Errorf("schema: interface %q: %w", decl.Name, err)
	}
	var next uintptr
	for _, md := range decl.Methods {
		off := next
		if md.Offset != nil {
			off = *md.Offset
		}
		if err := mi.RegisterMethod(md.Name, off); err != nil {
			return fmt.Errorf("schema: interface %q: %w", decl.Name, err)
		}
		next = off + funcSlot
	}
	return nil
}

func applyClass(ctx *objects.Context, decl ClassDecl) error {
	layout, err := Layout(decl)
	if err != nil {
		return err
	}
	cl, err := ctx.NewClass(decl.Name, layout.Size, nil, nil)
	if err != nil {
		return fmt.Errorf("schema: class %q: %w", decl.Name, err)
	}
	for i, pd := range decl.Properties {
		kind := layout.Kinds[i]
		off := layout.Offsets[i]
		switch {
		case pd.LengthOf != "":
			_, err = cl.RegisterDynamicArrayProperty(pd.Name, kind, off, pd.LengthOf)
		case pd.Length > 0:
			_, err = cl.RegisterArrayProperty(pd.Name, kind, off, pd.Length)
		default:
			_, err = cl.RegisterProperty(pd.Name, kind, off)
		}
		if err != nil {
			return fmt.Errorf("schema: class %q: %w", decl.Name, err)
		}
	}
	return nil
}
