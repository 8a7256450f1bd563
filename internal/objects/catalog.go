package objects

// Catalog is a point-in-time listing of everything registered in a Context.
type Catalog struct {
	Classes     []ClassInfo
	Objects     []ObjectInfo
	Interfaces  []InterfaceInfo
	IndexHeight int
}

// ClassInfo describes one class.
type ClassInfo struct {
	Name       string
	Size       int
	Instances  int
	Properties []PropertyInfo
	Interfaces []string
}

// PropertyInfo describes one property.
type PropertyInfo struct {
	Name   string
	Type   string // e.g. "int32", "float32[4]", "uint8[count]"
	Offset int
}

// ObjectInfo describes one live object.
type ObjectInfo struct {
	ID    uint64
	Name  string
	Class string
	Addr  uintptr
}

// InterfaceInfo describes one meta-interface.
type InterfaceInfo struct {
	Name    string
	Methods []MethodSlot
}

// Catalog captures the current registrations, each list in registration order.
func (c *Context) Catalog() Catalog {
	var cat Catalog
	for _, cl := range c.classes.Values() {
		info := ClassInfo{
			Name:       cl.name,
			Size:       cl.size,
			Instances:  cl.live,
			Interfaces: cl.Interfaces(),
		}
		for _, p := range cl.props.Values() {
			info.Properties = append(info.Properties, PropertyInfo{Name: p.name, Type: p.String(), Offset: p.offset})
		}
		cat.Classes = append(cat.Classes, info)
	}
	for _, o := range c.objects.Values() {
		cat.Objects = append(cat.Objects, ObjectInfo{ID: o.id, Name: o.name, Class: o.class.name, Addr: o.Addr()})
	}
	for _, m := range c.metas.Values() {
		cat.Interfaces = append(cat.Interfaces, InterfaceInfo{Name: m.name, Methods: m.Methods()})
	}
	cat.IndexHeight = c.byAddr.Height()
	return cat
}
