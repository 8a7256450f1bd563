package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/objman/internal/objects"
	"github.com/vovakirdan/objman/internal/storage"
)

// Classes lists every class in cat.
func (r *Renderer) Classes(cat objects.Catalog) string {
	rows := make([][]string, len(cat.Classes))
	for i, cl := range cat.Classes {
		props := make([]string, len(cl.Properties))
		for j, p := range cl.Properties {
			props[j] = fmt.Sprintf("%s:%s@%d", p.Name, p.Type, p.Offset)
		}
		rows[i] = []string{
			cl.Name,
			strconv.Itoa(cl.Size),
			strconv.Itoa(cl.Instances),
			strings.Join(props, " "),
			strings.Join(cl.Interfaces, " "),
		}
	}
	return r.Table("Classes", []string{"Class", "Size", "Live", "Properties", "Interfaces"}, rows)
}

// Interfaces lists every meta-interface in cat with its method slots.
func (r *Renderer) Interfaces(cat objects.Catalog) string {
	rows := make([][]string, len(cat.Interfaces))
	for i, mi := range cat.Interfaces {
		slots := make([]string, len(mi.Methods))
		for j, m := range mi.Methods {
			slots[j] = fmt.Sprintf("%s@%d", m.Name, m.Offset)
		}
		rows[i] = []string{mi.Name, strings.Join(slots, " ")}
	}
	return r.Table("Interfaces", []string{"Interface", "Methods"}, rows)
}

// Objects lists the live objects of ctx with their current property values.
func (r *Renderer) Objects(ctx *objects.Context) string {
	objs := ctx.Objects()
	rows := make([][]string, len(objs))
	for i, o := range objs {
		rows[i] = []string{
			strconv.FormatUint(o.ID(), 10),
			o.Name(),
			o.Class().Name(),
			fmt.Sprintf("%#x", o.Addr()),
			Values(o),
		}
	}
	return r.Table("Objects", []string{"ID", "Name", "Class", "Addr", "Values"}, rows)
}

// Values formats every property of o as "name=value" pairs in
// registration order.
func Values(o *objects.Object) string {
	if !o.Alive() {
		return "(deleted)"
	}
	props := o.Class().Properties()
	parts := make([]string, 0, len(props))
	for _, p := range props {
		v, err := objects.Format(o, p.Name())
		if err != nil {
			v = "!" + err.Error()
		}
		parts = append(parts, p.Name()+"="+v)
	}
	return strings.Join(parts, " ")
}

// Snapshots lists recorded catalog snapshots.
func (r *Renderer) Snapshots(snaps []storage.Snapshot) string {
	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		rows[i] = []string{
			strconv.FormatInt(s.ID, 10),
			s.Label,
			strconv.Itoa(s.Classes),
			strconv.Itoa(s.Objects),
			strconv.Itoa(s.Interfaces),
			strconv.Itoa(s.IndexHeight),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return r.Table("History", []string{"ID", "Label", "Classes", "Objects", "Interfaces", "Height", "Date"}, rows)
}

// SnapshotClasses lists the classes recorded in one snapshot.
func (r *Renderer) SnapshotClasses(snap storage.Snapshot, classes []storage.ClassRecord) string {
	rows := make([][]string, len(classes))
	for i, c := range classes {
		rows[i] = []string{c.Name, strconv.Itoa(c.Size), strconv.Itoa(c.Instances), c.Properties, c.Interfaces}
	}
	title := fmt.Sprintf("Snapshot #%d %s", snap.ID, snap.Label)
	return r.Table(title, []string{"Class", "Size", "Live", "Properties", "Interfaces"}, rows)
}
