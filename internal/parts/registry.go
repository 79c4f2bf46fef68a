package parts

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
)

// TestColor is written by TestAllRed.
const TestColor = "#ff0000"

// Part is a bucket of mesh nodes recolored together.
type Part struct {
	Name          string
	Tag           Tag
	Nodes         []*scene.Node
	OriginalColor string // lowercase "#rrggbb" sampled at scan time
	CurrentColor  string // lowercase "#rrggbb" last applied
}

// Info is a snapshot of a part for display.
type Info struct {
	Name          string
	Tag           Tag
	Meshes        int
	Materials     int
	OriginalColor string
	CurrentColor  string
}

// Registry holds the parts of one scene.
type Registry struct {
	root    *scene.Node
	parts   map[string]*Part
	order   []string
	owner   map[*scene.Node]string
	exclude []string
	presets map[string]map[string]string
	log     *zap.Logger
}

// DefaultExclude hides window, glass, light and chrome parts from the part list.
var DefaultExclude = []string{"window", "glass", "transparent", "light", "chrome"}

// Scan walks root once and groups every mesh node carrying a material by its
// classified bucket. A bucket is registered only when the first material of
// its first mesh is colorable. Part names containing an exclude pattern stay
// addressable but are left out of AvailableParts. A nil exclude uses
// DefaultExclude; an empty one lists every part.
func Scan(root *scene.Node, exclude []string) *Registry {
	if exclude == nil {
		exclude = DefaultExclude
	}
	r := &Registry{
		root:    root,
		parts:   make(map[string]*Part),
		owner:   make(map[*scene.Node]string),
		presets: make(map[string]map[string]string),
		log:     logger.Named("parts"),
	}
	for _, p := range exclude {
		r.exclude = append(r.exclude, strings.ToLower(p))
	}

	groups := make(map[string]*Part)
	var order []string
	root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil || !n.Mesh.HasMaterial() {
			return
		}
		tag, bucket := Classify(n.Label())
		g, ok := groups[bucket]
		if !ok {
			g = &Part{Name: bucket, Tag: tag}
			groups[bucket] = g
			order = append(order, bucket)
		}
		g.Nodes = append(g.Nodes, n)
	})

	for _, name := range order {
		g := groups[name]
		rep := g.Nodes[0].Mesh.Materials()[0]
		if !rep.Colorable() {
			r.log.Debug("skipping part without base color",
				zap.String("part", name),
				zap.Stringer("shading", rep.Kind),
			)
			continue
		}
		g.OriginalColor = rep.ColorHex()
		g.CurrentColor = g.OriginalColor
		r.parts[name] = g
		r.order = append(r.order, name)
		for _, n := range g.Nodes {
			r.owner[n] = name
		}
		r.log.Debug("registered part",
			zap.String("part", name),
			zap.Stringer("tag", g.Tag),
			zap.Int("meshes", len(g.Nodes)),
			zap.String("color", g.OriginalColor),
		)
	}

	r.log.Info("scanned parts", zap.Int("parts", len(r.order)))
	return r
}

// Len returns the number of registered parts.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns every registered part in discovery order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Part returns the named part.
func (r *Registry) Part(name string) (*Part, bool) {
	p, ok := r.parts[name]
	return p, ok
}

// PartOf returns the part that owns node, walking up to the nearest
// registered ancestor.
func (r *Registry) PartOf(n *scene.Node) (string, bool) {
	for ; n != nil; n = n.Parent {
		if name, ok := r.owner[n]; ok {
			return name, true
		}
	}
	return "", false
}

// AvailableParts returns the sorted names offered for recoloring.
func (r *Registry) AvailableParts() []string {
	var out []string
	for _, name := range r.order {
		if !r.excluded(name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func (r *Registry) excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range r.exclude {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CurrentColors returns the current color of every registered part.
func (r *Registry) CurrentColors() map[string]string {
	out := make(map[string]string, len(r.parts))
	for name, p := range r.parts {
		out[name] = p.CurrentColor
	}
	return out
}

// ChangePartColor writes color into every colorable material of the part.
// It returns false for an unknown part, an unparsable color, or a part
// where nothing could be written; the part's current color is only updated
// on success.
func (r *Registry) ChangePartColor(name, color string) bool {
	p, ok := r.parts[name]
	if !ok {
		r.log.Warn("part not found", zap.String("part", name))
		return false
	}
	color, err := scene.NormalizeHex(color)
	if err != nil {
		r.log.Warn("invalid color", zap.String("part", name), zap.Error(err))
		return false
	}

	changed := 0
	for _, n := range p.Nodes {
		for _, m := range n.Mesh.Materials() {
			if !m.Colorable() {
				continue
			}
			if err := m.SetHex(color); err != nil {
				continue
			}
			changed++
		}
	}
	if changed == 0 {
		return false
	}

	r.log.Debug("changed part color",
		zap.String("part", name),
		zap.String("from", p.CurrentColor),
		zap.String("to", color),
		zap.Int("materials", changed),
	)
	p.CurrentColor = color
	return true
}

// ResetPartColor restores the color sampled at scan time.
func (r *Registry) ResetPartColor(name string) bool {
	p, ok := r.parts[name]
	if !ok {
		return false
	}
	return r.ChangePartColor(name, p.OriginalColor)
}

// ResetAllColors restores every part to its original color.
func (r *Registry) ResetAllColors() {
	for _, name := range r.order {
		r.ResetPartColor(name)
	}
}

// PartInfo returns a snapshot of the named part.
func (r *Registry) PartInfo(name string) (Info, bool) {
	p, ok := r.parts[name]
	if !ok {
		return Info{}, false
	}
	info := Info{
		Name:          p.Name,
		Tag:           p.Tag,
		Meshes:        len(p.Nodes),
		OriginalColor: p.OriginalColor,
		CurrentColor:  p.CurrentColor,
	}
	for _, n := range p.Nodes {
		info.Materials += len(n.Mesh.Materials())
	}
	return info, true
}

// Debug logs every part with its colors.
func (r *Registry) Debug() {
	for _, name := range r.order {
		p := r.parts[name]
		r.log.Info("part",
			zap.String("name", name),
			zap.Stringer("tag", p.Tag),
			zap.String("color", p.CurrentColor),
			zap.String("original", p.OriginalColor),
			zap.Int("meshes", len(p.Nodes)),
		)
	}
}

// TestAllRed paints every colorable material in the scene with TestColor,
// including meshes outside any part. Part colors are not updated. It
// returns the number of materials written.
func (r *Registry) TestAllRed() int {
	count := 0
	r.root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		for _, m := range n.Mesh.Materials() {
			if m.Colorable() && m.SetHex(TestColor) == nil {
				count++
			}
		}
	})
	r.log.Info("painted all materials", zap.String("color", TestColor), zap.Int("materials", count))
	return count
}

// Dispose drops every part. The registry is empty afterwards.
func (r *Registry) Dispose() {
	clear(r.parts)
	clear(r.owner)
	r.order = nil
}
