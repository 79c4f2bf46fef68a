package anim

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
)

type pose struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
}

// Mixer owns one action per clip and applies them to the scene.
type Mixer struct {
	actions map[string]*Action
	names   []string
	active  []*Action
	rest    map[*scene.Node]pose
	dirty   bool

	// OnFinished is called after an Update in which a LoopOnce action
	// reached the end of its clip.
	OnFinished func(name string)
}

// NewMixer creates actions for clips and records the current pose of every
// node they drive as the rest pose. Clips with duplicate names keep the first.
func NewMixer(clips []*Clip) *Mixer {
	m := &Mixer{
		actions: make(map[string]*Action, len(clips)),
		rest:    make(map[*scene.Node]pose),
	}
	for _, c := range clips {
		if _, dup := m.actions[c.Name]; dup {
			logger.Warn("duplicate animation clip ignored", zap.String("clip", c.Name))
			continue
		}
		m.actions[c.Name] = newAction(c, m)
		m.names = append(m.names, c.Name)
		for _, n := range c.Nodes() {
			if _, ok := m.rest[n]; !ok {
				m.rest[n] = pose{n.Translation, n.Rotation, n.Scale}
			}
		}
	}
	return m
}

// Action returns the action for a clip name.
func (m *Mixer) Action(name string) (*Action, bool) {
	a, ok := m.actions[name]
	return a, ok
}

// Clips returns clip names in load order.
func (m *Mixer) Clips() []string {
	return append([]string(nil), m.names...)
}

// Actions returns all actions in load order.
func (m *Mixer) Actions() []*Action {
	out := make([]*Action, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, m.actions[name])
	}
	return out
}

// Active returns the names of actions currently applied to the scene.
func (m *Mixer) Active() []string {
	var out []string
	for _, a := range m.active {
		if a.effective() {
			out = append(out, a.Name())
		}
	}
	return out
}

// StopAll stops every action.
func (m *Mixer) StopAll() {
	for _, a := range append([]*Action(nil), m.active...) {
		a.Stop()
	}
}

// Update advances running actions by dt seconds and poses the scene.
// Nodes not driven by an effective action are returned to their rest pose.
// When two actions drive the same property the one started last wins.
func (m *Mixer) Update(dt float32) {
	if len(m.active) == 0 && !m.dirty {
		return
	}

	var finished []string
	for _, a := range m.active {
		if a.advance(dt) {
			finished = append(finished, a.Name())
		}
	}

	m.restore()
	for _, a := range m.active {
		if a.effective() {
			a.clip.Apply(a.Time)
		}
	}
	m.dirty = false

	for _, name := range finished {
		logger.Debug("animation finished", zap.String("clip", name))
		if m.OnFinished != nil {
			m.OnFinished(name)
		}
	}
}

// restore puts every driven node back to its rest pose.
func (m *Mixer) restore() {
	for n, p := range m.rest {
		n.Translation = p.translation
		n.Rotation = p.rotation
		n.Scale = p.scale
	}
}

func (m *Mixer) activate(a *Action) {
	if a.running {
		return
	}
	a.running = true
	m.active = append(m.active, a)
	m.dirty = true
}

func (m *Mixer) deactivate(a *Action) {
	if !a.running {
		return
	}
	a.running = false
	for i, x := range m.active {
		if x == a {
			m.active = append(m.active[:i], m.active[i+1:]...)
			break
		}
	}
	m.dirty = true
}
