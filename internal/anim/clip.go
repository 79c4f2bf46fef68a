package anim

import "github.com/Faultbox/showroom/internal/scene"

// Clip is a named, authored animation.
type Clip struct {
	Name     string
	Duration float32 // seconds
	Tracks   []*Track
}

// NewClip creates a clip whose duration is the latest keyframe of any track.
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		c.Duration = max(c.Duration, t.Duration())
	}
	return c
}

// Nodes returns the distinct nodes the clip drives, in track order.
func (c *Clip) Nodes() []*scene.Node {
	seen := make(map[*scene.Node]bool)
	var out []*scene.Node
	for _, t := range c.Tracks {
		if t.Node != nil && !seen[t.Node] {
			seen[t.Node] = true
			out = append(out, t.Node)
		}
	}
	return out
}

// Apply poses the clip's nodes at the given time.
func (c *Clip) Apply(time float32) {
	for _, t := range c.Tracks {
		t.apply(time)
	}
}
