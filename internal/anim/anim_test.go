package anim

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/sched"
	"github.com/Faultbox/showroom/internal/scene"
)

// slide moves node along X from 0 to 1 over one second.
func slide(name string, node *scene.Node) *Clip {
	return NewClip(name, []*Track{{
		Node:   node,
		Path:   PathTranslation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 1, 0, 0},
	}})
}

func TestTrackSampleLinear(t *testing.T) {
	tr := &Track{Path: PathTranslation, Times: []float32{0, 2}, Values: []float32{0, 0, 0, 4, 2, 0}}
	out := make([]float32, 3)

	tr.Sample(1, out)
	assert.Equal(t, []float32{2, 1, 0}, out)

	tr.Sample(-1, out)
	assert.Equal(t, []float32{0, 0, 0}, out)

	tr.Sample(5, out)
	assert.Equal(t, []float32{4, 2, 0}, out)
}

func TestTrackSampleStep(t *testing.T) {
	tr := &Track{Path: PathScale, Interp: InterpolationStep, Times: []float32{0, 1}, Values: []float32{1, 1, 1, 2, 2, 2}}
	out := make([]float32, 3)

	tr.Sample(0.99, out)
	assert.Equal(t, []float32{1, 1, 1}, out)
	tr.Sample(1, out)
	assert.Equal(t, []float32{2, 2, 2}, out)
}

func TestTrackSampleRotationSlerp(t *testing.T) {
	half := float32(math.Sqrt2 / 2)
	tr := &Track{
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 1, 0, half, 0, half}, // identity to 90° about Y
	}
	out := make([]float32, 4)
	tr.Sample(0.5, out)

	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, want.V[1], out[1], 1e-5)
	assert.InDelta(t, want.W, out[3], 1e-5)
}

func TestTrackSampleCubicSplineHitsKeyframes(t *testing.T) {
	// in-tangent, value, out-tangent per keyframe
	tr := &Track{
		Path:   PathTranslation,
		Interp: InterpolationCubicSpline,
		Times:  []float32{0, 1},
		Values: []float32{
			0, 0, 0, 0, 0, 0, 1, 0, 0,
			1, 0, 0, 3, 0, 0, 0, 0, 0,
		},
	}
	out := make([]float32, 3)

	tr.Sample(0, out)
	assert.InDelta(t, 0, out[0], 1e-6)
	tr.Sample(1, out)
	assert.InDelta(t, 3, out[0], 1e-6)
	tr.Sample(0.5, out)
	assert.Greater(t, out[0], float32(0))
	assert.Less(t, out[0], float32(3))
}

func TestNewClipDuration(t *testing.T) {
	c := NewClip("c", []*Track{
		{Path: PathScale, Times: []float32{0, 0.5}},
		{Path: PathScale, Times: []float32{0, 1.25}},
	})
	assert.Equal(t, float32(1.25), c.Duration)
}

func TestLoopOnceClampHoldsLastFrame(t *testing.T) {
	node := scene.NewNode("door")
	m := NewMixer([]*Clip{slide("DoorOpen", node)})
	a, ok := m.Action("DoorOpen")
	require.True(t, ok)

	finished := ""
	m.OnFinished = func(name string) { finished = name }

	a.Loop = LoopOnce
	a.ClampWhenFinished = true
	a.Play()

	m.Update(0.5)
	assert.InDelta(t, 0.5, node.Translation.X(), 1e-6)

	m.Update(0.75)
	assert.Equal(t, "DoorOpen", finished)
	assert.True(t, a.Paused)
	assert.Equal(t, float32(1), node.Translation.X())

	m.Update(1)
	assert.Equal(t, float32(1), node.Translation.X())
}

func TestLoopOnceWithoutClampReleasesNodes(t *testing.T) {
	node := scene.NewNode("door")
	m := NewMixer([]*Clip{slide("DoorOpen", node)})
	a, _ := m.Action("DoorOpen")
	a.Loop = LoopOnce
	a.Play()

	m.Update(2)
	assert.Equal(t, float32(0), node.Translation.X())
	assert.Empty(t, m.Active())
}

func TestStopReturnsToRestPose(t *testing.T) {
	node := scene.NewNode("hood")
	node.Translation = mgl32.Vec3{0, 5, 0}
	clip := NewClip("HoodLift", []*Track{{
		Node: node, Path: PathTranslation,
		Times: []float32{0, 1}, Values: []float32{0, 5, 0, 0, 6, 0},
	}})
	m := NewMixer([]*Clip{clip})
	a, _ := m.Action("HoodLift")
	a.Loop = LoopOnce
	a.ClampWhenFinished = true
	a.Play()
	m.Update(1)
	require.InDelta(t, 6, node.Translation.Y(), 1e-6)

	a.Stop()
	m.Update(0.1)
	assert.Equal(t, float32(5), node.Translation.Y())
	assert.Equal(t, float32(0), a.Time)
}

func TestMixerDuplicateNamesKeepFirst(t *testing.T) {
	n := scene.NewNode("n")
	m := NewMixer([]*Clip{slide("A", n), slide("A", n), slide("B", n)})
	assert.Equal(t, []string{"A", "B"}, m.Clips())
}

func newController(clips ...string) (*Controller, *Mixer, *sched.Scheduler, map[string]*scene.Node) {
	nodes := make(map[string]*scene.Node)
	var cs []*Clip
	for _, name := range clips {
		nodes[name] = scene.NewNode(name)
		cs = append(cs, slide(name, nodes[name]))
	}
	m := NewMixer(cs)
	s := sched.New()
	return NewController(m, s, nil), m, s, nodes
}

func TestPlayUnknownClipIsNoop(t *testing.T) {
	c, m, s, _ := newController("Idle", "DoorOpen")
	idle, _ := m.Action("Idle")
	idle.Play()

	assert.False(t, c.Play("Wheelie"))
	assert.Equal(t, []string{"Idle"}, m.Active())
	assert.Equal(t, 0, s.Len())
}

func TestPlayStopsOthers(t *testing.T) {
	c, m, _, _ := newController("Idle", "Spin")
	idle, _ := m.Action("Idle")
	idle.Play()
	m.Update(0.3)

	require.True(t, c.Play("Spin"))
	spin, _ := m.Action("Spin")
	assert.Equal(t, []string{"Spin"}, m.Active())
	assert.Equal(t, LoopOnce, spin.Loop)
	assert.True(t, spin.ClampWhenFinished)
	assert.Equal(t, float32(1), spin.TimeScale)
	assert.Equal(t, float32(0), spin.Time)
}

func TestDoorClipSelection(t *testing.T) {
	c, _, _, _ := newController("FrontDoorL", "Idle", "TAILGATE_open", "Wheel")
	assert.Equal(t, []string{"FrontDoorL", "TAILGATE_open"}, c.DoorClips())
}

func TestCloseAllDoorsPlaysBackward(t *testing.T) {
	c, m, s, nodes := newController("DoorL", "Trunk")
	closed := c.CloseAllDoors()
	require.Equal(t, []string{"DoorL"}, closed)

	door, _ := m.Action("DoorL")
	assert.Equal(t, float32(-1), door.TimeScale)
	assert.True(t, s.Pending(RestoreKey("DoorL")))

	m.Update(0.25)
	assert.InDelta(t, 0.75, nodes["DoorL"].Translation.X(), 1e-6)

	m.Update(1)
	assert.True(t, door.Paused)
	assert.Equal(t, float32(0), nodes["DoorL"].Translation.X())

	s.Advance(time.Second)
	assert.Equal(t, float32(1), door.TimeScale)
	m.Update(0.5)
	assert.Equal(t, float32(0), nodes["DoorL"].Translation.X())
}

func TestCloseThenOpenCancelsRestore(t *testing.T) {
	c, m, s, nodes := newController("DoorL")
	door, _ := m.Action("DoorL")

	c.CloseAllDoors()
	s.Advance(400 * time.Millisecond)
	m.Update(0.4)

	c.OpenAllDoors()
	assert.False(t, s.Pending(RestoreKey("DoorL")))
	assert.Equal(t, float32(1), door.TimeScale)

	// Past the old restore deadline: nothing stale fires and the door keeps opening.
	for i := 0; i < 12; i++ {
		s.Advance(100 * time.Millisecond)
		m.Update(0.1)
	}
	assert.Equal(t, float32(1), door.TimeScale)
	assert.Equal(t, float32(1), nodes["DoorL"].Translation.X())
}

func TestRepeatedCloseKeepsOneRestoreTask(t *testing.T) {
	c, _, s, _ := newController("DoorL", "DoorR")
	c.CloseAllDoors()
	s.Advance(500 * time.Millisecond)
	c.CloseAllDoors()

	assert.Equal(t, 2, s.Len())
	remaining, ok := s.Remaining(RestoreKey("DoorL"))
	require.True(t, ok)
	assert.Equal(t, time.Second, remaining)
}

func TestPlayCancelsPendingRestores(t *testing.T) {
	c, m, s, _ := newController("DoorL", "Spin")
	c.CloseAllDoors()
	require.True(t, c.Play("Spin"))

	door, _ := m.Action("DoorL")
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, float32(1), door.TimeScale)
	assert.False(t, door.IsScheduled())
}
