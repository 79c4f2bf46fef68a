// Package anim plays keyframe clips on scene nodes.
//
// A Clip is a named set of Tracks. A Mixer owns one Action per clip and
// applies every running action to the scene once per frame. Nodes that no
// running action drives fall back to the pose they had when the mixer was
// created.
package anim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

// Path is the node property a track drives.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Components returns the number of floats per keyframe value.
func (p Path) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	default:
		return "scale"
	}
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// Track animates one property of one node.
//
// Values holds Path.Components() floats per keyframe. Cubic-spline tracks
// store in-tangent, value and out-tangent for each keyframe, in that order.
// Rotations are quaternions stored x, y, z, w.
type Track struct {
	Node   *scene.Node
	Path   Path
	Interp Interpolation
	Times  []float32
	Values []float32
}

// Duration returns the time of the last keyframe.
func (t *Track) Duration() float32 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

func (t *Track) stride() int {
	n := t.Path.Components()
	if t.Interp == InterpolationCubicSpline {
		return 3 * n
	}
	return n
}

// value returns the keyframe value at index k, skipping cubic-spline tangents.
func (t *Track) value(k int) []float32 {
	n := t.Path.Components()
	off := k * t.stride()
	if t.Interp == InterpolationCubicSpline {
		off += n
	}
	return t.Values[off : off+n]
}

// valid reports whether Values has enough data for every keyframe.
func (t *Track) valid() bool {
	return len(t.Times) > 0 && len(t.Values) >= len(t.Times)*t.stride()
}

// Sample writes the track value at time into out, which must hold
// Path.Components() floats.
func (t *Track) Sample(time float32, out []float32) {
	if !t.valid() {
		return
	}

	// Find surrounding keyframes
	var prev, next int
	for i := range t.Times {
		if t.Times[i] > time {
			next = i
			break
		}
		prev = i
		next = i
	}

	// Before the first or at/after the last keyframe
	if prev == next {
		copy(out, t.value(prev))
		return
	}

	t0, t1 := t.Times[prev], t.Times[next]
	span := t1 - t0
	s := float32(0)
	if span > 0 {
		s = (time - t0) / span
	}

	switch t.Interp {
	case InterpolationStep:
		copy(out, t.value(prev))
	case InterpolationCubicSpline:
		t.cubic(prev, next, s, span, out)
	default:
		if t.Path == PathRotation {
			q := quatAt(t.value(prev)).Normalize()
			r := quatAt(t.value(next)).Normalize()
			putQuat(mgl32.QuatSlerp(q, r, s), out)
			return
		}
		a, b := t.value(prev), t.value(next)
		for i := range a {
			out[i] = a[i] + s*(b[i]-a[i])
		}
	}
}

// cubic evaluates the Hermite spline between keyframes k0 and k1.
func (t *Track) cubic(k0, k1 int, s, span float32, out []float32) {
	n := t.Path.Components()
	stride := t.stride()
	v0 := t.Values[k0*stride+n : k0*stride+2*n]
	b0 := t.Values[k0*stride+2*n : k0*stride+3*n] // out-tangent of k0
	a1 := t.Values[k1*stride : k1*stride+n]       // in-tangent of k1
	v1 := t.Values[k1*stride+n : k1*stride+2*n]

	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	for i := 0; i < n; i++ {
		out[i] = h00*v0[i] + h10*span*b0[i] + h01*v1[i] + h11*span*a1[i]
	}
	if t.Path == PathRotation {
		putQuat(quatAt(out).Normalize(), out)
	}
}

// apply samples the track and writes the result onto its node.
func (t *Track) apply(time float32) {
	if t.Node == nil {
		return
	}
	var buf [4]float32
	out := buf[:t.Path.Components()]
	copy(out, t.current())
	t.Sample(time, out)

	switch t.Path {
	case PathTranslation:
		t.Node.Translation = mgl32.Vec3{out[0], out[1], out[2]}
	case PathRotation:
		t.Node.Rotation = quatAt(out)
	case PathScale:
		t.Node.Scale = mgl32.Vec3{out[0], out[1], out[2]}
	}
}

// current returns the node's present value for the track path.
func (t *Track) current() []float32 {
	switch t.Path {
	case PathTranslation:
		v := t.Node.Translation
		return v[:]
	case PathRotation:
		q := t.Node.Rotation
		return []float32{q.V[0], q.V[1], q.V[2], q.W}
	default:
		v := t.Node.Scale
		return v[:]
	}
}

func quatAt(v []float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func putQuat(q mgl32.Quat, out []float32) {
	out[0], out[1], out[2], out[3] = q.V[0], q.V[1], q.V[2], q.W
}
