// Package tween animates float32 fields toward target values over time.
//
// A Group drives several fields with one duration and easing function and
// writes the eased values back on every Update. Nothing runs in the
// background: the owner calls Update once per frame.
package tween

import (
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Group animates a set of float32 fields together.
type Group struct {
	duration   float32
	easing     ease.TweenFunc
	tweens     []*gween.Tween
	fields     []*float32
	onComplete func()

	Done bool
}

// New creates an empty group. Add fields with To before the first Update.
func New(duration time.Duration, fn ease.TweenFunc) *Group {
	if fn == nil {
		fn = ease.Linear
	}
	return &Group{duration: float32(duration.Seconds()), easing: fn}
}

// To animates *field from its current value to end.
func (g *Group) To(field *float32, end float32) *Group {
	g.tweens = append(g.tweens, gween.New(*field, end, g.duration, g.easing))
	g.fields = append(g.fields, field)
	return g
}

// OnComplete registers fn to run once, on the Update that finishes the group.
// A killed group never completes.
func (g *Group) OnComplete(fn func()) *Group {
	g.onComplete = fn
	return g
}

// Update advances all tweens by dt seconds and writes the values to their fields.
func (g *Group) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i, tw := range g.tweens {
		var val float32
		var finished bool
		if g.duration <= 0 {
			val, finished = tw.Set(g.duration + 1)
		} else {
			val, finished = tw.Update(dt)
		}
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.Done && g.onComplete != nil {
		fn := g.onComplete
		g.onComplete = nil
		fn()
	}
}

// Kill stops the group where it is without running the completion callback.
func (g *Group) Kill() {
	g.Done = true
	g.onComplete = nil
}

// Duration returns the group duration.
func (g *Group) Duration() time.Duration {
	return time.Duration(float64(g.duration) * float64(time.Second))
}

var eases = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"none":         ease.Linear,
	"power1.in":    ease.InQuad,
	"power1.out":   ease.OutQuad,
	"power1.inout": ease.InOutQuad,
	"power2.in":    ease.InCubic,
	"power2.out":   ease.OutCubic,
	"power2.inout": ease.InOutCubic,
	"power3.in":    ease.InQuart,
	"power3.out":   ease.OutQuart,
	"power3.inout": ease.InOutQuart,
	"power4.in":    ease.InQuint,
	"power4.out":   ease.OutQuint,
	"power4.inout": ease.InOutQuint,
	"sine.in":      ease.InSine,
	"sine.out":     ease.OutSine,
	"sine.inout":   ease.InOutSine,
	"expo.in":      ease.InExpo,
	"expo.out":     ease.OutExpo,
	"expo.inout":   ease.InOutExpo,
	"back.in":      ease.InBack,
	"back.out":     ease.OutBack,
	"back.inout":   ease.InOutBack,
	"bounce.out":   ease.OutBounce,
}

// Ease resolves an easing name such as "power2.out" or "sine.inOut".
// A bare family name means its ".out" variant. Unknown names return false.
func Ease(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if fn, ok := eases[key]; ok {
		return fn, true
	}
	if fn, ok := eases[key+".out"]; ok {
		return fn, true
	}
	return nil, false
}

// EaseOr resolves name and falls back to def when it is unknown.
func EaseOr(name string, def ease.TweenFunc) ease.TweenFunc {
	if fn, ok := Ease(name); ok {
		return fn
	}
	return def
}
