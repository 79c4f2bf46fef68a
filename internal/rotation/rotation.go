// Package rotation arbitrates between automatic spin and scroll-driven
// manual rotation of the model pivot.
//
// The coordinator keeps two sets of Euler angles. The stored angles are
// what manual interaction edits and tweens animate; the visual angles are
// what is applied to the pivot each frame. While auto-rotating the visual
// Y angle advances with time and the stored angles follow it; otherwise the
// stored angles are copied onto the pivot.
package rotation

import (
	"math"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/sched"
	"github.com/Faultbox/showroom/internal/tween"
)

// ResumeKey is the scheduler key of the task that re-enables auto-rotation
// after scrolling stops.
const ResumeKey = "rotation.resume"

// Target receives the visual rotation, typically the model pivot node.
type Target interface {
	SetEuler(x, y, z float32)
}

// Angles are XYZ Euler angles in radians.
type Angles struct {
	X, Y, Z float32
}

// Coordinator owns the rotation state of one viewer session.
type Coordinator struct {
	cfg    config.RotationConfig
	easing ease.TweenFunc
	target Target
	sched  *sched.Scheduler
	log    *zap.Logger

	stored Angles
	visual Angles
	auto   bool
	hold   bool
	tween  *tween.Group
}

// New creates a coordinator with auto-rotation on. target may be nil.
func New(target Target, s *sched.Scheduler, cfg config.RotationConfig) *Coordinator {
	return &Coordinator{
		cfg:    cfg,
		easing: tween.EaseOr(cfg.Ease, ease.OutCubic),
		target: target,
		sched:  s,
		log:    logger.Named("rotation"),
		auto:   true,
	}
}

// Frame advances the coordinator by dt seconds and applies the visual
// rotation to the target. Scheduler tasks for the frame should run first.
func (c *Coordinator) Frame(dt float32) {
	wasAuto := c.auto
	if c.tween != nil {
		g := c.tween
		g.Update(dt)
		if g.Done && c.tween == g {
			c.tween = nil
		}
	}

	switch {
	case c.auto && wasAuto:
		if !c.hold {
			c.visual.Y = wrap(c.visual.Y + dt*c.cfg.AutoSpeed)
		}
		c.stored.Y = c.visual.Y
	default:
		c.visual = c.stored
	}

	if c.target != nil {
		c.target.SetEuler(c.visual.X, c.visual.Y, c.visual.Z)
	}
}

// Scroll turns a wheel movement into an eased Y rotation. Auto-rotation is
// suspended and resumes once no scroll has arrived for the resume delay.
func (c *Coordinator) Scroll(deltaY float32) {
	if c.auto {
		c.stored = c.visual
	}
	c.auto = false

	targetY := c.stored.Y + deltaY*c.cfg.ScrollSensitivity
	c.start(tween.New(c.cfg.EaseDuration, c.easing).To(&c.stored.Y, targetY))

	c.sched.After(ResumeKey, c.cfg.ResumeDelay, c.resume)
	c.log.Debug("scroll rotation", zap.Float32("delta", deltaY), zap.Float32("target_y", targetY))
}

func (c *Coordinator) resume() {
	if c.tween != nil {
		c.tween.Kill()
		c.tween = nil
	}
	c.auto = true
	c.log.Debug("auto rotation resumed")
}

// Reset eases all angles back to zero and turns auto-rotation back on when
// the ease completes. A pending scroll resume is dropped.
func (c *Coordinator) Reset() {
	c.auto = false
	c.sched.Cancel(ResumeKey)

	g := tween.New(c.cfg.ResetDuration, c.easing).
		To(&c.stored.X, 0).
		To(&c.stored.Y, 0).
		To(&c.stored.Z, 0)
	g.OnComplete(func() {
		c.auto = true
		c.log.Debug("rotation reset complete")
	})
	c.start(g)
}

// Toggle flips auto-rotation and returns the new state. Turning it on keeps
// the model where it is. Any running ease and pending resume are dropped.
func (c *Coordinator) Toggle() bool {
	c.sched.Cancel(ResumeKey)
	if c.tween != nil {
		c.tween.Kill()
		c.tween = nil
	}

	c.auto = !c.auto
	if c.auto {
		c.stored = c.visual
	}
	c.log.Info("auto rotation toggled", zap.Bool("auto", c.auto))
	return c.auto
}

// HoverEnter holds the spin while the pointer is over the model. It does not
// change the auto flag or the resume timer.
func (c *Coordinator) HoverEnter() {
	c.hold = true
}

// HoverLeave releases the hover hold.
func (c *Coordinator) HoverLeave() {
	c.hold = false
}

// Auto reports whether auto-rotation is on.
func (c *Coordinator) Auto() bool {
	return c.auto
}

// Holding reports whether hover is holding the spin.
func (c *Coordinator) Holding() bool {
	return c.hold
}

// Easing reports whether a rotation ease is running.
func (c *Coordinator) Easing() bool {
	return c.tween != nil
}

// Angles returns the stored angles.
func (c *Coordinator) Angles() Angles {
	return c.stored
}

// Visual returns the angles last applied to the target.
func (c *Coordinator) Visual() Angles {
	return c.visual
}

// Dispose drops the running ease and pending resume.
func (c *Coordinator) Dispose() {
	c.sched.Cancel(ResumeKey)
	if c.tween != nil {
		c.tween.Kill()
		c.tween = nil
	}
}

// start replaces the running ease with g.
func (c *Coordinator) start(g *tween.Group) {
	if c.tween != nil {
		c.tween.Kill()
	}
	c.tween = g
}

func wrap(a float32) float32 {
	const twoPi = 2 * math.Pi
	if a > twoPi || a < -twoPi {
		return float32(math.Mod(float64(a), twoPi))
	}
	return a
}
