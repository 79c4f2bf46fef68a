package anim

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/sched"
)

// DefaultDoorPatterns mark clips that open or close doors.
var DefaultDoorPatterns = []string{"door", "tailgate"}

const restorePrefix = "anim.restore:"

// RestoreKey is the scheduler key of the task that puts a reversed clip
// back to forward playback.
func RestoreKey(clip string) string {
	return restorePrefix + clip
}

// Controller triggers clips by name on a mixer. Delayed work goes through
// the frame-clock scheduler so it runs on the same goroutine as Update.
type Controller struct {
	mixer        *Mixer
	sched        *sched.Scheduler
	doorPatterns []string
	log          *zap.Logger
}

// NewController creates a controller. Empty patterns select DefaultDoorPatterns.
func NewController(m *Mixer, s *sched.Scheduler, doorPatterns []string) *Controller {
	if len(doorPatterns) == 0 {
		doorPatterns = DefaultDoorPatterns
	}
	lowered := make([]string, len(doorPatterns))
	for i, p := range doorPatterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Controller{
		mixer:        m,
		sched:        s,
		doorPatterns: lowered,
		log:          logger.Named("anim"),
	}
}

// Mixer returns the mixer the controller drives.
func (c *Controller) Mixer() *Mixer {
	return c.mixer
}

// Play stops every other action and plays name once from the start, holding
// the last frame. Unknown names do nothing and return false.
func (c *Controller) Play(name string) bool {
	action, ok := c.mixer.Action(name)
	if !ok {
		c.log.Debug("animation not found", zap.String("clip", name))
		return false
	}

	for _, other := range c.mixer.Actions() {
		if other == action {
			continue
		}
		// A stopped clip has nothing left for its restore task to do.
		if c.sched.Cancel(RestoreKey(other.Name())) {
			other.TimeScale = 1
		}
		other.Stop()
	}
	c.sched.Cancel(RestoreKey(name))

	c.playForward(action)
	c.log.Info("playing animation", zap.String("clip", name))
	return true
}

// IsDoorClip reports whether the clip name matches a door pattern.
func (c *Controller) IsDoorClip(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range c.doorPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// DoorClips returns the door clip names in load order.
func (c *Controller) DoorClips() []string {
	var out []string
	for _, name := range c.mixer.Clips() {
		if c.IsDoorClip(name) {
			out = append(out, name)
		}
	}
	return out
}

// OpenAllDoors plays every door clip forward. Other clips keep playing.
func (c *Controller) OpenAllDoors() []string {
	doors := c.DoorClips()
	for _, name := range doors {
		action, _ := c.mixer.Action(name)
		c.sched.Cancel(RestoreKey(name))
		c.playForward(action)
	}
	c.log.Info("opened doors", zap.Strings("clips", doors))
	return doors
}

// CloseAllDoors plays every door clip from its end back to the start. After
// the clip duration a task keyed by clip name restores forward playback;
// closing again replaces that task instead of stacking another one.
func (c *Controller) CloseAllDoors() []string {
	doors := c.DoorClips()
	for _, name := range doors {
		action, _ := c.mixer.Action(name)
		action.Reset()
		action.Loop = LoopOnce
		action.ClampWhenFinished = true
		action.Paused = false
		action.Time = action.Clip().Duration
		action.TimeScale = -1
		action.Play()

		delay := time.Duration(float64(action.Clip().Duration) * float64(time.Second))
		c.sched.After(RestoreKey(name), delay, func() {
			action.TimeScale = 1
			c.log.Debug("restored forward playback", zap.String("clip", action.Name()))
		})
	}
	c.log.Info("closed doors", zap.Strings("clips", doors))
	return doors
}

// Stop stops every action and drops pending restore tasks.
func (c *Controller) Stop() {
	for _, a := range c.mixer.Actions() {
		if c.sched.Cancel(RestoreKey(a.Name())) {
			a.TimeScale = 1
		}
	}
	c.mixer.StopAll()
}

func (c *Controller) playForward(a *Action) {
	a.Reset()
	a.TimeScale = 1
	a.Loop = LoopOnce
	a.ClampWhenFinished = true
	a.Play()
}
