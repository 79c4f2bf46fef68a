package anim

// LoopMode controls what an action does when it runs past the clip ends.
type LoopMode int

const (
	LoopOnce LoopMode = iota
	LoopRepeat
)

// Action is the playback state of one clip.
//
// Time advances by dt × TimeScale while the action is running and not paused.
// With LoopOnce the action finishes at either end of the clip: it pauses on
// the last pose when ClampWhenFinished is set, and releases its nodes otherwise.
type Action struct {
	clip  *Clip
	mixer *Mixer

	Time              float32
	TimeScale         float32
	Loop              LoopMode
	ClampWhenFinished bool
	Paused            bool

	enabled bool
	running bool
}

func newAction(clip *Clip, mixer *Mixer) *Action {
	return &Action{
		clip:      clip,
		mixer:     mixer,
		TimeScale: 1,
		Loop:      LoopRepeat,
		enabled:   true,
	}
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Name returns the clip name.
func (a *Action) Name() string {
	return a.clip.Name
}

// Reset rewinds to the start and clears the paused and finished state.
// It does not start or stop the action.
func (a *Action) Reset() *Action {
	a.Time = 0
	a.Paused = false
	a.enabled = true
	return a
}

// Play starts applying the action on the next mixer update.
func (a *Action) Play() *Action {
	a.mixer.activate(a)
	return a
}

// Stop removes the action from the mixer and rewinds it. Its nodes return to
// their rest pose on the next update.
func (a *Action) Stop() *Action {
	a.mixer.deactivate(a)
	return a.Reset()
}

// IsRunning reports whether the action is active, enabled and not paused.
func (a *Action) IsRunning() bool {
	return a.running && a.enabled && !a.Paused
}

// IsScheduled reports whether the mixer is applying the action at all.
func (a *Action) IsScheduled() bool {
	return a.running
}

// advance moves time forward by dt and reports whether the action finished
// on this step.
func (a *Action) advance(dt float32) (finished bool) {
	if !a.running || !a.enabled || a.Paused {
		return false
	}

	duration := a.clip.Duration
	t := a.Time + dt*a.TimeScale

	if a.Loop == LoopRepeat {
		if duration > 0 {
			for t >= duration {
				t -= duration
			}
			for t < 0 {
				t += duration
			}
		} else {
			t = 0
		}
		a.Time = t
		return false
	}

	switch {
	case t >= duration && a.TimeScale >= 0:
		t = duration
	case t <= 0 && a.TimeScale < 0:
		t = 0
	default:
		a.Time = min(max(t, 0), duration)
		return false
	}

	a.Time = t
	if a.ClampWhenFinished {
		a.Paused = true
	} else {
		a.enabled = false
	}
	return true
}

// effective reports whether the action currently poses its nodes.
func (a *Action) effective() bool {
	return a.running && a.enabled
}
