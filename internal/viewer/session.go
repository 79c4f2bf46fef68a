// Package viewer ties a loaded model to the part registry, the rotation
// coordinator and the animation controller. A Session is created per model
// and driven one frame at a time from the main loop; nothing in it is safe
// for concurrent use.
package viewer

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/picking"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/model"
	"github.com/Faultbox/showroom/internal/parts"
	"github.com/Faultbox/showroom/internal/rotation"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/internal/sched"
)

// Sounds receives door events. The audio manager implements it.
type Sounds interface {
	DoorsOpened()
	DoorsClosed()
}

// Session owns everything tied to one loaded model.
type Session struct {
	asset    *model.Asset
	pivot    *scene.Node
	sched    *sched.Scheduler
	parts    *parts.Registry
	rotation *rotation.Coordinator
	mixer    *anim.Mixer
	anim     *anim.Controller
	progress *Progress
	sounds   Sounds
	hovered  string
	closers  []io.Closer
	log      *zap.Logger
}

// Open loads the model at path and builds a session for it.
func Open(path string, cfg *config.Config, progress *Progress) (*Session, error) {
	if progress == nil {
		progress = NewProgress()
	}
	progress.Start("Initializing...")
	progress.Update(StageLoading, "Loading model...")

	asset, err := model.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return New(asset, cfg, progress), nil
}

// New builds a session around an already loaded asset.
func New(asset *model.Asset, cfg *config.Config, progress *Progress) *Session {
	if progress == nil {
		progress = NewProgress()
	}
	log := logger.Named("viewer")

	pivot := scene.NewNode("Pivot")
	pivot.Add(asset.Root)
	if cfg.Model.Center {
		scene.Center(asset.Root)
	}

	s := &Session{
		asset:    asset,
		pivot:    pivot,
		sched:    sched.New(),
		progress: progress,
		log:      log,
	}

	if len(asset.Clips) > 0 {
		progress.Update(StageAnimations, "Processing animations...")
	}
	s.mixer = anim.NewMixer(asset.Clips)
	s.mixer.OnFinished = func(name string) {
		s.log.Debug("clip finished", zap.String("clip", name))
	}
	s.anim = anim.NewController(s.mixer, s.sched, cfg.Animation.DoorPatterns)

	progress.Update(StageMaterials, "Scanning materials...")
	s.parts = parts.Scan(asset.Root, cfg.Parts.Exclude)
	progress.Update(StageFinalizing, "Finalizing...")

	s.rotation = rotation.New(pivot, s.sched, cfg.Rotation)

	progress.Update(StageColors, "Initializing color system...")
	s.parts.SetPresets(cfg.Parts.Presets)
	progress.Finish()

	log.Info("session ready",
		zap.String("model", asset.Path),
		zap.Int("parts", s.parts.Len()),
		zap.Strings("clips", s.mixer.Clips()),
	)
	return s
}

// SetSounds registers door sound hooks. nil disables them.
func (s *Session) SetSounds(snd Sounds) {
	s.sounds = snd
}

// AddCloser registers a resource released by Dispose.
func (s *Session) AddCloser(c io.Closer) {
	s.closers = append(s.closers, c)
}

// Frame advances timers, rotation and animation by dt seconds.
func (s *Session) Frame(dt float32) {
	if dt < 0 {
		dt = 0
	}
	s.sched.Advance(time.Duration(float64(dt) * float64(time.Second)))
	s.rotation.Frame(dt)
	s.mixer.Update(dt)
}

// Root returns the pivot node that carries the model.
func (s *Session) Root() *scene.Node { return s.pivot }

// Asset returns the loaded model.
func (s *Session) Asset() *model.Asset { return s.asset }

// Parts returns the part registry.
func (s *Session) Parts() *parts.Registry { return s.parts }

// Rotation returns the rotation coordinator.
func (s *Session) Rotation() *rotation.Coordinator { return s.rotation }

// Animations returns the animation controller.
func (s *Session) Animations() *anim.Controller { return s.anim }

// Progress returns the loading tracker.
func (s *Session) Progress() *Progress { return s.progress }

// Clips returns the clip names in file order.
func (s *Session) Clips() []string { return s.mixer.Clips() }

// PlayAnimation plays name once, stopping every other clip. Unknown names
// change nothing and return false.
func (s *Session) PlayAnimation(name string) bool {
	return s.anim.Play(name)
}

// OpenAllDoors plays the door clips forward and returns their names.
func (s *Session) OpenAllDoors() []string {
	doors := s.anim.OpenAllDoors()
	if len(doors) > 0 && s.sounds != nil {
		s.sounds.DoorsOpened()
	}
	return doors
}

// CloseAllDoors plays the door clips backward and returns their names.
func (s *Session) CloseAllDoors() []string {
	doors := s.anim.CloseAllDoors()
	if len(doors) > 0 && s.sounds != nil {
		s.sounds.DoorsClosed()
	}
	return doors
}

// ResetRotation eases the model back to zero rotation.
func (s *Session) ResetRotation() {
	s.rotation.Reset()
}

// ToggleAutoRotation flips auto-rotation and returns the new state.
func (s *Session) ToggleAutoRotation() bool {
	return s.rotation.Toggle()
}

// Scroll applies a wheel delta to the rotation.
func (s *Session) Scroll(deltaY float32) {
	s.rotation.Scroll(deltaY)
}

// Hover records the part under the pointer. An empty name ends the hover.
func (s *Session) Hover(part string) {
	if part == s.hovered {
		return
	}
	s.hovered = part
	if part == "" {
		s.rotation.HoverLeave()
		return
	}
	s.rotation.HoverEnter()
}

// Hovered returns the part under the pointer, if any.
func (s *Session) Hovered() string { return s.hovered }

// PickPart returns the registered part nearest along the ray.
func (s *Session) PickPart(r picking.Ray) (string, bool) {
	hit, ok := picking.Pick(r, s.pivot, func(n *scene.Node) bool {
		_, owned := s.parts.PartOf(n)
		return owned
	})
	if !ok {
		return "", false
	}
	return s.parts.PartOf(hit.Node)
}

// PartList returns the parts offered for recoloring.
func (s *Session) PartList() []string { return s.parts.AvailableParts() }

// CurrentColors returns the current color of every part.
func (s *Session) CurrentColors() map[string]string { return s.parts.CurrentColors() }

// ChangePartColor recolors a part. It returns false for unknown parts or
// colors that do not parse.
func (s *Session) ChangePartColor(part, color string) bool {
	return s.parts.ChangePartColor(part, color)
}

// TestAllRed paints every colorable material red and returns how many
// materials were written.
func (s *Session) TestAllRed() int { return s.parts.TestAllRed() }

// ApplyPreset applies a named color preset.
func (s *Session) ApplyPreset(name string) error {
	_, err := s.parts.ApplyNamedPreset(name)
	return err
}

// ResetColors restores every part's original color.
func (s *Session) ResetColors() { s.parts.ResetAllColors() }

// Export writes the model with its current colors as GLB.
func (s *Session) Export(path string) error {
	return s.asset.Export(path)
}

// Dispose stops animation, drops pending tasks and the part table, and
// closes registered resources. The session must not be used afterwards.
func (s *Session) Dispose() error {
	s.anim.Stop()
	s.rotation.Dispose()
	s.sched.Clear()
	s.parts.Dispose()
	s.pivot.Remove(s.asset.Root)

	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c.Close())
	}
	s.closers = nil
	s.log.Info("session disposed", zap.String("model", s.asset.Path))
	return err
}
