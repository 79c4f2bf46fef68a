package viewer

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Dispatch for command types it does not handle.
var ErrUnknownCommand = errors.New("viewer: unknown command")

// Command is a request from the UI layer to the session.
type Command interface {
	command()
}

// PlayAnimation plays one clip and stops the others.
type PlayAnimation struct{ Name string }

// ResetRotation eases the model back to its initial orientation.
type ResetRotation struct{}

// ToggleAutoRotation flips auto-rotation.
type ToggleAutoRotation struct{}

// ChangePartColor recolors one part.
type ChangePartColor struct {
	Part  string
	Color string
}

// OpenAllDoors plays every door clip forward.
type OpenAllDoors struct{}

// CloseAllDoors plays every door clip backward.
type CloseAllDoors struct{}

// TestAllRed paints every colorable material red.
type TestAllRed struct{}

// Scroll rotates the model by a wheel delta.
type Scroll struct{ DeltaY float32 }

// Hover reports the part under the pointer; empty means none.
type Hover struct{ Part string }

// ApplyPreset applies a named color preset.
type ApplyPreset struct{ Name string }

// ResetColors restores every part to its original color.
type ResetColors struct{}

func (PlayAnimation) command()      {}
func (ResetRotation) command()      {}
func (ToggleAutoRotation) command() {}
func (ChangePartColor) command()    {}
func (OpenAllDoors) command()       {}
func (CloseAllDoors) command()      {}
func (TestAllRed) command()         {}
func (Scroll) command()             {}
func (Hover) command()              {}
func (ApplyPreset) command()        {}
func (ResetColors) command()        {}

// Result is the outcome of a dispatched command. OK is false for soft
// failures such as an unknown part; Err is set for hard ones.
type Result struct {
	OK  bool
	Err error
}

func ok() Result { return Result{OK: true} }

// Dispatch runs cmd against the session.
func (s *Session) Dispatch(cmd Command) Result {
	switch c := cmd.(type) {
	case PlayAnimation:
		return Result{OK: s.PlayAnimation(c.Name)}
	case ResetRotation:
		s.ResetRotation()
		return ok()
	case ToggleAutoRotation:
		s.ToggleAutoRotation()
		return ok()
	case ChangePartColor:
		return Result{OK: s.ChangePartColor(c.Part, c.Color)}
	case OpenAllDoors:
		return Result{OK: len(s.OpenAllDoors()) > 0}
	case CloseAllDoors:
		return Result{OK: len(s.CloseAllDoors()) > 0}
	case TestAllRed:
		return Result{OK: s.TestAllRed() > 0}
	case Scroll:
		s.Scroll(c.DeltaY)
		return ok()
	case Hover:
		s.Hover(c.Part)
		return ok()
	case ApplyPreset:
		if err := s.ApplyPreset(c.Name); err != nil {
			return Result{Err: err}
		}
		return ok()
	case ResetColors:
		s.ResetColors()
		return ok()
	}
	return Result{Err: fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)}
}
