package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/showroom/internal/viewer"
)

// action is a key binding handled by the app rather than the session.
type action int

const (
	actionNone action = iota
	actionQuit
	actionOpen
	actionExport
	actionScreenshot
	actionFullscreen
	actionNextPreset
	actionListParts
	actionSavePreset
)

// customPreset is the preset name Ctrl+S saves the current colors under.
const customPreset = "Custom"

// wheelPixels converts one wheel notch to the pixel delta rotation is tuned for.
const wheelPixels = 100

var sessionKeys = map[sdl.Scancode]viewer.Command{
	sdl.SCANCODE_O:         viewer.OpenAllDoors{},
	sdl.SCANCODE_C:         viewer.CloseAllDoors{},
	sdl.SCANCODE_R:         viewer.ResetRotation{},
	sdl.SCANCODE_SPACE:     viewer.ToggleAutoRotation{},
	sdl.SCANCODE_T:         viewer.TestAllRed{},
	sdl.SCANCODE_BACKSPACE: viewer.ResetColors{},
}

var appKeys = map[sdl.Scancode]action{
	sdl.SCANCODE_ESCAPE: actionQuit,
	sdl.SCANCODE_F12:    actionScreenshot,
	sdl.SCANCODE_F11:    actionFullscreen,
	sdl.SCANCODE_P:      actionNextPreset,
	sdl.SCANCODE_L:      actionListParts,
}

// keyCommand maps a key to a session command. Number keys 1-9 play clips in
// file order.
func keyCommand(key sdl.Scancode, mod sdl.Keymod, clips []string) (viewer.Command, bool) {
	if mod&sdl.KMOD_CTRL != 0 {
		return nil, false
	}
	if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
		i := int(key - sdl.SCANCODE_1)
		if i < len(clips) {
			return viewer.PlayAnimation{Name: clips[i]}, true
		}
		return nil, false
	}
	cmd, ok := sessionKeys[key]
	return cmd, ok
}

// keyAction maps a key to an app action.
func keyAction(key sdl.Scancode, mod sdl.Keymod) action {
	if mod&sdl.KMOD_CTRL != 0 {
		switch key {
		case sdl.SCANCODE_O:
			return actionOpen
		case sdl.SCANCODE_E:
			return actionExport
		case sdl.SCANCODE_S:
			return actionSavePreset
		}
		return actionNone
	}
	return appKeys[key]
}

// wheelCommand converts a wheel event to a rotation scroll. Wheel-up
// (positive y) rotates the same way as a negative page delta.
func wheelCommand(wheelY float32) viewer.Scroll {
	return viewer.Scroll{DeltaY: -wheelY * wheelPixels}
}

// nextPreset returns the preset after current in names, wrapping around.
func nextPreset(names []string, current string) string {
	if len(names) == 0 {
		return ""
	}
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
