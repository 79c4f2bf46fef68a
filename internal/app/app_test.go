package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/showroom/internal/viewer"
)

func TestKeyCommand(t *testing.T) {
	clips := []string{"DoorOpen", "Spin"}

	tests := []struct {
		name string
		key  sdl.Scancode
		mod  sdl.Keymod
		want viewer.Command
		ok   bool
	}{
		{"first clip", sdl.SCANCODE_1, 0, viewer.PlayAnimation{Name: "DoorOpen"}, true},
		{"second clip", sdl.SCANCODE_2, 0, viewer.PlayAnimation{Name: "Spin"}, true},
		{"missing clip", sdl.SCANCODE_3, 0, nil, false},
		{"open doors", sdl.SCANCODE_O, 0, viewer.OpenAllDoors{}, true},
		{"close doors", sdl.SCANCODE_C, 0, viewer.CloseAllDoors{}, true},
		{"reset", sdl.SCANCODE_R, 0, viewer.ResetRotation{}, true},
		{"toggle", sdl.SCANCODE_SPACE, 0, viewer.ToggleAutoRotation{}, true},
		{"test red", sdl.SCANCODE_T, 0, viewer.TestAllRed{}, true},
		{"reset colors", sdl.SCANCODE_BACKSPACE, 0, viewer.ResetColors{}, true},
		{"ctrl+o is not a session key", sdl.SCANCODE_O, sdl.KMOD_LCTRL, nil, false},
		{"unbound", sdl.SCANCODE_Z, 0, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyCommand(tt.key, tt.mod, clips)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyAction(t *testing.T) {
	assert.Equal(t, actionQuit, keyAction(sdl.SCANCODE_ESCAPE, 0))
	assert.Equal(t, actionScreenshot, keyAction(sdl.SCANCODE_F12, 0))
	assert.Equal(t, actionFullscreen, keyAction(sdl.SCANCODE_F11, 0))
	assert.Equal(t, actionNextPreset, keyAction(sdl.SCANCODE_P, 0))
	assert.Equal(t, actionListParts, keyAction(sdl.SCANCODE_L, 0))
	assert.Equal(t, actionOpen, keyAction(sdl.SCANCODE_O, sdl.KMOD_RCTRL))
	assert.Equal(t, actionExport, keyAction(sdl.SCANCODE_E, sdl.KMOD_LCTRL))
	assert.Equal(t, actionSavePreset, keyAction(sdl.SCANCODE_S, sdl.KMOD_LCTRL))
	assert.Equal(t, actionNone, keyAction(sdl.SCANCODE_S, 0))
	assert.Equal(t, actionNone, keyAction(sdl.SCANCODE_ESCAPE, sdl.KMOD_LCTRL))
	assert.Equal(t, actionNone, keyAction(sdl.SCANCODE_E, 0))
}

func TestWheelCommand(t *testing.T) {
	assert.Equal(t, viewer.Scroll{DeltaY: -100}, wheelCommand(1))
	assert.Equal(t, viewer.Scroll{DeltaY: 200}, wheelCommand(-2))
}

func TestNextPreset(t *testing.T) {
	names := []string{"Luxury", "Ocean", "Racing", "Sport"}
	assert.Equal(t, "Luxury", nextPreset(names, ""))
	assert.Equal(t, "Ocean", nextPreset(names, "Luxury"))
	assert.Equal(t, "Luxury", nextPreset(names, "Sport"))
	assert.Equal(t, "Luxury", nextPreset(names, "Gone"))
	assert.Equal(t, "", nextPreset(nil, "Sport"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Showroom", title("Showroom", "", ""))
	assert.Equal(t, "Showroom - car.glb", title("Showroom", filepath.Join("models", "car.glb"), ""))
	assert.Equal(t, "Showroom - car.glb [Hood]", title("Showroom", "car.glb", "Hood"))
}

func TestWithGLB(t *testing.T) {
	assert.Equal(t, "out.glb", withGLB("out"))
	assert.Equal(t, "out.GLB", withGLB("out.GLB"))
	assert.Equal(t, "out.gltf.glb", withGLB("out.gltf"))
}

func TestSamePath(t *testing.T) {
	abs, err := filepath.Abs("car.glb")
	assert.NoError(t, err)
	assert.True(t, samePath("car.glb", abs))
	assert.True(t, samePath("./car.glb", "car.glb"))
	assert.False(t, samePath("car.glb", "truck.glb"))
}
