// Package app runs the interactive viewer: it owns the window, turns input
// into session commands and draws the model every frame.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/audio"
	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/input"
	"github.com/Faultbox/showroom/internal/engine/lighting"
	"github.com/Faultbox/showroom/internal/engine/picking"
	"github.com/Faultbox/showroom/internal/engine/renderer"
	"github.com/Faultbox/showroom/internal/engine/screenshot"
	"github.com/Faultbox/showroom/internal/engine/window"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/internal/viewer"
	"github.com/Faultbox/showroom/internal/watcher"
)

// maxFrameTime caps dt after stalls such as a blocking dialog.
const maxFrameTime = 0.25

// App is the interactive viewer.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	audio    *audio.Manager
	watcher  *watcher.FileWatcher
	capture  *screenshot.Capture
	session  *viewer.Session
	progress *viewer.Progress

	// Dialog results, applied on the main thread.
	pendingOpen   chan string
	pendingExport chan string

	running  bool
	dragging bool
	preset   string
	log      *zap.Logger
}

// New creates the window, renderer and optional audio and watcher.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:           cfg,
		input:         input.New(),
		capture:       screenshot.New(cfg.Window.ScreenshotDir, "showroom"),
		progress:      viewer.NewProgress(),
		pendingOpen:   make(chan string, 1),
		pendingExport: make(chan string, 1),
		log:           logger.Named("app"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: cfg.Camera.Background,
		LightDir:   lighting.Direction(cfg.Lighting.Azimuth, cfg.Lighting.Elevation),
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to create renderer: %w", err), a.window.Close())
	}

	a.camera = camera.NewOrbitCamera()
	a.camera.FOV = mgl32.DegToRad(cfg.Camera.FOV)
	a.camera.ZoomEnabled = cfg.Camera.Zoom
	a.camera.DragSensitivity = cfg.Camera.DragSensitivity

	if cfg.Audio.Enabled {
		a.audio = newAudio(cfg.Audio)
	}

	if cfg.Model.Watch {
		a.watcher, err = watcher.New(cfg.Model.WatchDebounce)
		if err != nil {
			a.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	a.progress.OnChange = func(percent int, status string) {
		if a.progress.Loading {
			a.window.SetTitle(fmt.Sprintf("%s - %s %d%%", cfg.Window.Title, status, percent))
		}
	}

	a.log.Info("viewer initialized", zap.Int("width", w), zap.Int("height", h))
	return a, nil
}

// newAudio starts the speaker and loads the door effects. Failures only
// cost the sounds.
func newAudio(cfg config.AudioConfig) *audio.Manager {
	m := audio.New(cfg.Volume)
	if err := m.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil
	}
	effects := map[string]string{
		audio.EffectDoorOpen:  cfg.DoorOpen,
		audio.EffectDoorClose: cfg.DoorClose,
	}
	for name, path := range effects {
		if path == "" {
			continue
		}
		if err := m.LoadFile(name, path); err != nil {
			logger.Warn("sound effect not loaded", zap.String("effect", name), zap.Error(err))
		}
	}
	return m
}

// Run loads the configured model, or asks for one, and runs the main loop
// until the window closes.
func (a *App) Run() error {
	if a.cfg.Model.Path != "" {
		if err := a.Load(a.cfg.Model.Path); err != nil {
			return err
		}
	} else {
		a.openDialog()
	}

	a.running = true
	last := time.Now()
	frames := 0
	fpsTimer := last

	a.log.Info("starting main loop")
	for a.running {
		now := time.Now()
		dt := min(float32(now.Sub(last).Seconds()), maxFrameTime)
		last = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}
		a.drainPending()

		if a.session != nil {
			a.session.Frame(dt)
		}
		a.render()
		a.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Float32("dt_ms", dt*1000))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (a *App) render() {
	a.renderer.Begin()
	if a.session != nil {
		hovered := a.session.Hovered()
		a.renderer.DrawScene(a.session.Root(), renderer.Frame{
			ViewProjection: a.camera.ViewProjection(a.renderer.Aspect()),
			Eye:            a.camera.Position(),
			Highlight: func(n *scene.Node) bool {
				if hovered == "" {
					return false
				}
				name, ok := a.session.Parts().PartOf(n)
				return ok && name == hovered
			},
		})
	}
	a.renderer.End()
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		a.renderer.Resize(a.window.DrawableSize())

	case input.EventKeyDown:
		a.handleKey(ev)

	case input.EventMouseDown:
		if ev.Button == 1 {
			a.dragging = true
		}

	case input.EventMouseUp:
		if ev.Button == 1 {
			a.dragging = false
		}

	case input.EventMouseMove:
		if a.dragging {
			a.camera.HandleDrag(float32(ev.RelX), float32(ev.RelY))
			return
		}
		a.hover(ev.MouseX, ev.MouseY)

	case input.EventMouseLeave:
		a.dispatch(viewer.Hover{})

	case input.EventMouseWheel:
		if a.input.Mod()&sdl.KMOD_CTRL != 0 {
			a.camera.HandleZoom(ev.WheelY)
			return
		}
		a.dispatch(wheelCommand(ev.WheelY))

	case input.EventFileDrop:
		a.queue(a.pendingOpen, ev.Path)
	}
}

func (a *App) handleKey(ev input.Event) {
	if a.session != nil {
		if cmd, ok := keyCommand(ev.Key, ev.Mod, a.session.Clips()); ok {
			a.dispatch(cmd)
			return
		}
	}

	switch keyAction(ev.Key, ev.Mod) {
	case actionQuit:
		a.running = false
	case actionOpen:
		a.openDialog()
	case actionExport:
		a.exportDialog()
	case actionScreenshot:
		a.screenshot()
	case actionFullscreen:
		a.window.ToggleFullscreen()
		a.renderer.Resize(a.window.DrawableSize())
	case actionNextPreset:
		if a.session != nil {
			a.preset = nextPreset(a.session.Parts().Presets(), a.preset)
			a.dispatch(viewer.ApplyPreset{Name: a.preset})
		}
	case actionSavePreset:
		a.savePreset()
	case actionListParts:
		if a.session != nil {
			a.session.Parts().Debug()
			a.log.Info("parts", zap.Strings("available", a.session.PartList()), zap.Any("colors", a.session.CurrentColors()))
		}
	}
}

// dispatch sends a command to the session and logs failures.
func (a *App) dispatch(cmd viewer.Command) {
	if a.session == nil {
		return
	}
	res := a.session.Dispatch(cmd)
	if res.Err != nil {
		a.log.Warn("command failed", zap.String("command", fmt.Sprintf("%T", cmd)), zap.Error(res.Err))
	}
	if _, ok := cmd.(viewer.Hover); ok {
		a.updateTitle()
	}
}

// hover picks the part under the window coordinates.
func (a *App) hover(x, y int) {
	if a.session == nil {
		return
	}
	w, h := a.window.GetSize()
	inv := a.camera.ViewProjection(float32(w) / float32(max(h, 1))).Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)

	part, _ := a.session.PickPart(ray)
	if part != a.session.Hovered() {
		a.dispatch(viewer.Hover{Part: part})
	}
}

// savePreset stores the current part colors as the custom preset and
// writes the config.
func (a *App) savePreset() {
	if a.session == nil {
		return
	}
	reg := a.session.Parts()
	a.cfg.SetPreset(customPreset, reg.ColorPreset())
	reg.SetPresets(a.cfg.Parts.Presets)
	if err := a.cfg.Save(); err != nil {
		a.log.Warn("preset not saved", zap.Error(err))
		return
	}
	a.log.Info("saved preset", zap.String("preset", customPreset))
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	if _, err := a.capture.FromPixels(pixels, w, h); err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
	}
}

func (a *App) updateTitle() {
	a.window.SetTitle(title(a.cfg.Window.Title, a.modelPath(), a.sessionHovered()))
}

func (a *App) modelPath() string {
	if a.session == nil {
		return ""
	}
	return a.session.Asset().Path
}

func (a *App) sessionHovered() string {
	if a.session == nil {
		return ""
	}
	return a.session.Hovered()
}

// title formats the window title from the model file and hovered part.
func title(base, modelPath, hovered string) string {
	t := base
	if modelPath != "" {
		t += " - " + filepath.Base(modelPath)
	}
	if hovered != "" {
		t += " [" + hovered + "]"
	}
	return t
}

// Close releases the session and every subsystem.
func (a *App) Close() error {
	a.log.Info("closing viewer")

	var err error
	if a.session != nil {
		err = multierr.Append(err, a.session.Dispose())
		a.session = nil
	}
	if a.watcher != nil {
		err = multierr.Append(err, a.watcher.Close())
	}
	if a.audio != nil {
		err = multierr.Append(err, a.audio.Close())
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		err = multierr.Append(err, a.window.Close())
	}
	return err
}
