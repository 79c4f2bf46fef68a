package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/internal/viewer"
)

// Load replaces the current session with one for the model at path. On
// failure the current session is kept.
func (a *App) Load(path string) error {
	s, err := viewer.Open(path, a.cfg, a.progress)
	if err != nil {
		a.updateTitle()
		return fmt.Errorf("open %s: %w", path, err)
	}

	old := a.session
	if old != nil {
		if err := old.Dispose(); err != nil {
			a.log.Warn("dispose previous model", zap.Error(err))
		}
		a.renderer.Release()
		a.unwatch(old.Asset().Path)
	}

	a.session = s
	if a.audio != nil {
		s.SetSounds(a.audio)
	}
	a.preset = ""
	if !a.camera.FitToBounds(scene.Bounds(s.Root())) {
		a.log.Warn("model has no visible geometry", zap.String("path", path))
	}
	a.watch(path)
	a.updateTitle()
	return nil
}

// reload loads the current model again after it changed on disk.
func (a *App) reload(path string) {
	if a.session == nil || !samePath(a.session.Asset().Path, path) {
		return
	}
	a.log.Info("model changed, reloading", zap.String("path", path))
	if err := a.Load(a.session.Asset().Path); err != nil {
		a.log.Warn("reload failed", zap.Error(err))
	}
}

func (a *App) watch(path string) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Watch(path); err != nil {
		a.log.Warn("cannot watch model", zap.String("path", path), zap.Error(err))
	}
}

func (a *App) unwatch(path string) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Unwatch(path); err != nil {
		a.log.Debug("unwatch model", zap.String("path", path), zap.Error(err))
	}
}

// queue hands a path to the main thread, dropping it if one is waiting.
func (a *App) queue(ch chan string, path string) {
	select {
	case ch <- path:
	default:
		a.log.Debug("request already pending", zap.String("path", path))
	}
}

// drainPending applies dialog results, drops and file changes. Runs on the
// main thread.
func (a *App) drainPending() {
	for {
		select {
		case path := <-a.pendingOpen:
			if err := a.Load(path); err != nil {
				a.log.Warn("open failed", zap.Error(err))
			}
		case path := <-a.pendingExport:
			a.export(path)
		case path := <-a.changes():
			a.reload(path)
		default:
			return
		}
	}
}

// changes returns the watcher channel, or nil which never delivers.
func (a *App) changes() <-chan string {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Changes()
}

// openDialog asks for a model file without blocking the loop.
func (a *App) openDialog() {
	go func() {
		path, err := dialog.File().
			Filter("glTF Models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		a.queue(a.pendingOpen, path)
	}()
}

// exportDialog asks where to save the recolored model.
func (a *App) exportDialog() {
	if a.session == nil {
		return
	}
	dir := filepath.Dir(a.session.Asset().Path)
	go func() {
		path, err := dialog.File().
			Filter("GLB", "glb").
			Title("Export Model").
			SetStartDir(dir).
			Save()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		a.queue(a.pendingExport, path)
	}()
}

func (a *App) export(path string) {
	if a.session == nil {
		return
	}
	path = withGLB(path)
	if err := a.session.Export(path); err != nil {
		a.log.Warn("export failed", zap.String("path", path), zap.Error(err))
	}
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	pa, errA := filepath.Abs(a)
	pb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && pa == pb
}

// withGLB appends .glb unless the path already ends in it.
func withGLB(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return path
	}
	return path + ".glb"
}
