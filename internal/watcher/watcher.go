// Package watcher reports changes to model files so the viewer can reload them.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// FileWatcher watches files for changes and reports each settled change once
// on its Changes channel. Directories are watched rather than files so that
// editors that save by renaming are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]bool
	dirs     map[string]int
	debounce time.Duration
	timers   map[string]*time.Timer
	changes  chan string
	done     chan struct{}
	closed   bool
	log      *zap.Logger
}

// New creates a file watcher. Changes to one file closer together than
// debounce are reported once.
func New(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		changes:  make(chan string, 8),
		done:     make(chan struct{}),
		log:      logger.Named("watcher"),
	}
	go fw.run()
	return fw, nil
}

// Changes delivers the absolute path of each changed file. The channel is
// never closed; a full channel drops the change.
func (fw *FileWatcher) Changes() <-chan string {
	return fw.changes
}

// Watch starts watching file.
func (fw *FileWatcher) Watch(file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if fw.dirs[dir] == 0 {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	fw.dirs[dir]++
	fw.files[abs] = true
	fw.log.Debug("watching file", zap.String("path", abs))
	return nil
}

// Unwatch stops watching file.
func (fw *FileWatcher) Unwatch(file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[abs] {
		return nil
	}
	delete(fw.files, abs)
	if t, ok := fw.timers[abs]; ok {
		t.Stop()
		delete(fw.timers, abs)
	}

	dir := filepath.Dir(abs)
	fw.dirs[dir]--
	if fw.dirs[dir] > 0 {
		return nil
	}
	delete(fw.dirs, dir)
	if err := fw.watcher.Remove(dir); err != nil {
		return fmt.Errorf("failed to unwatch %s: %w", dir, err)
	}
	return nil
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// Only trigger on write or create events
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.handleFileChange(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watcher error", zap.Error(err))

		case <-fw.done:
			return
		}
	}
}

// handleFileChange restarts the debounce timer for a watched file.
func (fw *FileWatcher) handleFileChange(path string) {
	path = filepath.Clean(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[path] || fw.closed {
		return
	}
	if t, ok := fw.timers[path]; ok {
		t.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.emit(path)
	})
}

func (fw *FileWatcher) emit(path string) {
	fw.mu.Lock()
	delete(fw.timers, path)
	closed := fw.closed
	fw.mu.Unlock()
	if closed {
		return
	}

	select {
	case fw.changes <- path:
		fw.log.Info("file changed", zap.String("path", path))
	default:
		fw.log.Warn("change dropped, consumer is behind", zap.String("path", path))
	}
}

// Close stops the watcher and any pending timers.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()

	close(fw.done)
	return fw.watcher.Close()
}
