package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it is written.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	path     string
	onLoad   func(*Config)
	done     chan struct{}
	stopped  chan struct{}
}

// Watch starts watching path. onLoad receives each successfully reloaded
// config and runs on the watcher goroutine. Parse failures are logged and the
// previous config stays in effect.
func Watch(path string, onLoad func(*Config)) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Editors often replace the file, so watch its directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watching config dir: %w", err)
	}

	w := &Watcher{
		fsnotify: fsWatch,
		path:     abs,
		onLoad:   onLoad,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.start()
	return w, nil
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				slog.Warn("config reload failed", "path", w.path, "error", err)
				continue
			}
			slog.Info("config reloaded", "path", w.path)
			w.onLoad(cfg)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher", "error", err)

		case <-w.done:
			return
		}
	}
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsnotify.Close()
	<-w.stopped
	return err
}
