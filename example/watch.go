package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// shaderWatcher signals when one of the shader files changes. It never
// touches GL; the render loop polls Changed between frames.
type shaderWatcher struct {
	watcher *fsnotify.Watcher
	files   []string
	changed chan struct{}
	done    chan struct{}
}

// watchShaders watches the directories of files, since editors often
// replace a file instead of writing it in place.
func watchShaders(files ...string) (*shaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	sw := &shaderWatcher{
		watcher: w,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return nil, err
		}
		sw.files = append(sw.files, abs)

		dir := filepath.Dir(abs)
		if slices.Contains(w.WatchList(), dir) {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go sw.loop()
	return sw, nil
}

func (sw *shaderWatcher) loop() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !slices.Contains(sw.files, filepath.Clean(event.Name)) {
				continue
			}
			slog.Debug("shader changed", "file", event.Name, "op", event.Op.String())
			select {
			case sw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("shader watcher error", "error", err)
		}
	}
}

// Changed reports whether a shader file changed since the last call.
func (sw *shaderWatcher) Changed() bool {
	select {
	case <-sw.changed:
		return true
	default:
		return false
	}
}

func (sw *shaderWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}
