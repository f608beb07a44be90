// Package watcher notifies the UI when the settings file changes on
// disk so edits take effect without a restart.
package watcher

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors typically write-then-rename, producing event bursts.
const debounce = 100 * time.Millisecond

// Watcher wraps fsnotify and sends debounced change events for one file.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	done    chan struct{}
	Changes chan string
	Errors  chan error
}

// New creates a watcher for the given file. The parent directory is
// watched rather than the file itself, so create/rename is seen too.
func New(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		path:    filepath.Clean(path),
		done:    make(chan struct{}),
		Changes: make(chan string, 1),
		Errors:  make(chan error, 1),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.Changes <- w.path:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
