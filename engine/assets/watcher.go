package assets

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hubastard/glyphquad/engine/core"
	"github.com/pkg/errors"
)

// Watcher reports when a single file is written or re-created. It watches
// the parent directory so editors that save by rename are still seen.
// Bursts of events collapse into one pending notification.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	changes  chan string
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "watch %q", path)
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "new fsnotify watcher")
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, errors.Wrapf(err, "watch %q", filepath.Dir(abs))
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		changes:  make(chan string, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Changes yields the watched path after each modification.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Errors yields watcher failures. Errors are dropped while one is pending.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) start() {
	defer w.wg.Done()
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
			core.LogDebug("watched file changed: %s (%s)", w.path, e.Op)
			select {
			case w.changes <- w.path:
			default:
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("watch %s: %v", w.path, err)
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}
