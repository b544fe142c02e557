package assets

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Park52/webgl-lab/common"
	"github.com/fsnotify/fsnotify"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(path string)

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Watcher reports changes to a single file. Editors often replace a file through a
// rename, so the parent directory is watched and events are filtered by name.
type Watcher interface {
	// Path returns the cleaned path being watched.
	Path() string

	// Close stops watching and waits for any pending callback to finish.
	//
	// Returns:
	//   - error: the error from closing the underlying watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching path and calls onChange after writes settle for the debounce
// interval. onChange runs on the watcher goroutine; it must not call Close.
//
// Parameters:
//   - path: the file to watch
//   - onChange: invoked with the path after each settled change
//   - options: variadic list of WatcherBuilderOption functions to configure the watcher
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the underlying watcher cannot be created
func NewWatcher(path string, onChange func(path string), options ...WatcherBuilderOption) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("assets: create watcher: %w", err)
	}

	w := &watcher{
		fs:       fw,
		path:     filepath.Clean(path),
		debounce: 100 * time.Millisecond,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("assets: watch %q: %w", w.path, err)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) Path() string {
	return w.path
}

func (w *watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("assets: watcher error", "path", w.path, "err", err)
		case <-timer.C:
			common.Logger().Debug("assets: file changed", "path", w.path)
			if w.onChange != nil {
				w.onChange(w.path)
			}
		}
	}
}

func (w *watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
