package watch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jindracerny/gpx-plot-on-map/internal/data/scanner"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

// FileEvent describes a change to an activity file under the watched tree.
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher monitors a directory tree and reports changes to activity
// files. Directories created while watching are picked up automatically.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan FileEvent
}

// NewFileWatcher watches root and all of its subdirectories.
func NewFileWatcher(root string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		root:    root,
		events:  make(chan FileEvent, 100),
	}

	if err := fw.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}

	go fw.processEvents()

	return fw, nil
}

// addTree registers root and every directory below it. Unreadable entries
// below the root are skipped; a missing root is an error.
func (fw *FileWatcher) addTree(root string) error {
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}

		if info.IsDir() {
			return fw.watcher.Add(p)
		}

		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// A Chmod alone changes no content.
			if event.Op == fsnotify.Chmod {
				continue
			}

			// New directories must join the watch before files land in them.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addTree(event.Name); err != nil {
						util.LogWarn(fmt.Sprintf("Cannot watch new directory %s: %v", event.Name, err))
					}
					continue
				}
			}

			if _, _, ok := scanner.Classify(event.Name); ok {
				fw.events <- FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the activity file event channel. The channel closes when
// the watcher is closed.
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
