// Package watch keeps the rendered map in sync with the input directory.
//
// A recursive filesystem watcher feeds a debounce window so bursts of file
// activity (sync tools, bulk copies) collapse into a single re-render. On a
// terminal, single-key commands force a re-render or quit, and a status line
// shows the outcome of the last render.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/jindracerny/gpx-plot-on-map/internal/pipeline"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

const defaultDebounce = 500 * time.Millisecond

// renderer abstracts the pipeline so tests can count render calls.
type renderer interface {
	RunSummary() (pipeline.Summary, error)
}

// Config configures watch mode.
type Config struct {
	Pipeline *pipeline.Config
	Debounce time.Duration
	LockFile string // empty disables the single-instance lock
}

// Watcher re-renders the map whenever activity files change.
type Watcher struct {
	config      *Config
	pipeline    renderer
	interactive bool

	renderMu     sync.Mutex // prevent concurrent renders
	renders      int
	lastSummary  pipeline.Summary
	lastDuration time.Duration
	lastErr      error
	lastEvent    string
}

// New creates a Watcher driving the standard pipeline.
func New(config *Config) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}

	return &Watcher{
		config:   config,
		pipeline: pipeline.New(config.Pipeline),
	}
}

// Run renders once, then watches the input directory until ctx is canceled
// or the user quits.
func (w *Watcher) Run(ctx context.Context) error {
	if w.config.LockFile != "" {
		unlock, err := w.acquireLock()
		if err != nil {
			return err
		}
		defer unlock()
	}

	w.interactive = isatty.IsTerminal(os.Stdout.Fd())

	util.LogInfo(fmt.Sprintf("Watching %s for activity file changes", w.config.Pipeline.InputDir))

	// The first render also verifies the input directory exists; without
	// it there is nothing to watch.
	if err := w.render(); err != nil {
		if errors.Is(err, pipeline.ErrInputDirMissing) {
			return err
		}
		util.LogWarn(fmt.Sprintf("Initial render failed: %v", err))
	}

	fw, err := NewFileWatcher(w.config.Pipeline.InputDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.config.Pipeline.InputDir, err)
	}
	defer fw.Close()

	var keys <-chan KeyEvent
	if w.interactive && isatty.IsTerminal(os.Stdin.Fd()) {
		kb, err := NewKeyboardReader()
		if err != nil {
			util.LogWarn(fmt.Sprintf("Keyboard input unavailable: %v", err))
		} else {
			defer kb.Close()
			keys = kb.Events()
		}
	}

	if w.interactive {
		fmt.Printf("Watching %s (mode: %s). Press r to re-render, q to quit.\n",
			w.config.Pipeline.InputDir, w.config.Pipeline.Mode)
		fmt.Print(util.HideCursor)
		defer fmt.Print(util.ShowCursor + "\n")
		w.printStatus()
	}

	return w.loop(ctx, fw.Events(), keys)
}

// acquireLock takes the single-instance lock, failing fast when another
// watch process holds it.
func (w *Watcher) acquireLock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(w.config.LockFile), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(w.config.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire watch lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another watch instance is already running (lock %s)", w.config.LockFile)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			util.LogWarn(fmt.Sprintf("Release watch lock: %v", err))
		}
	}, nil
}

// loop is the main event loop. File events only restart the debounce timer;
// the render happens when the timer fires.
func (w *Watcher) loop(ctx context.Context, events <-chan FileEvent, keys <-chan KeyEvent) error {
	debounce := time.NewTimer(w.config.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	pending := 0

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Watch mode shutting down")
			return nil

		case event, ok := <-events:
			if !ok {
				return errors.New("file watcher stopped unexpectedly")
			}
			util.LogDebug(fmt.Sprintf("File changed: %s (%s)", event.Path, event.Operation))
			w.lastEvent = filepath.Base(event.Path)
			pending++
			debounce.Reset(w.config.Debounce)

		case <-debounce.C:
			util.LogInfo(fmt.Sprintf("%d file change(s), re-rendering", pending))
			pending = 0
			w.rerender()

		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if w.handleKey(key) {
				util.LogInfo("Watch mode exit requested")
				return nil
			}
		}
	}
}

// handleKey reacts to a keypress. Returns true when the user asked to quit.
func (w *Watcher) handleKey(event KeyEvent) bool {
	switch event.Type {
	case KeyChar:
		switch event.Key {
		case 'q', 'Q', 3: // 'q', 'Q', or Ctrl+C
			return true
		case 'r', 'R':
			util.LogInfo("Manual re-render requested")
			w.rerender()
		}
	case KeyEscape:
		return true
	}

	return false
}

func (w *Watcher) render() error {
	w.renderMu.Lock()
	defer w.renderMu.Unlock()

	start := time.Now()
	summary, err := w.pipeline.RunSummary()
	if err == nil {
		w.renders++
		w.lastSummary = summary
		w.lastDuration = time.Since(start)
	}
	w.lastErr = err
	return err
}

func (w *Watcher) rerender() {
	if err := w.render(); err != nil {
		util.LogWarn(fmt.Sprintf("Re-render failed: %v", err))
	}
	w.printStatus()
}

// printStatus redraws the status line in place.
func (w *Watcher) printStatus() {
	if !w.interactive {
		return
	}

	width := 80
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = tw
	}
	if width < 2 {
		width = 2
	}

	dotColor := util.ColorGreen
	text := fmt.Sprintf("Render %d at %s in %s: %d activities, %s points",
		w.renders, util.GetTimeProvider().FormatNow("15:04:05"),
		util.FormatDuration(w.lastDuration),
		w.lastSummary.Activities, util.FormatNumber(w.lastSummary.Points))
	if w.lastSummary.Skipped > 0 {
		dotColor = util.ColorYellow
		text += fmt.Sprintf(", %d skipped", w.lastSummary.Skipped)
	}
	if w.lastEvent != "" {
		text += fmt.Sprintf(", last change %s", w.lastEvent)
	}
	if w.lastErr != nil {
		dotColor = util.ColorRed
		text = fmt.Sprintf("Render failed: %v (press r to retry)", w.lastErr)
	}

	// Color codes stay outside the padded text so width math holds.
	fmt.Printf("\r%s%s●%s %s", util.ClearLine, dotColor, util.ColorReset,
		util.PadToWidth(text, width-2))
}
