package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/skanderbz/tutord/internal/logging"
)

const debounceInterval = 500 * time.Millisecond

// Watcher observes the data dir and fires a callback after filesystem
// activity settles. Events are coalesced: a burst of writes triggers one
// callback, not one per event.
type Watcher struct {
	dataDir string
	fs      *fsnotify.Watcher
	log     *logging.Logger

	mu      sync.Mutex
	pending bool

	wg   sync.WaitGroup
	stop chan struct{}
}

// NewWatcher creates a watcher over dataDir and all its subdirectories.
func NewWatcher(dataDir string, log *logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		dataDir: dataDir,
		fs:      fs,
		log:     log,
		stop:    make(chan struct{}),
	}
	if err := w.addDirs(dataDir); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if isIgnoredDir(d.Name()) && path != root {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Warn().Str("dir", path).Err(err).Msg("failed to watch directory")
		}
		return nil
	})
}

// Start runs the event loop until ctx is cancelled or Stop is called.
// onSettle fires at most once per debounce window.
func (w *Watcher) Start(ctx context.Context, onSettle func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(debounceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case event, ok := <-w.fs.Events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.log.Warn().Err(err).Msg("watcher error")
			case <-ticker.C:
				w.mu.Lock()
				fire := w.pending
				w.pending = false
				w.mu.Unlock()
				if fire {
					onSettle()
				}
			}
		}
	}()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if isIgnoredDir(name) || strings.HasPrefix(name, ".") {
		return
	}

	// New subdirectories need their own watch to catch files created
	// inside them later.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fs.Add(event.Name); err != nil {
				w.log.Warn().Str("dir", event.Name).Err(err).Msg("failed to watch new directory")
			}
			w.markPending()
			return
		}
	}

	if !IsIngestable(event.Name) {
		// Removes and renames carry no file type info, so a vanished
		// path always counts.
		if !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
			return
		}
	}
	w.markPending()
}

func (w *Watcher) markPending() {
	w.mu.Lock()
	w.pending = true
	w.mu.Unlock()
}

// Stop halts the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.fs.Close()
	w.wg.Wait()
}
