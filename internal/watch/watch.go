// Package watch re-resolves files when they change on disk. Events are
// debounced with a single timer so an editor's burst of writes produces
// one sweep, and re-resolution runs on a fixed worker pool.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault is the default debounce interval for file events.
const debounceDefault = 200 * time.Millisecond

// maxConcurrentSweeps limits how many files re-resolve simultaneously.
const maxConcurrentSweeps = 5

// maxQueueSize is the buffer size for the work queue channel. Larger
// than the worker pool so a burst never blocks the debounce flush.
const maxQueueSize = 200

// Watcher re-runs the handler for watched files after changes settle.
type Watcher struct {
	paths    []string
	handler  func(path string)
	debounce time.Duration
}

// New creates a watcher over the given file paths.
func New(paths []string, handler func(path string)) *Watcher {
	return &Watcher{
		paths:    paths,
		handler:  handler,
		debounce: debounceDefault,
	}
}

// Run watches the files and dispatches debounced change events.
// Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch containing directories, not the files themselves: editors
	// that save via rename-over replace the inode, and a file-level
	// watch would go quiet after the first save. Directory events are
	// filtered back down to the requested names.
	watched := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("cannot watch %s: %w", p, err)
		}
		clean := filepath.Clean(p)
		watched[clean] = true
		dirs[filepath.Dir(clean)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	// ready collects paths that changed since the last flush. A single
	// timer resets on each event; when it fires, all accumulated paths
	// flush to the work queue. No per-event goroutines.
	var mu sync.Mutex
	ready := make(map[string]bool)

	queue := make(chan string, maxQueueSize)

	var wg sync.WaitGroup
	for i := 0; i < maxConcurrentSweeps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				func() {
					defer func() {
						if r := recover(); r != nil {
							_ = r
						}
					}()
					w.handler(path)
				}()
			}
		}()
	}

	flush := func() {
		mu.Lock()
		batch := make([]string, 0, len(ready))
		for p := range ready {
			batch = append(batch, p)
		}
		ready = make(map[string]bool)
		mu.Unlock()

		for _, p := range batch {
			select {
			case queue <- p:
			case <-ctx.Done():
				return
			}
		}
	}

	// Single debounce timer, initialized stopped; the first event
	// starts it.
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()

	defer func() {
		debounceTimer.Stop()
		flush()
		close(queue)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			flush()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Create covers rename-over saves: the replacement file
			// appears under the watched name.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !watched[name] {
				continue
			}

			mu.Lock()
			ready[name] = true
			mu.Unlock()

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_ = err
		}
	}
}
