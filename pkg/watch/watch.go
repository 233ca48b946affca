// Package watch emits debounced change notifications for a fixed set of
// files. Conversion inputs (script CSV, voice CSV, profile YAML) tend to be
// saved in bursts by editors and spreadsheet exports; the watcher coalesces
// each burst into one notification so a rebuild loop runs once per save, not
// once per write syscall.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required after the last write before a
// notification fires.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a set of file paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	paths    map[string]bool // cleaned absolute paths
	debounce time.Duration
	events   chan struct{}
	errors   chan error
	cancel   context.CancelFunc
}

// New starts watching the given files. Parent directories are registered
// with the OS watcher, since editors often replace files by rename and the
// new inode would otherwise be lost; events are then filtered back down to
// the requested paths. Close (or canceling ctx) stops the watcher and closes
// the Events channel.
func New(ctx context.Context, debounce time.Duration, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no paths given")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		paths:    make(map[string]bool, len(paths)),
		debounce: debounce,
		events:   make(chan struct{}, 1),
		errors:   make(chan error, 1),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.paths[filepath.Clean(abs)] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
	return w, nil
}

// Events delivers one notification per debounced burst of changes. The
// channel is closed when the watcher stops.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Errors delivers watcher failures. A failure does not stop the watcher.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.events <- struct{}{}:
			default: // a notification is already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.paths[filepath.Clean(ev.Name)]
}
