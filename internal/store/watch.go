package store

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when the store file is written or replaced. It watches the
// parent directory, because atomic saves replace the file and a watch on the
// file itself would be lost with the old inode.
type Watcher struct {
	watcher   *fsnotify.Watcher
	target    string
	changes   chan struct{}
	done      chan struct{}
	logger    *slog.Logger
	closeOnce sync.Once
}

// Watch starts watching path. Signals are coalesced: at most one is pending.
func Watch(path string, logger *slog.Logger) (*Watcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(target)); err != nil {
		_ = fsw.Close()

		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w := &Watcher{
		watcher: fsw,
		target:  target,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}

	go w.run()

	return w, nil
}

// Changes delivers a value after the store file changed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	var err error

	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})

	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug("store file event", "op", event.Op.String(), "path", event.Name)

			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Warn("store watcher error", "error", err)
		}
	}
}
