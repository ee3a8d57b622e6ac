package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the catalog when its file in a local asset directory
// changes. Bursts of events within the debounce window cause one reload.
type Watcher struct {
	dir      string
	target   string
	reload   func()
	debounce time.Duration
}

func NewWatcher(dir, name string, reload func()) *Watcher {
	return &Watcher{
		dir:      dir,
		target:   filepath.Clean(filepath.Join(dir, filepath.FromSlash(name))),
		reload:   reload,
		debounce: defaultDebounce,
	}
}

// Run watches until ctx is done. The directory is watched rather than the
// file because saves replace the file by rename.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	log.Info().Str("file", w.target).Msg("[catalog] watching for changes")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.target || !event.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Info().Str("file", w.target).Msg("[catalog] file changed, reloading")
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("[catalog] watcher error")
		}
	}
}
