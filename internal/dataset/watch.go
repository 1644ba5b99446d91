package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	appLog "calview/internal/log"
)

// ErrNothingToWatch is returned by Watch when no source is a local file.
var ErrNothingToWatch = errors.New("dataset: no local sources to watch")

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the store whenever a local source file changes and sends
// the new version on the returned channel. Parent directories are watched
// rather than the files so atomic saves (write temp + rename) are seen.
// The channel is closed once ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan uint64, error) {
	targets := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, src := range s.sources {
		if src.Path == "" {
			continue
		}
		abs, err := filepath.Abs(src.Path)
		if err != nil {
			return nil, fmt.Errorf("dataset: resolve %s: %w", src.Path, err)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(targets) == 0 {
		return nil, ErrNothingToWatch
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dataset: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				appLog.Error("dataset: watcher close", err)
			}
		})
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("dataset: watch %s: %w", dir, err)
		}
	}

	versions := make(chan uint64, 1)

	go func() {
		defer close(versions)
		defer closeWatcher()

		send := func(v uint64) {
			select {
			case versions <- v:
			default:
				// Consumer is behind; it will read Version() on its next look.
			}
		}

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				appLog.Error("dataset: watcher error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if _, hit := targets[filepath.Clean(evt.Name)]; !hit {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
					!evt.Has(fsnotify.Rename) && !evt.Has(fsnotify.Remove) {
					continue
				}
				appLog.Debug("dataset: change detected", "path", evt.Name, "op", evt.Op.String())
				pending = time.After(watchDebounce)
			case <-pending:
				pending = nil
				if err := s.Reload(ctx); err != nil {
					appLog.Error("dataset: reload after change", err)
				}
				send(s.Version())
			}
		}
	}()

	return versions, nil
}

// Schedule reloads the store on a standard five-field cron spec evaluated
// in the store's timezone. The scheduler stops when ctx is done.
func (s *Store) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(spec, func() {
		if err := s.Reload(ctx); err != nil {
			appLog.Error("dataset: scheduled reload", err, "spec", spec)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: refresh schedule %q: %w", spec, err)
	}
	c.Start()
	appLog.Info("dataset: refresh scheduled", "spec", spec)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
