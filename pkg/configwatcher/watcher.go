package configwatcher

import (
	"bizdiag_backend/pkg/logger"
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = time.Second

// ReloadFunc is called after the watched file settles following a change.
type ReloadFunc func() error

// Watch observes the directory of path and calls reload once writes to the
// file have been quiet for debounce. Editors that replace the file (rename +
// create) are handled because the directory is watched, not the inode.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, reload ReloadFunc) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(debounce)
			}
		case <-pending:
			pending = nil
			if err := reload(); err != nil {
				logger.Log.Error("Failed to reload watched file", zap.String("path", absPath), zap.Error(err))
				continue
			}
			logger.Log.Info("Reloaded watched file", zap.String("path", absPath))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("File watcher error", zap.Error(err))
		}
	}
}
