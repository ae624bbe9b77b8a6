package db

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the dataset whenever its source file changes, until ctx is
// cancelled. Only local file sources can be watched.
//
// The parent directory is watched rather than the file, so a save that
// writes a temp file and renames it over the source is seen as a Create on
// the source name and the watch keeps working afterwards.
func (d *Dataset) Watch(ctx context.Context) error {
	if !IsLocalFile(d.location) {
		return fmt.Errorf("watch %s: only local files can be watched", d.location)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(d.location)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	slog.Info("dataset: watching source directory", "path", target, "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Remove) {
				slog.Warn("dataset: source removed, keeping current records until it reappears",
					"path", target)
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := d.Reload(ctx); err != nil {
				slog.Error("dataset: reload failed, keeping previous records",
					"path", target, "op", event.Op.String(), "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("dataset: watcher error", "err", err)
		}
	}
}
