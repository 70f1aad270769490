package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of package-manager writes into one re-scan.
const debounce = 500 * time.Millisecond

// Watch re-scans the catalogue whenever an entry is added, removed or
// renamed in a watched directory. Blocks until ctx is cancelled.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := 0
	for _, dir := range c.Dirs() {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			c.logger.Warn("catalog: failed to watch dir", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	c.logger.Info("catalog watcher started", "dirs", watched)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			if err := c.Scan(); err != nil {
				c.logger.Error("catalog: rescan failed", "error", err)
				continue
			}
			c.logger.Info("catalog rescanned", "entries", len(c.Entries()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("catalog: watcher error", "error", err)
		}
	}
}
