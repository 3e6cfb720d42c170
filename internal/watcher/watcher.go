package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
)

// SourceExt is the extension of files holding a source URL.
const SourceExt = ".url"

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     semaphore
	settleDelay   time.Duration
	wg            sync.WaitGroup

	mu   sync.Mutex
	seen map[string]struct{}
}

// Start handles source files already in the input directory, then every new
// one until ctx is cancelled
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)

	existing, err := w.pending()
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}
	for _, path := range existing {
		if err := w.dispatch(ctx, path); err != nil {
			return w.drain(ctx, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return w.drain(ctx, ctx.Err())

		case event, ok := <-w.watcher.Events:
			if !ok {
				return w.drain(ctx, fmt.Errorf("watcher events channel closed"))
			}

			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isSourceFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New source file detected: %s", event.Name)

			// Small delay to ensure file is fully written. A file dropped
			// during shutdown is picked up by the next start's scan.
			select {
			case <-time.After(w.settleDelay):
			case <-ctx.Done():
				return w.drain(ctx, ctx.Err())
			}

			if err := w.dispatch(ctx, event.Name); err != nil {
				return w.drain(ctx, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.drain(ctx, fmt.Errorf("watcher errors channel closed"))
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// dispatch runs the handler for path on its own goroutine once a semaphore
// slot is free. Each path is handled at most once per watcher.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if _, dup := w.seen[path]; dup {
		w.mu.Unlock()
		return nil
	}
	w.seen[path] = struct{}{}
	w.mu.Unlock()

	if err := w.semaphore.acquire(ctx); err != nil {
		return err
	}

	w.wg.Add(1)
	go func(filePath string) {
		defer w.wg.Done()
		defer w.semaphore.release()

		if err := w.handler(ctx, filePath); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
		}
	}(path)
	return nil
}

func (w *implWatcher) drain(ctx context.Context, err error) error {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "File watcher stopped")
	return err
}

// pending lists source files present before the watch started
func (w *implWatcher) pending() ([]string, error) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(w.inputDir, e.Name())
		if isSourceFile(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func isSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceExt)
}
