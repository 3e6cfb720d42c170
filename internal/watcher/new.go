package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/podcast-digest/internal/logger"
)

// New creates a new Watcher over inputDir. maxConcurrent bounds how many
// handlers run at once and defaults to 1.
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log.With("watcher"),
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     newSemaphore(maxConcurrent),
		settleDelay:   500 * time.Millisecond,
		seen:          make(map[string]struct{}),
	}, nil
}
