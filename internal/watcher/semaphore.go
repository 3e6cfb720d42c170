package watcher

import "context"

// semaphore is a counting semaphore bounding concurrent handlers
type semaphore chan struct{}

func newSemaphore(capacity int) semaphore {
	return make(semaphore, capacity)
}

// acquire blocks until a slot is free or ctx is done
func (s semaphore) acquire(ctx context.Context) error {
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s semaphore) release() {
	<-s
}
