package focustimer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const writeTimeout = 5 * time.Second

// snapshotWriter persists blobs in the background. Only the latest pending
// blob is kept, so a slow store sees the newest state and never a backlog.
type snapshotWriter struct {
	store   Store
	key     string
	onError func(error)

	mu      sync.Mutex
	pending []byte
	wakeCh  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newSnapshotWriter(store Store, key string, onError func(error)) *snapshotWriter {
	writer := &snapshotWriter{
		store:   store,
		key:     key,
		onError: onError,
		wakeCh:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go writer.run()
	return writer
}

// submit queues data without waiting for the store.
func (writer *snapshotWriter) submit(data []byte) {
	writer.mu.Lock()
	writer.pending = data
	writer.mu.Unlock()

	select {
	case writer.wakeCh <- struct{}{}:
	default:
	}
}

// close flushes the pending blob and stops the writer.
func (writer *snapshotWriter) close() {
	close(writer.stopCh)
	<-writer.doneCh
}

func (writer *snapshotWriter) run() {
	defer close(writer.doneCh)
	for {
		select {
		case <-writer.wakeCh:
			writer.flush()
		case <-writer.stopCh:
			writer.flush()
			return
		}
	}
}

func (writer *snapshotWriter) flush() {
	writer.mu.Lock()
	data := writer.pending
	writer.pending = nil
	writer.mu.Unlock()
	if data == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := writer.store.Set(ctx, map[string][]byte{writer.key: data}); err != nil {
		writer.onError(fmt.Errorf("persist snapshot: %w", err))
	}
}
