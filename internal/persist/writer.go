package persist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/slides"
)

// saveTimeout bounds a single background write.
const saveTimeout = 10 * time.Second

// Writer saves collection snapshots in the background. Callers hand over a
// snapshot and return immediately; bursts of edits collapse into a write of
// the latest snapshot.
type Writer struct {
	adapter *Adapter
	logger  *zap.Logger

	saveMu  sync.Mutex // orders writes so a newer snapshot is never overwritten
	mu      sync.Mutex
	pending []slides.Slide
	dirty   bool
	closed  bool

	wake     chan struct{}
	flushReq chan chan struct{}
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWriter starts the background writer for adapter.
func NewWriter(adapter *Adapter, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		adapter:  adapter,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Schedule records snapshot as the next state to write. It never blocks on
// storage. It has the slides.ChangeFunc signature so it can be registered
// directly as a store observer.
func (w *Writer) Schedule(snapshot []slides.Slide) {
	w.mu.Lock()
	w.pending = snapshot
	w.dirty = true
	closed := w.closed
	w.mu.Unlock()

	if closed {
		w.writePending()
		return
	}
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every snapshot scheduled before the call is written.
func (w *Writer) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flushReq <- ack:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending snapshot and stops the background goroutine.
func (w *Writer) Close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.quit)
		<-w.done
	})
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.writePending()
		case ack := <-w.flushReq:
			w.writePending()
			close(ack)
		case <-w.quit:
			w.writePending()
			return
		}
	}
}

func (w *Writer) writePending() {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return
	}
	snapshot := w.pending
	w.dirty = false
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.adapter.Save(ctx, snapshot); err != nil {
		w.logger.Error("persisting slides failed", zap.Error(err))
		return
	}
	w.logger.Debug("persisted slides", zap.Int("count", len(snapshot)))
}
