package kv

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/metrics"
)

type writeOp struct {
	id    string
	key   string
	value string
	// barrier, when set, marks a Flush point instead of a write.
	barrier chan struct{}
}

// Writer applies Set calls in the background. Enqueue never reports an
// error: failures are logged and counted. A single goroutine drains the
// queue, so writes to the same key land in the order they were enqueued.
type Writer struct {
	store Store
	log   *logrus.Logger
	ch    chan writeOp

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	stopped chan struct{}
}

// NewWriter starts the background writer. buffer is the queue depth before
// Enqueue starts to block.
func NewWriter(store Store, log *logrus.Logger, buffer int) *Writer {
	if log == nil {
		log = logrus.New()
	}
	if buffer < 1 {
		buffer = 64
	}
	w := &Writer{
		store:   store,
		log:     log,
		ch:      make(chan writeOp, buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules value to be stored under key and returns immediately.
func (w *Writer) Enqueue(key, value string) {
	op := writeOp{id: uuid.New().String(), key: key, value: value}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.log.WithFields(logrus.Fields{"key": key, "write_id": op.id}).Warn("kv write dropped: writer closed")
		metrics.KVWriteErrorsTotal.Inc()
		return
	}
	w.ch <- op
}

// Flush blocks until every write enqueued before the call has been applied,
// or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	barrier := make(chan struct{})

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		select {
		case <-w.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	select {
	case w.ch <- writeOp{barrier: barrier}:
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}
	w.mu.RUnlock()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains queued writes and stops the background goroutine. Writes
// enqueued after Close are dropped.
func (w *Writer) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
	}
	w.mu.Unlock()
	<-w.stopped
}

func (w *Writer) run() {
	defer close(w.stopped)
	for {
		select {
		case op := <-w.ch:
			w.handle(op)
		case <-w.done:
			// Drain remaining writes.
			for {
				select {
				case op := <-w.ch:
					w.handle(op)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) handle(op writeOp) {
	if op.barrier != nil {
		close(op.barrier)
		return
	}
	fields := logrus.Fields{"key": op.key, "write_id": op.id}
	if err := w.store.Set(context.Background(), op.key, op.value); err != nil {
		metrics.KVWriteErrorsTotal.Inc()
		w.log.WithFields(fields).WithError(err).Warn("kv write failed")
		return
	}
	metrics.KVWritesTotal.Inc()
	w.log.WithFields(fields).Debug("kv write applied")
}
