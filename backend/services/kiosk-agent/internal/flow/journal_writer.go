package flow

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"batteryswap/backend/services/kiosk-agent/internal/journal"
)

const (
	defaultJournalQueue   = 256
	defaultJournalTimeout = 3 * time.Second
)

// journalWriter appends entries on its own goroutine so a slow journal never
// holds up the channel's read loop. Entries are dropped when the queue is full.
type journalWriter struct {
	journal Journal
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan journal.Entry
	done   chan struct{}
}

func newJournalWriter(j Journal, logger *zap.Logger, size int, timeout time.Duration) *journalWriter {
	if size <= 0 {
		size = defaultJournalQueue
	}
	if timeout <= 0 {
		timeout = defaultJournalTimeout
	}
	w := &journalWriter{
		journal: j,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan journal.Entry, size),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *journalWriter) run() {
	defer close(w.done)
	for entry := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.journal.Append(ctx, entry)
		cancel()
		if err != nil {
			w.logger.Warn("journal append failed", zap.String("event", entry.Event), zap.Error(err))
		}
	}
}

// enqueue never blocks. It reports whether the entry was accepted.
func (w *journalWriter) enqueue(entry journal.Entry) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- entry:
		return true
	default:
		w.logger.Warn("journal queue full, dropping entry",
			zap.String("event", entry.Event),
			zap.String("session_id", entry.SessionID))
		return false
	}
}

// close stops accepting entries and waits for the queued ones to be written.
func (w *journalWriter) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}
