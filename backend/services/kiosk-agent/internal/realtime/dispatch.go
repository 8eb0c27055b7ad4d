package realtime

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Lifecycle events raised by every channel next to server-pushed ones.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
)

// HandlerFunc receives the raw JSON payload of one event.
type HandlerFunc func(ctx context.Context, payload json.RawMessage)

// Handlers is a dispatch table from event name to handler.
type Handlers map[string]HandlerFunc

// Channel delivers named events to bound handlers until closed.
type Channel interface {
	// Bind registers all handlers at once; the returned func removes exactly
	// that set and is safe to call more than once.
	Bind(handlers Handlers) (unbind func())
	// Run connects and delivers events until ctx ends or Close is called.
	Run(ctx context.Context) error
	Close() error
}

// Dispatcher holds the bound handler tables of a channel.
type Dispatcher struct {
	mu       sync.RWMutex
	nextID   uint64
	bindings map[uint64]Handlers
	logger   *zap.Logger
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		bindings: make(map[uint64]Handlers),
		logger:   logger,
	}
}

// Bind attaches the table and returns its scoped unbind.
func (d *Dispatcher) Bind(handlers Handlers) func() {
	table := make(Handlers, len(handlers))
	for name, h := range handlers {
		if h != nil {
			table[name] = h
		}
	}

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.bindings[id] = table
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.bindings, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch invokes every handler bound to event, in bind order, and returns how many ran.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, payload json.RawMessage) int {
	d.mu.RLock()
	ids := make([]uint64, 0, len(d.bindings))
	for id, table := range d.bindings {
		if _, ok := table[event]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	targets := make([]HandlerFunc, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, d.bindings[id][event])
	}
	d.mu.RUnlock()

	if len(targets) == 0 {
		d.logger.Debug("no handler bound for event", zap.String("event", event))
		return 0
	}
	for _, h := range targets {
		h(ctx, payload)
	}
	return len(targets)
}

// Bound reports how many handler tables are attached.
func (d *Dispatcher) Bound() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.bindings)
}
