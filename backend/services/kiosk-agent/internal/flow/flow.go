package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"batteryswap/backend/services/kiosk-agent/internal/journal"
	"batteryswap/backend/services/kiosk-agent/internal/realtime"
	"batteryswap/backend/services/kiosk-agent/internal/swap"
)

// ErrAlreadyStarted is returned when Start is called twice without Close.
var ErrAlreadyStarted = errors.New("flow: already started")

// View is the screen the kiosk shows.
type View string

const (
	ViewHome View = "home"
	ViewSwap View = "swap"
)

// Journal stores an audit row per handled event.
type Journal interface {
	Append(ctx context.Context, entry journal.Entry) error
}

// Recorder receives flow metrics.
type Recorder interface {
	EventReceived(event string)
	EventIgnored(event, reason string)
	Transition(from, to swap.Step)
	AlertRaised(kind swap.AlertKind)
	SetConnected(connected bool)
}

// Snapshot is a consistent copy of what the kiosk screen should render.
type Snapshot struct {
	View         View              `json:"view"`
	Step         swap.Step         `json:"step"`
	Instructions swap.Instructions `json:"instructions"`
	Session      *swap.Session     `json:"session,omitempty"`
	Alert        *swap.Alert       `json:"alert,omitempty"`
	Connected    bool              `json:"connected"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Flow drives one kiosk through the swap steps. Channel events and operator
// actions both go through apply under mu, so readers always see a state that
// some sequence of events produced.
type Flow struct {
	channel   realtime.Channel
	journal   *journalWriter
	recorder  Recorder
	logger    *zap.Logger
	stationID string
	now       func() time.Time

	mu        sync.Mutex
	state     swap.State
	view      View
	alert     *swap.Alert
	connected bool
	updatedAt time.Time
	unbind    func()
}

// Option tunes a Flow.
type Option func(*options)

type options struct {
	journalQueue   int
	journalTimeout time.Duration
}

// WithJournalQueue bounds the number of entries waiting to be written.
func WithJournalQueue(size int) Option {
	return func(o *options) { o.journalQueue = size }
}

// WithJournalTimeout bounds each journal append.
func WithJournalTimeout(d time.Duration) Option {
	return func(o *options) { o.journalTimeout = d }
}

// New builds a flow over channel. journal and recorder may be nil. Journal
// writes happen on a separate goroutine until Close.
func New(channel realtime.Channel, j Journal, recorder Recorder, stationID string, logger *zap.Logger, opts ...Option) (*Flow, error) {
	if channel == nil {
		return nil, errors.New("flow: channel is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if j == nil {
		j = journal.Noop{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	f := &Flow{
		channel:   channel,
		journal:   newJournalWriter(j, logger, o.journalQueue, o.journalTimeout),
		recorder:  recorder,
		logger:    logger,
		stationID: stationID,
		now:       func() time.Time { return time.Now().UTC() },
		view:      ViewHome,
	}
	f.updatedAt = f.now()
	return f, nil
}

// Start binds the event handlers on the channel.
func (f *Flow) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unbind != nil {
		return ErrAlreadyStarted
	}
	f.unbind = f.channel.Bind(f.handlers())
	return nil
}

func (f *Flow) handlers() realtime.Handlers {
	return realtime.Handlers{
		realtime.EventConnect:    func(context.Context, json.RawMessage) { f.setConnected(true) },
		realtime.EventDisconnect: func(context.Context, json.RawMessage) { f.setConnected(false) },
		EventAuthResponse:        f.handle(EventAuthResponse, decodeAuth),
		EventSwapInitiated:       f.handle(EventSwapInitiated, decodeSwapInitiated),
		EventSwapResult:          f.handle(EventSwapResult, decodeSwapResult),
		EventSwapRefused:         f.handle(EventSwapRefused, decodeSwapRefused),
	}
}

func (f *Flow) handle(name string, decode func(json.RawMessage) (swap.Event, error)) realtime.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) {
		f.recorder.EventReceived(name)
		ev, err := decode(payload)
		if err != nil {
			f.logger.Warn("dropping malformed event", zap.String("event", name), zap.Error(err))
			f.recorder.EventIgnored(name, reasonLabel(err))
			f.record(journal.Entry{
				Event:   name,
				Outcome: journal.OutcomeIgnored,
				Detail:  err.Error(),
				Payload: payload,
			})
			return
		}
		f.apply(ctx, name, ev, payload, true)
	}
}

// Confirm acknowledges the new battery on step 4.
func (f *Flow) Confirm(ctx context.Context) error {
	return f.apply(ctx, "operator_confirm", swap.Confirmed{}, nil, false)
}

// Back discards the session and returns to the home view.
func (f *Flow) Back(ctx context.Context) {
	_ = f.apply(ctx, "operator_back", swap.Cancelled{}, nil, false)
}

// Enter switches to the swap view without touching the session.
func (f *Flow) Enter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = ViewSwap
	f.updatedAt = f.now()
}

// DismissAlert clears the pending alert, if any.
func (f *Flow) DismissAlert() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alert = nil
	f.updatedAt = f.now()
}

func (f *Flow) apply(ctx context.Context, name string, ev swap.Event, payload json.RawMessage, fromChannel bool) error {
	f.mu.Lock()
	prev := f.state
	next, out := swap.Apply(prev, ev)
	f.state = next
	if fromChannel {
		f.view = ViewSwap
	}
	if out.Alert != nil {
		alert := *out.Alert
		f.alert = &alert
	}
	if out.ExitFlow {
		f.view = ViewHome
		f.alert = nil
	}
	f.updatedAt = f.now()
	from, to := prev.Step(), next.Step()
	session, _ := next.Session()
	if session.ID == "" {
		if old, ok := prev.Session(); ok {
			session.ID = old.ID
		}
	}
	f.mu.Unlock()

	entry := journal.Entry{
		Event:     name,
		SessionID: session.ID,
		FromStep:  int(from),
		ToStep:    int(to),
		Outcome:   journal.OutcomeApplied,
		Payload:   payload,
	}

	switch {
	case out.Ignored != nil:
		f.logger.Warn("event ignored",
			zap.String("event", name),
			zap.Int("step", int(from)),
			zap.Error(out.Ignored))
		f.recorder.EventIgnored(name, reasonLabel(out.Ignored))
		entry.Outcome = journal.OutcomeIgnored
		entry.Detail = out.Ignored.Error()
	case out.Alert != nil:
		f.logger.Info("alert raised",
			zap.String("event", name),
			zap.String("kind", string(out.Alert.Kind)),
			zap.String("message", out.Alert.Message))
		f.recorder.AlertRaised(out.Alert.Kind)
		entry.Outcome = journal.OutcomeAlert
		entry.Detail = out.Alert.Message
	}
	if from != to {
		f.logger.Info("step changed",
			zap.String("event", name),
			zap.String("session_id", session.ID),
			zap.Int("from", int(from)),
			zap.Int("to", int(to)))
		f.recorder.Transition(from, to)
	}

	f.record(entry)
	return out.Ignored
}

func (f *Flow) record(entry journal.Entry) {
	entry.StationID = f.stationID
	f.journal.enqueue(entry)
}

func (f *Flow) setConnected(connected bool) {
	f.mu.Lock()
	f.connected = connected
	f.updatedAt = f.now()
	f.mu.Unlock()

	f.recorder.SetConnected(connected)
	if connected {
		f.logger.Info("real-time channel connected")
	} else {
		f.logger.Warn("real-time channel disconnected")
	}
}

// Snapshot returns what the kiosk screen should render now.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	step := f.state.Step()
	snap := Snapshot{
		View:         f.view,
		Step:         step,
		Instructions: swap.InstructionsFor(step),
		Connected:    f.connected,
		UpdatedAt:    f.updatedAt,
	}
	if session, ok := f.state.Session(); ok {
		snap.Session = &session
	}
	if f.alert != nil {
		alert := *f.alert
		snap.Alert = &alert
	}
	return snap
}

// Close unbinds every handler, flushes pending journal entries and closes the channel.
func (f *Flow) Close() error {
	f.mu.Lock()
	unbind := f.unbind
	f.unbind = nil
	f.mu.Unlock()

	if unbind != nil {
		unbind()
	}
	f.journal.close()
	if err := f.channel.Close(); err != nil {
		return fmt.Errorf("flow: close channel: %w", err)
	}
	return nil
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, swap.ErrNoSession):
		return "no_session"
	case errors.Is(err, swap.ErrMissingSessionID):
		return "missing_session_id"
	case errors.Is(err, swap.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, swap.ErrMalformedEvent):
		return "malformed"
	default:
		return "other"
	}
}

type nopRecorder struct{}

func (nopRecorder) EventReceived(string)            {}
func (nopRecorder) EventIgnored(string, string)     {}
func (nopRecorder) Transition(swap.Step, swap.Step) {}
func (nopRecorder) AlertRaised(swap.AlertKind)      {}
func (nopRecorder) SetConnected(bool)               {}
