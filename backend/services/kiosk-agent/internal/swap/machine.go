package swap

import (
	"errors"
	"strings"
)

var (
	// ErrNoSession marks a swap event that arrived without an authenticated session.
	ErrNoSession = errors.New("swap: no active session")
	// ErrMissingSessionID marks a successful auth result that carried no session id.
	ErrMissingSessionID = errors.New("swap: auth result without session id")
	// ErrMalformedEvent marks an event missing the fields it needs.
	ErrMalformedEvent = errors.New("swap: malformed event")
	// ErrInvalidTransition marks an operator action not allowed in the current state.
	ErrInvalidTransition = errors.New("swap: invalid transition")
)

// State is the kiosk swap state: idle when no session exists, otherwise the
// session's status. The zero value is idle.
type State struct {
	session *Session
}

// Idle returns the state with no session.
func Idle() State {
	return State{}
}

// Session returns a copy of the current session; ok is false when idle.
func (s State) Session() (Session, bool) {
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// IsIdle reports whether no session exists.
func (s State) IsIdle() bool {
	return s.session == nil
}

// Step derives the screen from the session status.
func (s State) Step() Step {
	if s.session == nil {
		return StepCardScan
	}
	return StepFor(s.session.Status)
}

func (s State) with(next Session) State {
	return State{session: &next}
}

// AlertKind classifies operator-facing alerts.
type AlertKind string

const (
	AlertAuth           AlertKind = "auth"
	AlertSwapError      AlertKind = "swap_error"
	AlertBatteryRefused AlertKind = "battery_refused"
	AlertGeneral        AlertKind = "general"
)

// Alert is a blocking message for the operator.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Outcome describes the side effects of a transition.
type Outcome struct {
	// Alert is set when the operator must be told something.
	Alert *Alert
	// Ignored is set when the event was logged and dropped; the state is unchanged
	// unless noted on the individual transition.
	Ignored error
	// ExitFlow is set when the operator left the swap flow.
	ExitFlow bool
}

// Event is an input to the state machine.
type Event interface {
	eventName() string
}

// AuthResult is the server's verdict on a scanned card.
type AuthResult struct {
	Success   bool
	Message   string
	SessionID string
	User      *User
	RFIDCard  *RFIDCard
	UserID    *int64
}

// ReturnInitiated reports the battery the user slotted back in.
type ReturnInitiated struct {
	Slot      string
	BatteryID string
}

// SwapResult reports the outcome of the battery check and the battery dispensed.
type SwapResult struct {
	Success     bool
	Message     string
	Slot        string
	BatteryID   string
	SOH         *float64
	SOC         *float64
	Temperature *float64
}

// Refused reports that the station rejected the returned battery.
type Refused struct {
	Reason string
}

// Confirmed is the operator acknowledging the new battery on step 4.
type Confirmed struct{}

// Cancelled is the operator pressing back.
type Cancelled struct{}

func (AuthResult) eventName() string      { return "auth_result" }
func (ReturnInitiated) eventName() string { return "return_initiated" }
func (SwapResult) eventName() string      { return "swap_result" }
func (Refused) eventName() string         { return "refused" }
func (Confirmed) eventName() string       { return "confirmed" }
func (Cancelled) eventName() string       { return "cancelled" }

// EventName returns a stable label for ev, used in logs and metrics.
func EventName(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return ev.eventName()
}

// Apply computes the state that follows ev. It never mutates s.
func Apply(s State, ev Event) (State, Outcome) {
	switch e := ev.(type) {
	case AuthResult:
		return applyAuth(s, e)
	case ReturnInitiated:
		return applyReturn(s, e)
	case SwapResult:
		return applySwapResult(s, e)
	case Refused:
		return applyRefused(s, e)
	case Confirmed:
		return applyConfirmed(s)
	case Cancelled:
		return Idle(), Outcome{ExitFlow: true}
	default:
		return s, Outcome{Ignored: ErrMalformedEvent}
	}
}

func applyAuth(s State, e AuthResult) (State, Outcome) {
	if !e.Success {
		return Idle(), Outcome{Alert: &Alert{
			Kind:    AlertAuth,
			Title:   "Authentication Failed",
			Message: orDefault(e.Message, "Unknown error"),
		}}
	}
	if strings.TrimSpace(e.SessionID) == "" {
		return Idle(), Outcome{Ignored: ErrMissingSessionID}
	}

	next := Session{}
	if prev, ok := s.Session(); ok && prev.ID == e.SessionID {
		next = prev
	}
	next.ID = e.SessionID
	next.RFIDCard = e.RFIDCard
	next.User = e.User
	if e.UserID != nil {
		next.UserID = e.UserID
	}
	next.Status = StatusAuthenticated
	return s.with(next), Outcome{}
}

func applyReturn(s State, e ReturnInitiated) (State, Outcome) {
	if e.Slot == "" && e.BatteryID == "" {
		return s, Outcome{Ignored: ErrMalformedEvent}
	}
	prev, ok := s.Session()
	if !ok {
		return s, Outcome{Ignored: ErrNoSession}
	}
	prev.ReturnedBatterySlot = e.Slot
	prev.ReturnedBatteryID = e.BatteryID
	prev.Status = StatusBatteryReturnInitiated
	return s.with(prev), Outcome{}
}

func applySwapResult(s State, e SwapResult) (State, Outcome) {
	prev, ok := s.Session()
	if !e.Success {
		out := Outcome{Alert: &Alert{
			Kind:    AlertSwapError,
			Title:   "Swap Failed",
			Message: orDefault(e.Message, "Unknown error"),
		}}
		if !ok {
			return s, out
		}
		prev.Status = StatusAuthenticated
		return s.with(prev), out
	}
	if !ok {
		return s, Outcome{Ignored: ErrNoSession}
	}
	prev.NewBatterySlot = e.Slot
	prev.NewBatteryID = e.BatteryID
	prev.NewBatterySOH = e.SOH
	prev.NewBatterySOC = e.SOC
	prev.NewBatteryTemp = e.Temperature
	prev.Status = StatusNewBatteryAssigned
	return s.with(prev), Outcome{}
}

func applyRefused(s State, e Refused) (State, Outcome) {
	out := Outcome{Alert: &Alert{
		Kind:    AlertBatteryRefused,
		Title:   "Battery Rejected",
		Message: orDefault(e.Reason, "Unknown reason"),
	}}
	prev, ok := s.Session()
	if !ok {
		return s, out
	}
	prev.Status = StatusAuthenticated
	return s.with(prev), out
}

func applyConfirmed(s State) (State, Outcome) {
	prev, ok := s.Session()
	if !ok || prev.Status != StatusNewBatteryAssigned {
		return s, Outcome{Ignored: ErrInvalidTransition}
	}
	prev.Status = StatusComplete
	return s.with(prev), Outcome{}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
