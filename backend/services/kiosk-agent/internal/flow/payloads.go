package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"batteryswap/backend/services/kiosk-agent/internal/swap"
)

// Server-pushed event names.
const (
	EventAuthResponse  = "auth_response"
	EventSwapInitiated = "swap_initiated"
	EventSwapResult    = "swap_result"
	EventSwapRefused   = "swap_refused"
)

const statusSuccess = "success"

// flexString accepts a JSON string or number; station firmware sends ids both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flow: expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type authResponsePayload struct {
	Status       string         `json:"status"`
	Message      string         `json:"message"`
	SessionID    flexString     `json:"sessionId"`
	SessionIDAlt flexString     `json:"session_id"`
	User         *swap.User     `json:"user"`
	RFIDCard     *swap.RFIDCard `json:"rfidCard"`
	UserID       flexString     `json:"user_id"`
}

type swapInitiatedPayload struct {
	SlotReturned    flexString `json:"slot_id_returned"`
	BatteryReturned flexString `json:"battery_id_returned"`
	// BatteryLegacy is the field name the relay emitted before battery_id_returned.
	BatteryLegacy flexString `json:"battery_id"`
}

type swapResultPayload struct {
	Status      string     `json:"status"`
	Message     string     `json:"message"`
	SlotNew     flexString `json:"slot_id_new"`
	BatteryNew  flexString `json:"battery_id_new"`
	SOH         *float64   `json:"soh"`
	SOC         *float64   `json:"soc"`
	Temperature *float64   `json:"temperature"`
}

type swapRefusedPayload struct {
	Reason string `json:"reason"`
}

func decode[T any](payload json.RawMessage) (T, error) {
	var target T
	if len(payload) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return target, fmt.Errorf("%w: empty payload", swap.ErrMalformedEvent)
	}
	if err := json.Unmarshal(payload, &target); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", swap.ErrMalformedEvent, err)
	}
	return target, nil
}

func decodeAuth(payload json.RawMessage) (swap.Event, error) {
	p, err := decode[authResponsePayload](payload)
	if err != nil {
		return nil, err
	}
	ev := swap.AuthResult{
		Success:   p.Status == statusSuccess,
		Message:   p.Message,
		SessionID: string(p.SessionID),
		User:      p.User,
		RFIDCard:  p.RFIDCard,
	}
	if ev.SessionID == "" {
		ev.SessionID = string(p.SessionIDAlt)
	}
	if p.UserID != "" {
		if id, err := strconv.ParseInt(string(p.UserID), 10, 64); err == nil {
			ev.UserID = &id
		}
	}
	return ev, nil
}

func decodeSwapInitiated(payload json.RawMessage) (swap.Event, error) {
	p, err := decode[swapInitiatedPayload](payload)
	if err != nil {
		return nil, err
	}
	battery := p.BatteryReturned
	if battery == "" {
		battery = p.BatteryLegacy
	}
	return swap.ReturnInitiated{Slot: string(p.SlotReturned), BatteryID: string(battery)}, nil
}

func decodeSwapResult(payload json.RawMessage) (swap.Event, error) {
	p, err := decode[swapResultPayload](payload)
	if err != nil {
		return nil, err
	}
	return swap.SwapResult{
		Success:     p.Status == statusSuccess,
		Message:     p.Message,
		Slot:        string(p.SlotNew),
		BatteryID:   string(p.BatteryNew),
		SOH:         p.SOH,
		SOC:         p.SOC,
		Temperature: p.Temperature,
	}, nil
}

func decodeSwapRefused(payload json.RawMessage) (swap.Event, error) {
	p, err := decode[swapRefusedPayload](payload)
	if err != nil {
		return nil, err
	}
	return swap.Refused{Reason: p.Reason}, nil
}
