package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Engine.IO v4 packet types.
const (
	engineOpen    byte = '0'
	engineClose   byte = '1'
	enginePing    byte = '2'
	enginePong    byte = '3'
	engineMessage byte = '4'
	engineUpgrade byte = '5'
	engineNoop    byte = '6'
)

// Socket.IO v5 packet types, carried inside engine message packets.
const (
	socketConnect      byte = '0'
	socketDisconnect   byte = '1'
	socketEvent        byte = '2'
	socketAck          byte = '3'
	socketConnectError byte = '4'
)

const defaultNamespace = "/"

var (
	errEmptyPacket   = errors.New("realtime: empty packet")
	errNotAnEvent    = errors.New("realtime: packet is not an event")
	errMissingEvName = errors.New("realtime: event without name")
)

// Packet is a decoded Engine.IO frame, with the Socket.IO layer unpacked when present.
type Packet struct {
	Engine    byte
	Socket    byte
	Namespace string
	AckID     int
	HasAck    bool
	Data      json.RawMessage
}

// OpenInfo is the handshake payload of an Engine.IO open packet.
type OpenInfo struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// ParsePacket decodes one text websocket frame.
func ParsePacket(raw []byte) (Packet, error) {
	if len(raw) == 0 {
		return Packet{}, errEmptyPacket
	}

	p := Packet{Engine: raw[0], Namespace: defaultNamespace}
	switch p.Engine {
	case engineOpen, engineClose, enginePing, enginePong, engineUpgrade, engineNoop:
		if len(raw) > 1 {
			p.Data = json.RawMessage(raw[1:])
		}
		return p, nil
	case engineMessage:
	default:
		return Packet{}, fmt.Errorf("realtime: unknown engine packet type %q", p.Engine)
	}

	rest := raw[1:]
	if len(rest) == 0 {
		return Packet{}, errors.New("realtime: message packet without socket type")
	}
	p.Socket = rest[0]
	rest = rest[1:]

	if len(rest) > 0 && rest[0] == '/' {
		end := 0
		for end < len(rest) && rest[end] != ',' {
			end++
		}
		p.Namespace = string(rest[:end])
		if end < len(rest) {
			end++
		}
		rest = rest[end:]
	}

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		id, err := strconv.Atoi(string(rest[:digits]))
		if err != nil {
			return Packet{}, fmt.Errorf("realtime: ack id: %w", err)
		}
		p.AckID, p.HasAck = id, true
		rest = rest[digits:]
	}

	if len(rest) > 0 {
		p.Data = json.RawMessage(rest)
	}
	return p, nil
}

// Event unpacks the name and first argument of a Socket.IO event packet.
// Events without arguments yield a JSON null payload.
func (p Packet) Event() (string, json.RawMessage, error) {
	if p.Engine != engineMessage || p.Socket != socketEvent {
		return "", nil, errNotAnEvent
	}
	var args []json.RawMessage
	if err := json.Unmarshal(p.Data, &args); err != nil {
		return "", nil, fmt.Errorf("realtime: decode event args: %w", err)
	}
	if len(args) == 0 {
		return "", nil, errMissingEvName
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil || name == "" {
		return "", nil, errMissingEvName
	}
	if len(args) < 2 {
		return name, json.RawMessage("null"), nil
	}
	return name, args[1], nil
}

// Open decodes the handshake of an open packet.
func (p Packet) Open() (OpenInfo, error) {
	var info OpenInfo
	if p.Engine != engineOpen {
		return info, fmt.Errorf("realtime: expected open packet, got %q", p.Engine)
	}
	if err := json.Unmarshal(p.Data, &info); err != nil {
		return info, fmt.Errorf("realtime: decode open packet: %w", err)
	}
	return info, nil
}

func encodeSocket(socketType byte, namespace string, data []byte) []byte {
	out := []byte{engineMessage, socketType}
	if namespace != "" && namespace != defaultNamespace {
		out = append(out, namespace...)
		out = append(out, ',')
	}
	return append(out, data...)
}

// EncodeConnect builds the Socket.IO namespace connect packet.
func EncodeConnect(namespace string) []byte {
	return encodeSocket(socketConnect, namespace, nil)
}

// EncodeDisconnect builds the Socket.IO namespace disconnect packet.
func EncodeDisconnect(namespace string) []byte {
	return encodeSocket(socketDisconnect, namespace, nil)
}

// EncodeEvent builds a Socket.IO event packet carrying a single argument.
func EncodeEvent(namespace, name string, payload interface{}) ([]byte, error) {
	args := []interface{}{name}
	if payload != nil {
		args = append(args, payload)
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return encodeSocket(socketEvent, namespace, body), nil
}

// EncodePong answers an Engine.IO ping.
func EncodePong() []byte {
	return []byte{enginePong}
}
