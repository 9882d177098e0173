// Package protocol defines the radio message model and its wire codec.
//
// Every frame on the air is the pipe-delimited text form
// TYPE|SENDER|TARGET|DATA|HOP_COUNT, a format fixed by the devices
// already deployed; both sides must match it byte for byte.
package protocol

// HubID is the reserved identity of the central hub.
const HubID = 0

// MaxEncodedLen is the radio payload limit. Encoding a message that
// would exceed it is a caller error, never a truncation.
const MaxEncodedLen = 251

// DefaultMaxHops bounds relay forwarding (see mesh).
const DefaultMaxHops = 3

// AckOK is the fixed acknowledgment code carried by ACK messages.
const AckOK = "OK"

// MsgType enumerates the closed set of wire message kinds. Unknown
// values on the wire are a decode error, not a new variant.
type MsgType uint8

const (
	Fall MsgType = iota
	Batt
	Heartbeat
	Ack
	Relay
)

func (t MsgType) String() string {
	switch t {
	case Fall:
		return "FALL"
	case Batt:
		return "BATT"
	case Heartbeat:
		return "HBEAT"
	case Ack:
		return "ACK"
	case Relay:
		return "RELAY"
	default:
		return "?"
	}
}

// Message is the unit of communication. Sender and Target are device
// identities (0 = hub); Hops counts relay forwards.
type Message struct {
	Sender  int
	Target  int
	Hops    int
	Payload Payload
}

// Type derives the wire type from the payload variant.
func (m *Message) Type() MsgType { return m.Payload.msgType() }

// Payload is the closed sum over the five message kinds.
type Payload interface {
	msgType() MsgType
}

// FallPayload carries simulated coordinates plus the peak acceleration
// magnitude (milli-g) of the confirmed fall episode.
type FallPayload struct {
	Lat   float64
	Lon   float64
	Accel int
}

// BattPayload carries a battery percentage 0-100.
type BattPayload struct {
	Percent int
}

// HeartbeatPayload carries the sender's monotonic uptime in ms.
type HeartbeatPayload struct {
	UptimeMs int64
}

// AckPayload carries the fixed acknowledgment code.
type AckPayload struct {
	Code string
}

// RelayPayload embeds an original message being forwarded on behalf of
// a node that cannot reach the hub directly. The inner message may not
// itself be a relay.
type RelayPayload struct {
	Inner *Message
}

func (FallPayload) msgType() MsgType      { return Fall }
func (BattPayload) msgType() MsgType      { return Batt }
func (HeartbeatPayload) msgType() MsgType { return Heartbeat }
func (AckPayload) msgType() MsgType       { return Ack }
func (RelayPayload) msgType() MsgType     { return Relay }

// NewAck builds the hub's acknowledgment addressed to a device.
func NewAck(sender, target int) *Message {
	return &Message{Sender: sender, Target: target, Payload: AckPayload{Code: AckOK}}
}
