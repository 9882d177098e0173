package protocol

import (
	"strings"
	"testing"

	"github.com/alexpivovarov/microbit-project/errcode"
)

func TestEncodeWireForm(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{
			name: "fall alert",
			msg:  &Message{Sender: 1, Target: HubID, Payload: FallPayload{Lat: 53.8, Lon: -1.5, Accel: 2480}},
			want: "FALL|1|0|GPS:53.8,-1.5;ACC:2480|0",
		},
		{
			name: "battery report",
			msg:  &Message{Sender: 2, Target: HubID, Payload: BattPayload{Percent: 97}},
			want: "BATT|2|0|97|0",
		},
		{
			name: "heartbeat",
			msg:  &Message{Sender: 3, Target: HubID, Payload: HeartbeatPayload{UptimeMs: 120500}},
			want: "HBEAT|3|0|120500|0",
		},
		{
			name: "hub ack",
			msg:  NewAck(HubID, 1),
			want: "ACK|0|1|OK|0",
		},
		{
			name: "relayed fall",
			msg: &Message{Sender: 2, Target: HubID, Hops: 1, Payload: RelayPayload{
				Inner: &Message{Sender: 1, Target: HubID, Payload: FallPayload{Lat: 53.8, Lon: -1.5, Accel: 2480}},
			}},
			want: "RELAY|2|0|FALL^1^0^GPS:53.8,-1.5;ACC:2480^0|1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	msgs := []*Message{
		{Sender: 1, Target: HubID, Payload: FallPayload{Lat: 53.800123, Lon: -1.549987, Accel: 3120}},
		{Sender: 4, Target: HubID, Payload: BattPayload{Percent: 0}},
		{Sender: 4, Target: HubID, Payload: BattPayload{Percent: 100}},
		{Sender: 9, Target: HubID, Payload: HeartbeatPayload{UptimeMs: 1}},
		NewAck(HubID, 7),
		{Sender: 2, Target: HubID, Hops: 2, Payload: RelayPayload{
			Inner: &Message{Sender: 1, Target: HubID, Payload: BattPayload{Percent: 42}},
		}},
	}

	for _, m := range msgs {
		enc, err := Encode(m)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", m.Type(), err)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", enc, err)
		}
		if dec.Sender != m.Sender || dec.Target != m.Target || dec.Hops != m.Hops {
			t.Errorf("header mismatch: got %+v, want %+v", dec, m)
		}
		if dec.Type() != m.Type() {
			t.Errorf("type mismatch: got %v, want %v", dec.Type(), m.Type())
		}
		switch want := m.Payload.(type) {
		case RelayPayload:
			got, ok := dec.Payload.(RelayPayload)
			if !ok {
				t.Fatalf("payload variant = %T, want RelayPayload", dec.Payload)
			}
			if got.Inner.Sender != want.Inner.Sender || got.Inner.Payload != want.Inner.Payload {
				t.Errorf("inner mismatch: %+v vs %+v", got.Inner, want.Inner)
			}
		default:
			if dec.Payload != m.Payload {
				t.Errorf("payload mismatch: got %#v, want %#v", dec.Payload, m.Payload)
			}
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errcode.Code
	}{
		{"empty", "", errcode.InvalidMessage},
		{"four fields", "FALL|1|0|GPS:1,2;ACC:3", errcode.InvalidMessage},
		{"six fields", "FALL|1|0|x|0|extra", errcode.InvalidMessage},
		{"unknown type", "PING|1|0|x|0", errcode.UnknownType},
		{"lowercase type", "fall|1|0|GPS:1,2;ACC:3|0", errcode.UnknownType},
		{"non-numeric sender", "HBEAT|one|0|5|0", errcode.InvalidField},
		{"negative sender", "HBEAT|-1|0|5|0", errcode.InvalidField},
		{"non-numeric target", "HBEAT|1|hub|5|0", errcode.InvalidField},
		{"non-numeric hops", "HBEAT|1|0|5|x", errcode.InvalidField},
		{"battery not a number", "BATT|1|0|full|0", errcode.BadPayload},
		{"battery over 100", "BATT|1|0|101|0", errcode.BadPayload},
		{"fall missing acc", "FALL|1|0|GPS:1,2|0", errcode.BadPayload},
		{"fall garbled gps", "FALL|1|0|GPS:1;ACC:3|0", errcode.BadPayload},
		{"empty ack", "ACK|0|1||0", errcode.BadPayload},
		{"nested relay", "RELAY|2|0|RELAY^3^0^x^0|1", errcode.BadPayload},
		{"relay of junk", "RELAY|2|0|junk|1", errcode.InvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode([]byte(tt.in))
			if err == nil {
				t.Fatalf("Decode(%q) = %+v, want error", tt.in, m)
			}
			if m != nil {
				t.Errorf("Decode(%q) returned partial message %+v with error", tt.in, m)
			}
			if got := errcode.Of(err); got != tt.code {
				t.Errorf("Decode(%q) code = %v, want %v", tt.in, got, tt.code)
			}
		})
	}
}

func TestEncodeLengthCap(t *testing.T) {
	long := strings.Repeat("9", MaxEncodedLen)
	m := &Message{Sender: 1, Target: HubID, Payload: AckPayload{Code: long}}
	if _, err := Encode(m); !errcode.Is(err, errcode.MessageTooLong) {
		t.Fatalf("Encode long message: err = %v, want %v", err, errcode.MessageTooLong)
	}

	// At the boundary the frame must still encode.
	pad := MaxEncodedLen - len("ACK|1|0||0")
	m.Payload = AckPayload{Code: strings.Repeat("K", pad)}
	enc, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode at boundary: %v", err)
	}
	if len(enc) != MaxEncodedLen {
		t.Errorf("boundary frame length = %d, want %d", len(enc), MaxEncodedLen)
	}
}

func TestEncodeRejectsBadFields(t *testing.T) {
	if _, err := Encode(&Message{Sender: -1, Target: 0, Payload: BattPayload{Percent: 5}}); !errcode.Is(err, errcode.InvalidField) {
		t.Errorf("negative sender: err = %v, want invalid_field", err)
	}
	if _, err := Encode(&Message{Sender: 1, Target: 0, Payload: BattPayload{Percent: 120}}); !errcode.Is(err, errcode.BadPayload) {
		t.Errorf("percent 120: err = %v, want bad_payload", err)
	}
	if _, err := Encode(&Message{Sender: 1, Target: 0, Payload: RelayPayload{}}); !errcode.Is(err, errcode.BadPayload) {
		t.Errorf("nil inner: err = %v, want bad_payload", err)
	}
	nested := &Message{Sender: 1, Target: 0, Payload: RelayPayload{
		Inner: &Message{Sender: 2, Target: 0, Payload: RelayPayload{
			Inner: NewAck(0, 1),
		}},
	}}
	if _, err := Encode(nested); !errcode.Is(err, errcode.BadPayload) {
		t.Errorf("nested relay: err = %v, want bad_payload", err)
	}
}
