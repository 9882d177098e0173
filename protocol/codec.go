package protocol

import (
	"strings"

	"github.com/alexpivovarov/microbit-project/errcode"
	"github.com/alexpivovarov/microbit-project/x/strconvx"
)

// Wire separators. The payload may use ';' and ':' internally but must
// never contain the top-level '|'. An embedded relay message has its
// '|' separators rewritten to '^' so the outer frame stays five fields.
const (
	sepTop   = "|"
	sepPart  = ";"
	sepKV    = ":"
	sepInner = "^"
)

// Encode serializes m to its wire form. It fails with message_too_long
// when the result would exceed MaxEncodedLen, and with invalid_field /
// bad_payload for out-of-range fields; it never truncates.
func Encode(m *Message) ([]byte, error) {
	if m.Sender < 0 || m.Target < 0 || m.Hops < 0 {
		return nil, &errcode.E{C: errcode.InvalidField, Op: "protocol.Encode", Msg: "negative identifier"}
	}
	data, err := encodeData(m)
	if err != nil {
		return nil, err
	}
	s := m.Type().String() + sepTop +
		strconvx.Itoa(m.Sender) + sepTop +
		strconvx.Itoa(m.Target) + sepTop +
		data + sepTop +
		strconvx.Itoa(m.Hops)
	if len(s) > MaxEncodedLen {
		return nil, &errcode.E{C: errcode.MessageTooLong, Op: "protocol.Encode", Msg: s[:16] + "..."}
	}
	return []byte(s), nil
}

func encodeData(m *Message) (string, error) {
	switch p := m.Payload.(type) {
	case FallPayload:
		return "GPS" + sepKV + formatCoord(p.Lat) + "," + formatCoord(p.Lon) +
			sepPart + "ACC" + sepKV + strconvx.Itoa(p.Accel), nil
	case BattPayload:
		if p.Percent < 0 || p.Percent > 100 {
			return "", &errcode.E{C: errcode.BadPayload, Op: "protocol.Encode", Msg: "battery percent out of range"}
		}
		return strconvx.Itoa(p.Percent), nil
	case HeartbeatPayload:
		return strconvx.FormatInt(p.UptimeMs, 10), nil
	case AckPayload:
		code := p.Code
		if code == "" {
			code = AckOK
		}
		return code, nil
	case RelayPayload:
		if p.Inner == nil {
			return "", &errcode.E{C: errcode.BadPayload, Op: "protocol.Encode", Msg: "relay without inner message"}
		}
		if p.Inner.Type() == Relay {
			return "", &errcode.E{C: errcode.BadPayload, Op: "protocol.Encode", Msg: "nested relay"}
		}
		inner, err := Encode(p.Inner)
		if err != nil {
			return "", err
		}
		return strings.ReplaceAll(string(inner), sepTop, sepInner), nil
	default:
		return "", &errcode.E{C: errcode.BadPayload, Op: "protocol.Encode", Msg: "unknown payload variant"}
	}
}

// formatCoord renders a coordinate with up to 6 decimals, trimming
// trailing zeros so values round-trip as sent by the devices.
func formatCoord(v float64) string {
	s := strconvx.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Decode parses a wire frame. It succeeds only when exactly five
// fields are present, the type is enumerated, and sender/target/hops
// parse as non-negative integers; anything else yields an error and no
// partially-populated message. Callers drop the frame on error.
func Decode(data []byte) (*Message, error) {
	if len(data) > MaxEncodedLen {
		return nil, &errcode.E{C: errcode.MessageTooLong, Op: "protocol.Decode"}
	}
	parts := strings.Split(string(data), sepTop)
	if len(parts) != 5 {
		return nil, &errcode.E{C: errcode.InvalidMessage, Op: "protocol.Decode",
			Msg: strconvx.Itoa(len(parts)) + " fields"}
	}
	sender, err := parseID(parts[1])
	if err != nil {
		return nil, err
	}
	target, err := parseID(parts[2])
	if err != nil {
		return nil, err
	}
	hops, err := parseID(parts[4])
	if err != nil {
		return nil, err
	}
	payload, err := decodeData(parts[0], parts[3])
	if err != nil {
		return nil, err
	}
	return &Message{Sender: sender, Target: target, Hops: hops, Payload: payload}, nil
}

func parseID(s string) (int, error) {
	n, err := strconvx.Atoi(s)
	if err != nil || n < 0 {
		return 0, &errcode.E{C: errcode.InvalidField, Op: "protocol.Decode", Msg: s}
	}
	return n, nil
}

func decodeData(typ, data string) (Payload, error) {
	switch typ {
	case "FALL":
		return decodeFallData(data)
	case "BATT":
		pct, err := strconvx.Atoi(data)
		if err != nil || pct < 0 || pct > 100 {
			return nil, &errcode.E{C: errcode.BadPayload, Op: "protocol.Decode", Msg: "battery: " + data}
		}
		return BattPayload{Percent: pct}, nil
	case "HBEAT":
		ms, err := strconvx.ParseInt(data, 10, 64)
		if err != nil || ms < 0 {
			return nil, &errcode.E{C: errcode.BadPayload, Op: "protocol.Decode", Msg: "heartbeat: " + data}
		}
		return HeartbeatPayload{UptimeMs: ms}, nil
	case "ACK":
		if data == "" {
			return nil, &errcode.E{C: errcode.BadPayload, Op: "protocol.Decode", Msg: "empty ack code"}
		}
		return AckPayload{Code: data}, nil
	case "RELAY":
		inner, err := Decode([]byte(strings.ReplaceAll(data, sepInner, sepTop)))
		if err != nil {
			return nil, err
		}
		if inner.Type() == Relay {
			return nil, &errcode.E{C: errcode.BadPayload, Op: "protocol.Decode", Msg: "nested relay"}
		}
		return RelayPayload{Inner: inner}, nil
	default:
		return nil, &errcode.E{C: errcode.UnknownType, Op: "protocol.Decode", Msg: typ}
	}
}

func decodeFallData(data string) (Payload, error) {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.BadPayload, Op: "protocol.Decode", Msg: "fall: " + msg}
	}
	parts := strings.Split(data, sepPart)
	if len(parts) != 2 {
		return nil, bad(data)
	}
	gps, ok := strings.CutPrefix(parts[0], "GPS"+sepKV)
	if !ok {
		return nil, bad("missing GPS")
	}
	acc, ok := strings.CutPrefix(parts[1], "ACC"+sepKV)
	if !ok {
		return nil, bad("missing ACC")
	}
	latlon := strings.Split(gps, ",")
	if len(latlon) != 2 {
		return nil, bad("coordinates: " + gps)
	}
	lat, err := strconvx.ParseFloat(latlon[0], 64)
	if err != nil {
		return nil, bad("lat: " + latlon[0])
	}
	lon, err := strconvx.ParseFloat(latlon[1], 64)
	if err != nil {
		return nil, bad("lon: " + latlon[1])
	}
	accel, err := strconvx.Atoi(acc)
	if err != nil || accel < 0 {
		return nil, bad("acc: " + acc)
	}
	return FallPayload{Lat: lat, Lon: lon, Accel: accel}, nil
}
