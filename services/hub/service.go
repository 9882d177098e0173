// Package hub runs the central receiver: it collects fall alerts,
// heartbeats, and battery reports from the wearables, acknowledges
// them over the radio, tracks device liveness, and feeds the display
// and the serial link to the desktop client.
package hub

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/alexpivovarov/microbit-project/bus"
	"github.com/alexpivovarov/microbit-project/protocol"
	"github.com/alexpivovarov/microbit-project/radio"
	"github.com/alexpivovarov/microbit-project/registry"
	"github.com/alexpivovarov/microbit-project/types"
	"github.com/alexpivovarov/microbit-project/x/fmtx"
	"github.com/alexpivovarov/microbit-project/x/timex"
)

var (
	topicConfig       = bus.T("config", "hub")
	topicAlert        = bus.T("hub", "alert")
	topicAlertAcked   = bus.T("hub", "alert", "acked")
	topicAck          = bus.T("hub", "ack")
	topicDeviceJoined = bus.T("hub", "device", "joined")
	topicDeviceStatus = bus.T("hub", "device", "status")
	topicStats        = bus.T("hub", "stats")
	topicConsole      = bus.T("hub", "console")
)

const rxPollMs = 5

// Config is the JSON-encoded configuration expected on "config/hub".
type Config struct {
	DeviceTimeoutMs int64 `json:"device_timeout_ms"`
	PollMs          int64 `json:"poll_ms"`
}

type Service struct {
	conn   *bus.Connection
	driver radio.Driver
	serial io.Writer

	cfg    Config
	reg    *registry.Registry
	alerts []types.FallAlert // oldest first
}

// Start launches the hub loop. It waits for the retained config/hub
// message before doing any work.
func Start(ctx context.Context, conn *bus.Connection, driver radio.Driver, serial io.Writer) {
	s := &Service{conn: conn, driver: driver, serial: serial}
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer cfgSub.Unsubscribe()
	ackSub := s.conn.Subscribe(topicAck)
	defer ackSub.Unsubscribe()
	consoleSub := s.conn.Subscribe(topicConsole)
	defer consoleSub.Unsubscribe()

	select {
	case <-ctx.Done():
		return
	case msg := <-cfgSub.Channel():
		cfg, err := decodeConfig(msg.Payload)
		if err != nil {
			println("Error: hub config:", err.Error())
			return
		}
		s.configure(cfg)
	}

	fmtx.Fprintf(s.serial, "Central Hub started\n")
	s.publishStats(timex.NowMs())

	rxTick := time.NewTicker(rxPollMs * time.Millisecond)
	defer rxTick.Stop()
	pollTick := time.NewTicker(time.Duration(s.cfg.PollMs) * time.Millisecond)
	defer pollTick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: hub service stopping")
			return
		case <-rxTick.C:
			if frame, ok := s.driver.Receive(); ok {
				s.handleFrame(timex.NowMs(), frame)
			}
		case <-pollTick.C:
			s.pollStatus(timex.NowMs())
		case msg := <-ackSub.Channel():
			if req, ok := decodeAck(msg.Payload); ok {
				s.acknowledge(timex.NowMs(), req.DeviceID)
			}
		case msg := <-consoleSub.Channel():
			if cmd, ok := msg.Payload.(string); ok {
				s.handleCommand(cmd)
			}
		}
	}
}

func (s *Service) configure(cfg Config) {
	if cfg.PollMs <= 0 {
		cfg.PollMs = 1000
	}
	s.cfg = cfg
	s.reg = registry.New(registry.Config{DeviceTimeoutMs: cfg.DeviceTimeoutMs})
}

// handleFrame routes one radio frame. Relayed messages are unwrapped
// and the ack goes straight to the originating sender.
func (s *Service) handleFrame(nowMs int64, frame []byte) {
	m, err := protocol.Decode(frame)
	if err != nil {
		println("Warn: hub dropped frame:", err.Error())
		return
	}
	if m.Target != protocol.HubID {
		return
	}
	if rp, ok := m.Payload.(protocol.RelayPayload); ok {
		m = rp.Inner
		if m.Target != protocol.HubID {
			return
		}
	}

	s.recordContact(nowMs, m.Sender)

	switch p := m.Payload.(type) {
	case protocol.FallPayload:
		s.handleFall(nowMs, m.Sender, p)
		s.sendAck(m.Sender)
	case protocol.HeartbeatPayload:
		s.sendAck(m.Sender)
	case protocol.BattPayload:
		fmtx.Fprintf(s.serial, "BATT,%d,%d\n", m.Sender, p.Percent)
		s.sendAck(m.Sender)
	}
}

func (s *Service) recordContact(nowMs int64, sender int) {
	if !s.reg.Record(sender, nowMs) {
		return
	}
	fmtx.Fprintf(s.serial, "Device %d joined\n", sender)
	s.conn.Publish(s.conn.NewMessage(topicDeviceJoined, types.DeviceJoined{
		DeviceID: sender,
		TS:       nowMs,
	}, false))
	s.publishStats(nowMs)
}

func (s *Service) handleFall(nowMs int64, sender int, p protocol.FallPayload) {
	s.reg.HandleFall(sender, nowMs)
	alert := types.FallAlert{
		DeviceID: sender,
		Accel:    p.Accel,
		Lat:      p.Lat,
		Lon:      p.Lon,
		TS:       nowMs,
	}
	s.alerts = append(s.alerts, alert)

	// Line format consumed by the desktop client.
	fmtx.Fprintf(s.serial, "FALL,%d,%d\n", sender, p.Accel)

	s.conn.Publish(s.conn.NewMessage(topicAlert, alert, false))
	s.publishStats(nowMs)
}

// acknowledge clears a pending alert at the operator's request.
// Device 0 means the oldest alert in the queue.
func (s *Service) acknowledge(nowMs int64, deviceID int) {
	idx := -1
	if deviceID == 0 {
		if len(s.alerts) > 0 {
			idx = 0
			deviceID = s.alerts[0].DeviceID
		}
	} else {
		for i, a := range s.alerts {
			if a.DeviceID == deviceID {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		fmtx.Fprintf(s.serial, "No pending alert\n")
		return
	}
	s.alerts = append(s.alerts[:idx], s.alerts[idx+1:]...)
	if anyPending := hasAlert(s.alerts, deviceID); !anyPending {
		s.reg.Acknowledge(deviceID)
	}

	fmtx.Fprintf(s.serial, "Alert acknowledged for device %d\n", deviceID)
	s.conn.Publish(s.conn.NewMessage(topicAlertAcked, types.AlertAcked{
		DeviceID: deviceID,
		TS:       nowMs,
	}, false))
	s.publishStats(nowMs)
}

func hasAlert(alerts []types.FallAlert, deviceID int) bool {
	for _, a := range alerts {
		if a.DeviceID == deviceID {
			return true
		}
	}
	return false
}

func (s *Service) pollStatus(nowMs int64) {
	for _, ch := range s.reg.Poll(nowMs) {
		fmtx.Fprintf(s.serial, "Device %d %s\n", ch.ID, ch.Status.String())
		s.conn.Publish(s.conn.NewMessage(topicDeviceStatus, types.DeviceStatus{
			DeviceID: ch.ID,
			Status:   ch.Status.String(),
			TS:       nowMs,
		}, false))
	}
	s.publishStats(nowMs)
}

func (s *Service) publishStats(nowMs int64) {
	s.conn.Publish(s.conn.NewMessage(topicStats, types.HubStats{
		Devices:       s.reg.Len(),
		PendingAlerts: len(s.alerts),
		TS:            nowMs,
	}, true))
}

func (s *Service) sendAck(deviceID int) {
	frame, err := protocol.Encode(protocol.NewAck(protocol.HubID, deviceID))
	if err != nil {
		return
	}
	if err := s.driver.Send(frame); err != nil {
		println("Error: hub ack send:", err.Error())
	}
}

// handleCommand serves the operator console's read-only commands from
// the loop goroutine, which owns all hub state.
func (s *Service) handleCommand(cmd string) {
	switch cmd {
	case "status":
		fmtx.Fprintf(s.serial, "--- Status ---\n")
		fmtx.Fprintf(s.serial, "Devices: %d\n", s.reg.Len())
		fmtx.Fprintf(s.serial, "Active alerts: %d\n", len(s.alerts))
		fmtx.Fprintf(s.serial, "--------------\n")
	case "devices":
		now := timex.NowMs()
		for _, id := range s.reg.Devices() {
			st, _ := s.reg.Status(id, now)
			fmtx.Fprintf(s.serial, "Device %d: %s\n", id, st.String())
		}
	}
}

func decodeConfig(p any) (Config, error) {
	var cfg Config
	switch v := p.(type) {
	case []byte:
		if err := json.Unmarshal(v, &cfg); err != nil {
			return cfg, err
		}
	case string:
		if err := json.Unmarshal([]byte(v), &cfg); err != nil {
			return cfg, err
		}
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return cfg, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmtx.Errorf("unsupported config payload type: %T", p)
	}
	return cfg, nil
}

func decodeAck(p any) (types.AckRequest, bool) {
	switch v := p.(type) {
	case types.AckRequest:
		return v, true
	case map[string]any:
		var req types.AckRequest
		b, err := json.Marshal(v)
		if err != nil {
			return req, false
		}
		if err := json.Unmarshal(b, &req); err != nil {
			return req, false
		}
		return req, true
	}
	return types.AckRequest{}, false
}
