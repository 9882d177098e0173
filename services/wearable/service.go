// Package wearable runs a worn sensor node: it samples the
// accelerometer, detects falls, reports battery, keeps a heartbeat
// with the hub, and forwards relay traffic for peers that have lost
// direct contact.
package wearable

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/alexpivovarov/microbit-project/bus"
	"github.com/alexpivovarov/microbit-project/falldetect"
	"github.com/alexpivovarov/microbit-project/linkhealth"
	"github.com/alexpivovarov/microbit-project/mesh"
	"github.com/alexpivovarov/microbit-project/protocol"
	"github.com/alexpivovarov/microbit-project/radio"
	"github.com/alexpivovarov/microbit-project/types"
	"github.com/alexpivovarov/microbit-project/x/mathx"
	"github.com/alexpivovarov/microbit-project/x/timex"
)

var (
	topicConfig  = bus.T("config", "wearable")
	topicFall    = bus.T("wearable", "fall")
	topicLink    = bus.T("wearable", "link")
	topicBattery = bus.T("wearable", "battery")
)

// Sampler reads one accelerometer sample in milli-g per axis.
type Sampler interface {
	Sample() (x, y, z int32)
}

// Config is the JSON-encoded configuration expected on "config/wearable".
type Config struct {
	DeviceID             int     `json:"device_id"`
	SampleMs             int64   `json:"sample_ms"`
	ImpactThresholdMg    int     `json:"impact_threshold_mg"`
	StillnessThresholdMg int     `json:"stillness_threshold_mg"`
	StillnessMs          int64   `json:"stillness_ms"`
	HeartbeatMs          int64   `json:"heartbeat_ms"`
	MaxMissed            int     `json:"max_missed"`
	BatteryReportMs      int64   `json:"battery_report_ms"`
	BaseLat              float64 `json:"base_lat"`
	BaseLon              float64 `json:"base_lon"`
}

const simulatedDrainPerReport = 0.01 // percent, no battery sensor on the board

type Service struct {
	conn    *bus.Connection
	driver  radio.Driver
	sampler Sampler
	rng     *rand.Rand

	cfg      Config
	detector *falldetect.Detector
	monitor  *linkhealth.Monitor
	engine   *mesh.Engine

	startMs       int64
	batteryLevel  float64
	lastBatteryMs int64
}

// Start launches the wearable loop. It waits for the retained
// config/wearable message before doing any work.
func Start(ctx context.Context, conn *bus.Connection, driver radio.Driver, sampler Sampler) {
	s := &Service{
		conn:         conn,
		driver:       driver,
		sampler:      sampler,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		batteryLevel: 100.0,
	}
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer cfgSub.Unsubscribe()

	select {
	case <-ctx.Done():
		return
	case msg := <-cfgSub.Channel():
		cfg, err := decodeConfig(msg.Payload)
		if err != nil {
			println("Error: wearable config:", err.Error())
			return
		}
		s.configure(cfg)
	}

	tick := time.NewTicker(time.Duration(s.cfg.SampleMs) * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: wearable service stopping")
			return
		case <-tick.C:
			s.step(timex.NowMs())
		case msg := <-cfgSub.Channel():
			if cfg, err := decodeConfig(msg.Payload); err == nil {
				s.configure(cfg)
				tick.Reset(time.Duration(s.cfg.SampleMs) * time.Millisecond)
			}
		}
	}
}

func (s *Service) configure(cfg Config) {
	if cfg.SampleMs <= 0 {
		cfg.SampleMs = 50
	}
	if cfg.BatteryReportMs <= 0 {
		cfg.BatteryReportMs = 30000
	}
	s.cfg = cfg
	s.detector = falldetect.New(falldetect.Config{
		ImpactThresholdMg:    cfg.ImpactThresholdMg,
		StillnessThresholdMg: cfg.StillnessThresholdMg,
		StillnessDurationMs:  cfg.StillnessMs,
	})
	s.monitor = linkhealth.New(linkhealth.Config{
		HeartbeatIntervalMs: cfg.HeartbeatMs,
		MaxMissed:           cfg.MaxMissed,
	})
	s.engine = mesh.New(mesh.Config{SelfID: cfg.DeviceID, HubID: protocol.HubID})
	s.startMs = timex.NowMs()
	s.lastBatteryMs = s.startMs
	println("Info: wearable", cfg.DeviceID, "configured")
}

// step is one sampling iteration: sense, receive, heartbeat, battery.
func (s *Service) step(nowMs int64) {
	x, y, z := s.sampler.Sample()
	mag := mathx.Mag3(x, y, z)
	if ev, ok := s.detector.Advance(nowMs, mag); ok {
		s.sendFall(nowMs, ev)
		s.detector.Reset()
	}

	if frame, ok := s.driver.Receive(); ok {
		s.handleFrame(nowMs, frame)
	}

	if s.monitor.HeartbeatDue(nowMs) {
		s.sendHeartbeat(nowMs)
	}

	if nowMs-s.lastBatteryMs >= s.cfg.BatteryReportMs {
		s.lastBatteryMs = nowMs
		s.sendBattery(nowMs)
	}
}

func (s *Service) sendFall(nowMs int64, ev falldetect.Event) {
	lat := s.cfg.BaseLat + s.rng.Float64()*0.002 - 0.001
	lon := s.cfg.BaseLon + s.rng.Float64()*0.002 - 0.001
	msg := &protocol.Message{
		Payload: protocol.FallPayload{Lat: lat, Lon: lon, Accel: ev.PeakMag},
	}
	s.transmit(s.engine.PlanOutbound(msg, s.monitor.Reachable()))
	s.conn.Publish(s.conn.NewMessage(topicFall, types.FallAlert{
		DeviceID: s.cfg.DeviceID,
		Accel:    ev.PeakMag,
		Lat:      lat,
		Lon:      lon,
		TS:       nowMs,
	}, false))
	println("Info: wearable", s.cfg.DeviceID, "fall detected, peak", ev.PeakMag, "mg")
}

func (s *Service) sendHeartbeat(nowMs int64) {
	msg := &protocol.Message{
		Payload: protocol.HeartbeatPayload{UptimeMs: nowMs - s.startMs},
	}
	s.transmit(s.engine.PlanOutbound(msg, s.monitor.Reachable()))
	if s.monitor.MarkSent(nowMs) {
		s.publishLink(nowMs)
	}
}

func (s *Service) sendBattery(nowMs int64) {
	s.batteryLevel = mathx.Clamp(s.batteryLevel-simulatedDrainPerReport, 0, 100)
	pct := int(s.batteryLevel)
	msg := &protocol.Message{Payload: protocol.BattPayload{Percent: pct}}
	s.transmit(s.engine.PlanOutbound(msg, s.monitor.Reachable()))
	s.conn.Publish(s.conn.NewMessage(topicBattery, types.BatteryState{
		Percent: pct,
		TS:      nowMs,
	}, true))
}

// handleFrame processes one received frame: acks feed link health,
// relay requests from peers are forwarded toward the hub. Everything
// else on the shared channel is for someone else.
func (s *Service) handleFrame(nowMs int64, frame []byte) {
	m, err := protocol.Decode(frame)
	if err != nil {
		return
	}
	switch m.Payload.(type) {
	case protocol.AckPayload:
		if s.engine.AddressedToSelf(m) && s.monitor.ObserveAck() {
			s.publishLink(nowMs)
		}
	case protocol.RelayPayload:
		fwd, err := s.engine.PlanForward(m)
		if err != nil || fwd == nil {
			return
		}
		s.transmit(fwd)
	}
}

func (s *Service) transmit(m *protocol.Message) {
	if m == nil {
		return
	}
	frame, err := protocol.Encode(m)
	if err != nil {
		println("Error: wearable encode:", err.Error())
		return
	}
	if err := s.driver.Send(frame); err != nil {
		println("Error: wearable send:", err.Error())
	}
}

func (s *Service) publishLink(nowMs int64) {
	s.conn.Publish(s.conn.NewMessage(topicLink, types.LinkState{
		Reachable: s.monitor.Reachable(),
		Missed:    s.monitor.Missed(),
		TS:        nowMs,
	}, true))
	println("Info: wearable", s.cfg.DeviceID, "hub reachable:", s.monitor.Reachable())
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
		return cfg, fmt.Errorf("unsupported config payload type: %T", p)
	}
	return cfg, nil
}
