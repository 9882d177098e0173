// Package display renders hub state on a small character screen. It
// shows the oldest unacknowledged alert until the operator clears it,
// and a summary view otherwise.
package display

import (
	"context"

	"github.com/alexpivovarov/microbit-project/bus"
	"github.com/alexpivovarov/microbit-project/types"
	"github.com/alexpivovarov/microbit-project/x/fmtx"
)

// Screen is the output device. Show replaces the whole screen
// contents with the given lines.
type Screen interface {
	Show(lines []string) error
}

type Service struct {
	conn   *bus.Connection
	screen Screen

	alerts []types.FallAlert
	stats  types.HubStats
	last   []string
}

// Start launches the display loop.
func Start(ctx context.Context, conn *bus.Connection, screen Screen) {
	s := &Service{conn: conn, screen: screen}
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	alertSub := s.conn.Subscribe(bus.T("hub", "alert"))
	defer alertSub.Unsubscribe()
	ackedSub := s.conn.Subscribe(bus.T("hub", "alert", "acked"))
	defer ackedSub.Unsubscribe()
	statsSub := s.conn.Subscribe(bus.T("hub", "stats"))
	defer statsSub.Unsubscribe()

	s.render()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-alertSub.Channel():
			if a, ok := msg.Payload.(types.FallAlert); ok {
				s.alerts = append(s.alerts, a)
			}
		case msg := <-ackedSub.Channel():
			if a, ok := msg.Payload.(types.AlertAcked); ok {
				s.dropAlert(a.DeviceID)
			}
		case msg := <-statsSub.Channel():
			if st, ok := msg.Payload.(types.HubStats); ok {
				s.stats = st
			}
		}
		s.render()
	}
}

func (s *Service) dropAlert(deviceID int) {
	for i, a := range s.alerts {
		if a.DeviceID == deviceID {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return
		}
	}
}

// render pushes the current view, skipping the write when nothing
// changed since the last one.
func (s *Service) render() {
	var lines []string
	if len(s.alerts) > 0 {
		a := s.alerts[0]
		lines = []string{
			fmtx.Sprintf("ALERT dev %d", a.DeviceID),
			fmtx.Sprintf("Impact: %d mg", a.Accel),
			"Press B to ACK",
		}
	} else {
		lines = []string{
			"Hub online",
			fmtx.Sprintf("Devices: %d", s.stats.Devices),
			fmtx.Sprintf("Alerts: %d", s.stats.PendingAlerts),
		}
	}
	if equal(lines, s.last) {
		return
	}
	if err := s.screen.Show(lines); err != nil {
		println("Error: display:", err.Error())
		return
	}
	s.last = lines
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
