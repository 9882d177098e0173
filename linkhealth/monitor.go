// Package linkhealth tracks a wearable's belief about whether its
// direct path to the hub is usable, from heartbeat/ack outcomes alone.
//
// Reachability is a pure function of counted misses evaluated at
// heartbeat send boundaries, not of wall-clock silence: an interval
// with no observed ack counts as one miss, and any ack at all clears
// the count (acks are not correlated to specific heartbeats).
package linkhealth

// Config carries the heartbeat cadence. Zero values take the deployed
// firmware defaults.
type Config struct {
	HeartbeatIntervalMs int64
	MaxMissed           int
}

func (c Config) withDefaults() Config {
	if c.HeartbeatIntervalMs <= 0 {
		c.HeartbeatIntervalMs = 5000
	}
	if c.MaxMissed <= 0 {
		c.MaxMissed = 3
	}
	return c
}

// Monitor owns the link-health state for one wearable. Not safe for
// concurrent use; it lives on the node's service loop.
type Monitor struct {
	cfg Config

	lastBeatMs int64
	beatSent   bool // at least one heartbeat sent
	ackSeen    bool // ack observed since the last send
	missed     int
	reachable  bool
}

func New(cfg Config) *Monitor {
	return &Monitor{cfg: cfg.withDefaults(), reachable: true}
}

// HeartbeatDue reports whether a heartbeat should be sent at nowMs.
// The first call is always due.
func (m *Monitor) HeartbeatDue(nowMs int64) bool {
	return !m.beatSent || nowMs-m.lastBeatMs >= m.cfg.HeartbeatIntervalMs
}

// MarkSent records a heartbeat send at nowMs and closes the previous
// interval: if no ack was observed since the last send, that interval
// counts as a miss. It returns true when the reachability belief
// changed on this boundary.
func (m *Monitor) MarkSent(nowMs int64) (changed bool) {
	if m.beatSent && !m.ackSeen {
		m.missed++
		if m.reachable && m.missed >= m.cfg.MaxMissed {
			m.reachable = false
			changed = true
		}
	}
	m.beatSent = true
	m.ackSeen = false
	m.lastBeatMs = nowMs
	return changed
}

// ObserveAck records any inbound ack addressed to this node. It resets
// the miss count and restores reachability. Returns true when the
// belief changed.
func (m *Monitor) ObserveAck() (changed bool) {
	changed = !m.reachable
	m.missed = 0
	m.ackSeen = true
	m.reachable = true
	return changed
}

func (m *Monitor) Reachable() bool { return m.reachable }
func (m *Monitor) Missed() int     { return m.missed }
