// Package registry maintains the hub's view of every wearable ever
// heard from: last-seen times, derived liveness, and pending alerts.
//
// The registry is an owned container passed around explicitly; there
// is no ambient global state. Records are created lazily on first
// contact and never destroyed.
package registry

// Status is derived from elapsed time since last contact; it has no
// storage of its own beyond transition detection.
type Status uint8

const (
	Online Status = iota
	Offline
)

func (s Status) String() string {
	if s == Offline {
		return "offline"
	}
	return "online"
}

// Config carries the liveness horizon. Zero takes the deployed
// firmware default.
type Config struct {
	DeviceTimeoutMs int64
}

func (c Config) withDefaults() Config {
	if c.DeviceTimeoutMs <= 0 {
		c.DeviceTimeoutMs = 20000
	}
	return c
}

// DeviceRecord is one wearable as the hub knows it.
type DeviceRecord struct {
	ID           int
	LastSeenMs   int64
	PendingAlert bool

	lastStatus Status
}

// StatusChange reports an Online/Offline transition observed by Poll.
type StatusChange struct {
	ID     int
	Status Status
}

// Registry owns the device records. Not safe for concurrent use; it
// lives on the hub's service loop.
type Registry struct {
	cfg  Config
	recs map[int]*DeviceRecord
	ids  []int // creation order, for stable iteration
}

func New(cfg Config) *Registry {
	return &Registry{
		cfg:  cfg.withDefaults(),
		recs: map[int]*DeviceRecord{},
	}
}

// Record notes contact from a device at nowMs, creating the record on
// first sight. Any message type counts as contact. Returns true when
// the device is new.
func (r *Registry) Record(id int, nowMs int64) (joined bool) {
	rec, ok := r.recs[id]
	if !ok {
		rec = &DeviceRecord{ID: id, lastStatus: Online}
		r.recs[id] = rec
		r.ids = append(r.ids, id)
		joined = true
	}
	rec.LastSeenMs = nowMs
	return joined
}

// HandleFall records contact and marks an unacknowledged alert for the
// device.
func (r *Registry) HandleFall(id int, nowMs int64) (joined bool) {
	joined = r.Record(id, nowMs)
	r.recs[id].PendingAlert = true
	return joined
}

// Acknowledge clears the pending alert for a device (operator action).
// Returns false for unknown devices or when nothing was pending.
func (r *Registry) Acknowledge(id int) bool {
	rec, ok := r.recs[id]
	if !ok || !rec.PendingAlert {
		return false
	}
	rec.PendingAlert = false
	return true
}

// Poll recomputes every record's status from elapsed time and returns
// the transitions since the previous poll, in creation order. Status
// is purely a function of now - lastSeen vs the timeout.
func (r *Registry) Poll(nowMs int64) []StatusChange {
	var changes []StatusChange
	for _, id := range r.ids {
		rec := r.recs[id]
		s := r.statusAt(rec, nowMs)
		if s != rec.lastStatus {
			rec.lastStatus = s
			changes = append(changes, StatusChange{ID: id, Status: s})
		}
	}
	return changes
}

// Status derives the liveness of one device at nowMs.
func (r *Registry) Status(id int, nowMs int64) (Status, bool) {
	rec, ok := r.recs[id]
	if !ok {
		return Offline, false
	}
	return r.statusAt(rec, nowMs), true
}

func (r *Registry) statusAt(rec *DeviceRecord, nowMs int64) Status {
	if nowMs-rec.LastSeenMs > r.cfg.DeviceTimeoutMs {
		return Offline
	}
	return Online
}

// Get returns a copy of a device record.
func (r *Registry) Get(id int) (DeviceRecord, bool) {
	rec, ok := r.recs[id]
	if !ok {
		return DeviceRecord{}, false
	}
	return *rec, true
}

// Len is the number of devices ever seen.
func (r *Registry) Len() int { return len(r.recs) }

// Devices lists device ids in creation order.
func (r *Registry) Devices() []int {
	out := make([]int, len(r.ids))
	copy(out, r.ids)
	return out
}

// PendingAlerts counts devices with an unacknowledged fall.
func (r *Registry) PendingAlerts() int {
	n := 0
	for _, rec := range r.recs {
		if rec.PendingAlert {
			n++
		}
	}
	return n
}
